package xlrw

import (
	"fmt"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

// writable resolves the target of a write. Legacy workbooks and cursors
// without a selected cell fail.
func (c *Cursor) writable(op string) error {
	if c.wb.closed {
		return ErrClosed
	}
	if !c.wb.backend.CanWrite() {
		return unsupported(op, c.wb.backend)
	}
	if c.row < 0 || c.col < 0 {
		return fmt.Errorf("%s: no cell selected", op)
	}
	return nil
}

// put stores a value in the selected cell, dropping any formula. A nil value
// blanks the cell. The cell style is kept.
func (c *Cursor) put(op string, value any) error {
	if err := c.writable(op); err != nil {
		return err
	}
	switch c.wb.backend {
	case Standard:
		c.wb.touch(c.sheet)
		if value == nil {
			return c.wb.file.SetCellDefault(c.sheet, c.ref(), "")
		}
		if _, ok := value.(time.Time); ok {
			// dates are the one value kind that leaves a formula in place
			if err := c.wb.file.SetCellDefault(c.sheet, c.ref(), ""); err != nil {
				return err
			}
		}
		return c.wb.file.SetCellValue(c.sheet, c.ref(), value)
	case Streaming:
		sc, err := c.wb.stream(c.sheet).cellOfNew(c.row, c.col)
		if err != nil {
			return err
		}
		sc.value, sc.formula = value, ""
		return nil
	}
	return unsupported(op, c.wb.backend)
}

// WriteText writes text. Empty text blanks the cell and keeps its style.
func (c *Cursor) WriteText(s string) error {
	if s == "" {
		return c.SetBlank()
	}
	return c.put("write text", s)
}

// SetBlank clears the value and formula of the selected cell, keeping its style.
func (c *Cursor) SetBlank() error {
	return c.put("set blank", nil)
}

// WriteNumber writes a number.
func (c *Cursor) WriteNumber(v float64) error {
	return c.put("write number", v)
}

// WriteBool writes a boolean.
func (c *Cursor) WriteBool(v bool) error {
	return c.put("write bool", v)
}

// WriteDate writes a date. Cells without a date format get one.
func (c *Cursor) WriteDate(t time.Time) error {
	if err := c.put("write date", t); err != nil {
		return err
	}
	if c.wb.numFmtOf(c.currentStyle()).isDate() {
		return nil
	}
	return c.overlayStyle(&excelize.Style{NumFmt: 14})
}

// WritePercent writes a fraction shown as a percentage (0.25 → 25%). Cells
// without a percent format get "0.00%".
func (c *Cursor) WritePercent(v float64) error {
	if err := c.put("write percent", v); err != nil {
		return err
	}
	if c.wb.numFmtOf(c.currentStyle()).isPercent() {
		return nil
	}
	return c.overlayStyle(&excelize.Style{NumFmt: 10})
}

// WriteFormula writes a formula. The row placeholder {0} is replaced by the
// cell's row number. Without a placeholder and with formula rebuild enabled,
// every relative row number is rewritten to the cell's row, which is only
// correct for single-row formulas (see RebuildFormula).
func (c *Cursor) WriteFormula(formula string) error {
	if err := c.writable("write formula"); err != nil {
		return err
	}
	formula = normalizeFormula(formula)
	switch {
	case strings.Contains(formula, RowPlaceholder):
		formula = ExpandFormula(formula, c.row+1)
	case c.wb.opts.formulaRebuild:
		formula = RebuildFormula(formula, c.row+1)
	}
	return c.setFormula(formula)
}

// setFormula stores formula text verbatim, discarding the cached value.
func (c *Cursor) setFormula(formula string) error {
	if err := c.writable("write formula"); err != nil {
		return err
	}
	switch c.wb.backend {
	case Standard:
		c.wb.touch(c.sheet)
		if err := c.wb.file.SetCellDefault(c.sheet, c.ref(), ""); err != nil {
			return err
		}
		return c.wb.file.SetCellFormula(c.sheet, c.ref(), formula)
	case Streaming:
		sc, err := c.wb.stream(c.sheet).cellOfNew(c.row, c.col)
		if err != nil {
			return err
		}
		sc.value, sc.formula = nil, formula
		return nil
	}
	return unsupported("write formula", c.wb.backend)
}

// WriteCell writes a value-model cell: the formula when set, otherwise the
// value by its type. A positive SIndex is cloned from the style source and
// applied; otherwise the cell keeps its style.
func (c *Cursor) WriteCell(cell Cell) error {
	var err error
	switch {
	case cell.Formula != "":
		err = c.WriteFormula(cell.Formula)
	case cell.Value == nil:
		err = c.SetBlank()
	default:
		err = c.writeTyped(cell.Type, cell.Value)
	}
	if err != nil {
		return err
	}
	if cell.SIndex <= 0 {
		return nil
	}
	return c.WriteStyle(cell.SIndex)
}

func (c *Cursor) writeTyped(t DataType, v any) error {
	switch v := v.(type) {
	case string:
		return c.WriteText(v)
	case time.Time:
		return c.WriteDate(v)
	case bool:
		return c.WriteBool(v)
	}
	n, ok := toFloat(v)
	if !ok {
		return c.WriteText(fmt.Sprint(v))
	}
	switch t {
	case Percent:
		return c.WritePercent(n)
	case Date:
		t, err := excelize.ExcelDateToTime(n, c.wb.date1904)
		if err != nil {
			return c.WriteNumber(n)
		}
		return c.WriteDate(t)
	}
	return c.WriteNumber(n)
}

func toFloat(v any) (float64, bool) {
	switch v := v.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint:
		return float64(v), true
	case uint32:
		return float64(v), true
	case uint64:
		return float64(v), true
	}
	return 0, false
}

// WriteStyle applies a style from the style source, cloned into this
// workbook on first use. Without a style source it does nothing.
func (c *Cursor) WriteStyle(sindex int) error {
	id, err := c.wb.styles.Clone(sindex)
	if err != nil {
		return err
	}
	if id == NoStyle {
		return nil
	}
	return c.SetStyle(id)
}

// SetStyle applies a native style ID of this workbook to the selected cell.
func (c *Cursor) SetStyle(styleID int) error {
	if err := c.writable("set style"); err != nil {
		return err
	}
	switch c.wb.backend {
	case Standard:
		ref := c.ref()
		return c.wb.file.SetCellStyle(c.sheet, ref, ref, styleID)
	case Streaming:
		sc, err := c.wb.stream(c.sheet).cellOfNew(c.row, c.col)
		if err != nil {
			return err
		}
		sc.style = styleID
		return nil
	}
	return unsupported("set style", c.wb.backend)
}

// currentStyle returns the style ID of the selected cell.
func (c *Cursor) currentStyle() int {
	return c.raw().style
}

// overlayStyle lays style attributes over the selected cell's style.
func (c *Cursor) overlayStyle(overlay *excelize.Style) error {
	id, err := c.wb.styles.Overlay(c.currentStyle(), overlay)
	if err != nil {
		return err
	}
	return c.SetStyle(id)
}

// WriteLink attaches a hyperlink to the selected cell. Targets with a scheme
// ("https://", "mailto:") are external; anything else, such as
// "Sheet2!A1", is a location inside the workbook.
func (c *Cursor) WriteLink(target, display string) error {
	if err := c.writable("write link"); err != nil {
		return err
	}
	if display != "" {
		if err := c.WriteText(display); err != nil {
			return err
		}
	}
	return c.setLink(target)
}

// Link returns the hyperlink target of the selected cell.
func (c *Cursor) Link() (string, bool) {
	if c.row < 0 || c.col < 0 || c.wb.closed {
		return "", false
	}
	switch c.wb.backend {
	case Standard:
		ok, target, err := c.wb.file.GetCellHyperLink(c.sheet, c.ref())
		if err != nil || !ok {
			return "", false
		}
		return target, true
	case Streaming:
		if sc := c.wb.stream(c.sheet).lookup(c.row, c.col); sc != nil && sc.link != "" {
			return sc.link, true
		}
	}
	return "", false
}

// setLink sets or, with an empty target, removes the hyperlink.
func (c *Cursor) setLink(target string) error {
	switch c.wb.backend {
	case Standard:
		return c.wb.file.SetCellHyperLink(c.sheet, c.ref(), target, linkType(target))
	case Streaming:
		sc, err := c.wb.stream(c.sheet).cellOfNew(c.row, c.col)
		if err != nil {
			return err
		}
		sc.link = target
		return nil
	}
	return unsupported("write link", c.wb.backend)
}

func linkType(target string) string {
	switch {
	case target == "":
		return "None"
	case strings.Contains(target, "://"), strings.HasPrefix(strings.ToLower(target), "mailto:"):
		return "External"
	}
	return "Location"
}
