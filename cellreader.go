package xlrw

import (
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

// CellEmpty reports whether the selected cell is absent or blank.
func (c *Cursor) CellEmpty() bool {
	return c.raw().empty()
}

// Value returns the selected cell's value. Unformatted, numbers come back as
// float64 (time.Time when date-formatted), text as string and booleans as
// bool; formula cells yield their cached result. Formatted, the value is the
// string the spreadsheet application displays. Absent cells yield nil.
func (c *Cursor) Value(format bool) any {
	rc := c.raw()
	if rc.value == nil {
		return nil
	}
	if format {
		return c.formatted(rc)
	}
	return c.typed(rc)
}

func (c *Cursor) typed(rc rawCell) any {
	if n, ok := rc.value.(float64); ok && rc.formula == "" && c.wb.numFmtOf(rc.style).isDate() {
		if t, err := excelize.ExcelDateToTime(n, c.wb.date1904); err == nil {
			return t
		}
	}
	return rc.value
}

func (c *Cursor) formatted(rc rawCell) string {
	if c.wb.backend == Standard {
		if s, err := c.wb.file.GetCellValue(c.sheet, c.ref()); err == nil {
			return s
		}
	}
	if n, ok := rc.value.(float64); ok {
		return formatNumber(n, c.wb.numFmtOf(rc.style), c.wb.date1904)
	}
	return stringify(rc.value)
}

// Text returns the selected cell's value as text. Numbers never use
// scientific notation. ok is false for absent cells.
func (c *Cursor) Text() (string, bool) {
	v := c.Value(false)
	if v == nil {
		return "", false
	}
	return stringify(v), true
}

// TextOfEmpty returns the cell text, or "" for absent cells.
func (c *Cursor) TextOfEmpty() string {
	s, _ := c.Text()
	return s
}

func stringify(v any) string {
	switch v := v.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return plainNumber(v)
	case bool:
		if v {
			return "TRUE"
		}
		return "FALSE"
	case time.Time:
		return formatDate(v)
	}
	return ""
}

// Number returns the selected cell as a number. Numeric text is parsed;
// dates yield their serial value. ok is false for absent or non-numeric cells.
func (c *Cursor) Number() (float64, bool) {
	switch v := c.raw().value.(type) {
	case float64:
		return v, true
	case string:
		n, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		return n, err == nil
	case time.Time:
		return timeToSerial(v, c.wb.date1904), true
	}
	return 0, false
}

// NumberOrZero returns the selected cell as a number, 0 when absent.
func (c *Cursor) NumberOrZero() float64 {
	n, _ := c.Number()
	return n
}

// Date returns the selected cell as a time. Date-formatted and plain numbers
// are read as serial dates; text is parsed as an ISO date.
func (c *Cursor) Date() (time.Time, bool) {
	switch v := c.raw().value.(type) {
	case time.Time:
		return v, true
	case float64:
		t, err := excelize.ExcelDateToTime(v, c.wb.date1904)
		return t, err == nil
	case string:
		return parseISODate(v)
	}
	return time.Time{}, false
}

// Formula returns the formula text of the selected cell, "" when none.
func (c *Cursor) Formula() string {
	return c.raw().formula
}

// FormulaTemplate returns the formula with references to the cell's own row
// replaced by the row placeholder, ready for WriteFormula on another row.
func (c *Cursor) FormulaTemplate() string {
	f := c.Formula()
	if f == "" {
		return ""
	}
	return TemplateFormula(f, c.row+1)
}

// Type classifies the selected cell. Numbers are split into Date and
// Percent by their number format. Formulas with a numeric or no cached
// result are Number.
func (c *Cursor) Type() DataType {
	return c.typeOf(c.raw())
}

func (c *Cursor) typeOf(rc rawCell) DataType {
	if rc.value == nil && rc.formula != "" {
		return Number
	}
	switch rc.value.(type) {
	case float64:
		if rc.formula != "" {
			return Number
		}
		nf := c.wb.numFmtOf(rc.style)
		switch {
		case nf.isDate():
			return Date
		case nf.isPercent():
			return Percent
		}
		return Number
	case time.Time:
		return Date
	}
	return Text
}

// StyleID returns the native style ID of the selected cell, 0 when none.
func (c *Cursor) StyleID() int {
	return c.raw().style
}

// ReadCell converts the selected cell to the value model. The native style
// ID is kept as SIndex.
func (c *Cursor) ReadCell() Cell {
	rc := c.raw()
	cell := Cell{Type: c.typeOf(rc), Formula: rc.formula, SIndex: rc.style}
	if rc.value != nil {
		cell.Value = c.typed(rc)
	}
	if b, ok := cell.Value.(bool); ok {
		cell.Value = stringify(b)
	}
	return cell
}

// timeToSerial converts t to a spreadsheet serial date.
func timeToSerial(t time.Time, date1904 bool) float64 {
	epoch := time.Date(1899, 12, 30, 0, 0, 0, 0, time.UTC)
	if date1904 {
		epoch = time.Date(1904, 1, 1, 0, 0, 0, 0, time.UTC)
	}
	return t.Sub(epoch).Hours() / 24
}
