package xlrw

import (
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

// Cursor is the shared position of readers and writers: a workbook, a
// sheet, a selected row and a selected cell. Selecting a row drops the
// selected cell. A Cursor is not safe for concurrent use.
type Cursor struct {
	wb    *workbook
	sheet string
	row   int // zero-based row index, -1 before the first row
	col   int // zero-based column index, -1 when no cell is selected
}

func newCursor(wb *workbook, sheet string) *Cursor {
	return &Cursor{wb: wb, sheet: sheet, row: -1, col: -1}
}

// Backend returns the backend of the underlying workbook.
func (c *Cursor) Backend() Backend {
	return c.wb.backend
}

// Sheet returns the current sheet name.
func (c *Cursor) Sheet() string {
	return c.sheet
}

// Sheets lists the sheet names of the workbook.
func (c *Cursor) Sheets() []string {
	return c.wb.sheets()
}

// RowIndex returns the selected zero-based row index, -1 before the first row.
func (c *Cursor) RowIndex() int {
	return c.row
}

// ColumnIndex returns the selected zero-based column index, -1 when none.
func (c *Cursor) ColumnIndex() int {
	return c.col
}

// Position returns the address of the selected cell.
func (c *Cursor) Position() Position {
	if c.row < 0 || c.col < 0 {
		return Position{}
	}
	return PositionAt(c.row, c.col)
}

// Cell selects a cell of the current row by zero-based column index.
func (c *Cursor) Cell(colIndex int) *Cursor {
	c.col = colIndex
	return c
}

// CellAt selects the cell at p, moving to its row.
func (c *Cursor) CellAt(p Position) *Cursor {
	if p.IsEmpty() {
		c.row, c.col = -1, -1
		return c
	}
	c.row, c.col = p.RowIndex(), p.ColumnIndex()
	return c
}

func (c *Cursor) selectRow(index int) {
	c.row, c.col = index, -1
}

func (c *Cursor) ref() string {
	return PositionAt(c.row, c.col).Address()
}

// rawCell is a backend-neutral snapshot of one native cell.
type rawCell struct {
	value   any // nil, float64, string, bool or time.Time
	isError bool
	formula string
	style   int
}

func (rc rawCell) empty() bool {
	return rc.value == nil && rc.formula == ""
}

// raw reads the selected cell from the backend. Reads never fail: missing
// sheets, rows and cells yield the zero rawCell.
func (c *Cursor) raw() rawCell {
	if c.row < 0 || c.col < 0 || c.wb.closed {
		return rawCell{}
	}
	switch c.wb.backend {
	case Standard:
		return standardCell(c.wb, c.sheet, c.ref())
	case Streaming:
		return c.wb.stream(c.sheet).cell(c.row, c.col)
	case Legacy:
		return c.wb.legacy.cell(c.sheet, c.row, c.col)
	}
	return rawCell{}
}

// rowWidth returns the number of columns up to the last populated cell of
// a row, 0 when the row is absent.
func (c *Cursor) rowWidth(index int) int {
	if index < 0 || c.wb.closed {
		return 0
	}
	switch c.wb.backend {
	case Standard:
		w := c.wb.widths(c.sheet)
		if index < len(w) {
			return w[index]
		}
	case Streaming:
		return c.wb.stream(c.sheet).width(index)
	case Legacy:
		return c.wb.legacy.width(c.sheet, index)
	}
	return 0
}

// lastRow returns the index of the last populated row, -1 for an empty sheet.
func (c *Cursor) lastRow() int {
	if c.wb.closed {
		return -1
	}
	switch c.wb.backend {
	case Standard:
		return len(c.wb.widths(c.sheet)) - 1
	case Streaming:
		return c.wb.stream(c.sheet).lastRow()
	case Legacy:
		return c.wb.legacy.lastRow(c.sheet)
	}
	return -1
}

// standardCell reads one cell of an excelize workbook.
func standardCell(wb *workbook, sheet, ref string) rawCell {
	f := wb.file
	typ, err := f.GetCellType(sheet, ref)
	if err != nil {
		return rawCell{}
	}
	v, _ := f.GetCellValue(sheet, ref, excelize.Options{RawCellValue: true})
	formula, _ := f.GetCellFormula(sheet, ref)
	style, _ := f.GetCellStyle(sheet, ref)
	rc := rawCell{formula: formula, style: style}
	if v == "" {
		return rc
	}
	switch typ {
	case excelize.CellTypeBool:
		rc.value = v == "1" || strings.EqualFold(v, "true")
	case excelize.CellTypeDate:
		if t, ok := parseISODate(v); ok {
			rc.value = t
		} else {
			rc.value = v
		}
	case excelize.CellTypeError:
		rc.value, rc.isError = v, true
	case excelize.CellTypeSharedString, excelize.CellTypeInlineString:
		rc.value = v
	case excelize.CellTypeFormula:
		// excelize marks every formula it writes as a string result.
		if n, err := strconv.ParseFloat(v, 64); err == nil {
			rc.value = n
		} else {
			rc.value = v
		}
	default:
		if n, err := strconv.ParseFloat(v, 64); err == nil {
			rc.value = n
		} else {
			rc.value = v
		}
	}
	return rc
}

var isoLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"20060102T150405",
	"2006-01-02",
}

func parseISODate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range isoLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
