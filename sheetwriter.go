package xlrw

import (
	"fmt"
	"maps"
	"slices"

	"github.com/xuri/excelize/v2"
)

// SheetWriter is a row and cell cursor with get-or-create semantics. It
// embeds the reader, so written cells can be read back.
type SheetWriter struct {
	*SheetReader
	rownum *Rownum
}

func newSheetWriter(wb *workbook, sheet string) (*SheetWriter, error) {
	if err := wb.ensureSheet(sheet, true); err != nil {
		return nil, err
	}
	return &SheetWriter{SheetReader: newSheetReader(wb, sheet), rownum: NewRownum(0)}, nil
}

// UseSheet switches to a sheet, creating it when missing, and resets the
// cursor and the append position.
func (w *SheetWriter) UseSheet(name string) error {
	if err := w.wb.ensureSheet(name, true); err != nil {
		return err
	}
	w.sheet = name
	w.Reset()
	w.rownum.Set(w.lastRow() + 1)
	return nil
}

// Rownum returns the append position shared with AppendRow.
func (w *SheetWriter) Rownum() *Rownum {
	return w.rownum
}

// RowOfNew selects the row at index, creating it when absent.
func (w *SheetWriter) RowOfNew(index int) error {
	if err := w.wb.writableSheet("select row"); err != nil {
		return err
	}
	if index < 0 {
		return fmt.Errorf("select row: invalid row index %d", index)
	}
	if w.wb.backend == Streaming {
		if _, err := w.wb.stream(w.sheet).rowOfNew(index); err != nil {
			return err
		}
	}
	w.selectRow(index)
	return nil
}

// CellOfNew selects a cell of the current row by column index, creating it
// when absent.
func (w *SheetWriter) CellOfNew(colIndex int) (*Cursor, error) {
	if w.row < 0 {
		return nil, fmt.Errorf("select cell: no row selected")
	}
	if colIndex < 0 {
		return nil, fmt.Errorf("select cell: invalid column index %d", colIndex)
	}
	if w.wb.backend == Streaming {
		if _, err := w.wb.stream(w.sheet).cellOfNew(w.row, colIndex); err != nil {
			return nil, err
		}
	}
	return w.Cell(colIndex), nil
}

// WriteRow writes cells into row index starting at column 0.
func (w *SheetWriter) WriteRow(index int, cells ...Cell) error {
	if err := w.RowOfNew(index); err != nil {
		return err
	}
	for col, cell := range cells {
		c, err := w.CellOfNew(col)
		if err != nil {
			return err
		}
		if err := c.WriteCell(cell); err != nil {
			return fmt.Errorf("write %s: %w", c.Position(), err)
		}
	}
	return nil
}

// AppendRow writes cells into the row at the append position and advances it.
func (w *SheetWriter) AppendRow(cells ...Cell) error {
	return w.WriteRow(w.rownum.Next(), cells...)
}

// WriteHeaders appends a header row. Header styles are resolved like Cell.SIndex.
func (w *SheetWriter) WriteHeaders(headers []Header) error {
	index := w.rownum.Next()
	if err := w.RowOfNew(index); err != nil {
		return err
	}
	for _, h := range headers {
		c, err := w.CellOfNew(h.Index)
		if err != nil {
			return err
		}
		if err := c.WriteCell(TextCell(h.Label).WithStyle(h.SIndex)); err != nil {
			return err
		}
	}
	return nil
}

// WriteRecord appends a row with the record values placed by header. Each
// value is written with its header's type and style.
func (w *SheetWriter) WriteRecord(headers []Header, rec *Record) error {
	index := w.rownum.Next()
	if err := w.RowOfNew(index); err != nil {
		return err
	}
	for _, h := range headers {
		v, _ := rec.Get(h.Label)
		c, err := w.CellOfNew(h.Index)
		if err != nil {
			return err
		}
		if err := c.WriteCell(Cell{Type: h.Type, Value: v, SIndex: h.SIndex}); err != nil {
			return err
		}
	}
	return nil
}

// SetRowBlank clears the value and formula of every cell of the current row.
func (w *SheetWriter) SetRowBlank() error {
	return w.blankRow(false)
}

// SetRowBlankIgnoreFormula clears every cell of the current row except
// formula cells, which are left untouched.
func (w *SheetWriter) SetRowBlankIgnoreFormula() error {
	return w.blankRow(true)
}

func (w *SheetWriter) blankRow(keepFormulas bool) error {
	row := w.row
	for col := 0; col < w.rowWidth(row); col++ {
		c := w.Cell(col)
		rc := c.raw()
		if rc.empty() || (keepFormulas && rc.formula != "") {
			continue
		}
		if err := c.SetBlank(); err != nil {
			return err
		}
	}
	w.col = -1
	return nil
}

// AppendStyleOfRow lays style over the style of every existing cell of the
// current row, styled blanks included, keeping their other attributes.
func (w *SheetWriter) AppendStyleOfRow(style *excelize.Style) error {
	if err := w.wb.writableSheet("append row style"); err != nil {
		return err
	}
	cols, err := w.physicalColumns(w.row)
	if err != nil {
		return fmt.Errorf("append row style: %w", err)
	}
	for _, col := range cols {
		if err := w.Cell(col).overlayStyle(style); err != nil {
			return err
		}
	}
	w.col = -1
	return nil
}

// physicalColumns returns the columns of row index holding a value or a
// style. The standard backend looks past the last value as far as the
// sheet's used range reaches.
func (c *Cursor) physicalColumns(index int) ([]int, error) {
	if index < 0 {
		return nil, fmt.Errorf("no row selected")
	}
	switch c.wb.backend {
	case Standard:
		limit := c.rowWidth(index)
		if dim, err := c.wb.file.GetSheetDimension(c.sheet); err == nil {
			if used := RangeOf(dim); !used.IsEmpty() && used.Contains(index, used.Start.ColumnIndex()) {
				limit = max(limit, used.End.ColumnIndex()+1)
			}
		}
		var cols []int
		for col := 0; col < limit; col++ {
			rc := standardCell(c.wb, c.sheet, PositionAt(index, col).Address())
			if !rc.empty() || rc.style != 0 {
				cols = append(cols, col)
			}
		}
		return cols, nil
	case Streaming:
		r, ok := c.wb.stream(c.sheet).rows[index]
		if !ok {
			return nil, nil
		}
		return slices.Sorted(maps.Keys(r.cells)), nil
	}
	return nil, unsupported("read row cells", c.wb.backend)
}

// SetRowHeight sets the height of the current row in points.
func (w *SheetWriter) SetRowHeight(height float64) error {
	if err := w.wb.writableSheet("set row height"); err != nil {
		return err
	}
	switch w.wb.backend {
	case Standard:
		return w.wb.file.SetRowHeight(w.sheet, w.row+1, height)
	case Streaming:
		r, err := w.wb.stream(w.sheet).rowOfNew(w.row)
		if err != nil {
			return err
		}
		r.height = height
		return nil
	}
	return unsupported("set row height", w.wb.backend)
}

// writableSheet fails for closed or read-only workbooks.
func (wb *workbook) writableSheet(op string) error {
	if wb.closed {
		return ErrClosed
	}
	if !wb.backend.CanWrite() {
		return unsupported(op, wb.backend)
	}
	return nil
}
