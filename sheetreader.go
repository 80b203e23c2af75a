package xlrw

import (
	"iter"
	"strings"
)

// SheetReader is a sequential row cursor over one sheet. It starts before
// the first row; call Row or Next before reading cells.
type SheetReader struct {
	*Cursor
}

func newSheetReader(wb *workbook, sheet string) *SheetReader {
	return &SheetReader{Cursor: newCursor(wb, sheet)}
}

// Row selects the row at a zero-based index and reports whether it holds data.
func (r *SheetReader) Row(index int) bool {
	r.selectRow(index)
	return r.rowWidth(index) > 0
}

// Next advances to the next populated row. Absent and empty rows are
// skipped. It returns false at end of data.
func (r *SheetReader) Next() bool {
	last := r.lastRow()
	for index := r.row + 1; index <= last; index++ {
		if r.Row(index) {
			return true
		}
	}
	r.selectRow(last + 1)
	return false
}

// Reset moves the cursor before the first row.
func (r *SheetReader) Reset() {
	r.selectRow(-1)
}

// UseSheet switches to another sheet and resets the cursor.
func (r *SheetReader) UseSheet(name string) error {
	if err := r.wb.ensureSheet(name, false); err != nil {
		return err
	}
	r.sheet = name
	r.Reset()
	return nil
}

// LastRowIndex returns the index of the last populated row, -1 when empty.
func (r *SheetReader) LastRowIndex() int {
	return r.lastRow()
}

// LastColumnIndex returns the index of the last populated cell of the
// current row, -1 when the row is empty.
func (r *SheetReader) LastColumnIndex() int {
	return r.rowWidth(r.row) - 1
}

// Headers reads the current row as headers, one per non-empty label.
func (r *SheetReader) Headers() []Header {
	var headers []Header
	for col := 0; col <= r.LastColumnIndex(); col++ {
		label := strings.TrimSpace(r.Cell(col).TextOfEmpty())
		if label == "" {
			continue
		}
		h := NewHeader(col, label)
		h.SIndex = r.StyleID()
		headers = append(headers, h)
	}
	r.col = -1
	return headers
}

// MapHeaders reads the current row as label → column index. Duplicate
// labels overwrite earlier ones, so labels must be unique.
func (r *SheetReader) MapHeaders() map[string]int {
	m := make(map[string]int)
	for _, h := range r.Headers() {
		m[h.Label] = h.Index
	}
	return m
}

// Record materialises the current row in header order. Values are read
// unformatted; absent cells are nil.
func (r *SheetReader) Record(headers []Header) *Record {
	rec := newRecord(r.row+1, len(headers))
	for _, h := range headers {
		rec.add(h.Label, r.Cell(h.Index).Value(false))
	}
	r.col = -1
	return rec
}

// Records reads the headers on headerRow and yields a record for every
// populated row after it.
func (r *SheetReader) Records(headerRow int) iter.Seq[*Record] {
	return func(yield func(*Record) bool) {
		if !r.Row(headerRow) {
			return
		}
		headers := r.Headers()
		for r.Next() {
			if !yield(r.Record(headers)) {
				return
			}
		}
	}
}
