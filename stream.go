package xlrw

import (
	"bytes"
	"fmt"
	"io"
	"maps"
	"slices"

	"github.com/xuri/excelize/v2"
)

// streamCell is a cell held in the streaming window.
type streamCell struct {
	value   any
	formula string
	style   int
	link    string
}

// streamRow is a row held in the streaming window.
type streamRow struct {
	cells   map[int]*streamCell
	height  float64
	hidden  bool
	outline int
}

func newStreamRow() *streamRow {
	return &streamRow{cells: make(map[int]*streamCell)}
}

type colWidth struct {
	min, max int // zero-based, inclusive
	width    float64
}

// deferredOp is a sheet decoration the stream writer cannot express. It is
// applied to the finished workbook.
type deferredOp struct {
	name  string
	apply func(f *excelize.File) error
}

// streamSheet keeps a window of recent rows of one sheet and flushes older
// rows, in ascending order, to an excelize StreamWriter.
type streamSheet struct {
	wb       *workbook
	name     string
	sw       *excelize.StreamWriter
	rows     map[int]*streamRow
	flushed  int // rows with a lower index are in the stream
	maxRow   int
	widths   []colWidth
	panes    *excelize.Panes
	merges   []Range
	deferred []deferredOp
}

// stream returns the streaming state of a sheet, creating it on first use.
func (wb *workbook) stream(name string) *streamSheet {
	s, ok := wb.streams[name]
	if !ok {
		s = &streamSheet{wb: wb, name: name, rows: make(map[int]*streamRow), maxRow: -1}
		wb.streams[name] = s
	}
	return s
}

func (s *streamSheet) lookup(row, col int) *streamCell {
	r, ok := s.rows[row]
	if !ok {
		return nil
	}
	return r.cells[col]
}

// cell reads a cell from the window. Flushed rows read as absent.
func (s *streamSheet) cell(row, col int) rawCell {
	sc := s.lookup(row, col)
	if sc == nil {
		return rawCell{}
	}
	rc := rawCell{formula: sc.formula, style: sc.style}
	switch v := sc.value.(type) {
	case string:
		if v != "" {
			rc.value = v
		}
	case nil:
	default:
		if n, ok := toFloat(v); ok {
			rc.value = n
		} else {
			rc.value = v
		}
	}
	return rc
}

func (s *streamSheet) width(row int) int {
	r, ok := s.rows[row]
	if !ok {
		return 0
	}
	w := 0
	for col, sc := range r.cells {
		if col+1 > w && (sc.formula != "" || (sc.value != nil && sc.value != "")) {
			w = col + 1
		}
	}
	return w
}

func (s *streamSheet) lastRow() int {
	last := -1
	for idx := range s.rows {
		if idx > last && s.width(idx) > 0 {
			last = idx
		}
	}
	return last
}

// rowOfNew returns the window row at index, creating it. Moving past the
// window flushes the oldest rows.
func (s *streamSheet) rowOfNew(index int) (*streamRow, error) {
	if s.wb.finished != nil {
		return nil, fmt.Errorf("%w: streaming workbook already written", ErrClosed)
	}
	if index < s.flushed {
		return nil, fmt.Errorf("%w: row %d of sheet %q", ErrRowFlushed, index+1, s.name)
	}
	r, ok := s.rows[index]
	if !ok {
		r = newStreamRow()
		s.rows[index] = r
	}
	if index > s.maxRow {
		s.maxRow = index
		if err := s.flushTo(index - s.wb.opts.windowSize + 1); err != nil {
			return nil, err
		}
	}
	return r, nil
}

func (s *streamSheet) cellOfNew(row, col int) (*streamCell, error) {
	r, err := s.rowOfNew(row)
	if err != nil {
		return nil, err
	}
	sc, ok := r.cells[col]
	if !ok {
		sc = &streamCell{}
		r.cells[col] = sc
	}
	return sc, nil
}

// flushTo writes every window row below limit to the stream.
func (s *streamSheet) flushTo(limit int) error {
	if limit <= s.flushed {
		return nil
	}
	pending := slices.Sorted(maps.Keys(s.rows))
	for _, idx := range pending {
		if idx >= limit {
			break
		}
		if err := s.emit(idx, s.rows[idx]); err != nil {
			return err
		}
		delete(s.rows, idx)
	}
	s.wb.log.WithField("sheet", s.name).Debugf("flushed rows %d-%d", s.flushed+1, limit)
	s.flushed = limit
	return nil
}

// start creates the stream writer and applies the settings that must
// precede the first row.
func (s *streamSheet) start() error {
	if s.sw != nil {
		return nil
	}
	sw, err := s.wb.file.NewStreamWriter(s.name)
	if err != nil {
		return NewBackendError("stream", Streaming, fmt.Errorf("open stream for sheet %q: %w", s.name, err))
	}
	for _, w := range s.widths {
		if err := sw.SetColWidth(w.min+1, w.max+1, w.width); err != nil {
			return err
		}
	}
	if s.panes != nil {
		if err := sw.SetPanes(s.panes); err != nil {
			return err
		}
	}
	s.sw = sw
	return nil
}

func (s *streamSheet) emit(index int, r *streamRow) error {
	if err := s.start(); err != nil {
		return err
	}
	last := -1
	for col := range r.cells {
		last = max(last, col)
	}
	values := make([]any, last+1)
	for col, sc := range r.cells {
		values[col] = excelize.Cell{StyleID: sc.style, Formula: sc.formula, Value: sc.value}
		if sc.link != "" {
			s.deferLink(PositionAt(index, col).Address(), sc.link)
		}
	}
	opts := excelize.RowOpts{Height: r.height, Hidden: r.hidden, OutlineLevel: r.outline}
	if err := s.sw.SetRow(PositionAt(index, 0).Address(), values, opts); err != nil {
		return fmt.Errorf("stream row %d of sheet %q: %w", index+1, s.name, err)
	}
	return nil
}

func (s *streamSheet) deferLink(ref, target string) {
	sheet := s.name
	s.later("hyperlink", func(f *excelize.File) error {
		return f.SetCellHyperLink(sheet, ref, target, linkType(target))
	})
}

func (s *streamSheet) later(name string, apply func(f *excelize.File) error) {
	s.deferred = append(s.deferred, deferredOp{name: name, apply: apply})
}

// setColWidth records a column width. Once rows are streamed the width is
// applied to the finished workbook instead.
func (s *streamSheet) setColWidth(first, last int, width float64) {
	if s.sw == nil {
		s.widths = append(s.widths, colWidth{min: first, max: last, width: width})
		return
	}
	sheet := s.name
	s.later("column width", func(f *excelize.File) error {
		return f.SetColWidth(sheet, ColumnName(first), ColumnName(last), width)
	})
}

// setPanes records freeze panes, deferring them once rows are streamed.
func (s *streamSheet) setPanes(panes *excelize.Panes) {
	if s.sw == nil {
		s.panes = panes
		return
	}
	sheet := s.name
	s.later("panes", func(f *excelize.File) error {
		return f.SetPanes(sheet, panes)
	})
}

// finish flushes the whole window and closes the stream.
func (s *streamSheet) finish() error {
	if err := s.flushTo(s.maxRow + 1); err != nil {
		return err
	}
	if s.sw == nil {
		if len(s.widths) == 0 && s.panes == nil && len(s.merges) == 0 {
			return nil
		}
		if err := s.start(); err != nil {
			return err
		}
	}
	for _, m := range s.merges {
		if err := s.sw.MergeCell(m.Start.Address(), m.End.Address()); err != nil {
			return fmt.Errorf("merge %s on sheet %q: %w", m.Ref(), s.name, err)
		}
	}
	return s.sw.Flush()
}

// writeStreams finishes every stream, applies deferred decorations to a
// reopened copy of the result and writes it to w. The result is kept so
// later writes produce the same bytes.
func (wb *workbook) writeStreams(w io.Writer) error {
	if wb.finished == nil {
		out, err := wb.finishStreams()
		if err != nil {
			return NewBackendError("write", Streaming, err)
		}
		wb.finished = out
	}
	_, err := w.Write(wb.finished)
	return err
}

func (wb *workbook) finishStreams() ([]byte, error) {
	var deferred []deferredOp
	for _, name := range slices.Sorted(maps.Keys(wb.streams)) {
		s := wb.streams[name]
		if err := s.finish(); err != nil {
			return nil, err
		}
		deferred = append(deferred, s.deferred...)
	}
	var buf bytes.Buffer
	if err := wb.file.Write(&buf); err != nil {
		return nil, err
	}
	if len(deferred) == 0 {
		return buf.Bytes(), nil
	}
	f, err := excelize.OpenReader(&buf)
	if err != nil {
		return nil, fmt.Errorf("reopen streamed workbook: %w", err)
	}
	defer f.Close()
	for _, op := range deferred {
		if err := op.apply(f); err != nil {
			return nil, fmt.Errorf("apply %s: %w", op.name, err)
		}
	}
	wb.log.Debugf("applied %d deferred decorations", len(deferred))
	var out bytes.Buffer
	if err := f.Write(&out); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}
