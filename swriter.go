package xlrw

import "io"

// SSheetWriter writes a new workbook through a row window. Rows leaving the
// window are streamed out and can no longer be read or written. Merges and
// freeze panes are native to the stream; comments, dropdowns, hyperlinks
// and protection are applied when the workbook is written.
type SSheetWriter struct {
	*SheetWriter
}

// NewSSheetWriter creates an empty streaming workbook positioned on its
// first sheet. WithWindowSize sets the number of rows kept in memory.
func NewSSheetWriter(opts ...Option) (*SSheetWriter, error) {
	wb, err := newWorkbook(Streaming, buildOptions(opts))
	if err != nil {
		return nil, err
	}
	w, err := newSheetWriter(wb, wb.defaultSheetName())
	if err != nil {
		wb.close()
		return nil, err
	}
	return &SSheetWriter{SheetWriter: w}, nil
}

// Styles returns the style registry resolving Cell.SIndex.
func (w *SSheetWriter) Styles() *CloneStyles {
	return w.wb.styles
}

// Flushed returns the number of leading rows of the current sheet already
// streamed out.
func (w *SSheetWriter) Flushed() int {
	return w.wb.stream(w.sheet).flushed
}

// Write finishes the streams and writes the workbook to out. Later writes
// repeat the same bytes; further edits fail.
func (w *SSheetWriter) Write(out io.Writer) error {
	return w.wb.write(out)
}

// SaveAs finishes the streams and writes the workbook to path.
func (w *SSheetWriter) SaveAs(path string) error {
	return w.wb.saveAs(path)
}

// Close releases the workbook and any temporary stream files.
func (w *SSheetWriter) Close() error {
	return w.wb.close()
}
