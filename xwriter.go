package xlrw

import "io"

// XSheetWriter builds a new workbook in memory on the Standard backend.
type XSheetWriter struct {
	*SheetWriter
}

// NewXSheetWriter creates an empty workbook positioned on its first sheet.
func NewXSheetWriter(opts ...Option) (*XSheetWriter, error) {
	wb, err := newWorkbook(Standard, buildOptions(opts))
	if err != nil {
		return nil, err
	}
	w, err := newSheetWriter(wb, wb.defaultSheetName())
	if err != nil {
		wb.close()
		return nil, err
	}
	return &XSheetWriter{SheetWriter: w}, nil
}

// Styles returns the style registry resolving Cell.SIndex.
func (w *XSheetWriter) Styles() *CloneStyles {
	return w.wb.styles
}

// Write writes the workbook to out.
func (w *XSheetWriter) Write(out io.Writer) error {
	return w.wb.write(out)
}

// SaveAs writes the workbook to path.
func (w *XSheetWriter) SaveAs(path string) error {
	return w.wb.saveAs(path)
}

// Close releases the workbook and any style library it opened.
func (w *XSheetWriter) Close() error {
	return w.wb.close()
}
