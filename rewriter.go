package xlrw

import (
	"io"
)

// ExcelRewriter opens an existing workbook for reading and writing in place.
type ExcelRewriter struct {
	*SheetWriter
}

// OpenExcelRewriter opens path for rewriting. Only the Standard backend can
// rewrite; .xls files fail with ErrUnsupported because the legacy backend
// reads BIFF but cannot write it. Convert them to .xlsx first.
func OpenExcelRewriter(path string, opts ...Option) (*ExcelRewriter, error) {
	o := buildOptions(opts)
	backend, err := BackendFor(path)
	if err != nil {
		return nil, err
	}
	if !backend.CanWrite() {
		return nil, unsupported("rewrite", backend)
	}
	wb, err := openWorkbook(path, o)
	if err != nil {
		return nil, err
	}
	sheet := wb.defaultSheetName()
	if err := wb.ensureSheet(sheet, false); err != nil {
		wb.close()
		return nil, err
	}
	w, err := newSheetWriter(wb, sheet)
	if err != nil {
		wb.close()
		return nil, err
	}
	w.rownum.Set(w.lastRow() + 1)
	return &ExcelRewriter{SheetWriter: w}, nil
}

// Styles returns the style registry resolving Cell.SIndex.
func (w *ExcelRewriter) Styles() *CloneStyles {
	return w.wb.styles
}

// Save writes the workbook back to the file it was opened from.
func (w *ExcelRewriter) Save() error {
	return w.wb.saveAs(w.wb.path)
}

// SaveAs writes the workbook to path.
func (w *ExcelRewriter) SaveAs(path string) error {
	return w.wb.saveAs(path)
}

// Write writes the workbook to out.
func (w *ExcelRewriter) Write(out io.Writer) error {
	return w.wb.write(out)
}

// Close releases the workbook.
func (w *ExcelRewriter) Close() error {
	return w.wb.close()
}
