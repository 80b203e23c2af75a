package xlrw

// ExcelReader reads a workbook opened from disk. .xlsx-family files use the
// Standard backend and .xls files the Legacy one.
type ExcelReader struct {
	*SheetReader
}

// OpenExcelReader opens path for reading, positioned on the configured
// sheet or the active one.
func OpenExcelReader(path string, opts ...Option) (*ExcelReader, error) {
	wb, err := openWorkbook(path, buildOptions(opts))
	if err != nil {
		return nil, err
	}
	sheet := wb.defaultSheetName()
	if err := wb.ensureSheet(sheet, false); err != nil {
		wb.close()
		return nil, err
	}
	return &ExcelReader{SheetReader: newSheetReader(wb, sheet)}, nil
}

// Close releases the workbook.
func (r *ExcelReader) Close() error {
	return r.wb.close()
}
