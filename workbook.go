package xlrw

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"
)

const defaultSheet = "Sheet1"

// workbook is the open document behind every cursor. Exactly one of file
// (Standard, Streaming) or legacy (Legacy) is set.
type workbook struct {
	backend  Backend
	file     *excelize.File
	legacy   *legacyBook
	streams  map[string]*streamSheet
	styles   *CloneStyles
	opts     *Options
	log      *logrus.Entry
	path     string
	date1904 bool
	numFmts  map[int]numFmt
	dims     map[string][]int // sheet → value width per row, Standard only
	finished []byte           // streamed result, set by the first write
	closed   bool
}

// openWorkbook opens path with the backend chosen by its extension.
func openWorkbook(path string, o *Options) (*workbook, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %q", ErrFileNotFound, path)
		}
		return nil, fmt.Errorf("stat %q: %w", path, err)
	}
	backend, err := BackendFor(path)
	if err != nil {
		return nil, err
	}
	wb := &workbook{backend: backend, opts: o, path: path}
	switch backend {
	case Standard:
		f, err := excelize.OpenFile(path, excelize.Options{Password: o.password})
		if err != nil {
			return nil, NewBackendError("open", backend, fmt.Errorf("open workbook %q: %w", path, err))
		}
		wb.file = f
		if props, err := f.GetWorkbookProps(); err == nil && props.Date1904 != nil {
			wb.date1904 = *props.Date1904
		}
	case Legacy:
		lb, err := openLegacy(path)
		if err != nil {
			return nil, NewBackendError("open", backend, err)
		}
		wb.legacy = lb
	}
	wb.init()
	wb.log.Debug("workbook opened")
	return wb, nil
}

// newWorkbook creates an empty writable workbook whose first sheet is named
// after the sheet option.
func newWorkbook(backend Backend, o *Options) (*workbook, error) {
	if !backend.CanWrite() {
		return nil, unsupported("create", backend)
	}
	f := excelize.NewFile()
	wb := &workbook{backend: backend, file: f, opts: o}
	if o.sheet != "" && o.sheet != defaultSheet {
		if err := f.SetSheetName(defaultSheet, o.sheet); err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("rename sheet %q: %w", o.sheet, err)
		}
	}
	wb.init()
	wb.log.Debug("workbook created")
	return wb, nil
}

func (wb *workbook) init() {
	wb.log = wb.opts.logger.WithFields(logrus.Fields{
		"path":    wb.path,
		"backend": wb.backend.String(),
	})
	wb.numFmts = make(map[int]numFmt)
	wb.dims = make(map[string][]int)
	if wb.backend == Streaming {
		wb.streams = make(map[string]*streamSheet)
	}
	if wb.file == nil {
		return
	}
	switch {
	case wb.opts.styleSource != nil:
		wb.styles = NewCloneStyles(wb.opts.styleSource, wb.file)
	case wb.opts.styleFile != "":
		wb.styles = CloneStylesFromFile(wb.opts.styleFile, wb.file)
	default:
		wb.styles = NewCloneStyles(nil, wb.file)
	}
}

// sheets lists the sheet names in workbook order.
func (wb *workbook) sheets() []string {
	if wb.backend == Legacy {
		return wb.legacy.sheetNames()
	}
	return wb.file.GetSheetList()
}

// defaultSheetName returns the sheet to use when none was configured.
func (wb *workbook) defaultSheetName() string {
	if wb.opts.sheet != "" {
		return wb.opts.sheet
	}
	if wb.backend != Legacy {
		if name := wb.file.GetSheetName(wb.file.GetActiveSheetIndex()); name != "" {
			return name
		}
	}
	if names := wb.sheets(); len(names) > 0 {
		return names[0]
	}
	return defaultSheet
}

func (wb *workbook) hasSheet(name string) bool {
	for _, s := range wb.sheets() {
		if s == name {
			return true
		}
	}
	return false
}

// ensureSheet creates the sheet when it is missing. Readers get
// ErrSheetNotFound instead.
func (wb *workbook) ensureSheet(name string, create bool) error {
	if wb.closed {
		return ErrClosed
	}
	if wb.hasSheet(name) {
		return nil
	}
	if !create || !wb.backend.CanWrite() {
		return fmt.Errorf("%w: %q", ErrSheetNotFound, name)
	}
	if _, err := wb.file.NewSheet(name); err != nil {
		return fmt.Errorf("create sheet %q: %w", name, err)
	}
	return nil
}

// numFmtOf returns the number format of a style ID.
func (wb *workbook) numFmtOf(style int) numFmt {
	if wb.file == nil || style <= 0 {
		return numFmt{}
	}
	if nf, ok := wb.numFmts[style]; ok {
		return nf
	}
	nf := numFmt{}
	if st, err := wb.file.GetStyle(style); err == nil {
		nf.id = st.NumFmt
		if st.CustomNumFmt != nil {
			nf.code = *st.CustomNumFmt
		} else {
			nf.code = builtinNumFmts[st.NumFmt]
		}
	}
	wb.numFmts[style] = nf
	return nf
}

// widths returns, per row of a Standard sheet, the column count up to the
// last cell holding a value or a formula.
func (wb *workbook) widths(sheet string) []int {
	if w, ok := wb.dims[sheet]; ok {
		return w
	}
	rows, err := wb.file.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		wb.log.WithError(err).WithField("sheet", sheet).Warn("read sheet rows")
	}
	w := make([]int, len(rows))
	for i, row := range rows {
		w[i] = len(row)
	}
	wb.dims[sheet] = w
	return w
}

// touch drops cached dimensions after a write to sheet.
func (wb *workbook) touch(sheet string) {
	delete(wb.dims, sheet)
}

// write serialises the workbook to w.
func (wb *workbook) write(w io.Writer) error {
	if wb.closed {
		return ErrClosed
	}
	switch wb.backend {
	case Standard:
		return wb.file.Write(w)
	case Streaming:
		return wb.writeStreams(w)
	}
	return unsupported("write", wb.backend)
}

// saveAs writes the workbook to path, removing the file when writing fails.
func (wb *workbook) saveAs(path string) error {
	if wb.closed {
		return ErrClosed
	}
	var buf bytes.Buffer
	if err := wb.write(&buf); err != nil {
		return err
	}
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output file %q: %w", path, err)
	}
	if _, err := buf.WriteTo(out); err != nil {
		out.Close()
		os.Remove(path)
		return fmt.Errorf("write %q: %w", path, err)
	}
	if err := out.Close(); err != nil {
		os.Remove(path)
		return fmt.Errorf("close %q: %w", path, err)
	}
	wb.log.WithField("output", path).Debug("workbook saved")
	return nil
}

// close releases the workbook and any style library it opened.
func (wb *workbook) close() error {
	if wb.closed {
		return nil
	}
	wb.closed = true
	var errs []error
	if wb.styles != nil {
		errs = append(errs, wb.styles.Close())
	}
	switch wb.backend {
	case Standard, Streaming:
		errs = append(errs, wb.file.Close())
	case Legacy:
		errs = append(errs, wb.legacy.close())
	}
	wb.log.Debug("workbook closed")
	return errors.Join(errs...)
}
