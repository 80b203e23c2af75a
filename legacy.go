package xlrw

import (
	"fmt"
	"math"
	"os"
	"strconv"

	"github.com/extrame/xls"
)

// legacyBook is a read-only BIFF workbook.
type legacyBook struct {
	f      *os.File
	book   *xls.WorkBook
	sheets map[string]*xls.WorkSheet
	names  []string
}

func openLegacy(path string) (lb *legacyBook, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook %q: %w", path, err)
	}
	defer func() {
		if r := recover(); r != nil {
			f.Close()
			lb, err = nil, fmt.Errorf("%w: parse %q: %v", ErrUnsupportedFormat, path, r)
		}
	}()
	book, err := xls.OpenReader(f, "utf-8")
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("%w: parse %q: %v", ErrUnsupportedFormat, path, err)
	}
	if book == nil {
		f.Close()
		return nil, fmt.Errorf("%w: %q has no workbook stream", ErrUnsupportedFormat, path)
	}
	lb = &legacyBook{f: f, book: book, sheets: make(map[string]*xls.WorkSheet)}
	for i := 0; i < book.NumSheets(); i++ {
		ws := book.GetSheet(i)
		if ws == nil {
			continue
		}
		lb.sheets[ws.Name] = ws
		lb.names = append(lb.names, ws.Name)
	}
	return lb, nil
}

func (lb *legacyBook) sheetNames() []string {
	return lb.names
}

// row returns a parsed row, nil when the sheet stores no record for it.
func (lb *legacyBook) row(sheet string, index int) (row *xls.Row) {
	ws, ok := lb.sheets[sheet]
	if !ok || index < 0 || index > int(ws.MaxRow) {
		return nil
	}
	// Row dereferences a missing row record.
	defer func() {
		if recover() != nil {
			row = nil
		}
	}()
	return ws.Row(index)
}

func (lb *legacyBook) width(sheet string, index int) int {
	r := lb.row(sheet, index)
	if r == nil {
		return 0
	}
	for col := r.LastCol(); col >= r.FirstCol(); col-- {
		if r.Col(col) != "" {
			return col + 1
		}
	}
	return 0
}

func (lb *legacyBook) lastRow(sheet string) int {
	ws, ok := lb.sheets[sheet]
	if !ok {
		return -1
	}
	for i := int(ws.MaxRow); i >= 0; i-- {
		if lb.width(sheet, i) > 0 {
			return i
		}
	}
	return -1
}

// cell reads a cell as text, or as a number when the text is how the xls
// reader renders numbers. Formulas and styles are not available.
func (lb *legacyBook) cell(sheet string, row, col int) rawCell {
	r := lb.row(sheet, row)
	if r == nil {
		return rawCell{}
	}
	s := r.Col(col)
	if s == "" {
		return rawCell{}
	}
	return rawCell{value: legacyValue(s)}
}

// legacyValue recovers numbers from cell text. The reader renders NUMBER and
// RK records in shortest fixed-point form, so only text in that exact form
// becomes a float64; "007", "1e3" and " 5" stay text. Text records spelling
// a canonical number, such as "42", are indistinguishable and read as numbers.
func legacyValue(s string) any {
	n, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(n) || strconv.FormatFloat(n, 'f', -1, 64) != s {
		return s
	}
	return n
}

func (lb *legacyBook) close() error {
	return lb.f.Close()
}
