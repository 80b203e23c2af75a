package xlrw

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// decorate applies a sheet-level operation. The streaming backend records it
// and applies it to the finished workbook.
func (w *SheetWriter) decorate(op string, apply func(f *excelize.File, sheet string) error) error {
	if err := w.wb.writableSheet(op); err != nil {
		return err
	}
	sheet := w.sheet
	switch w.wb.backend {
	case Standard:
		if err := apply(w.wb.file, sheet); err != nil {
			return fmt.Errorf("%s on sheet %q: %w", op, sheet, err)
		}
		return nil
	case Streaming:
		w.wb.stream(sheet).later(op, func(f *excelize.File) error {
			return apply(f, sheet)
		})
		return nil
	}
	return unsupported(op, w.wb.backend)
}

// AddDropdown restricts the cells of r to a list of items.
func (w *SheetWriter) AddDropdown(r Range, items []string) error {
	return w.decorate("add dropdown", func(f *excelize.File, sheet string) error {
		dv := excelize.NewDataValidation(true)
		dv.Sqref = r.Ref()
		if err := dv.SetDropList(items); err != nil {
			return err
		}
		return f.AddDataValidation(sheet, dv)
	})
}

// AddDropdownRef restricts the cells of r to the values of a source range,
// e.g. "$H$1:$H$9" or "Lists!$A$1:$A$20".
func (w *SheetWriter) AddDropdownRef(r Range, source string) error {
	return w.decorate("add dropdown", func(f *excelize.File, sheet string) error {
		dv := excelize.NewDataValidation(true)
		dv.Sqref = r.Ref()
		dv.SetSqrefDropList(source)
		return f.AddDataValidation(sheet, dv)
	})
}

// AddComment attaches a note to the cell at p.
func (w *SheetWriter) AddComment(p Position, author, text string) error {
	return w.decorate("add comment", func(f *excelize.File, sheet string) error {
		return f.AddComment(sheet, excelize.Comment{Cell: p.Address(), Author: author, Text: text})
	})
}

// FreezePanes freezes the top rows and left columns. Zero for both unfreezes.
func (w *SheetWriter) FreezePanes(rows, cols int) error {
	if err := w.wb.writableSheet("freeze panes"); err != nil {
		return err
	}
	panes := &excelize.Panes{}
	if rows > 0 || cols > 0 {
		panes = &excelize.Panes{
			Freeze:      true,
			XSplit:      cols,
			YSplit:      rows,
			TopLeftCell: PositionAt(rows, cols).Address(),
			ActivePane:  activePane(rows, cols),
		}
	}
	switch w.wb.backend {
	case Standard:
		return w.wb.file.SetPanes(w.sheet, panes)
	case Streaming:
		w.wb.stream(w.sheet).setPanes(panes)
		return nil
	}
	return unsupported("freeze panes", w.wb.backend)
}

func activePane(rows, cols int) string {
	switch {
	case rows > 0 && cols > 0:
		return "bottomRight"
	case rows > 0:
		return "bottomLeft"
	}
	return "topRight"
}

// Protect locks the sheet. Cells stay editable only where Unlock was applied.
func (w *SheetWriter) Protect(password string) error {
	return w.decorate("protect sheet", func(f *excelize.File, sheet string) error {
		return f.ProtectSheet(sheet, &excelize.SheetProtectionOptions{
			Password:            password,
			SelectLockedCells:   true,
			SelectUnlockedCells: true,
		})
	})
}

// Unlock marks the cells of r editable on a protected sheet, keeping their
// other style attributes.
func (w *SheetWriter) Unlock(r Range) error {
	c := newCursor(w.wb, w.sheet)
	unlocked := &excelize.Style{Protection: &excelize.Protection{Locked: false}}
	for row, col := range r.All() {
		c.row, c.col = row, col
		if err := c.overlayStyle(unlocked); err != nil {
			return fmt.Errorf("unlock %s: %w", c.Position(), err)
		}
	}
	return nil
}

// GroupRows puts rows first..last (zero-based, inclusive) in an outline
// group at level, optionally collapsed.
func (w *SheetWriter) GroupRows(first, last, level int, hidden bool) error {
	if err := w.wb.writableSheet("group rows"); err != nil {
		return err
	}
	if level < 1 || level > 7 {
		return fmt.Errorf("group rows: outline level %d out of range 1-7", level)
	}
	for index := first; index <= last; index++ {
		switch w.wb.backend {
		case Standard:
			if err := w.wb.file.SetRowOutlineLevel(w.sheet, index+1, uint8(level)); err != nil {
				return err
			}
			if hidden {
				if err := w.wb.file.SetRowVisible(w.sheet, index+1, false); err != nil {
					return err
				}
			}
		case Streaming:
			row, err := w.wb.stream(w.sheet).rowOfNew(index)
			if err != nil {
				return err
			}
			row.outline, row.hidden = level, hidden
		default:
			return unsupported("group rows", w.wb.backend)
		}
	}
	return nil
}

// Merge merges the cells of r.
func (w *SheetWriter) Merge(r Range) error {
	if err := w.wb.writableSheet("merge"); err != nil {
		return err
	}
	if r.IsEmpty() {
		return fmt.Errorf("merge: empty range")
	}
	switch w.wb.backend {
	case Standard:
		return w.wb.file.MergeCell(w.sheet, r.Start.Address(), r.End.Address())
	case Streaming:
		s := w.wb.stream(w.sheet)
		s.merges = append(s.merges, r)
		return nil
	}
	return unsupported("merge", w.wb.backend)
}

// Merges returns the merged regions of the current sheet.
func (r *SheetReader) Merges() []Range {
	switch r.wb.backend {
	case Standard:
		cells, err := r.wb.file.GetMergeCells(r.sheet)
		if err != nil {
			r.wb.log.WithError(err).WithField("sheet", r.sheet).Warn("read merged cells")
			return nil
		}
		merges := make([]Range, 0, len(cells))
		for _, mc := range cells {
			merges = append(merges, NewRange(PositionOf(mc.GetStartAxis()), PositionOf(mc.GetEndAxis())))
		}
		return merges
	case Streaming:
		return append([]Range(nil), r.wb.stream(r.sheet).merges...)
	}
	return nil
}

// SetColumnWidth sets the width of columns first..last (zero-based, inclusive).
func (w *SheetWriter) SetColumnWidth(first, last int, width float64) error {
	if err := w.wb.writableSheet("set column width"); err != nil {
		return err
	}
	switch w.wb.backend {
	case Standard:
		return w.wb.file.SetColWidth(w.sheet, ColumnName(first), ColumnName(last), width)
	case Streaming:
		w.wb.stream(w.sheet).setColWidth(first, last, width)
		return nil
	}
	return unsupported("set column width", w.wb.backend)
}
