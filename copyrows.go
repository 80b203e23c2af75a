package xlrw

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// CopyPolicy selects what a row copy duplicates. Each flag is independent.
type CopyPolicy struct {
	CopyValue     bool // values, and cached results of formulas not copied as formulas
	CopyFormula   bool // formulas, relocated to the destination row
	CopyStyle     bool
	CopyMerged    bool // merged regions anchored in the source rows
	CopyHyperlink bool
	// MergeHyperlink keeps a destination link when the source cell has
	// none. Otherwise destination links are replaced or removed.
	MergeHyperlink bool
	CopyRowHeight  bool
}

// DefaultCopyPolicy copies everything and replaces destination links.
func DefaultCopyPolicy() CopyPolicy {
	return CopyPolicy{
		CopyValue:     true,
		CopyFormula:   true,
		CopyStyle:     true,
		CopyMerged:    true,
		CopyHyperlink: true,
		CopyRowHeight: true,
	}
}

// copiedCell is a source cell captured before any destination is written.
type copiedCell struct {
	col     int
	value   any
	formula string
	style   int
	link    string
}

// copiedRow is a source row captured before any destination is written.
type copiedRow struct {
	cells  []copiedCell
	height float64
	custom bool // height known and to be copied
}

// CopyRow copies one row to dst, repeat times on consecutive rows.
func (w *SheetWriter) CopyRow(src, dst, repeat int, policy CopyPolicy) error {
	return w.CopyRows(src, src, dst, repeat, policy)
}

// CopyRows copies rows srcFirst..srcLast (zero-based, inclusive) to dst,
// repeat times; copy k starts at dst + k*span.
//
// Formulas are relocated with RebuildFormula: every relative row number
// becomes the destination row number. Formulas that reference one row move
// correctly; "A1+A2+A3" copied to row 10 becomes "A10+A10+A10".
func (w *SheetWriter) CopyRows(srcFirst, srcLast, dst, repeat int, policy CopyPolicy) error {
	if err := w.wb.writableSheet("copy rows"); err != nil {
		return err
	}
	if srcFirst < 0 || srcLast < srcFirst || dst < 0 {
		return fmt.Errorf("copy rows: invalid rows %d-%d to %d", srcFirst, srcLast, dst)
	}
	if repeat < 1 {
		return nil
	}
	w.wb.log.WithField("sheet", w.sheet).Debugf("copy rows %d-%d to %d x%d", srcFirst+1, srcLast+1, dst+1, repeat)
	var err error
	switch w.wb.backend {
	case Standard:
		err = copyRowsStandard(w.wb, w.sheet, srcFirst, srcLast, dst, repeat, policy)
	case Streaming:
		err = copyRowsStreaming(w.wb.stream(w.sheet), srcFirst, srcLast, dst, repeat, policy)
	default:
		return unsupported("copy rows", w.wb.backend)
	}
	if err != nil {
		return NewBackendError("copy rows", w.wb.backend, err)
	}
	return nil
}

// anchoredMerges returns the merged regions whose top-left cell lies in
// rows first..last.
func anchoredMerges(merges []Range, first, last int) []Range {
	var anchored []Range
	for _, m := range merges {
		if row := m.Start.RowIndex(); row >= first && row <= last {
			anchored = append(anchored, m)
		}
	}
	return anchored
}

// destinationLink decides the link a destination cell ends up with and
// whether it must be written at all.
func destinationLink(policy CopyPolicy, source string) (string, bool) {
	if !policy.CopyHyperlink {
		return "", false
	}
	if source == "" && policy.MergeHyperlink {
		return "", false
	}
	return source, true
}

func copyRowsStandard(wb *workbook, sheet string, srcFirst, srcLast, dst, repeat int, policy CopyPolicy) error {
	f := wb.file
	widths := wb.widths(sheet)
	span := srcLast - srcFirst + 1

	rows := make([]copiedRow, span)
	for i := range rows {
		index := srcFirst + i
		if index < len(widths) {
			for col := 0; col < widths[index]; col++ {
				ref := PositionAt(index, col).Address()
				rc := standardCell(wb, sheet, ref)
				cc := copiedCell{col: col, value: rc.value, formula: rc.formula, style: rc.style}
				if ok, target, err := f.GetCellHyperLink(sheet, ref); err == nil && ok {
					cc.link = target
				}
				rows[i].cells = append(rows[i].cells, cc)
			}
		}
		if policy.CopyRowHeight {
			if h, err := f.GetRowHeight(sheet, index+1); err == nil {
				rows[i].height, rows[i].custom = h, true
			}
		}
	}
	var merges []Range
	if policy.CopyMerged {
		cells, err := f.GetMergeCells(sheet)
		if err != nil {
			return err
		}
		all := make([]Range, 0, len(cells))
		for _, mc := range cells {
			all = append(all, NewRange(PositionOf(mc.GetStartAxis()), PositionOf(mc.GetEndAxis())))
		}
		merges = anchoredMerges(all, srcFirst, srcLast)
	}

	defer wb.touch(sheet)
	for k := 0; k < repeat; k++ {
		base := dst + k*span
		for i, row := range rows {
			target := base + i
			for _, cc := range row.cells {
				if err := writeCopiedStandard(f, sheet, PositionAt(target, cc.col).Address(), target+1, cc, policy); err != nil {
					return err
				}
			}
			if row.custom {
				if err := f.SetRowHeight(sheet, target+1, row.height); err != nil {
					return err
				}
			}
		}
		for _, m := range merges {
			moved := m.Offset(base - srcFirst)
			if err := f.MergeCell(sheet, moved.Start.Address(), moved.End.Address()); err != nil {
				return fmt.Errorf("merge %s: %w", moved.Ref(), err)
			}
		}
	}
	return nil
}

func writeCopiedStandard(f *excelize.File, sheet, ref string, rowNumber int, cc copiedCell, policy CopyPolicy) error {
	switch {
	case policy.CopyFormula && cc.formula != "":
		if err := f.SetCellDefault(sheet, ref, ""); err != nil {
			return err
		}
		if err := f.SetCellFormula(sheet, ref, RebuildFormula(cc.formula, rowNumber)); err != nil {
			return err
		}
	case policy.CopyValue:
		var err error
		if cc.value == nil {
			err = f.SetCellDefault(sheet, ref, "")
		} else {
			err = f.SetCellValue(sheet, ref, cc.value)
		}
		if err != nil {
			return err
		}
	}
	if policy.CopyStyle {
		if err := f.SetCellStyle(sheet, ref, ref, cc.style); err != nil {
			return err
		}
	}
	if link, ok := destinationLink(policy, cc.link); ok {
		if err := f.SetCellHyperLink(sheet, ref, link, linkType(link)); err != nil {
			return err
		}
	}
	return nil
}
