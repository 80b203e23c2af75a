package xlrw

import "fmt"

// copyRowsStreaming copies rows inside the streaming window cell by cell.
// Source rows must not be flushed yet; destinations must not be flushed.
func copyRowsStreaming(s *streamSheet, srcFirst, srcLast, dst, repeat int, policy CopyPolicy) error {
	if srcFirst < s.flushed {
		return fmt.Errorf("%w: source row %d of sheet %q", ErrRowFlushed, srcFirst+1, s.name)
	}
	span := srcLast - srcFirst + 1

	rows := make([]copiedRow, span)
	for i := range rows {
		r, ok := s.rows[srcFirst+i]
		if !ok {
			continue
		}
		for col, sc := range r.cells {
			rows[i].cells = append(rows[i].cells, copiedCell{
				col:     col,
				value:   sc.value,
				formula: sc.formula,
				style:   sc.style,
				link:    sc.link,
			})
		}
		rows[i].height = r.height
		rows[i].custom = policy.CopyRowHeight && r.height > 0
	}
	var merges []Range
	if policy.CopyMerged {
		merges = anchoredMerges(s.merges, srcFirst, srcLast)
	}

	for k := 0; k < repeat; k++ {
		base := dst + k*span
		for i, row := range rows {
			target := base + i
			r, err := s.rowOfNew(target)
			if err != nil {
				return err
			}
			for _, cc := range row.cells {
				sc, err := s.cellOfNew(target, cc.col)
				if err != nil {
					return err
				}
				writeCopiedStream(sc, target+1, cc, policy)
			}
			if row.custom {
				r.height = row.height
			}
		}
		for _, m := range merges {
			s.merges = append(s.merges, m.Offset(base-srcFirst))
		}
	}
	return nil
}

func writeCopiedStream(sc *streamCell, rowNumber int, cc copiedCell, policy CopyPolicy) {
	switch {
	case policy.CopyFormula && cc.formula != "":
		sc.value, sc.formula = nil, RebuildFormula(cc.formula, rowNumber)
	case policy.CopyValue:
		sc.value, sc.formula = cc.value, ""
	}
	if policy.CopyStyle {
		sc.style = cc.style
	}
	if link, ok := destinationLink(policy, cc.link); ok {
		sc.link = link
	}
}
