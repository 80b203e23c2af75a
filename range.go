package xlrw

import (
	"iter"
	"strings"
)

// Range is an inclusive rectangle of cells. Callers pass normalised ranges:
// Start is the top-left corner and End the bottom-right one.
type Range struct {
	Start Position
	End   Position
}

// NewRange creates a Range from two positions.
func NewRange(start, end Position) Range {
	return Range{Start: start, End: end}
}

// RowRange creates a Range from zero-based row and column bounds.
func RowRange(firstRow, lastRow, firstCol, lastCol int) Range {
	return Range{Start: PositionAt(firstRow, firstCol), End: PositionAt(lastRow, lastCol)}
}

// RangeOf parses "A1:C3". A single address yields a 1x1 range; malformed
// text yields the empty Range.
func RangeOf(ref string) Range {
	parts := strings.SplitN(ref, ":", 2)
	start := PositionOf(parts[0])
	if start.IsEmpty() {
		return Range{}
	}
	if len(parts) == 1 {
		return Range{Start: start, End: start}
	}
	end := PositionOf(parts[1])
	if end.IsEmpty() {
		return Range{}
	}
	return Range{Start: start, End: end}
}

// IsEmpty reports whether r is the empty sentinel.
func (r Range) IsEmpty() bool {
	return r.Start.IsEmpty() || r.End.IsEmpty()
}

// Rows returns the number of rows covered.
func (r Range) Rows() int {
	return r.End.RowIndex() - r.Start.RowIndex() + 1
}

// Columns returns the number of columns covered.
func (r Range) Columns() int {
	return r.End.ColumnIndex() - r.Start.ColumnIndex() + 1
}

// Contains reports whether the zero-based cell lies inside the range.
func (r Range) Contains(rowIndex, colIndex int) bool {
	return rowIndex >= r.Start.RowIndex() && rowIndex <= r.End.RowIndex() &&
		colIndex >= r.Start.ColumnIndex() && colIndex <= r.End.ColumnIndex()
}

// Offset returns the range moved down by rows (up when negative).
func (r Range) Offset(rows int) Range {
	return Range{Start: r.Start.Offset(rows, 0), End: r.End.Offset(rows, 0)}
}

// Ref returns the native range address, e.g. "A1:C3".
func (r Range) Ref() string {
	return r.Start.Address() + ":" + r.End.Address()
}

func (r Range) String() string {
	if r.IsEmpty() {
		return ""
	}
	return r.Ref()
}

// ForEach calls action for every (rowIndex, colIndex) pair, row-major.
func (r Range) ForEach(action func(rowIndex, colIndex int)) {
	for row, col := range r.All() {
		action(row, col)
	}
}

// All iterates every (rowIndex, colIndex) pair, row-major.
func (r Range) All() iter.Seq2[int, int] {
	return func(yield func(int, int) bool) {
		if r.IsEmpty() {
			return
		}
		for row := r.Start.RowIndex(); row <= r.End.RowIndex(); row++ {
			for col := r.Start.ColumnIndex(); col <= r.End.ColumnIndex(); col++ {
				if !yield(row, col) {
					return
				}
			}
		}
	}
}
