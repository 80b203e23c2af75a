package xlrw

import (
	"fmt"
	"strings"
	"time"
)

// DataType classifies the content of a cell.
type DataType int

const (
	Text DataType = iota
	Number
	Date
	Percent
)

func (t DataType) String() string {
	switch t {
	case Number:
		return "number"
	case Date:
		return "date"
	case Percent:
		return "percent"
	default:
		return "text"
	}
}

// ParseDataType parses a type name as produced by DataType.String.
func ParseDataType(s string) (DataType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "text", "string", "":
		return Text, nil
	case "number", "numeric":
		return Number, nil
	case "date":
		return Date, nil
	case "percent":
		return Percent, nil
	}
	return Text, fmt.Errorf("unknown data type %q", s)
}

// NoStyle disables style resolution for a Cell or Header.
const NoStyle = -1

// Cell is one logical spreadsheet cell, independent of any engine object.
// When Formula is set it wins over Value on write. SIndex is a style index in
// the style source and is resolved through CloneStyles at write time. Zero,
// the source's default style, and NoStyle both leave the target cell's style
// as it is; use Cursor.WriteStyle to apply style 0 explicitly.
type Cell struct {
	Type    DataType
	Value   any // string, float64, time.Time or nil
	Formula string
	SIndex  int
}

// TextCell creates a text cell.
func TextCell(s string) Cell {
	return Cell{Type: Text, Value: s, SIndex: NoStyle}
}

// NumberCell creates a number cell.
func NumberCell(v float64) Cell {
	return Cell{Type: Number, Value: v, SIndex: NoStyle}
}

// DateCell creates a date cell.
func DateCell(t time.Time) Cell {
	return Cell{Type: Date, Value: t, SIndex: NoStyle}
}

// PercentCell creates a percent cell; 0.25 displays as 25%.
func PercentCell(v float64) Cell {
	return Cell{Type: Percent, Value: v, SIndex: NoStyle}
}

// FormulaCell creates a formula cell. The formula may hold the {0} row placeholder.
func FormulaCell(formula string) Cell {
	return Cell{Type: Number, Formula: formula, SIndex: NoStyle}
}

// WithStyle returns a copy of c referencing the given source style index.
func (c Cell) WithStyle(sindex int) Cell {
	c.SIndex = sindex
	return c
}

// IsEmpty reports whether the cell carries neither a value nor a formula.
func (c Cell) IsEmpty() bool {
	if c.Formula != "" {
		return false
	}
	if s, ok := c.Value.(string); ok {
		return s == ""
	}
	return c.Value == nil
}

// Header describes one logical column of a tabular sheet.
type Header struct {
	Index  int // zero-based column index
	Label  string
	Type   DataType
	Group  string
	Tag    string
	SIndex int
}

// NewHeader creates a text header at the given column index.
func NewHeader(index int, label string) Header {
	return Header{Index: index, Label: label, SIndex: NoStyle}
}

// Position returns the header cell position on the given zero-based row.
func (h Header) Position(rowIndex int) Position {
	return PositionAt(rowIndex, h.Index)
}
