package xlrw

import (
	"regexp"
	"strconv"
	"strings"
)

// addressRegex matches a single cell address such as "A1" or "$AB$12".
var addressRegex = regexp.MustCompile(`^\$?([A-Z]+)\$?([0-9]+)$`)

// Position is a cell coordinate: a 1-based row number and a column name.
// The zero value is the empty sentinel returned for malformed addresses.
type Position struct {
	Row    int    // 1-based row number
	Column string // column letters, e.g. "AB"
}

// NewPosition builds a Position from a 1-based row number and a column name.
func NewPosition(row int, column string) Position {
	return Position{Row: row, Column: strings.ToUpper(column)}
}

// PositionAt builds a Position from zero-based row and column indices.
func PositionAt(rowIndex, colIndex int) Position {
	return Position{Row: rowIndex + 1, Column: ColumnName(colIndex)}
}

// PositionOfColumn builds a Position holding only the column for a zero-based
// column index. Row is left 0.
func PositionOfColumn(colIndex int) Position {
	return Position{Column: ColumnName(colIndex)}
}

// PositionOf parses an address like "AB12". Absolute markers and lower-case
// letters are accepted. Malformed input yields the empty Position, never an
// error; callers check IsEmpty.
func PositionOf(address string) Position {
	m := addressRegex.FindStringSubmatch(strings.ToUpper(strings.TrimSpace(address)))
	if m == nil {
		return Position{}
	}
	row, err := strconv.Atoi(m[2])
	if err != nil || row < 1 {
		return Position{}
	}
	return Position{Row: row, Column: m[1]}
}

// IsEmpty reports whether p is the empty sentinel.
func (p Position) IsEmpty() bool {
	return p.Column == "" && p.Row == 0
}

// RowIndex returns the zero-based row index.
func (p Position) RowIndex() int {
	return p.Row - 1
}

// ColumnIndex returns the zero-based column index, or -1 when the column is empty.
func (p Position) ColumnIndex() int {
	return ColumnIndexOf(p.Column)
}

// Address formats the position as "AB12".
func (p Position) Address() string {
	return p.Column + strconv.Itoa(p.Row)
}

func (p Position) String() string {
	if p.IsEmpty() {
		return ""
	}
	return p.Address()
}

// Offset returns the position moved by the given number of rows and columns.
func (p Position) Offset(rows, cols int) Position {
	return PositionAt(p.RowIndex()+rows, p.ColumnIndex()+cols)
}

// ColumnName converts a zero-based column index to its name.
// 0→"A", 25→"Z", 26→"AA", 702→"AAA"
func ColumnName(index int) string {
	if index < 0 {
		return ""
	}
	var buf []byte
	n := index + 1
	for n > 0 {
		n--
		buf = append(buf, byte('A'+n%26))
		n /= 26
	}
	for i, j := 0, len(buf)-1; i < j; i, j = i+1, j-1 {
		buf[i], buf[j] = buf[j], buf[i]
	}
	return string(buf)
}

// ColumnIndexOf converts a column name to a zero-based index.
// "A"→0, "Z"→25, "AA"→26. Returns -1 for an empty or invalid name.
func ColumnIndexOf(name string) int {
	if name == "" {
		return -1
	}
	value := 0
	for _, ch := range strings.ToUpper(name) {
		if ch < 'A' || ch > 'Z' {
			return -1
		}
		value = 26*value + int(ch-'A'+1)
	}
	return value - 1
}
