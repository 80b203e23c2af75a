package xlrw

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestColumnName(t *testing.T) {
	assert.Equal(t, "A", ColumnName(0))
	assert.Equal(t, "Z", ColumnName(25))
	assert.Equal(t, "AA", ColumnName(26))
	assert.Equal(t, "AZ", ColumnName(51))
	assert.Equal(t, "ZZ", ColumnName(701))
	assert.Equal(t, "AAA", ColumnName(702))
	assert.Equal(t, "", ColumnName(-1))
}

func TestColumnIndexOf(t *testing.T) {
	assert.Equal(t, 0, ColumnIndexOf("A"))
	assert.Equal(t, 27, ColumnIndexOf("ab"))
	assert.Equal(t, -1, ColumnIndexOf(""))
	assert.Equal(t, -1, ColumnIndexOf("A1"))
}

func TestColumnIndex_Bijection(t *testing.T) {
	for i := 0; i < 1000; i++ {
		p := PositionOfColumn(i)
		assert.Equal(t, i, p.ColumnIndex(), "column %s", p.Column)
	}
}

func TestPositionOf_RoundTrip(t *testing.T) {
	for col := 0; col < ColumnIndexOf("ZZ")+1; col++ {
		for _, row := range []int{1, 9, 10, 1048576} {
			addr := ColumnName(col) + strconv.Itoa(row)
			p := PositionOf(addr)
			assert.Equal(t, addr, p.Address())
			assert.Equal(t, row-1, p.RowIndex())
			assert.Equal(t, col, p.ColumnIndex())
		}
	}
}

func TestPositionOf_Normalises(t *testing.T) {
	assert.Equal(t, NewPosition(12, "AB"), PositionOf("$AB$12"))
	assert.Equal(t, NewPosition(3, "C"), PositionOf(" c3 "))
}

func TestPositionOf_Malformed(t *testing.T) {
	for _, addr := range []string{"", "A", "12", "1A", "A0", "A-1", "A1:B2", "Sheet1!A1"} {
		p := PositionOf(addr)
		assert.True(t, p.IsEmpty(), "address %q", addr)
		assert.Equal(t, "", p.String())
	}
}

func TestPosition_Offset(t *testing.T) {
	p := PositionOf("B2")
	assert.Equal(t, "D5", p.Offset(3, 2).Address())
	assert.Equal(t, "A1", p.Offset(-1, -1).Address())
}

func TestPositionAt(t *testing.T) {
	p := PositionAt(4, 2)
	assert.Equal(t, 5, p.Row)
	assert.Equal(t, "C", p.Column)
	assert.Equal(t, "C5", p.String())
}

