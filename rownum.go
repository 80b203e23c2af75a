package xlrw

// Rownum is a mutable row cursor shared by a write session. It holds a
// zero-based row index.
type Rownum struct {
	index int
}

// NewRownum creates a Rownum starting at the given zero-based row index.
func NewRownum(start int) *Rownum {
	return &Rownum{index: start}
}

// Next returns the current row index and advances the cursor.
func (r *Rownum) Next() int {
	i := r.index
	r.index++
	return i
}

// Get returns the current 1-based row number.
func (r *Rownum) Get() int {
	return r.index + 1
}

// RowIndex returns the current zero-based row index.
func (r *Rownum) RowIndex() int {
	return r.index
}

// Set moves the cursor to the given zero-based row index.
func (r *Rownum) Set(index int) {
	r.index = index
}
