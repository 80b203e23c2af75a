package xlrw

// Record is one materialised row in header order.
type Record struct {
	Row    int // 1-based row number
	labels []string
	values []any
	index  map[string]int
}

func newRecord(row int, size int) *Record {
	return &Record{
		Row:    row,
		labels: make([]string, 0, size),
		values: make([]any, 0, size),
		index:  make(map[string]int, size),
	}
}

func (r *Record) add(label string, value any) {
	if i, ok := r.index[label]; ok {
		r.values[i] = value
		return
	}
	r.index[label] = len(r.labels)
	r.labels = append(r.labels, label)
	r.values = append(r.values, value)
}

// Labels returns the labels in column order.
func (r *Record) Labels() []string {
	return r.labels
}

// Values returns the values in column order.
func (r *Record) Values() []any {
	return r.values
}

// Get returns the value stored under label.
func (r *Record) Get(label string) (any, bool) {
	i, ok := r.index[label]
	if !ok {
		return nil, false
	}
	return r.values[i], true
}

// Len returns the number of fields.
func (r *Record) Len() int {
	return len(r.labels)
}

// Map returns the record as a label→value map. Order is lost.
func (r *Record) Map() map[string]any {
	m := make(map[string]any, len(r.labels))
	for i, l := range r.labels {
		m[l] = r.values[i]
	}
	return m
}
