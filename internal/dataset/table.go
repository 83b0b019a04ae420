package dataset

// Table is a raw delimited dataset: a header and string rows of the same width.
// Cells are kept exactly as read; typing happens during normalization.
type Table struct {
	Name   string
	Header []string
	Rows   [][]string
}

// Len returns the number of data rows.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// Index returns the position of a header column by exact name.
func (t *Table) Index(name string) (int, bool) {
	if t == nil {
		return 0, false
	}
	for i, h := range t.Header {
		if h == name {
			return i, true
		}
	}
	return 0, false
}

// Column returns a copy of the cells of the named column.
func (t *Table) Column(name string) ([]string, bool) {
	idx, ok := t.Index(name)
	if !ok {
		return nil, false
	}
	out := make([]string, len(t.Rows))
	for i, row := range t.Rows {
		out[i] = row[idx]
	}
	return out, true
}
