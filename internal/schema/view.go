package schema

// View is an ordered subset of a Normalized dataset: a list of row indices
// into the parent. Filtering produces views; aggregation reads them.
type View struct {
	ds   *Normalized
	rows []int
}

// All returns a view over every row of ds.
func All(ds *Normalized) *View {
	n := ds.Len()
	rows := make([]int, n)
	for i := range rows {
		rows[i] = i
	}
	return &View{ds: ds, rows: rows}
}

// Subset returns a view over the given parent rows, which must be in ascending order.
func Subset(ds *Normalized, rows []int) *View {
	return &View{ds: ds, rows: rows}
}

// Len returns the number of rows in the view.
func (v *View) Len() int {
	if v == nil {
		return 0
	}
	return len(v.rows)
}

// Row maps a view position to the parent row index.
func (v *View) Row(i int) int { return v.rows[i] }

// Rows returns a copy of the parent row indices.
func (v *View) Rows() []int { return append([]int(nil), v.rows...) }

// Dataset returns the parent dataset.
func (v *View) Dataset() *Normalized {
	if v == nil {
		return nil
	}
	return v.ds
}

// Column resolves a ref against the parent dataset.
func (v *View) Column(ref ColumnRef) (*Column, bool) {
	if v == nil {
		return nil, false
	}
	return v.ds.Column(ref)
}

// Records materializes the view as column-name keyed maps, for raw-data display.
// Null cells are omitted.
func (v *View) Records() []map[string]any {
	if v == nil {
		return nil
	}
	out := make([]map[string]any, 0, len(v.rows))
	for _, r := range v.rows {
		rec := make(map[string]any, len(v.ds.Columns))
		for _, c := range v.ds.Columns {
			switch {
			case !c.Valid(r):
			case c.nums != nil:
				rec[c.Name] = c.nums[r]
			case c.dates != nil:
				rec[c.Name] = c.dates[r].Format("2006-01-02")
			default:
				rec[c.Name] = c.text[r]
			}
		}
		out = append(out, rec)
	}
	return out
}
