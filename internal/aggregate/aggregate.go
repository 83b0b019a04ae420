package aggregate

import (
	"sort"

	"github.com/KaramelBytes/contractboard-cli/internal/schema"
)

// Metric is the sum of one numeric column over a view.
// Available is false when the column is not present, which is distinct from a sum of zero.
type Metric struct {
	Column    string  `json:"column,omitempty"`
	Sum       float64 `json:"sum"`
	Count     int     `json:"count"`
	Available bool    `json:"available"`
}

// Summary holds scalar metrics over a filtered view.
type Summary struct {
	Rows    int      `json:"rows"`
	Metrics []Metric `json:"metrics"`
}

// Metric returns the metric for an actual column name.
func (s Summary) Metric(column string) (Metric, bool) {
	for _, m := range s.Metrics {
		if m.Available && m.Column == column {
			return m, true
		}
	}
	return Metric{}, false
}

// Row is one aggregated group. Values line up with the value columns requested.
// Null marks the group of rows whose key is missing.
type Row struct {
	Key    string    `json:"key"`
	Null   bool      `json:"null,omitempty"`
	Values []float64 `json:"values"`
	Count  int       `json:"count"`
}

// Summarize counts the rows of view and sums each column over its non-null
// values. Metrics[i] corresponds to cols[i].
func Summarize(view *schema.View, cols ...schema.ColumnRef) Summary {
	s := Summary{Rows: view.Len(), Metrics: make([]Metric, len(cols))}
	for i, ref := range cols {
		col, ok := view.Column(ref)
		if !ok || col.Role != schema.RoleNumeric {
			continue
		}
		m := Metric{Column: col.Name, Available: true}
		for k := 0; k < view.Len(); k++ {
			if v, ok := col.Float(view.Row(k)); ok {
				m.Sum += v
				m.Count++
			}
		}
		s.Metrics[i] = m
	}
	return s
}

// GroupAggregate partitions view by the group column and sums each value
// column per group over non-null values. Rows are ordered by the first value
// column, largest first; ties keep the order in which groups first appear.
// Rows with a missing group key form their own group.
//
// An unavailable group column or value column yields no rows.
func GroupAggregate(view *schema.View, group schema.ColumnRef, values ...schema.ColumnRef) []Row {
	if len(values) == 0 || view.Len() == 0 {
		return nil
	}
	gcol, ok := view.Column(group)
	if !ok {
		return nil
	}
	vcols := make([]*schema.Column, len(values))
	for i, ref := range values {
		c, ok := view.Column(ref)
		if !ok || c.Role != schema.RoleNumeric {
			return nil
		}
		vcols[i] = c
	}

	var rows []Row
	index := make(map[string]int)
	nullIdx := -1
	for k := 0; k < view.Len(); k++ {
		r := view.Row(k)
		key, present := gcol.Key(r)
		var at int
		switch {
		case !present:
			if nullIdx < 0 {
				nullIdx = len(rows)
				rows = append(rows, Row{Null: true, Values: make([]float64, len(vcols))})
			}
			at = nullIdx
		default:
			idx, seen := index[key]
			if !seen {
				idx = len(rows)
				index[key] = idx
				rows = append(rows, Row{Key: key, Values: make([]float64, len(vcols))})
			}
			at = idx
		}
		rows[at].Count++
		for j, c := range vcols {
			if v, ok := c.Float(r); ok {
				rows[at].Values[j] += v
			}
		}
	}

	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Values[0] > rows[j].Values[0] })
	return rows
}

// TopN returns the n groups with the largest summed value, largest first.
// Fewer than n groups returns them all; n <= 0 returns none.
func TopN(view *schema.View, group, value schema.ColumnRef, n int) []Row {
	if n <= 0 {
		return nil
	}
	rows := GroupAggregate(view, group, value)
	if len(rows) > n {
		rows = rows[:n]
	}
	return rows
}
