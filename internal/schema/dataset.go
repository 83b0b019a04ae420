package schema

import (
	"strconv"
	"time"
)

// Role is the declared kind of a normalized column.
type Role string

const (
	RoleCategorical Role = "categorical"
	RoleNumeric     Role = "numeric"
	RoleTemporal    Role = "temporal"
	RoleDerived     Role = "derived"
)

// Column is one normalized column. Exactly one of text, nums or dates is
// populated according to Role; valid is the non-null mask.
type Column struct {
	Name  string
	Role  Role
	text  []string
	nums  []float64
	dates []time.Time
	valid []bool
}

// Len returns the number of cells.
func (c *Column) Len() int { return len(c.valid) }

// Valid reports whether row i holds a non-null value.
func (c *Column) Valid(i int) bool { return i >= 0 && i < len(c.valid) && c.valid[i] }

// Text returns the string cell of a categorical or temporal column.
func (c *Column) Text(i int) (string, bool) {
	if !c.Valid(i) || c.text == nil {
		return "", false
	}
	return c.text[i], true
}

// Float returns the numeric cell of a numeric column.
func (c *Column) Float(i int) (float64, bool) {
	if !c.Valid(i) || c.nums == nil {
		return 0, false
	}
	return c.nums[i], true
}

// Date returns the calendar date of a derived date column.
func (c *Column) Date(i int) (time.Time, bool) {
	if !c.Valid(i) || c.dates == nil {
		return time.Time{}, false
	}
	return c.dates[i], true
}

// Key returns a string form of any cell, used for grouping and membership tests.
func (c *Column) Key(i int) (string, bool) {
	if !c.Valid(i) {
		return "", false
	}
	switch {
	case c.nums != nil:
		return strconv.FormatFloat(c.nums[i], 'f', -1, 64), true
	case c.dates != nil:
		return c.dates[i].Format("2006-01-02"), true
	default:
		return c.text[i], true
	}
}

// Normalized is an immutable, typed dataset produced by Normalize. It is shared
// read-only between filter and aggregation passes.
type Normalized struct {
	Name    string
	Map     ColumnMap
	Columns []*Column
	// Losses counts cells per column that failed numeric coercion and became null.
	Losses map[string]int

	rows  int
	index map[string]int
}

// Len returns the number of rows.
func (n *Normalized) Len() int {
	if n == nil {
		return 0
	}
	return n.rows
}

// Lookup returns a column by actual name.
func (n *Normalized) Lookup(name string) (*Column, bool) {
	if n == nil {
		return nil, false
	}
	idx, ok := n.index[name]
	if !ok {
		return nil, false
	}
	return n.Columns[idx], true
}

// Column resolves a ref against this dataset. An Unavailable ref, or a ref to
// a column this dataset does not carry, reports false.
func (n *Normalized) Column(ref ColumnRef) (*Column, bool) {
	name, ok := ref.Name()
	if !ok {
		return nil, false
	}
	return n.Lookup(name)
}

// Ref resolves a canonical name to a ref that is Available only if the column exists.
func (n *Normalized) Ref(c Canonical) ColumnRef {
	ref := n.Map.Ref(c)
	if _, ok := n.Column(ref); !ok {
		return Unavailable
	}
	return ref
}

// RefFor returns an Available ref for an actual column name present in the dataset.
func (n *Normalized) RefFor(name string) ColumnRef {
	if _, ok := n.Lookup(name); !ok {
		return Unavailable
	}
	return Available(name)
}

// NamesByRole lists column names of the given role in dataset order.
func (n *Normalized) NamesByRole(role Role) []string {
	if n == nil {
		return nil
	}
	var out []string
	for _, c := range n.Columns {
		if c.Role == role {
			out = append(out, c.Name)
		}
	}
	return out
}

func (n *Normalized) add(c *Column) {
	if n.index == nil {
		n.index = make(map[string]int)
	}
	if idx, ok := n.index[c.Name]; ok {
		n.Columns[idx] = c
		return
	}
	n.index[c.Name] = len(n.Columns)
	n.Columns = append(n.Columns, c)
}
