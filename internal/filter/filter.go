package filter

import (
	"github.com/KaramelBytes/contractboard-cli/internal/schema"
)

// Matcher reports whether a parent row satisfies a predicate.
type Matcher func(row int) bool

// Predicate is one filter condition. Compile binds it to a dataset and returns
// nil when the predicate places no restriction on that dataset.
type Predicate interface {
	Compile(ds *schema.Normalized) Matcher
}

// Categorical keeps rows whose value in Column is one of Allowed.
// An empty Allowed set, or a column this dataset does not carry, is no restriction.
type Categorical struct {
	Column  schema.ColumnRef
	Allowed []string
}

func (p Categorical) Compile(ds *schema.Normalized) Matcher {
	if len(p.Allowed) == 0 {
		return nil
	}
	col, ok := ds.Column(p.Column)
	if !ok {
		return nil
	}
	set := make(map[string]struct{}, len(p.Allowed))
	for _, v := range p.Allowed {
		set[v] = struct{}{}
	}
	return func(row int) bool {
		key, ok := col.Key(row)
		if !ok {
			return false
		}
		_, in := set[key]
		return in
	}
}

// Range keeps rows with Low <= value <= High. Null values never match.
// A column that is absent or not numeric is no restriction.
type Range struct {
	Column    schema.ColumnRef
	Low, High float64
}

func (p Range) Compile(ds *schema.Normalized) Matcher {
	col, ok := ds.Column(p.Column)
	if !ok || col.Role != schema.RoleNumeric {
		return nil
	}
	return func(row int) bool {
		v, ok := col.Float(row)
		return ok && p.Low <= v && v <= p.High
	}
}

// Apply returns the rows of view that satisfy every predicate, in their original order.
// Nil predicates are skipped. Apply never fails; predicates that cannot apply are permissive.
func Apply(view *schema.View, preds ...Predicate) *schema.View {
	ds := view.Dataset()
	matchers := make([]Matcher, 0, len(preds))
	for _, p := range preds {
		if p == nil {
			continue
		}
		if m := p.Compile(ds); m != nil {
			matchers = append(matchers, m)
		}
	}
	if len(matchers) == 0 {
		return view
	}

	n := view.Len()
	rows := make([]int, 0, n)
	for i := 0; i < n; i++ {
		r := view.Row(i)
		pass := true
		for _, m := range matchers {
			if !m(r) {
				pass = false
				break
			}
		}
		if pass {
			rows = append(rows, r)
		}
	}
	return schema.Subset(ds, rows)
}

// Dataset applies predicates to every row of ds.
func Dataset(ds *schema.Normalized, preds ...Predicate) *schema.View {
	return Apply(schema.All(ds), preds...)
}
