package filter

import (
	"math"
	"sort"

	"github.com/KaramelBytes/contractboard-cli/internal/schema"
)

// ValueStep is the slider step for the total value range.
const ValueStep = 1000.0

// Options are the choices a presentation layer offers for the standard filters.
type Options struct {
	Commissioners []string    `json:"commissioners,omitempty"`
	Prison        []string    `json:"prison,omitempty"`
	Value         *ValueRange `json:"value,omitempty"`
}

// ValueRange is the bounds of a numeric slider, rounded to whole units.
type ValueRange struct {
	Min  float64 `json:"min"`
	Max  float64 `json:"max"`
	Step float64 `json:"step"`
}

// Discover computes filter options from the full normalized dataset.
// Options for unavailable columns are left empty.
func Discover(ds *schema.Normalized) Options {
	var o Options
	if col, ok := ds.Column(ds.Ref(schema.Commissioner)); ok {
		o.Commissioners = Distinct(col)
	}
	if col, ok := ds.Column(ds.Ref(schema.Prison)); ok {
		o.Prison = Distinct(col)
	}
	if col, ok := ds.Column(ds.Ref(schema.TotalValue)); ok {
		if lo, hi, ok := Bounds(col); ok {
			o.Value = &ValueRange{Min: math.RoundToEven(lo), Max: math.RoundToEven(hi), Step: ValueStep}
		}
	}
	return o
}

// Distinct returns the sorted distinct non-null values of a column.
func Distinct(col *schema.Column) []string {
	seen := make(map[string]struct{})
	var out []string
	for i := 0; i < col.Len(); i++ {
		k, ok := col.Key(i)
		if !ok {
			continue
		}
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Bounds returns the minimum and maximum non-null values of a numeric column.
func Bounds(col *schema.Column) (lo, hi float64, ok bool) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for i := 0; i < col.Len(); i++ {
		v, valid := col.Float(i)
		if !valid {
			continue
		}
		ok = true
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	if !ok {
		return 0, 0, false
	}
	return lo, hi, true
}
