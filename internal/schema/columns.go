package schema

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Canonical is a semantic column name independent of any file's naming convention.
type Canonical string

const (
	TotalValue   Canonical = "total_value"
	UnitA        Canonical = "unit_a"
	UnitB        Canonical = "unit_b"
	Commissioner Canonical = "commissioner"
	Provider     Canonical = "provider"
	Prison       Canonical = "prison"
	YearMonth    Canonical = "year_month"
	GeneralValue Canonical = "general_value"
	OrthoValue   Canonical = "ortho_value"

	// Derived by Normalize from YearMonth; never present in raw input.
	YearMonthText Canonical = "year_month_text"
	YearMonthDate Canonical = "year_month_date"
)

// DefaultNumeric lists the canonical columns coerced to numbers unless configured otherwise.
var DefaultNumeric = []Canonical{TotalValue, UnitA, UnitB, GeneralValue, OrthoValue}

// Variant is a column naming convention.
type Variant string

const (
	VariantAuto        Variant = "auto"
	VariantCompact     Variant = "compact"
	VariantUnderscored Variant = "underscored"
)

var variants = map[Variant]map[Canonical]string{
	VariantCompact: {
		TotalValue:   "TOTALFINVALUE",
		UnitA:        "CONTRACTEDUDA",
		UnitB:        "CONTRACTEDUOA",
		Commissioner: "COMMISSIONERNAME",
		Provider:     "PROVIDERNAME",
		Prison:       "PRISONIND",
		YearMonth:    "YEARMONTH",
		GeneralValue: "GENERALDENTFINVALUE",
		OrthoValue:   "ORTHOFINVALUE",
	},
	VariantUnderscored: {
		TotalValue:   "TOTAL_FIN_VALUE",
		UnitA:        "CONTRACTED_UDA",
		UnitB:        "CONTRACTED_UOA",
		Commissioner: "COMMISSIONER_NAME",
		Provider:     "PROVIDER_NAME",
		Prison:       "PRISON_IND",
		YearMonth:    "YEAR_MONTH",
		GeneralValue: "GENERAL_DENT_FIN_VALUE",
		OrthoValue:   "ORTHO_FIN_VALUE",
	},
}

// ParseVariant maps a config string to a Variant. Unknown or empty values mean auto.
func ParseVariant(s string) Variant {
	switch Variant(strings.ToLower(strings.TrimSpace(s))) {
	case VariantCompact:
		return VariantCompact
	case VariantUnderscored:
		return VariantUnderscored
	default:
		return VariantAuto
	}
}

// ColumnRef is an optional capability: either Available with the actual column
// name in this dataset, or Unavailable. Operations take refs instead of
// re-checking column presence inline.
type ColumnRef struct {
	name string
	ok   bool
}

// Unavailable is the ref of a column this dataset does not carry.
var Unavailable = ColumnRef{}

// Available returns a ref to an actual column name.
func Available(name string) ColumnRef { return ColumnRef{name: name, ok: true} }

// Name returns the actual column name and whether the ref is available.
func (r ColumnRef) Name() (string, bool) { return r.name, r.ok }

// Available reports whether the ref points at a column.
func (r ColumnRef) Available() bool { return r.ok }

func (r ColumnRef) String() string {
	if !r.ok {
		return "(unavailable)"
	}
	return r.name
}

// ColumnMap binds canonical names to refs for one dataset instance and records
// which canonicals are numeric.
type ColumnMap struct {
	refs    map[Canonical]ColumnRef
	numeric []Canonical
}

// NewColumnMap builds a map from explicit actual names. Empty names are Unavailable.
func NewColumnMap(actual map[Canonical]string, numeric []Canonical) ColumnMap {
	m := ColumnMap{refs: make(map[Canonical]ColumnRef, len(actual)), numeric: append([]Canonical(nil), numeric...)}
	for c, name := range actual {
		if name != "" {
			m.refs[c] = Available(name)
		}
	}
	return m
}

// Ref returns the ref bound to a canonical name.
func (m ColumnMap) Ref(c Canonical) ColumnRef {
	if m.refs == nil {
		return Unavailable
	}
	return m.refs[c]
}

// Numeric returns the canonicals configured as numeric.
func (m ColumnMap) Numeric() []Canonical { return append([]Canonical(nil), m.numeric...) }

// Canonicals returns every canonical with an available ref.
func (m ColumnMap) Canonicals() map[Canonical]string {
	out := make(map[Canonical]string, len(m.refs))
	for c, r := range m.refs {
		if name, ok := r.Name(); ok {
			out[c] = name
		}
	}
	return out
}

func (m ColumnMap) with(c Canonical, r ColumnRef) ColumnMap {
	out := ColumnMap{refs: make(map[Canonical]ColumnRef, len(m.refs)+1), numeric: m.numeric}
	for k, v := range m.refs {
		out.refs[k] = v
	}
	out.refs[c] = r
	return out
}

// ResolveColumnMap binds canonical names to the columns present in header.
// Overrides win over the variant's naming. Names match after trimming, NFC
// normalization, accent removal and case folding. Canonicals that are not
// built in (extra numeric columns) match a header column of the same name.
func ResolveColumnMap(header []string, variant Variant, overrides map[Canonical]string, numeric []Canonical) ColumnMap {
	folded := make(map[string]string, len(header))
	for _, h := range header {
		k := foldName(h)
		if _, dup := folded[k]; !dup {
			folded[k] = h
		}
	}
	lookup := func(name string) (string, bool) {
		if name == "" {
			return "", false
		}
		actual, ok := folded[foldName(name)]
		return actual, ok
	}

	m := ColumnMap{refs: make(map[Canonical]ColumnRef), numeric: append([]Canonical(nil), numeric...)}
	wanted := make(map[Canonical]struct{})
	for c := range variants[VariantCompact] {
		wanted[c] = struct{}{}
	}
	for c := range overrides {
		wanted[c] = struct{}{}
	}
	for _, c := range numeric {
		wanted[c] = struct{}{}
	}

	for c := range wanted {
		if name, ok := overrides[c]; ok && name != "" {
			if actual, ok := lookup(name); ok {
				m.refs[c] = Available(actual)
			}
			continue
		}
		if actual, ok := lookupVariant(c, variant, lookup); ok {
			m.refs[c] = Available(actual)
			continue
		}
		if _, builtin := variants[VariantCompact][c]; !builtin {
			if actual, ok := lookup(string(c)); ok {
				m.refs[c] = Available(actual)
			}
		}
	}
	return m
}

func lookupVariant(c Canonical, v Variant, lookup func(string) (string, bool)) (string, bool) {
	if v != VariantAuto {
		return lookup(variants[v][c])
	}
	for _, candidate := range []Variant{VariantCompact, VariantUnderscored} {
		if actual, ok := lookup(variants[candidate][c]); ok {
			return actual, true
		}
	}
	return "", false
}

// foldName is the comparison key for column names.
func foldName(s string) string {
	s = strings.TrimSpace(strings.TrimPrefix(s, "\uFEFF"))
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	ascii, _, err := transform.String(t, s)
	if err != nil {
		ascii = s
	}
	return strings.ToLower(ascii)
}
