package engine

import (
	"github.com/KaramelBytes/contractboard-cli/internal/aggregate"
	"github.com/KaramelBytes/contractboard-cli/internal/filter"
	"github.com/KaramelBytes/contractboard-cli/internal/schema"
)

// Selection is the user's filter and chart state for one recomputation.
type Selection struct {
	// Empty Commissioners or Prison means every value is selected.
	Commissioners []string
	Prison        []string
	// ValueRange restricts total value when set.
	ValueRange *Range
	// UnitMetric picks unit_a or unit_b for the per-commissioner unit chart.
	UnitMetric schema.Canonical
	// CustomGroup and CustomValue default to the first categorical and numeric column.
	CustomGroup string
	CustomValue string
	// TopN overrides the configured provider ranking size when positive.
	TopN int
}

// Range is an inclusive numeric interval.
type Range struct {
	Low  float64 `json:"low"`
	High float64 `json:"high"`
}

// Predicates returns the full filter list. It is built unconditionally; filters
// on columns the dataset lacks place no restriction.
func (sel Selection) Predicates(ds *schema.Normalized) []filter.Predicate {
	preds := []filter.Predicate{
		filter.Categorical{Column: ds.Ref(schema.Commissioner), Allowed: sel.Commissioners},
		filter.Categorical{Column: ds.Ref(schema.Prison), Allowed: sel.Prison},
	}
	if sel.ValueRange != nil {
		preds = append(preds, filter.Range{Column: ds.Ref(schema.TotalValue), Low: sel.ValueRange.Low, High: sel.ValueRange.High})
	}
	return preds
}

// Metrics are the headline numbers over the filtered rows.
type Metrics struct {
	Contracts  int              `json:"contracts"`
	TotalValue aggregate.Metric `json:"total_value"`
	UnitA      aggregate.Metric `json:"unit_a"`
	UnitB      aggregate.Metric `json:"unit_b"`
}

// Chart is an aggregated table ready for plotting. Values names the summed
// columns in the order of each row's Values.
type Chart struct {
	Title  string          `json:"title"`
	Group  string          `json:"group"`
	Values []string        `json:"values"`
	Rows   []aggregate.Row `json:"rows"`
}

// ColumnChoices lists columns by declared role, for generic chart pickers.
type ColumnChoices struct {
	Categorical []string `json:"categorical"`
	Numeric     []string `json:"numeric"`
	Temporal    []string `json:"temporal,omitempty"`
	Derived     []string `json:"derived,omitempty"`
}

// Columns groups the dataset's columns by role.
func Columns(ds *schema.Normalized) ColumnChoices {
	return ColumnChoices{
		Categorical: ds.NamesByRole(schema.RoleCategorical),
		Numeric:     ds.NamesByRole(schema.RoleNumeric),
		Temporal:    ds.NamesByRole(schema.RoleTemporal),
		Derived:     ds.NamesByRole(schema.RoleDerived),
	}
}

// Dashboard is the result of one recomputation pass. Chart fields are nil when
// the columns they need are unavailable in the dataset.
type Dashboard struct {
	SessionID    string         `json:"session_id"`
	Source       string         `json:"source"`
	TotalRows    int            `json:"total_rows"`
	FilteredRows int            `json:"filtered_rows"`
	Options      filter.Options `json:"options"`
	Columns      ColumnChoices  `json:"columns"`
	Metrics      Metrics        `json:"metrics"`

	ValueByCommissioner *Chart `json:"value_by_commissioner,omitempty"`
	UnitByCommissioner  *Chart `json:"unit_by_commissioner,omitempty"`
	TopProviders        *Chart `json:"top_providers,omitempty"`
	Custom              *Chart `json:"custom,omitempty"`

	Filtered *schema.View `json:"-"`
}
