package engine

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/KaramelBytes/contractboard-cli/internal/aggregate"
	"github.com/KaramelBytes/contractboard-cli/internal/cache"
	"github.com/KaramelBytes/contractboard-cli/internal/dataset"
	"github.com/KaramelBytes/contractboard-cli/internal/filter"
	"github.com/KaramelBytes/contractboard-cli/internal/schema"
	"github.com/google/uuid"
)

// Session owns the dataset cache for one user and runs recomputation passes.
// Calls are expected to be serial; the cache tolerates concurrent use.
type Session struct {
	ID     string
	cfg    Config
	cache  *cache.Datasets
	logger *slog.Logger
	active string
}

// New creates a session. A nil logger discards logs.
func New(cfg Config, logger *slog.Logger) *Session {
	if cfg.DefaultTopN <= 0 {
		cfg.DefaultTopN = DefaultTopN
	}
	if cfg.NumericColumns == nil {
		cfg.NumericColumns = append([]schema.Canonical(nil), schema.DefaultNumeric...)
	}
	id := uuid.NewString()
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	logger = logger.With("session", id)
	return &Session{ID: id, cfg: cfg, cache: cache.New(logger), logger: logger}
}

// CacheStats exposes the session cache counters.
func (s *Session) CacheStats() cache.Stats { return s.cache.Stats() }

// Load returns the normalized dataset for src, reading it only once per source
// identity. Switching to a different source evicts the previously active one.
func (s *Session) Load(ctx context.Context, src dataset.Source) (*schema.Normalized, error) {
	if s.active != "" && s.active != src.ID() {
		s.cache.Invalidate(s.active)
	}
	s.active = src.ID()
	return s.cache.Get(ctx, src, s.normalize)
}

func (s *Session) normalize(ctx context.Context, src dataset.Source) (*schema.Normalized, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	raw, err := dataset.Load(src, s.cfg.Read)
	if err != nil {
		return nil, err
	}
	cm := schema.ResolveColumnMap(raw.Header, s.cfg.Variant, s.cfg.ColumnMap, s.cfg.NumericColumns)
	ds := schema.Normalize(raw, cm, s.cfg.Coerce)
	for col, lost := range ds.Losses {
		s.logger.Debug("non-numeric cells set to null", "source", src.Name, "column", col, "cells", lost)
	}
	s.logger.Info("dataset loaded", "source", src.Name, "rows", ds.Len(), "columns", len(ds.Columns))
	return ds, nil
}

// Compute runs one full pass for a selection: filter, summary metrics and every chart dataset.
func (s *Session) Compute(ctx context.Context, src dataset.Source, sel Selection) (*Dashboard, error) {
	ds, err := s.Load(ctx, src)
	if err != nil {
		return nil, err
	}
	view := filter.Dataset(ds, sel.Predicates(ds)...)
	topN := sel.TopN
	if topN <= 0 {
		topN = s.cfg.DefaultTopN
	}

	total, unitA, unitB := ds.Ref(schema.TotalValue), ds.Ref(schema.UnitA), ds.Ref(schema.UnitB)
	commissioner, provider := ds.Ref(schema.Commissioner), ds.Ref(schema.Provider)
	sum := aggregate.Summarize(view, total, unitA, unitB)

	d := &Dashboard{
		SessionID:    s.ID,
		Source:       src.Name,
		TotalRows:    ds.Len(),
		FilteredRows: view.Len(),
		Options:      filter.Discover(ds),
		Columns:      Columns(ds),
		Metrics: Metrics{
			Contracts:  sum.Rows,
			TotalValue: sum.Metrics[0],
			UnitA:      sum.Metrics[1],
			UnitB:      sum.Metrics[2],
		},
		Filtered: view,
	}

	d.ValueByCommissioner = chart(view, "Total Contract Value (£) by Commissioner", commissioner, total, 0)

	unit := sel.UnitMetric
	if unit != schema.UnitB {
		unit = schema.UnitA
	}
	unitRef := ds.Ref(unit)
	if name, ok := unitRef.Name(); ok {
		d.UnitByCommissioner = chart(view, name+" by Commissioner", commissioner, unitRef, 0)
	}

	d.TopProviders = chart(view, fmt.Sprintf("Top %d Providers by Contract Value (£)", topN), provider, total, topN)
	d.Custom = s.custom(view, d.Columns, sel.CustomGroup, sel.CustomValue)

	s.logger.Info("recomputed", "source", src.Name, "rows", d.TotalRows, "filtered", d.FilteredRows)
	return d, nil
}

// Group aggregates arbitrary columns of the filtered dataset. limit <= 0 keeps every group.
func (s *Session) Group(ctx context.Context, src dataset.Source, sel Selection, group string, values []string, limit int) (*Chart, error) {
	ds, err := s.Load(ctx, src)
	if err != nil {
		return nil, err
	}
	if len(values) == 0 {
		return nil, fmt.Errorf("at least one value column is required")
	}
	view := filter.Dataset(ds, sel.Predicates(ds)...)
	refs := make([]schema.ColumnRef, len(values))
	for i, v := range values {
		refs[i] = ds.RefFor(v)
		col, ok := ds.Column(refs[i])
		switch {
		case !ok:
			s.logger.Warn("value column unavailable", "column", v)
		case col.Role != schema.RoleNumeric:
			s.logger.Warn("value column is not numeric", "column", v, "role", col.Role)
		}
	}
	if !ds.RefFor(group).Available() {
		s.logger.Warn("group column unavailable", "column", group)
	}
	c := &Chart{Title: values[0] + " by " + group, Group: group, Values: values}
	c.Rows = aggregate.GroupAggregate(view, ds.RefFor(group), refs...)
	if limit > 0 && len(c.Rows) > limit {
		c.Rows = c.Rows[:limit]
	}
	return c, nil
}

func (s *Session) custom(view *schema.View, cols ColumnChoices, group, value string) *Chart {
	if len(cols.Categorical) == 0 || len(cols.Numeric) == 0 {
		return nil
	}
	if group == "" {
		group = cols.Categorical[0]
	}
	if value == "" {
		value = cols.Numeric[0]
	}
	if !contains(cols.Categorical, group) || !contains(cols.Numeric, value) {
		s.logger.Warn("custom chart columns not usable", "group", group, "value", value)
		return nil
	}
	ds := view.Dataset()
	return chart(view, value+" by "+group, ds.RefFor(group), ds.RefFor(value), 0)
}

// chart returns nil when either column is unavailable; limit <= 0 keeps every group.
func chart(view *schema.View, title string, group, value schema.ColumnRef, limit int) *Chart {
	gname, gok := group.Name()
	vname, vok := value.Name()
	if !gok || !vok {
		return nil
	}
	var rows []aggregate.Row
	if limit > 0 {
		rows = aggregate.TopN(view, group, value, limit)
	} else {
		rows = aggregate.GroupAggregate(view, group, value)
	}
	return &Chart{Title: title, Group: gname, Values: []string{vname}, Rows: rows}
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
