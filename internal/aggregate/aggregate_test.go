package aggregate

import (
	"testing"

	"github.com/KaramelBytes/contractboard-cli/internal/dataset"
	"github.com/KaramelBytes/contractboard-cli/internal/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func build(t *testing.T, header []string, rows ...[]string) *schema.Normalized {
	t.Helper()
	raw := &dataset.Table{Header: header, Rows: rows}
	cm := schema.ResolveColumnMap(raw.Header, schema.VariantAuto, nil, schema.DefaultNumeric)
	return schema.Normalize(raw, cm, schema.CoerceOptions{})
}

var header = []string{"COMMISSIONERNAME", "PROVIDERNAME", "TOTALFINVALUE", "CONTRACTEDUDA"}

func TestGroupAggregate_SortsDescending(t *testing.T) {
	ds := build(t, header,
		[]string{"A", "P1", "100", "1"},
		[]string{"B", "P2", "300", "2"},
		[]string{"A", "P3", "50", "3"},
	)
	rows := GroupAggregate(schema.All(ds), ds.Ref(schema.Commissioner), ds.Ref(schema.TotalValue), ds.Ref(schema.UnitA))
	require.Len(t, rows, 2)
	assert.Equal(t, Row{Key: "B", Values: []float64{300, 2}, Count: 1}, rows[0])
	assert.Equal(t, Row{Key: "A", Values: []float64{150, 4}, Count: 2}, rows[1])
}

func TestGroupAggregate_TiesKeepFirstAppearance(t *testing.T) {
	ds := build(t, header,
		[]string{"Z", "", "10", ""},
		[]string{"M", "", "10", ""},
		[]string{"A", "", "10", ""},
	)
	rows := GroupAggregate(schema.All(ds), ds.Ref(schema.Commissioner), ds.Ref(schema.TotalValue))
	keys := make([]string, len(rows))
	for i, r := range rows {
		keys[i] = r.Key
	}
	assert.Equal(t, []string{"Z", "M", "A"}, keys)
}

func TestGroupAggregate_NullKeysAndValues(t *testing.T) {
	ds := build(t, header,
		[]string{"", "", "40", ""},
		[]string{"A", "", "abc", ""},
		[]string{"A", "", "5", ""},
		[]string{"N/A", "", "1", ""},
	)
	rows := GroupAggregate(schema.All(ds), ds.Ref(schema.Commissioner), ds.Ref(schema.TotalValue))
	require.Len(t, rows, 2)
	assert.True(t, rows[0].Null)
	assert.Equal(t, 41.0, rows[0].Values[0])
	assert.Equal(t, 2, rows[0].Count)
	assert.Equal(t, "A", rows[1].Key)
	assert.Equal(t, 5.0, rows[1].Values[0])
}

func TestGroupAggregate_SumsMatchTotal(t *testing.T) {
	ds := build(t, header,
		[]string{"A", "P1", "1.5", ""},
		[]string{"B", "P1", "2.25", ""},
		[]string{"", "P2", "4", ""},
		[]string{"C", "P3", "", ""},
	)
	view := schema.All(ds)
	total := ds.Ref(schema.TotalValue)
	sum := Summarize(view, total)
	var grouped float64
	for _, r := range GroupAggregate(view, ds.Ref(schema.Commissioner), total) {
		grouped += r.Values[0]
	}
	assert.InDelta(t, sum.Metrics[0].Sum, grouped, 1e-9)
	assert.Equal(t, 3, sum.Metrics[0].Count)
}

func TestGroupAggregate_Unavailable(t *testing.T) {
	ds := build(t, []string{"COMMISSIONERNAME"}, []string{"A"})
	view := schema.All(ds)
	assert.Nil(t, GroupAggregate(view, ds.Ref(schema.Commissioner), ds.Ref(schema.TotalValue)))
	assert.Nil(t, GroupAggregate(view, ds.Ref(schema.Provider), ds.Ref(schema.Commissioner)))
	assert.Nil(t, GroupAggregate(view, ds.Ref(schema.Commissioner)))
}

func TestGroupAggregate_EmptyView(t *testing.T) {
	ds := build(t, header, []string{"A", "P", "1", "1"})
	empty := schema.Subset(ds, nil)
	assert.Empty(t, GroupAggregate(empty, ds.Ref(schema.Commissioner), ds.Ref(schema.TotalValue)))
}

func TestTopN(t *testing.T) {
	ds := build(t, header,
		[]string{"A", "P1", "100", ""},
		[]string{"B", "P2", "300", ""},
		[]string{"A", "P1", "50", ""},
	)
	view := schema.All(ds)
	provider, total := ds.Ref(schema.Provider), ds.Ref(schema.TotalValue)

	top := TopN(view, provider, total, 1)
	require.Len(t, top, 1)
	assert.Equal(t, "P2", top[0].Key)

	assert.Len(t, TopN(view, provider, total, 20), 2)
	assert.Empty(t, TopN(view, provider, total, 0))
	assert.Empty(t, TopN(view, provider, total, -1))
}

func TestSummarize(t *testing.T) {
	ds := build(t, header,
		[]string{"A", "P1", "100", "N/A"},
		[]string{"B", "P2", "200", ""},
		[]string{"C", "P3", "N/A", ""},
	)
	view := schema.All(ds)
	s := Summarize(view, ds.Ref(schema.TotalValue), ds.Ref(schema.UnitA), ds.Ref(schema.UnitB))
	assert.Equal(t, 3, s.Rows)
	require.Len(t, s.Metrics, 3)

	assert.True(t, s.Metrics[0].Available)
	assert.Equal(t, 300.0, s.Metrics[0].Sum)
	assert.Equal(t, 2, s.Metrics[0].Count)

	// present but entirely null sums to zero and stays available
	assert.True(t, s.Metrics[1].Available)
	assert.Equal(t, 0.0, s.Metrics[1].Sum)
	assert.Equal(t, 0, s.Metrics[1].Count)

	assert.False(t, s.Metrics[2].Available)

	m, ok := s.Metric("TOTALFINVALUE")
	assert.True(t, ok)
	assert.Equal(t, 300.0, m.Sum)
	_, ok = s.Metric("CONTRACTEDUOA")
	assert.False(t, ok)
}
