package filter

import (
	"testing"

	"github.com/KaramelBytes/contractboard-cli/internal/dataset"
	"github.com/KaramelBytes/contractboard-cli/internal/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixture(t *testing.T) *schema.Normalized {
	t.Helper()
	raw := &dataset.Table{
		Header: []string{"COMMISSIONERNAME", "PRISONIND", "TOTALFINVALUE"},
		Rows: [][]string{
			{"A", "0", "50"},
			{"B", "1", "100"},
			{"A", "0", "300"},
			{"C", "1", "301"},
			{"", "0", ""},
		},
	}
	cm := schema.ResolveColumnMap(raw.Header, schema.VariantAuto, nil, schema.DefaultNumeric)
	return schema.Normalize(raw, cm, schema.CoerceOptions{})
}

func totals(t *testing.T, v *schema.View) []float64 {
	t.Helper()
	col, ok := v.Column(v.Dataset().Ref(schema.TotalValue))
	require.True(t, ok)
	var out []float64
	for i := 0; i < v.Len(); i++ {
		f, _ := col.Float(v.Row(i))
		out = append(out, f)
	}
	return out
}

func TestRange_Inclusive(t *testing.T) {
	ds := fixture(t)
	v := Dataset(ds, Range{Column: ds.Ref(schema.TotalValue), Low: 100, High: 300})
	assert.Equal(t, []float64{100, 300}, totals(t, v))
}

func TestRange_NonNumericOrMissingColumnIsNoop(t *testing.T) {
	ds := fixture(t)
	v := Dataset(ds, Range{Column: ds.Ref(schema.Commissioner), Low: 0, High: 1})
	assert.Equal(t, ds.Len(), v.Len())
	v = Dataset(ds, Range{Column: schema.Unavailable, Low: 0, High: 1})
	assert.Equal(t, ds.Len(), v.Len())
}

func TestCategorical(t *testing.T) {
	ds := fixture(t)
	com := ds.Ref(schema.Commissioner)

	v := Dataset(ds, Categorical{Column: com, Allowed: []string{"A"}})
	assert.Equal(t, []int{0, 2}, v.Rows())

	v = Dataset(ds, Categorical{Column: com})
	assert.Equal(t, ds.Len(), v.Len(), "an empty selection restricts nothing")

	v = Dataset(ds, Categorical{Column: ds.Ref(schema.Provider), Allowed: []string{"X"}})
	assert.Equal(t, ds.Len(), v.Len(), "an absent column restricts nothing")

	v = Dataset(ds, Categorical{Column: ds.Ref(schema.Prison), Allowed: []string{"1"}})
	assert.Equal(t, []int{1, 3}, v.Rows())
}

func TestApply_OrderIdempotentCommutative(t *testing.T) {
	ds := fixture(t)
	cat := Categorical{Column: ds.Ref(schema.Commissioner), Allowed: []string{"A", "C"}}
	rng := Range{Column: ds.Ref(schema.TotalValue), Low: 60, High: 1000}

	ab := Dataset(ds, cat, rng)
	ba := Dataset(ds, rng, cat)
	assert.Equal(t, []int{2, 3}, ab.Rows())
	assert.Equal(t, ab.Rows(), ba.Rows())

	again := Apply(ab, cat, rng)
	assert.Equal(t, ab.Rows(), again.Rows())

	stepwise := Apply(Dataset(ds, cat), rng)
	assert.Equal(t, ab.Rows(), stepwise.Rows())
}

func TestApply_NoPredicates(t *testing.T) {
	ds := fixture(t)
	all := schema.All(ds)
	assert.Same(t, all, Apply(all))
	assert.Same(t, all, Apply(all, nil))
}

func TestApply_EmptyResultKeepsColumns(t *testing.T) {
	ds := fixture(t)
	v := Dataset(ds, Range{Column: ds.Ref(schema.TotalValue), Low: 1e9, High: 2e9})
	assert.Equal(t, 0, v.Len())
	assert.Same(t, ds, v.Dataset())
	assert.Empty(t, v.Records())
}

func TestDiscover(t *testing.T) {
	ds := fixture(t)
	o := Discover(ds)
	assert.Equal(t, []string{"A", "B", "C"}, o.Commissioners)
	assert.Equal(t, []string{"0", "1"}, o.Prison)
	require.NotNil(t, o.Value)
	assert.Equal(t, ValueRange{Min: 50, Max: 301, Step: ValueStep}, *o.Value)
}

func TestDiscover_MissingColumns(t *testing.T) {
	raw := &dataset.Table{Header: []string{"PROVIDERNAME"}, Rows: [][]string{{"P"}}}
	ds := schema.Normalize(raw, schema.ResolveColumnMap(raw.Header, schema.VariantAuto, nil, nil), schema.CoerceOptions{})
	o := Discover(ds)
	assert.Empty(t, o.Commissioners)
	assert.Empty(t, o.Prison)
	assert.Nil(t, o.Value)
}
