package engine

import (
	"github.com/KaramelBytes/contractboard-cli/internal/dataset"
	"github.com/KaramelBytes/contractboard-cli/internal/schema"
)

// DefaultTopN is the size of the provider ranking.
const DefaultTopN = 20

// Config is what the engine accepts from its host.
type Config struct {
	Variant        schema.Variant
	ColumnMap      map[schema.Canonical]string
	NumericColumns []schema.Canonical
	DefaultTopN    int
	Read           dataset.ReadOptions
	Coerce         schema.CoerceOptions
}

// DefaultConfig auto-detects the naming variant and coerces the standard financial and unit columns.
func DefaultConfig() Config {
	return Config{
		Variant:        schema.VariantAuto,
		NumericColumns: append([]schema.Canonical(nil), schema.DefaultNumeric...),
		DefaultTopN:    DefaultTopN,
	}
}
