package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	c, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "auto", c.ColumnVariant)
	assert.Equal(t, 20, c.DefaultTopN)
	assert.Equal(t, "contractannual202506.csv", c.DefaultSource)
	assert.Equal(t, "warn", c.LogLevel)
	assert.Equal(t, []string{"total_value", "unit_a", "unit_b", "general_value", "ortho_value"}, c.NumericColumns)
	assert.Equal(t, rune(0), c.DelimiterRune())
	assert.Equal(t, rune(0), c.ThousandsRune())
}

func TestSaveLoad_RoundTripsThroughFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.yaml")
	c := &Global{
		ColumnVariant:      "underscored",
		ColumnMap:          map[string]string{"total_value": "Total Value"},
		NumericColumns:     []string{"total_value"},
		DefaultTopN:        5,
		DefaultSource:      "x.csv",
		Delimiter:          "semicolon",
		ThousandsSeparator: "dot",
		LogLevel:           "debug",
	}
	require.NoError(t, c.Validate())
	require.NoError(t, Save(c, path))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "underscored", got.ColumnVariant)
	assert.Equal(t, "Total Value", got.ColumnMap["total_value"])
	assert.Equal(t, 5, got.DefaultTopN)
	assert.Equal(t, ';', got.DelimiterRune())
	assert.Equal(t, '.', got.ThousandsRune())
}

func TestSave_DefaultLocation(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	c, err := Load("")
	require.NoError(t, err)
	c.DefaultTopN = 7
	require.NoError(t, Save(c, ""))

	_, err = os.Stat(filepath.Join(home, ".contractboard", "config.yaml"))
	require.NoError(t, err)
	again, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 7, again.DefaultTopN)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("CONTRACTBOARD_DEFAULT_TOP_N", "3")
	c, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 3, c.DefaultTopN)
}

func TestValidate_Rejects(t *testing.T) {
	base := func() *Global {
		return &Global{ColumnVariant: "auto", DefaultTopN: 1, LogLevel: "warn"}
	}
	c := base()
	require.NoError(t, c.Validate())

	c = base()
	c.ColumnVariant = "legacy"
	assert.Error(t, c.Validate())

	c = base()
	c.DefaultTopN = 0
	assert.Error(t, c.Validate())

	c = base()
	c.Delimiter = "pipe"
	assert.Error(t, c.Validate())

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log_level: loud\n"), 0o644))
	_, err := Load(path)
	assert.Error(t, err)
}
