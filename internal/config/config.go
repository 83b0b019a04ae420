package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/KaramelBytes/contractboard-cli/internal/utils"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Global configuration structure.
type Global struct {
	// Column naming convention of input files: auto|compact|underscored.
	ColumnVariant string `mapstructure:"column_variant" yaml:"column_variant" validate:"oneof=auto compact underscored"`
	// Per-canonical overrides, e.g. total_value: "Total Value".
	ColumnMap      map[string]string `mapstructure:"column_map" yaml:"column_map,omitempty" validate:"dive,keys,required,endkeys"`
	NumericColumns []string          `mapstructure:"numeric_columns" yaml:"numeric_columns" validate:"dive,required"`
	DefaultTopN    int               `mapstructure:"default_top_n" yaml:"default_top_n" validate:"gte=1"`
	DefaultSource  string            `mapstructure:"default_source" yaml:"default_source"`

	// Parsing
	Delimiter          string `mapstructure:"delimiter" yaml:"delimiter" validate:"omitempty,oneof=comma semicolon tab"`
	ThousandsSeparator string `mapstructure:"thousands_separator" yaml:"thousands_separator" validate:"omitempty,oneof=comma dot space"`
	MaxRows            int    `mapstructure:"max_rows" yaml:"max_rows" validate:"gte=0"`

	LogLevel string `mapstructure:"log_level" yaml:"log_level" validate:"oneof=debug info warn error"`
}

var validate = validator.New()

// Validate checks field constraints.
func (c *Global) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// DelimiterRune maps the configured delimiter name to a rune; 0 means sniff.
func (c *Global) DelimiterRune() rune {
	switch strings.ToLower(c.Delimiter) {
	case "comma":
		return ','
	case "semicolon":
		return ';'
	case "tab":
		return '\t'
	default:
		return 0
	}
}

// ThousandsRune maps the configured thousands separator name to a rune; 0 means strict parsing.
func (c *Global) ThousandsRune() rune {
	switch strings.ToLower(c.ThousandsSeparator) {
	case "comma":
		return ','
	case "dot":
		return '.'
	case "space":
		return ' '
	default:
		return 0
	}
}

func defaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".contractboard"), nil
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.contractboard/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	path := cfgFile
	if path == "" {
		dir, err := defaultDir()
		if err != nil {
			return err
		}
		if err := utils.EnsureDir(dir); err != nil {
			return fmt.Errorf("mkdir config dir: %w", err)
		}
		path = filepath.Join(dir, "config.yaml")
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := utils.SafeWriteFile(path, b); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: env > config file > defaults. Flags are applied by the caller.
func Load(cfgFile string) (*Global, error) {
	v := viper.New()
	v.SetEnvPrefix("CONTRACTBOARD")
	v.AutomaticEnv()

	v.SetDefault("column_variant", "auto")
	v.SetDefault("column_map", map[string]string{})
	v.SetDefault("numeric_columns", []string{"total_value", "unit_a", "unit_b", "general_value", "ortho_value"})
	v.SetDefault("default_top_n", 20)
	v.SetDefault("default_source", "contractannual202506.csv")
	v.SetDefault("delimiter", "")
	v.SetDefault("thousands_separator", "")
	v.SetDefault("max_rows", 0)
	v.SetDefault("log_level", "warn")

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		dir, err := defaultDir()
		if err != nil {
			return nil, err
		}
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	// optional read
	_ = v.ReadInConfig()

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	c.ColumnVariant = strings.ToLower(strings.TrimSpace(c.ColumnVariant))
	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}
