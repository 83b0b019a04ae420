package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	cfgpkg "github.com/KaramelBytes/contractboard-cli/internal/config"
	"github.com/KaramelBytes/contractboard-cli/internal/engine"
	"github.com/KaramelBytes/contractboard-cli/internal/schema"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile string
	debug   bool
	// Column mapping flags (override config if set)
	flagVariant   string
	flagColumnMap map[string]string

	// Loaded configuration
	cfg *cfgpkg.Global

	appLogger *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "contractboard",
	Short: "contractboard: filter and aggregate contract datasets",
	Long: `contractboard loads a delimited file of contract records, narrows it by commissioner,
prison indicator and value range, and prints summary metrics and grouped totals.`,
	SilenceUsage: true,
}

// Execute is the entry point called by main.main()
func Execute() {
	// Initialize configuration before executing commands
	cobra.OnInitialize(loadConfig)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.contractboard/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug output")
	rootCmd.PersistentFlags().StringVar(&flagVariant, "variant", "", "column naming variant: auto|compact|underscored (overrides config)")
	rootCmd.PersistentFlags().StringToStringVar(&flagColumnMap, "column", nil, "canonical=ACTUAL column override, e.g. total_value=TOTAL (repeatable)")
}

func loadConfig() {
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		// Non-fatal: commands fall back to built-in defaults
		warnf("failed to load config: %v", err)
		return
	}
	cfg = c
}

// logger builds the process logger lazily so tests that bypass Execute still get one.
func logger() *slog.Logger {
	if appLogger != nil {
		return appLogger
	}
	level := slog.LevelWarn
	if cfg != nil {
		switch cfg.LogLevel {
		case "debug":
			level = slog.LevelDebug
		case "info":
			level = slog.LevelInfo
		case "error":
			level = slog.LevelError
		}
	}
	if debug {
		level = slog.LevelDebug
	}
	appLogger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	return appLogger
}

func interactive() bool {
	fd := os.Stderr.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// statusf prints a human progress line to stderr when it is a terminal.
func statusf(format string, args ...any) {
	if !interactive() {
		return
	}
	fmt.Fprintf(os.Stderr, format+"\n", args...)
}

func warnf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "⚠ Warning: "+format+"\n", args...)
}

// engineConfig merges built-in defaults, loaded config and command flags.
func engineConfig(delimiter, thousands string) (engine.Config, error) {
	ec := engine.DefaultConfig()
	if cfg != nil {
		ec.Variant = schema.ParseVariant(cfg.ColumnVariant)
		if len(cfg.NumericColumns) > 0 {
			ec.NumericColumns = toCanonicals(cfg.NumericColumns)
		}
		if cfg.DefaultTopN > 0 {
			ec.DefaultTopN = cfg.DefaultTopN
		}
		ec.ColumnMap = toColumnMap(cfg.ColumnMap)
		ec.Read.Delimiter = cfg.DelimiterRune()
		ec.Read.MaxRows = cfg.MaxRows
		ec.Coerce.ThousandsSeparator = cfg.ThousandsRune()
	}
	if flagVariant != "" {
		switch v := strings.ToLower(strings.TrimSpace(flagVariant)); v {
		case "auto", "compact", "underscored":
			ec.Variant = schema.Variant(v)
		default:
			return ec, fmt.Errorf("unsupported --variant: %s (use auto|compact|underscored)", flagVariant)
		}
	}
	if len(flagColumnMap) > 0 {
		if ec.ColumnMap == nil {
			ec.ColumnMap = map[schema.Canonical]string{}
		}
		for k, v := range toColumnMap(flagColumnMap) {
			ec.ColumnMap[k] = v
		}
	}
	switch delimiter {
	case "":
	case ",":
		ec.Read.Delimiter = ','
	case "\t", "tab":
		ec.Read.Delimiter = '\t'
	case ";":
		ec.Read.Delimiter = ';'
	default:
		return ec, fmt.Errorf("unsupported --delimiter: %s", delimiter)
	}
	switch strings.ToLower(strings.TrimSpace(thousands)) {
	case "":
	case ",", "comma":
		ec.Coerce.ThousandsSeparator = ','
	case ".", "dot":
		ec.Coerce.ThousandsSeparator = '.'
	case "space", " ":
		ec.Coerce.ThousandsSeparator = ' '
	default:
		return ec, fmt.Errorf("unsupported --thousands: %s (use ','|'.'|'space')", thousands)
	}
	return ec, nil
}

func toCanonicals(names []string) []schema.Canonical {
	out := make([]schema.Canonical, 0, len(names))
	for _, n := range names {
		if n = strings.TrimSpace(n); n != "" {
			out = append(out, schema.Canonical(n))
		}
	}
	return out
}

func toColumnMap(m map[string]string) map[schema.Canonical]string {
	if len(m) == 0 {
		return nil
	}
	out := make(map[schema.Canonical]string, len(m))
	for k, v := range m {
		out[schema.Canonical(strings.ToLower(strings.TrimSpace(k)))] = strings.TrimSpace(v)
	}
	return out
}
