package cmd

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	cfgpkg "github.com/KaramelBytes/contractboard-cli/internal/config"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or set contractboard configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		w := cmd.OutOrStdout()
		if cfg == nil {
			fmt.Fprintln(w, "No config loaded")
			return nil
		}
		fmt.Fprintf(w, "column_variant: %s\n", cfg.ColumnVariant)
		if len(cfg.ColumnMap) > 0 {
			keys := make([]string, 0, len(cfg.ColumnMap))
			for k := range cfg.ColumnMap {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			fmt.Fprintln(w, "column_map:")
			for _, k := range keys {
				fmt.Fprintf(w, "  %s: %s\n", k, cfg.ColumnMap[k])
			}
		}
		fmt.Fprintf(w, "numeric_columns: %s\n", strings.Join(cfg.NumericColumns, ","))
		fmt.Fprintf(w, "default_top_n: %d\n", cfg.DefaultTopN)
		fmt.Fprintf(w, "default_source: %s\n", cfg.DefaultSource)
		if cfg.Delimiter != "" {
			fmt.Fprintf(w, "delimiter: %s\n", cfg.Delimiter)
		}
		if cfg.ThousandsSeparator != "" {
			fmt.Fprintf(w, "thousands_separator: %s\n", cfg.ThousandsSeparator)
		}
		if cfg.MaxRows > 0 {
			fmt.Fprintf(w, "max_rows: %d\n", cfg.MaxRows)
		}
		fmt.Fprintf(w, "log_level: %s\n", cfg.LogLevel)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value and save to disk",
	Long: `Set a config value and save to disk.

Column overrides use the key column_map.<canonical>, e.g.
  contractboard config set column_map.total_value "Total Value"
An empty value removes the override.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, val := args[0], args[1]
		if cfg == nil {
			c, err := cfgpkg.Load(cfgFile)
			if err != nil {
				return err
			}
			cfg = c
		}
		switch {
		case key == "column_variant":
			cfg.ColumnVariant = strings.ToLower(val)
		case strings.HasPrefix(key, "column_map."):
			canon := strings.ToLower(strings.TrimPrefix(key, "column_map."))
			if canon == "" {
				return fmt.Errorf("missing canonical name in %s", key)
			}
			if cfg.ColumnMap == nil {
				cfg.ColumnMap = map[string]string{}
			}
			if val == "" {
				delete(cfg.ColumnMap, canon)
			} else {
				cfg.ColumnMap[canon] = val
			}
		case key == "numeric_columns":
			var cols []string
			for _, c := range strings.Split(val, ",") {
				if c = strings.TrimSpace(c); c != "" {
					cols = append(cols, c)
				}
			}
			cfg.NumericColumns = cols
		case key == "default_top_n":
			i, err := strconv.Atoi(val)
			if err != nil {
				return fmt.Errorf("invalid int for default_top_n: %w", err)
			}
			cfg.DefaultTopN = i
		case key == "default_source":
			cfg.DefaultSource = val
		case key == "delimiter":
			cfg.Delimiter = strings.ToLower(val)
		case key == "thousands_separator":
			cfg.ThousandsSeparator = strings.ToLower(val)
		case key == "max_rows":
			i, err := strconv.Atoi(val)
			if err != nil {
				return fmt.Errorf("invalid int for max_rows: %w", err)
			}
			cfg.MaxRows = i
		case key == "log_level":
			cfg.LogLevel = strings.ToLower(val)
		default:
			return fmt.Errorf("unknown key: %s", key)
		}
		if err := cfg.Validate(); err != nil {
			return err
		}
		if err := cfgpkg.Save(cfg, cfgFile); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Saved config")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}
