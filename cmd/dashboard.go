package cmd

import (
	"fmt"
	"strings"

	"github.com/KaramelBytes/contractboard-cli/internal/engine"
	"github.com/KaramelBytes/contractboard-cli/internal/report"
	"github.com/KaramelBytes/contractboard-cli/internal/schema"
	"github.com/KaramelBytes/contractboard-cli/internal/utils"
	"github.com/spf13/cobra"
)

var (
	dbSel        selectionFlags
	dbUnit       string
	dbGroupBy    string
	dbValue      string
	dbTopN       int
	dbFormat     string
	dbOutputPath string
	dbStdin      bool
	dbStdinName  string
	dbRawRows    int
	dbDelimiter  string
	dbThousands  string
)

var dashboardCmd = &cobra.Command{
	Use:   "dashboard [files...]",
	Short: "Filter contract data and print metrics, per-commissioner totals and top providers",
	RunE: func(cmd *cobra.Command, args []string) error {
		ec, err := engineConfig(dbDelimiter, dbThousands)
		if err != nil {
			return err
		}
		sel, err := dbSel.selection(cmd)
		if err != nil {
			return err
		}
		switch strings.ToLower(strings.TrimSpace(dbUnit)) {
		case "", "uda", "unit_a":
			sel.UnitMetric = schema.UnitA
		case "uoa", "unit_b":
			sel.UnitMetric = schema.UnitB
		default:
			return fmt.Errorf("unsupported --unit: %s (use uda|uoa)", dbUnit)
		}
		sel.CustomGroup = dbGroupBy
		sel.CustomValue = dbValue
		sel.TopN = dbTopN
		format, err := parseFormat(dbFormat)
		if err != nil {
			return err
		}

		sources, err := collectSources(cmd, args, dbStdin, dbStdinName)
		if err != nil {
			return err
		}
		sess := engine.New(ec, logger())
		var (
			boards []*engine.Dashboard
			parts  []string
		)
		total := len(sources)
		for i, src := range sources {
			if total > 1 {
				statusf("[%d/%d] Processing %s...", i+1, total, src.Name)
			}
			d, err := sess.Compute(cmd.Context(), src, sel)
			if err != nil {
				return err
			}
			boards = append(boards, d)
			if format == "markdown" {
				parts = append(parts, report.Markdown(d, report.Options{RawRows: dbRawRows}))
			}
		}

		var out []byte
		if format == "json" {
			var v any = boards
			if len(boards) == 1 {
				v = boards[0]
			}
			if out, err = utils.PrettyJSON(v); err != nil {
				return err
			}
		} else {
			out = []byte(strings.Join(parts, "\n"))
		}
		return emit(cmd, out, dbOutputPath, "dashboard")
	},
}

func parseFormat(s string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "md", "markdown":
		return "markdown", nil
	case "json":
		return "json", nil
	default:
		return "", fmt.Errorf("unsupported --format: %s (use markdown|json)", s)
	}
}

// emit writes to --output when set, otherwise to stdout.
func emit(cmd *cobra.Command, out []byte, path, what string) error {
	if path != "" {
		if err := utils.SafeWriteFile(path, out); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
		statusf("✓ Wrote %s to %s", what, path)
		return nil
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return nil
}

func init() {
	rootCmd.AddCommand(dashboardCmd)
	dbSel.register(dashboardCmd)
	dashboardCmd.Flags().StringVar(&dbUnit, "unit", "uda", "unit metric for the per-commissioner chart: uda|uoa")
	dashboardCmd.Flags().StringVar(&dbGroupBy, "group-by", "", "custom chart: categorical column to group by (default first categorical column)")
	dashboardCmd.Flags().StringVar(&dbValue, "value", "", "custom chart: numeric column to sum (default first numeric column)")
	dashboardCmd.Flags().IntVar(&dbTopN, "top", 0, "number of providers in the ranking (default from config)")
	dashboardCmd.Flags().StringVar(&dbFormat, "format", "markdown", "output format: markdown|json")
	dashboardCmd.Flags().StringVarP(&dbOutputPath, "output", "o", "", "optional path to write the dashboard")
	dashboardCmd.Flags().BoolVar(&dbStdin, "stdin", false, "read an uploaded CSV payload from stdin")
	dashboardCmd.Flags().StringVar(&dbStdinName, "stdin-name", "", "display name for the stdin payload (a .tsv name selects tab delimiter)")
	dashboardCmd.Flags().IntVar(&dbRawRows, "raw-rows", 0, "include up to N filtered rows in markdown output")
	dashboardCmd.Flags().StringVar(&dbDelimiter, "delimiter", "", "CSV delimiter: ',' | ';' | 'tab'")
	dashboardCmd.Flags().StringVar(&dbThousands, "thousands", "", "thousands separator for numbers: ','|'.'|'space' (strict if omitted)")
}
