package cmd

import (
	"fmt"
	"sort"
	"strings"

	"github.com/KaramelBytes/contractboard-cli/internal/engine"
	"github.com/KaramelBytes/contractboard-cli/internal/filter"
	"github.com/KaramelBytes/contractboard-cli/internal/schema"
	"github.com/spf13/cobra"
)

var (
	colDelimiter string
	colThousands string
)

var columnsCmd = &cobra.Command{
	Use:   "columns [file]",
	Short: "Show how a file's columns map to canonical names and roles",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ec, err := engineConfig(colDelimiter, colThousands)
		if err != nil {
			return err
		}
		sources, err := collectSources(cmd, args, false, "")
		if err != nil {
			return err
		}
		sess := engine.New(ec, logger())
		ds, err := sess.Load(cmd.Context(), sources[0])
		if err != nil {
			return err
		}

		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "File: %s (%d rows)\n", ds.Name, ds.Len())
		fmt.Fprintln(w, "\nCanonical columns:")
		mapped := ds.Map.Canonicals()
		names := make([]string, 0, len(mapped))
		for c := range mapped {
			names = append(names, string(c))
		}
		sort.Strings(names)
		for _, n := range names {
			fmt.Fprintf(w, "- %s: %s\n", n, mapped[schema.Canonical(n)])
		}
		choices := engine.Columns(ds)
		fmt.Fprintln(w, "\nRoles:")
		fmt.Fprintf(w, "- categorical: %s\n", list(choices.Categorical))
		fmt.Fprintf(w, "- numeric: %s\n", list(choices.Numeric))
		fmt.Fprintf(w, "- temporal: %s\n", list(choices.Temporal))
		fmt.Fprintf(w, "- derived: %s\n", list(choices.Derived))
		if len(ds.Losses) > 0 {
			fmt.Fprintln(w, "\nValues set to missing during numeric coercion:")
			cols := make([]string, 0, len(ds.Losses))
			for c := range ds.Losses {
				cols = append(cols, c)
			}
			sort.Strings(cols)
			for _, c := range cols {
				fmt.Fprintf(w, "- %s: %d\n", c, ds.Losses[c])
			}
		}
		opts := filter.Discover(ds)
		if len(opts.Commissioners) > 0 {
			fmt.Fprintf(w, "\nCommissioners: %s\n", list(opts.Commissioners))
		}
		if len(opts.Prison) > 0 {
			fmt.Fprintf(w, "Prison indicator values: %s\n", list(opts.Prison))
		}
		if opts.Value != nil {
			fmt.Fprintf(w, "Total value range: %.0f to %.0f\n", opts.Value.Min, opts.Value.Max)
		}
		return nil
	},
}

func list(items []string) string {
	if len(items) == 0 {
		return "(none)"
	}
	return strings.Join(items, ", ")
}

func init() {
	rootCmd.AddCommand(columnsCmd)
	columnsCmd.Flags().StringVar(&colDelimiter, "delimiter", "", "CSV delimiter: ',' | ';' | 'tab'")
	columnsCmd.Flags().StringVar(&colThousands, "thousands", "", "thousands separator for numbers: ','|'.'|'space' (strict if omitted)")
}
