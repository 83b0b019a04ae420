package cmd

import (
	"fmt"

	"github.com/KaramelBytes/contractboard-cli/internal/engine"
	"github.com/KaramelBytes/contractboard-cli/internal/report"
	"github.com/KaramelBytes/contractboard-cli/internal/utils"
	"github.com/spf13/cobra"
)

var (
	grpSel        selectionFlags
	grpBy         string
	grpValues     []string
	grpLimit      int
	grpFormat     string
	grpOutputPath string
	grpDelimiter  string
	grpThousands  string
)

var groupCmd = &cobra.Command{
	Use:   "group <file>",
	Short: "Sum numeric columns per group over the filtered rows, largest first",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if grpBy == "" {
			return fmt.Errorf("--by is required")
		}
		if len(grpValues) == 0 {
			return fmt.Errorf("at least one --value is required")
		}
		ec, err := engineConfig(grpDelimiter, grpThousands)
		if err != nil {
			return err
		}
		sel, err := grpSel.selection(cmd)
		if err != nil {
			return err
		}
		format, err := parseFormat(grpFormat)
		if err != nil {
			return err
		}
		sources, err := collectSources(cmd, args, false, "")
		if err != nil {
			return err
		}
		if len(sources) > 1 {
			return fmt.Errorf("%s matched %d files; group takes exactly one", args[0], len(sources))
		}
		sess := engine.New(ec, logger())
		c, err := sess.Group(cmd.Context(), sources[0], sel, grpBy, grpValues, grpLimit)
		if err != nil {
			return err
		}
		var out []byte
		if format == "json" {
			if out, err = utils.PrettyJSON(c); err != nil {
				return err
			}
		} else {
			out = []byte(report.Chart(c))
		}
		return emit(cmd, out, grpOutputPath, "grouping")
	},
}

func init() {
	rootCmd.AddCommand(groupCmd)
	grpSel.register(groupCmd)
	groupCmd.Flags().StringVar(&grpBy, "by", "", "column to group by")
	groupCmd.Flags().StringSliceVar(&grpValues, "value", nil, "numeric column(s) to sum; the first orders the result (repeatable)")
	groupCmd.Flags().IntVar(&grpLimit, "limit", 0, "keep only the first N groups (0 = all)")
	groupCmd.Flags().StringVar(&grpFormat, "format", "markdown", "output format: markdown|json")
	groupCmd.Flags().StringVarP(&grpOutputPath, "output", "o", "", "optional path to write the result")
	groupCmd.Flags().StringVar(&grpDelimiter, "delimiter", "", "CSV delimiter: ',' | ';' | 'tab'")
	groupCmd.Flags().StringVar(&grpThousands, "thousands", "", "thousands separator for numbers: ','|'.'|'space' (strict if omitted)")
}
