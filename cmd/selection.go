package cmd

import (
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/KaramelBytes/contractboard-cli/internal/dataset"
	"github.com/KaramelBytes/contractboard-cli/internal/engine"
	"github.com/spf13/cobra"
)

// selectionFlags are the filter flags shared by commands that compute over a filtered dataset.
type selectionFlags struct {
	commissioners []string
	prison        []string
	minValue      float64
	maxValue      float64
}

func (f *selectionFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringArrayVar(&f.commissioners, "commissioner", nil, "commissioner (ICB) name to keep, taken literally (repeatable; default all)")
	cmd.Flags().StringArrayVar(&f.prison, "prison", nil, "prison indicator value to keep (repeatable; default all)")
	cmd.Flags().Float64Var(&f.minValue, "min-value", 0, "minimum total financial value, inclusive")
	cmd.Flags().Float64Var(&f.maxValue, "max-value", 0, "maximum total financial value, inclusive")
}

func (f *selectionFlags) selection(cmd *cobra.Command) (engine.Selection, error) {
	sel := engine.Selection{Commissioners: f.commissioners, Prison: f.prison}
	minSet, maxSet := cmd.Flags().Changed("min-value"), cmd.Flags().Changed("max-value")
	if minSet || maxSet {
		r := &engine.Range{Low: math.Inf(-1), High: math.Inf(1)}
		if minSet {
			r.Low = f.minValue
		}
		if maxSet {
			r.High = f.maxValue
		}
		if r.Low > r.High {
			return sel, fmt.Errorf("--min-value %.0f is greater than --max-value %.0f", r.Low, r.High)
		}
		sel.ValueRange = r
	}
	return sel, nil
}

func (f *selectionFlags) reset() {
	f.commissioners, f.prison = nil, nil
	f.minValue, f.maxValue = 0, 0
}

// collectSources expands globs, reads stdin as an uploaded
// payload when asked, and falls back to the configured default file.
func collectSources(cmd *cobra.Command, args []string, fromStdin bool, stdinName string) ([]dataset.Source, error) {
	var out []dataset.Source
	if fromStdin {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		if stdinName == "" {
			stdinName = "upload.csv"
		}
		out = append(out, dataset.FromBytes(stdinName, data))
	}

	var files []string
	seen := map[string]struct{}{}
	for _, arg := range args {
		matches, _ := filepath.Glob(arg)
		if len(matches) == 0 {
			// treat as literal path if exists
			if _, err := os.Stat(arg); err == nil {
				matches = []string{arg}
			}
		}
		if len(matches) == 0 {
			return nil, fmt.Errorf("no input files matched %s", arg)
		}
		for _, m := range matches {
			if _, ok := seen[m]; ok {
				continue
			}
			seen[m] = struct{}{}
			files = append(files, m)
		}
	}
	sort.Strings(files)

	if len(files) == 0 && !fromStdin {
		def := "contractannual202506.csv"
		if cfg != nil && strings.TrimSpace(cfg.DefaultSource) != "" {
			def = cfg.DefaultSource
		}
		statusf("Using default local file: %s", def)
		files = append(files, def)
	}
	for _, f := range files {
		src, err := dataset.FromPath(f)
		if err != nil {
			return nil, err
		}
		out = append(out, src)
	}
	return out, nil
}
