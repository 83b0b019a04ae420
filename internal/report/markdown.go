package report

import (
	"fmt"
	"math"
	"strings"
	"unicode/utf8"

	"github.com/KaramelBytes/contractboard-cli/internal/aggregate"
	"github.com/KaramelBytes/contractboard-cli/internal/engine"
	"github.com/dustin/go-humanize"
)

// Options controls Markdown rendering.
type Options struct {
	// RawRows includes up to this many filtered rows; 0 omits the section.
	RawRows int
}

// Markdown renders a dashboard as compact Markdown.
func Markdown(d *engine.Dashboard, opt Options) string {
	var b strings.Builder
	b.WriteString("[CONTRACT DASHBOARD]\n")
	if d.Source != "" {
		b.WriteString(fmt.Sprintf("File: %s\n", d.Source))
	}
	b.WriteString(fmt.Sprintf("Showing %s contracts after filtering (of %s).\n\n",
		humanize.Comma(int64(d.FilteredRows)), humanize.Comma(int64(d.TotalRows))))

	b.WriteString("[METRICS]\n")
	b.WriteString(fmt.Sprintf("- Total Contracts: %s\n", humanize.Comma(int64(d.Metrics.Contracts))))
	b.WriteString(fmt.Sprintf("- Total Contract Value (£): %s\n", metric(d.Metrics.TotalValue)))
	b.WriteString(fmt.Sprintf("- Total Contracted UDA: %s\n", metric(d.Metrics.UnitA)))
	b.WriteString(fmt.Sprintf("- Total Contracted UOA: %s\n", metric(d.Metrics.UnitB)))

	if len(d.Options.Commissioners) > 0 || len(d.Options.Prison) > 0 || d.Options.Value != nil {
		b.WriteString("\n[FILTER OPTIONS]\n")
		if n := len(d.Options.Commissioners); n > 0 {
			b.WriteString(fmt.Sprintf("- Commissioner (ICB): %d values\n", n))
		}
		if len(d.Options.Prison) > 0 {
			b.WriteString(fmt.Sprintf("- Prison Indicator: %s\n", strings.Join(d.Options.Prison, ", ")))
		}
		if v := d.Options.Value; v != nil {
			b.WriteString(fmt.Sprintf("- Total Financial Value (£): %s to %s (step %s)\n",
				whole(v.Min), whole(v.Max), whole(v.Step)))
		}
	}

	section(&b, d.ValueByCommissioner, "Cannot plot: total value or commissioner column missing.")
	section(&b, d.UnitByCommissioner, "Unit metric or commissioner column not available in this dataset.")
	section(&b, d.TopProviders, "Cannot display provider ranking (missing provider or total value).")
	section(&b, d.Custom, "Not enough categorical or numeric columns to build a custom chart.")

	if opt.RawRows > 0 && d.Filtered != nil && d.Filtered.Len() > 0 {
		b.WriteString("\n[FILTERED ROWS]\n")
		ds := d.Filtered.Dataset()
		names := make([]string, len(ds.Columns))
		for i, c := range ds.Columns {
			names[i] = c.Name
		}
		writeHeader(&b, names)
		n := d.Filtered.Len()
		if n > opt.RawRows {
			n = opt.RawRows
		}
		for i := 0; i < n; i++ {
			r := d.Filtered.Row(i)
			cells := make([]string, len(ds.Columns))
			for j, c := range ds.Columns {
				if k, ok := c.Key(r); ok {
					cells[j] = k
				}
			}
			writeRow(&b, cells)
		}
		if d.Filtered.Len() > n {
			b.WriteString(fmt.Sprintf("(%d more rows)\n", d.Filtered.Len()-n))
		}
	}
	return b.String()
}

// Chart renders a single aggregated table.
func Chart(c *engine.Chart) string {
	var b strings.Builder
	writeChart(&b, c)
	return b.String()
}

func section(b *strings.Builder, c *engine.Chart, unavailable string) {
	b.WriteString("\n")
	if c == nil {
		b.WriteString("[UNAVAILABLE]\n")
		b.WriteString(unavailable)
		b.WriteString("\n")
		return
	}
	writeChart(b, c)
}

func writeChart(b *strings.Builder, c *engine.Chart) {
	b.WriteString(fmt.Sprintf("[%s]\n", strings.ToUpper(c.Title)))
	if len(c.Rows) == 0 {
		b.WriteString("(no rows)\n")
		return
	}
	writeHeader(b, append([]string{c.Group}, c.Values...))
	for _, r := range c.Rows {
		writeRow(b, rowCells(r))
	}
}

func rowCells(r aggregate.Row) []string {
	key := r.Key
	if r.Null {
		key = "(missing)"
	}
	cells := []string{key}
	for _, v := range r.Values {
		cells = append(cells, whole(v))
	}
	return cells
}

func writeHeader(b *strings.Builder, names []string) {
	writeRow(b, names)
	sep := make([]string, len(names))
	for i := range sep {
		sep[i] = "---"
	}
	writeRow(b, sep)
}

func writeRow(b *strings.Builder, cells []string) {
	b.WriteString("| ")
	for i, c := range cells {
		if i > 0 {
			b.WriteString(" | ")
		}
		b.WriteString(safeVal(clip(c, 80)))
	}
	b.WriteString(" |\n")
}

// clip shortens s to at most n runes, marking the cut with "...".
func clip(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n-3]) + "..."
}

func metric(m aggregate.Metric) string {
	if !m.Available {
		return "N/A"
	}
	return whole(m.Sum)
}

// whole formats a value rounded to whole units with thousands separators.
func whole(v float64) string {
	return humanize.Comma(int64(math.Round(v)))
}

func safeVal(s string) string { return strings.ReplaceAll(strings.ReplaceAll(s, "\n", " "), "|", "/") }
