package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/KaramelBytes/contractboard-cli/internal/engine"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

const fixtureCSV = `YEARMONTH,COMMISSIONERNAME,PROVIDERNAME,PRISONIND,TOTALFINVALUE,CONTRACTEDUDA,CONTRACTEDUOA
202506,North,P1,0,100,10,1
202506,South,P2,1,300,30,3
202506,North,P3,0,50,5,
`

// runCmd executes the root command with args and returns stdout.
func runCmd(t *testing.T, args ...string) (string, error) {
	t.Helper()
	return runCmdIn(t, "", args...)
}

// runCmdIn is runCmd with stdin content.
func runCmdIn(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	// Reset sticky flags that may persist Changed state across invocations
	for _, c := range []*cobra.Command{dashboardCmd, groupCmd, columnsCmd, rootCmd} {
		c.Flags().VisitAll(func(fl *pflag.Flag) { fl.Changed = false })
	}
	// Reset bound variables
	dbSel.reset()
	grpSel.reset()
	dbUnit, dbGroupBy, dbValue, dbFormat, dbOutputPath = "uda", "", "", "markdown", ""
	dbTopN, dbRawRows, dbStdin, dbStdinName = 0, 0, false, ""
	grpBy, grpValues, grpLimit, grpFormat, grpOutputPath = "", nil, 0, "markdown", ""
	flagVariant, flagColumnMap = "", nil
	cfg = nil

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	p := filepath.Join(home, "contracts.csv")
	if err := os.WriteFile(p, []byte(fixtureCSV), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return p
}

func TestCLI_DashboardJSON(t *testing.T) {
	p := isolate(t)
	out, err := runCmd(t, "dashboard", p, "--format", "json", "--commissioner", "North", "--min-value", "60")
	if err != nil {
		t.Fatalf("dashboard failed: %v", err)
	}
	var d engine.Dashboard
	if err := json.Unmarshal([]byte(out), &d); err != nil {
		t.Fatalf("decode json: %v\n%s", err, out)
	}
	if d.TotalRows != 3 || d.FilteredRows != 1 {
		t.Fatalf("unexpected row counts: total=%d filtered=%d", d.TotalRows, d.FilteredRows)
	}
	if d.Metrics.TotalValue.Sum != 100 {
		t.Fatalf("expected total value 100, got %v", d.Metrics.TotalValue.Sum)
	}
	if d.TopProviders == nil || len(d.TopProviders.Rows) != 1 || d.TopProviders.Rows[0].Key != "P1" {
		t.Fatalf("unexpected top providers: %+v", d.TopProviders)
	}
}

func TestCLI_DashboardMarkdownToFile(t *testing.T) {
	p := isolate(t)
	dst := filepath.Join(filepath.Dir(p), "out.md")
	if _, err := runCmd(t, "dashboard", p, "--unit", "uoa", "-o", dst); err != nil {
		t.Fatalf("dashboard failed: %v", err)
	}
	b, err := os.ReadFile(dst)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	s := string(b)
	for _, want := range []string{"[CONTRACT DASHBOARD]", "[CONTRACTEDUOA BY COMMISSIONER]", "[TOP 20 PROVIDERS BY CONTRACT VALUE (£)]"} {
		if !strings.Contains(s, want) {
			t.Fatalf("expected %q in output:\n%s", want, s)
		}
	}
}

func TestCLI_DashboardStdin(t *testing.T) {
	isolate(t)
	out, err := runCmdIn(t, fixtureCSV, "dashboard", "--stdin", "--stdin-name", "upload.csv", "--format", "json")
	if err != nil {
		t.Fatalf("dashboard stdin failed: %v", err)
	}
	if !strings.Contains(out, `"source": "upload.csv"`) {
		t.Fatalf("expected upload source in output:\n%s", out)
	}
}

func TestCLI_DashboardRejectsInvertedRange(t *testing.T) {
	p := isolate(t)
	if _, err := runCmd(t, "dashboard", p, "--min-value", "10", "--max-value", "5"); err == nil {
		t.Fatalf("expected error for inverted range")
	}
}

func TestCLI_Group(t *testing.T) {
	p := isolate(t)
	out, err := runCmd(t, "group", p, "--by", "PROVIDERNAME", "--value", "TOTALFINVALUE", "--value", "CONTRACTEDUDA", "--limit", "2")
	if err != nil {
		t.Fatalf("group failed: %v", err)
	}
	if !strings.Contains(out, "| P2 | 300 | 30 |") {
		t.Fatalf("expected P2 first:\n%s", out)
	}
	if strings.Contains(out, "P3") {
		t.Fatalf("expected limit to drop P3:\n%s", out)
	}
}

func TestCLI_Columns(t *testing.T) {
	p := isolate(t)
	out, err := runCmd(t, "columns", p)
	if err != nil {
		t.Fatalf("columns failed: %v", err)
	}
	for _, want := range []string{"- total_value: TOTALFINVALUE", "- derived: YEARMONTHDATE", "Commissioners: North, South"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestCLI_ConfigSetShow(t *testing.T) {
	isolate(t)
	if _, err := runCmd(t, "config", "set", "default_top_n", "5"); err != nil {
		t.Fatalf("config set failed: %v", err)
	}
	if _, err := runCmd(t, "config", "set", "column_map.total_value", "Amount"); err != nil {
		t.Fatalf("config set column_map failed: %v", err)
	}
	if _, err := runCmd(t, "config", "set", "default_top_n", "0"); err == nil {
		t.Fatalf("expected validation error for default_top_n=0")
	}
	loadConfig()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"config", "show"})
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("config show failed: %v", err)
	}
	if !strings.Contains(out.String(), "default_top_n: 5") || !strings.Contains(out.String(), "total_value: Amount") {
		t.Fatalf("unexpected config:\n%s", out.String())
	}
}

func TestCLI_DashboardCommissionerWithComma(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	p := filepath.Join(home, "icb.csv")
	csv := "COMMISSIONERNAME,TOTALFINVALUE\n\"NHS Bath, Swindon ICB\",100\nOther,50\n"
	if err := os.WriteFile(p, []byte(csv), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	out, err := runCmd(t, "dashboard", p, "--format", "json", "--commissioner", "NHS Bath, Swindon ICB")
	if err != nil {
		t.Fatalf("dashboard failed: %v", err)
	}
	var d engine.Dashboard
	if err := json.Unmarshal([]byte(out), &d); err != nil {
		t.Fatalf("decode json: %v\n%s", err, out)
	}
	if d.FilteredRows != 1 || d.Metrics.TotalValue.Sum != 100 {
		t.Fatalf("expected the comma-named commissioner only, got filtered=%d total=%v", d.FilteredRows, d.Metrics.TotalValue.Sum)
	}
}

func TestCLI_GroupRejectsMultipleFiles(t *testing.T) {
	p := isolate(t)
	other := filepath.Join(filepath.Dir(p), "contracts2.csv")
	if err := os.WriteFile(other, []byte(fixtureCSV), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	glob := filepath.Join(filepath.Dir(p), "contracts*.csv")
	_, err := runCmd(t, "group", glob, "--by", "PROVIDERNAME", "--value", "TOTALFINVALUE")
	if err == nil || !strings.Contains(err.Error(), "matched 2 files") {
		t.Fatalf("expected multiple-match error, got %v", err)
	}
}
