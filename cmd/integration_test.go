package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

func TestMain(m *testing.M) {
	cobra.OnInitialize(loadConfig)
	os.Exit(m.Run())
}

// resetFlags clears values and Changed state that persist across invocations.
func resetFlags(c *cobra.Command) {
	reset := func(fl *pflag.Flag) {
		_ = fl.Value.Set(fl.DefValue)
		fl.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

// execute runs the root command with args and stdin, returning stdout.
func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)
	cfg = nil
	var out bytes.Buffer
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetOut(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

// runCmd is a helper to execute the root command with args.
func runCmd(t *testing.T, args ...string) string {
	t.Helper()
	out, err := execute(t, "", args...)
	if err != nil {
		t.Fatalf("command %v failed: %v", args, err)
	}
	return out
}

func isolateHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	return home
}

func writeData(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write data: %v", err)
	}
	return path
}

func TestCLI_SessionWithPreloadedFile(t *testing.T) {
	home := isolateHome(t)
	data := writeData(t, home, "sales.csv", "region,units\nnorth,3\nsouth,\n")

	out, err := execute(t, "4\n2\n5\n8\n", "--file", data)
	if err != nil {
		t.Fatalf("session failed: %v", err)
	}
	for _, want := range []string{"Dataset loaded successfully!", "Missing values filled.", "mean", "Exiting the program."} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestCLI_PlotRecordsHistory(t *testing.T) {
	home := isolateHome(t)
	data := writeData(t, home, "sales.csv", "month,units\njan,10\nfeb,12\nmar,9\n")
	target := filepath.Join(home, "charts", "units")

	out := runCmd(t, "plot", data, "--kind", "line", "--x", "month", "--y", "units", "--out", target)
	if !strings.Contains(out, target+".png saved") {
		t.Fatalf("unexpected plot output: %s", out)
	}
	if _, err := os.Stat(target + ".png"); err != nil {
		t.Fatalf("chart not written: %v", err)
	}

	out = runCmd(t, "charts")
	if !strings.Contains(out, "line") || !strings.Contains(out, "sales.csv") || !strings.Contains(out, target+".png") {
		t.Fatalf("history listing missing entry:\n%s", out)
	}
}

func TestCLI_ChartsEmpty(t *testing.T) {
	isolateHome(t)
	if out := runCmd(t, "charts"); !strings.Contains(out, "(no charts)") {
		t.Fatalf("expected empty listing, got %q", out)
	}
}

func TestCLI_PlotErrors(t *testing.T) {
	home := isolateHome(t)
	data := writeData(t, home, "d.csv", "a,b\nx,1\n")

	if _, err := execute(t, "", "plot", data, "--kind", "donut", "--y", "b", "--out", "x.png"); err == nil {
		t.Fatalf("expected error for unknown kind")
	}
	if _, err := execute(t, "", "plot", data, "--kind", "scatter", "--x", "a", "--y", "b", "--out", filepath.Join(home, "x.png")); err == nil {
		t.Fatalf("expected error for non-numeric x")
	}
	if _, err := execute(t, "", "plot", data, "--kind", "bar", "--x", "a", "--y", "b"); err == nil {
		t.Fatalf("expected error without --out")
	}
}

func TestCLI_DescribeFormats(t *testing.T) {
	home := isolateHome(t)
	data := writeData(t, home, "m.csv", "name,score\nann,1\nbob,2\ncid,\n")

	out := runCmd(t, "describe", data)
	if !strings.Contains(out, "m.csv: 3 rows x 2 columns") || !strings.Contains(out, "count") {
		t.Fatalf("unexpected table output:\n%s", out)
	}

	out = runCmd(t, "describe", data, "--format", "markdown")
	if !strings.Contains(out, "[DATASET SUMMARY]") {
		t.Fatalf("unexpected markdown output:\n%s", out)
	}

	report := filepath.Join(home, "out", "report.md")
	runCmd(t, "describe", data, data, "--output", report)
	b, err := os.ReadFile(report)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	if n := strings.Count(string(b), "[DATASET SUMMARY]"); n != 2 {
		t.Fatalf("expected 2 reports, got %d", n)
	}

	if _, err := execute(t, "", "describe", filepath.Join(home, "missing.csv")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestCLI_ConfigSetAndShow(t *testing.T) {
	home := isolateHome(t)
	cfgPath := filepath.Join(home, "config.yaml")

	runCmd(t, "config", "set", "head_rows", "7", "--config", cfgPath)
	runCmd(t, "config", "set", "delimiter", "tab", "--config", cfgPath)
	out := runCmd(t, "config", "show", "--config", cfgPath)
	if !strings.Contains(out, "head_rows: 7") || !strings.Contains(out, `delimiter: "tab"`) {
		t.Fatalf("config not persisted:\n%s", out)
	}

	if _, err := execute(t, "", "config", "set", "nope", "1", "--config", cfgPath); err == nil {
		t.Fatalf("expected error for unknown key")
	}
	if _, err := execute(t, "", "config", "set", "log_level", "loud", "--config", cfgPath); err == nil {
		t.Fatalf("expected error for invalid level")
	}
}
