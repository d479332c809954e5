package cmd

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"grimm.is/fgreport/internal/i18n"
	"grimm.is/fgreport/internal/reports"
	"grimm.is/fgreport/internal/table"
)

const policyDump = `config firewall policy
    edit 1
        set name "allow-web"
        set action accept
    next
    edit 2
        set name "deny-all"
        set action deny
    next
end
`

const vipDump = `config firewall vip
    edit "web"
        set extip 203.0.113.10
        set mappedip "10.0.0.10"
    next
end
`

// capture redirects CLI output for the duration of a test.
func capture(t *testing.T) *bytes.Buffer {
	t.Helper()
	var out bytes.Buffer
	oldOut, oldErr, oldPrinter := Stdout, Stderr, Printer
	Stdout, Stderr = &out, io.Discard
	Printer = i18n.NewPrinter(language.English)
	t.Cleanup(func() {
		Stdout, Stderr, Printer = oldOut, oldErr, oldPrinter
	})
	return &out
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestRunReport_CSV(t *testing.T) {
	out := capture(t)
	dir := t.TempDir()
	in := writeFile(t, dir, "vip.txt", vipDump)
	dst := filepath.Join(dir, "dnat.csv")

	err := RunReport("dnat", []string{"-i", in, "-o", dst, "--format", "csv", "--lang", "es"})
	require.NoError(t, err)

	data, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t,
		"ID,Nombre,IP Externa,IP Interna,Puerto Externo,Puerto Interno,Protocolo\n"+
			"1,web,203.0.113.10,10.0.0.10,,,TCP\n",
		string(data))
	assert.Equal(t, "Report written: "+dst+"\n", out.String())
}

func TestRunReport_DefaultOutputName(t *testing.T) {
	capture(t)
	dir := t.TempDir()
	in := writeFile(t, dir, "fgfw.cfg", policyDump)

	err := RunReport("policy", []string{"-i", in, "--output-dir", dir, "-f", "yaml", "-s"})
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(dir, "firewall_policy_report.yaml"))
}

func TestRunReport_TableToStdout(t *testing.T) {
	out := capture(t)
	dir := t.TempDir()
	in := writeFile(t, dir, "fgfw.cfg", policyDump)

	require.NoError(t, RunReport("policy", []string{"--format", "table", in}))
	assert.Contains(t, out.String(), "allow-web")
	assert.Contains(t, out.String(), "deny-all")
	assert.NotContains(t, out.String(), "Report written")
}

func TestRunReport_MissingCompanion(t *testing.T) {
	capture(t)
	dir := t.TempDir()
	in := writeFile(t, dir, "users.txt", "edit \"alice\"\nnext\n")
	dst := filepath.Join(dir, "users.xlsx")

	err := RunReport("users", []string{"-i", in, "-o", dst})
	assert.ErrorIs(t, err, reports.ErrMissingInput)
	assert.NoFileExists(t, dst)
}

func TestRunReport_BadFlags(t *testing.T) {
	capture(t)
	assert.Error(t, RunReport("policy", []string{"--format", "pdf", "-i", "x"}))
	assert.Error(t, RunReport("policy", []string{"--lang", "!!"}))
	assert.ErrorIs(t, RunReport("routes", nil), reports.ErrUnknownReport)
}

func TestRunReport_MetricsFile(t *testing.T) {
	capture(t)
	dir := t.TempDir()
	in := writeFile(t, dir, "fgfw.cfg", policyDump)
	prom := filepath.Join(dir, "fgreport.prom")

	err := RunReport("policy", []string{"-i", in, "-o", filepath.Join(dir, "p.csv"), "-f", "csv", "--metrics-file", prom})
	require.NoError(t, err)

	data, err := os.ReadFile(prom)
	require.NoError(t, err)
	assert.Contains(t, string(data), `fgreport_runs_total{report="policy",status="ok"} 1`)
	assert.Contains(t, string(data), `fgreport_records_finalized_total{report="policy",schema="firewall-policy"} 2`)
}

func TestRunAll(t *testing.T) {
	out := capture(t)
	dir := t.TempDir()
	writeFile(t, dir, "fgfw.cfg", policyDump)
	writeFile(t, dir, "vip.txt", vipDump)
	cfg := writeFile(t, dir, "fgreport.hcl", `
format     = "csv"
output_dir = "out"

report "policy" {
  input = "fgfw.cfg"
}

report "dnat" {
  input  = "vip.txt"
  format = "yaml"
}
`)

	require.NoError(t, RunAll([]string{"--config", cfg}))
	assert.FileExists(t, filepath.Join(dir, "out", "firewall_policy_report.csv"))
	assert.FileExists(t, filepath.Join(dir, "out", "dnat_report.yaml"))
	assert.Contains(t, out.String(), "dnat_report.yaml")
}

func TestRunAll_NoReports(t *testing.T) {
	capture(t)
	dir := t.TempDir()
	cfg := writeFile(t, dir, "fgreport.hcl", `format = "csv"`)
	assert.Error(t, RunAll([]string{"-c", cfg}))
}

func TestRunDiff(t *testing.T) {
	out := capture(t)
	dir := t.TempDir()
	oldFile := writeFile(t, dir, "old.cfg", policyDump)
	same := writeFile(t, dir, "same.cfg", policyDump)
	newFile := writeFile(t, dir, "new.cfg", `config firewall policy
    edit 1
        set name "allow-web"
        set action deny
    next
end
`)

	require.NoError(t, RunDiff([]string{"-r", "policy", oldFile, same}))
	assert.Equal(t, "Reports are identical\n", out.String())

	out.Reset()
	err := RunDiff([]string{"-r", "policy", oldFile, newFile})
	assert.ErrorIs(t, err, ErrReportsDiffer)
	assert.Contains(t, out.String(), "--- "+oldFile)
	assert.Contains(t, out.String(), "+++ "+newFile)
	assert.Contains(t, out.String(), "-1\tallow-web\taccept\n")
	assert.Contains(t, out.String(), "+1\tallow-web\tdeny\n")
	assert.Contains(t, out.String(), "-2\tdeny-all\tdeny\n")

	assert.Error(t, RunDiff([]string{"-r", "policy", oldFile}))
}

func TestDiffTables(t *testing.T) {
	a := table.New("vip", "DNAT", []string{"ID", "Name"})
	a.Append("1", "web")
	b := table.New("vip", "DNAT", []string{"ID", "Name"})
	b.Append("1", "web")

	text, err := DiffTables(a, b, "a", "b", 3)
	require.NoError(t, err)
	assert.Empty(t, text)

	b.Append("2", "mail")
	text, err = DiffTables(a, b, "a", "b", 3)
	require.NoError(t, err)
	assert.Contains(t, text, "+2\tmail\n")
}

func TestRunConfig(t *testing.T) {
	out := capture(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "fgreport.hcl")

	require.NoError(t, RunConfig([]string{"init", path}))
	assert.Contains(t, out.String(), "Configuration written: "+path)
	assert.Error(t, RunConfig([]string{"init", path}))
	require.NoError(t, RunConfig([]string{"init", "--force", path}))

	out.Reset()
	require.NoError(t, RunConfig([]string{"check", path}))
	assert.Contains(t, out.String(), "Configuration valid: "+path)

	out.Reset()
	require.NoError(t, RunConfig([]string{"show", path}))
	assert.Contains(t, out.String(), `report "webfilter"`)

	bad := writeFile(t, dir, "bad.hcl", `report "routes" {}`)
	assert.Error(t, RunConfig([]string{"check", bad}))
	assert.Error(t, RunConfig([]string{"frobnicate"}))
	assert.Error(t, RunConfig(nil))
}

func TestViewTables(t *testing.T) {
	capture(t)
	dir := t.TempDir()
	in := writeFile(t, dir, "vip.txt", vipDump)

	var common commonFlags
	s, err := common.resolve()
	require.NoError(t, err)

	tables, err := viewTables(context.Background(), s, "dnat", in, "")
	require.NoError(t, err)
	require.Len(t, tables, 1)
	assert.Equal(t, "DNAT", tables[0].Title)
	assert.Equal(t, []string{"1", "web", "203.0.113.10", "10.0.0.10", "", "", "TCP"}, tables[0].Rows[0])

	_, err = viewTables(context.Background(), s, "", "", "")
	assert.Error(t, err)
}
