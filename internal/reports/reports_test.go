package reports

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"grimm.is/fgreport/internal/clock"
	"grimm.is/fgreport/internal/i18n"
	"grimm.is/fgreport/internal/logging"
	"grimm.is/fgreport/internal/metrics"
	"grimm.is/fgreport/internal/table"
)

const policyDump = `
config system interface
    edit "port1"
        set ip 192.0.2.1 255.255.255.0
    next
end
config firewall policy
    edit 1
        set name "allow-web"
        set srcintf "port1"
        set dstintf "port2"
        set srcaddr "all"
        set dstaddr "web-1" "web-2"
        set action accept
        set schedule "always"
        set service "HTTP" "HTTPS"
    next
    edit 2
        set name "deny-all"
        set srcintf "port1"
        set dstintf "port2"
        set logtraffic all
    next
end
`

const vipDump = `
config firewall vip
    edit "web"
        set extip 203.0.113.10
        set mappedip "10.0.0.10"
        set extintf "port1"
        set portforward enable
        set extport 443
        set mappedport 8443
    next
    edit "mail"
        set extip 203.0.113.11
        set mappedip "10.0.0.11-10.0.0.12"
        set extintf "port1"
        set portforward disable
        set protocol udp
    next
end
`

const usersDump = `
config user local
    edit "carol"
        set type password
        set passwd ENC SH2abc
    next
    edit "Alice"
        set type ldap
        set two-factor email
        set email-to "alice@example.com"
        set ldap-server "corp-ldap"
    next
    edit "bob"
        set sms-phone "+5491100000000"
        set two-factor sms
        set status disable
    next
    edit "dave"
        set two-factor fortitoken
        set fortitoken "FTK0000001"
    next
    edit "erin"
        set two-factor disable
    next
end
`

const groupsDump = `
config user group
    edit "VPN-Group"
        set member "Alice" "bob"
    next
    edit "Admins"
        set member "dave"
        config match
            edit 1
                set server-name "corp-ldap"
                set group-name "CN=Admins"
            next
        end
    next
end
`

const categoriesListing = `
g01 Potentially Liable
1 Drug Abuse
3 Hacking
g02 Adult/Mature Content
11 Gambling
`

const profilesDump = `
config webfilter profile
    edit "default"
        config ftgd-wf
            config filters
                edit 1
                    set category 3
                    set action block
                next
                edit 2
                    set category 11
                    set action warning
                next
            end
        end
    next
    edit "monitor-all"
        config ftgd-wf
            config filters
                edit 1
                    set category 0
                    set action permit
                next
            end
        end
    next
end
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func quiet() Options {
	return Options{Logger: logging.Discard()}
}

func generate(t *testing.T, name string, in Inputs, opts Options) *table.Table {
	t.Helper()
	g, err := Lookup(name)
	require.NoError(t, err)
	tbl, err := g.Generate(context.Background(), in, opts)
	require.NoError(t, err)
	return tbl
}

func TestLookup(t *testing.T) {
	for name, want := range map[string]string{
		"policy":    "policy",
		"dnat":      "vip",
		"VIP":       "vip",
		"vpn-users": "users",
		"wf":        "webfilter",
	} {
		g, err := Lookup(name)
		require.NoError(t, err, name)
		assert.Equal(t, want, g.Name, name)
	}

	_, err := Lookup("routes")
	assert.ErrorIs(t, err, ErrUnknownReport)
	assert.False(t, Known("routes"))
	assert.True(t, Known("dnat"))
	assert.Equal(t, []string{"policy", "users", "vip", "webfilter"}, Names())
}

func TestPolicyReport(t *testing.T) {
	dir := t.TempDir()
	tbl := generate(t, "policy", Inputs{Primary: writeFile(t, dir, "fgfw.cfg", policyDump)}, quiet())

	assert.Equal(t, "Firewall Policy", tbl.Title)
	assert.Equal(t, []string{
		"id", "name", "srcintf", "dstintf", "srcaddr", "dstaddr", "action", "schedule", "service", "logtraffic",
	}, tbl.Headers)
	require.Len(t, tbl.Rows, 2)
	assert.Equal(t, []string{
		"1", "allow-web", "port1", "port2", "all", "web-1 web-2", "accept", "always", "HTTP HTTPS", "",
	}, tbl.Rows[0])
	assert.Equal(t, []string{
		"2", "deny-all", "port1", "port2", "", "", "", "", "", "all",
	}, tbl.Rows[1])
}

func TestVIPReport(t *testing.T) {
	dir := t.TempDir()
	tbl := generate(t, "vip", Inputs{Primary: writeFile(t, dir, "vip.txt", vipDump)}, quiet())

	assert.Equal(t, []string{
		"ID", "Name", "External IP", "Internal IP", "External Port", "Internal Port", "Protocol",
	}, tbl.Headers)
	assert.Equal(t, [][]string{
		{"1", "web", "203.0.113.10", "10.0.0.10", "443", "8443", "TCP"},
		{"2", "mail", "203.0.113.11", "10.0.0.11-10.0.0.12", "", "", "UDP"},
	}, tbl.Rows)
}

func TestVIPReport_Spanish(t *testing.T) {
	dir := t.TempDir()
	opts := quiet()
	opts.Translate = i18n.Translator(language.Spanish)
	tbl := generate(t, "vip", Inputs{Primary: writeFile(t, dir, "vip.txt", vipDump)}, opts)

	assert.Equal(t, []string{
		"ID", "Nombre", "IP Externa", "IP Interna", "Puerto Externo", "Puerto Interno", "Protocolo",
	}, tbl.Headers)
	assert.Equal(t, "web", tbl.Rows[0][1])
}

func TestVIPReport_NestedRealservers(t *testing.T) {
	dir := t.TempDir()
	dump := `config firewall vip
    edit "lb-web"
        set type server-load-balance
        set extip 203.0.113.5
        set ldb-method round-robin
        config realservers
            edit 1
                set ip 10.0.0.21
                set port 80
            next
            edit 2
                set ip 10.0.0.22
                set port 80
            next
        end
        set protocol udp
    next
    edit "web2"
        set extip 203.0.113.6
        set mappedip "10.0.0.30"
    next
end
`
	tbl := generate(t, "vip", Inputs{Primary: writeFile(t, dir, "vip.txt", dump)}, quiet())
	require.Len(t, tbl.Rows, 2)

	cell := func(row int, col string) string {
		i := tbl.Column(col)
		require.GreaterOrEqual(t, i, 0, col)
		return tbl.Rows[row][i]
	}
	assert.Equal(t, "lb-web", cell(0, ColVIPName))
	assert.Equal(t, "203.0.113.5", cell(0, ColExternalIP))
	assert.Equal(t, "", cell(0, ColInternalIP))
	assert.Equal(t, "UDP", cell(0, ColProtocol), "set lines after the sub-block still belong to the VIP")
	assert.Equal(t, "2", cell(1, ColVIPID))
	assert.Equal(t, "web2", cell(1, ColVIPName))
	assert.Equal(t, "10.0.0.30", cell(1, ColInternalIP))
	assert.Equal(t, "TCP", cell(1, ColProtocol))
	assert.Equal(t, -1, tbl.Column("ip"))
}

func TestUsersReport(t *testing.T) {
	dir := t.TempDir()
	in := Inputs{
		Primary:   writeFile(t, dir, "users.txt", usersDump),
		Companion: writeFile(t, dir, "groups.txt", groupsDump),
	}
	tbl := generate(t, "users", in, quiet())

	assert.Equal(t, "VPN Users", tbl.Title)
	assert.Equal(t, UserColumns, tbl.Headers)
	assert.Equal(t, [][]string{
		{"1", "Alice", "LDAP", "yes", "EMAIL: alice@example.com", "VPN-Group", "enable"},
		{"2", "bob", "LOCAL", "yes", "SMS: +5491100000000", "VPN-Group", "disable"},
		{"3", "carol", "LOCAL", "no", "", "", "enable"},
		{"4", "dave", "LOCAL", "yes", "FORTITOKEN", "Admins", "enable"},
		{"5", "erin", "LOCAL", "no", "", "", "enable"},
	}, tbl.Rows)
}

func TestUsersReport_HeaderlessInputs(t *testing.T) {
	dir := t.TempDir()
	in := Inputs{
		Primary:   writeFile(t, dir, "users.txt", "edit \"zoe\"\nset two-factor push\nnext\n"),
		Companion: writeFile(t, dir, "groups.txt", "edit \"Ops\"\nset member \"zoe\"\nnext\n"),
	}
	tbl := generate(t, "users", in, quiet())
	assert.Equal(t, [][]string{{"1", "zoe", "LOCAL", "yes", "PUSH", "Ops", "enable"}}, tbl.Rows)
}

func TestUsersReport_MFAWithoutTarget(t *testing.T) {
	dir := t.TempDir()
	in := Inputs{
		Primary:   writeFile(t, dir, "users.txt", "edit \"ann\"\nset two-factor email\nnext\nedit \"ben\"\nset two-factor sms\nnext\n"),
		Companion: writeFile(t, dir, "groups.txt", "edit \"Ops\"\nset member \"ben\"\nnext\n"),
	}
	tbl := generate(t, "users", in, quiet())
	assert.Equal(t, [][]string{
		{"1", "ann", "LOCAL", "yes", "EMAIL", "", "enable"},
		{"2", "ben", "LOCAL", "yes", "SMS", "Ops", "enable"},
	}, tbl.Rows)
}

func TestWebFilterReport(t *testing.T) {
	dir := t.TempDir()
	in := Inputs{
		Primary:   writeFile(t, dir, "categories.txt", categoriesListing),
		Companion: writeFile(t, dir, "profiles.txt", profilesDump),
	}
	tbl := generate(t, "webfilter", in, quiet())

	assert.Equal(t, "Web Filter Report", tbl.Title)
	assert.Equal(t, []string{"TYPE", "NAME", "default", "monitor-all"}, tbl.Headers)
	assert.Equal(t, [][]string{
		{"Group", "Potentially Liable", "", ""},
		{"Category", "Drug Abuse", "permit", "permit"},
		{"Category", "Hacking", "block", "permit"},
		{"Group", "Adult/Mature Content", "", ""},
		{"Category", "Gambling", "warning", "permit"},
		{"Category", "Unrated", "warning", "permit"},
	}, tbl.Rows)
}

func TestWebFilterReport_SpanishKeepsProfileNames(t *testing.T) {
	dir := t.TempDir()
	profiles := `config webfilter profile
    edit "STATUS"
        config ftgd-wf
            config filters
                edit 1
                    set category 3
                    set action block
                next
            end
        end
    next
    edit "NAME"
    next
end
`
	in := Inputs{
		Primary:   writeFile(t, dir, "categories.txt", categoriesListing),
		Companion: writeFile(t, dir, "profiles.txt", profiles),
	}
	opts := quiet()
	opts.Translate = i18n.Translator(language.Spanish)
	tbl := generate(t, "webfilter", in, opts)

	assert.Equal(t, "Informe de Filtro Web", tbl.Title)
	assert.Equal(t, []string{"TIPO", "NOMBRE", "STATUS", "NAME"}, tbl.Headers)
	assert.Equal(t, []string{"Category", "Hacking", "block", "permit"}, tbl.Rows[2])
}

func TestGenerate_MissingCompanion(t *testing.T) {
	dir := t.TempDir()
	// The primary input is unreadable, but companion checks come first.
	bad := writeFile(t, dir, "users.txt", "edit \"caf\xe9\"\n")

	g, err := Lookup("users")
	require.NoError(t, err)

	_, err = g.Generate(context.Background(), Inputs{Primary: bad}, quiet())
	assert.ErrorIs(t, err, ErrMissingInput)

	_, err = g.Generate(context.Background(), Inputs{Primary: bad, Companion: filepath.Join(dir, "nope.txt")}, quiet())
	assert.ErrorIs(t, err, ErrMissingInput)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestGenerate_UnreadableSource(t *testing.T) {
	dir := t.TempDir()
	g, err := Lookup("vip")
	require.NoError(t, err)

	_, err = g.Generate(context.Background(), Inputs{Primary: filepath.Join(dir, "missing.txt")}, quiet())
	assert.ErrorIs(t, err, ErrUnreadableSource)

	_, err = g.Generate(context.Background(), Inputs{}, quiet())
	assert.ErrorIs(t, err, ErrMissingInput)

	bad := writeFile(t, dir, "vip.txt", "config firewall vip\nedit \"caf\xe9\"\nnext\nend\n")
	_, err = g.Generate(context.Background(), Inputs{Primary: bad}, quiet())
	assert.ErrorIs(t, err, ErrUnreadableSource)

	opts := quiet()
	opts.Encoding = "windows-1252"
	tbl, err := g.Generate(context.Background(), Inputs{Primary: bad}, opts)
	require.NoError(t, err)
	assert.Equal(t, "café", tbl.Rows[0][1])
}

func TestGenerate_Idempotent(t *testing.T) {
	dir := t.TempDir()
	in := Inputs{Primary: writeFile(t, dir, "fgfw.cfg", policyDump)}
	first := generate(t, "policy", in, quiet())
	second := generate(t, "policy", in, quiet())
	assert.Equal(t, first, second)
}

func TestGenerate_Canceled(t *testing.T) {
	dir := t.TempDir()
	g, err := Lookup("policy")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	out := filepath.Join(dir, "out.xlsx")
	_, err = g.Run(ctx, Inputs{Primary: writeFile(t, dir, "fgfw.cfg", policyDump)},
		Output{Path: out, Format: table.FormatXLSX}, quiet())
	assert.ErrorIs(t, err, context.Canceled)
	assert.NoFileExists(t, out)
}

func TestRun_WritesFile(t *testing.T) {
	dir := t.TempDir()
	reg := metrics.New()
	start := time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC)
	mock := clock.NewMockClock(start)
	mock.AutoAdvance(100 * time.Millisecond)

	opts := quiet()
	opts.Metrics = reg
	opts.Clock = mock

	g, err := Lookup("vip")
	require.NoError(t, err)

	out := filepath.Join(dir, "reports", "dnat_report.csv")
	res, err := g.Run(context.Background(), Inputs{Primary: writeFile(t, dir, "vip.txt", vipDump)},
		Output{Path: out, Format: table.FormatCSV}, opts)
	require.NoError(t, err)

	assert.Equal(t, out, res.Path)
	assert.NotEmpty(t, res.RunID)
	assert.Equal(t, start, res.Started)
	assert.Positive(t, res.Duration)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t,
		"ID,Name,External IP,Internal IP,External Port,Internal Port,Protocol\n"+
			"1,web,203.0.113.10,10.0.0.10,443,8443,TCP\n"+
			"2,mail,203.0.113.11,10.0.0.11-10.0.0.12,,,UDP\n",
		string(data))

	assert.Equal(t, 1.0, testutil.ToFloat64(reg.Runs.WithLabelValues("vip", "ok")))
	assert.Equal(t, 2.0, testutil.ToFloat64(reg.RowsWritten.WithLabelValues("vip", "csv")))
	assert.Equal(t, 2.0, testutil.ToFloat64(reg.RecordsFinalized.WithLabelValues("vip", "firewall-vip")))
}

func TestRun_FailureWritesNothing(t *testing.T) {
	dir := t.TempDir()
	reg := metrics.New()
	opts := quiet()
	opts.Metrics = reg

	g, err := Lookup("webfilter")
	require.NoError(t, err)

	out := filepath.Join(dir, "web_filter_report.xlsx")
	_, err = g.Run(context.Background(), Inputs{Primary: writeFile(t, dir, "categories.txt", categoriesListing)},
		Output{Path: out, Format: table.FormatXLSX}, opts)
	assert.ErrorIs(t, err, ErrMissingInput)
	assert.NoFileExists(t, out)
	assert.Equal(t, 1.0, testutil.ToFloat64(reg.Runs.WithLabelValues("webfilter", "error")))
}

func TestRun_Writer(t *testing.T) {
	dir := t.TempDir()
	g, err := Lookup("policy")
	require.NoError(t, err)

	var buf bytes.Buffer
	_, err = g.Run(context.Background(), Inputs{Primary: writeFile(t, dir, "fgfw.cfg", policyDump)},
		Output{Writer: &buf, Format: table.FormatCSV, SkipHeader: true}, quiet())
	require.NoError(t, err)
	assert.Equal(t, "1,allow-web,port1,port2,all,web-1 web-2,accept,always,HTTP HTTPS,\n2,deny-all,port1,port2,,,,,,all\n", buf.String())

	_, err = g.Run(context.Background(), Inputs{Primary: filepath.Join(dir, "fgfw.cfg")},
		Output{Format: table.FormatCSV}, quiet())
	assert.Error(t, err)
}
