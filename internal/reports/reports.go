// Package reports wires the block parser to concrete FortiGate report
// types: firewall policies, virtual IPs (DNAT), VPN users with their groups
// and the web filter category x profile matrix.
//
// Each report is a [Generator] holding its parse schemas and the projection
// of finished records into a [table.Table]. Generators are looked up by name
// with [Lookup].
package reports

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"grimm.is/fgreport/internal/clock"
	"grimm.is/fgreport/internal/logging"
	"grimm.is/fgreport/internal/metrics"
	"grimm.is/fgreport/internal/table"
)

var (
	// ErrUnreadableSource is returned when an input is missing or cannot be
	// decoded under the declared encoding.
	ErrUnreadableSource = errors.New("unreadable source")
	// ErrMissingInput is returned when a report's companion input is not given.
	ErrMissingInput = errors.New("missing required input")
	// ErrUnknownReport is returned by Lookup for names no generator answers to.
	ErrUnknownReport = errors.New("unknown report")
)

// Inputs names the files a report reads.
type Inputs struct {
	// Primary is the main dump (-i).
	Primary string
	// Companion is the second file some reports need (-g): user groups for
	// the users report, profiles for the web filter report.
	Companion string
}

// Options configure a report run.
type Options struct {
	// Encoding of every input; "" means utf-8.
	Encoding string
	// Translate maps header and title strings into the output language.
	Translate func(string) string
	Logger    *logging.Logger
	// Metrics may be nil.
	Metrics *metrics.Registry
	// Clock stamps runs; nil means the system clock.
	Clock clock.Clock
}

func (o Options) logger() *logging.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return logging.Default()
}

// Generator builds one report type.
type Generator struct {
	Name    string
	Aliases []string
	// Title is the sheet title, in English.
	Title string
	// DefaultOutput is the output file name used when none is given.
	DefaultOutput string
	// Companion names the second input ("groups", "profiles"), or "" when
	// the report reads a single file.
	Companion   string
	Description string

	build func(ctx context.Context, r *run) (*table.Table, error)
}

// run carries the state of one Generate call.
type run struct {
	gen    *Generator
	in     Inputs
	opts   Options
	logger *logging.Logger
}

var registry = []*Generator{
	policyGenerator,
	vipGenerator,
	usersGenerator,
	webFilterGenerator,
}

// Lookup returns the generator answering to name or one of its aliases.
func Lookup(name string) (*Generator, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, g := range registry {
		if g.Name == name {
			return g, nil
		}
		for _, a := range g.Aliases {
			if a == name {
				return g, nil
			}
		}
	}
	return nil, fmt.Errorf("%w %q (known: %s)", ErrUnknownReport, name, strings.Join(Names(), ", "))
}

// Known reports whether Lookup would find name.
func Known(name string) bool {
	_, err := Lookup(name)
	return err == nil
}

// Names returns the canonical report names, sorted.
func Names() []string {
	names := make([]string, 0, len(registry))
	for _, g := range registry {
		names = append(names, g.Name)
	}
	sort.Strings(names)
	return names
}

// Generate parses the inputs and returns the finished table. Inputs are
// checked before any parsing starts.
func (g *Generator) Generate(ctx context.Context, in Inputs, opts Options) (*table.Table, error) {
	if err := g.checkInputs(in); err != nil {
		return nil, err
	}

	r := &run{
		gen:    g,
		in:     in,
		opts:   opts,
		logger: opts.logger().WithComponent("reports").WithFields(map[string]any{"report": g.Name}),
	}
	t, err := g.build(ctx, r)
	if err != nil {
		return nil, err
	}

	r.logger.Info("report built", "rows", len(t.Rows), "columns", t.Width())
	return t.Translate(opts.Translate), nil
}

func (g *Generator) checkInputs(in Inputs) error {
	if in.Primary == "" {
		return fmt.Errorf("%s: %w: no input file given", g.Name, ErrMissingInput)
	}
	if err := checkFile(in.Primary); err != nil {
		return fmt.Errorf("%s: %w: %w", g.Name, ErrUnreadableSource, err)
	}
	if g.Companion == "" {
		return nil
	}
	if in.Companion == "" {
		return fmt.Errorf("%s: %w: %s file not given", g.Name, ErrMissingInput, g.Companion)
	}
	if err := checkFile(in.Companion); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%s: %w: %s file: %w", g.Name, ErrMissingInput, g.Companion, err)
		}
		return fmt.Errorf("%s: %w: %w", g.Name, ErrUnreadableSource, err)
	}
	return nil
}

func checkFile(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory", path)
	}
	return nil
}

// Output says where a run writes its table.
type Output struct {
	// Path is the output file. When empty the table is rendered to Writer,
	// which only stream formats support.
	Path       string
	Writer     io.Writer
	Format     table.Format
	SkipHeader bool
}

// Result describes a finished run.
type Result struct {
	Table    *table.Table
	Path     string
	RunID    string
	Started  time.Time
	Duration time.Duration
}

// Run generates the report and writes it. Nothing is written when
// generation fails.
func (g *Generator) Run(ctx context.Context, in Inputs, out Output, opts Options) (res *Result, err error) {
	clk := clock.Or(opts.Clock)
	started := clk.Now()
	defer func() {
		opts.Metrics.ObserveRun(g.Name, clk.Since(started), clk.Now(), err)
	}()

	t, err := g.Generate(ctx, in, opts)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	runID := uuid.NewString()
	wopts := table.Options{
		SkipHeader: out.SkipHeader,
		RunID:      runID,
		Source:     in.Primary,
		CreatedAt:  started,
	}
	if out.Path == "" {
		if out.Writer == nil {
			return nil, fmt.Errorf("%s: no output path", g.Name)
		}
		err = table.Write(out.Writer, out.Format, t, wopts)
	} else {
		err = table.WriteFile(out.Path, out.Format, t, wopts)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: write %s: %w", g.Name, out.Format, err)
	}

	opts.Metrics.ObserveRows(g.Name, string(out.Format), len(t.Rows))
	opts.logger().WithComponent("reports").Info("report written",
		"report", g.Name, "path", out.Path, "format", string(out.Format), "run_id", runID)

	return &Result{
		Table:    t,
		Path:     out.Path,
		RunID:    runID,
		Started:  started,
		Duration: clk.Since(started),
	}, nil
}
