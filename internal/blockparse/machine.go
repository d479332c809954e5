package blockparse

import (
	"bufio"
	"context"
	"fmt"
	"strings"

	"grimm.is/fgreport/internal/logging"
)

// LineSource yields lines one at a time. *bufio.Scanner and
// *linescan.Scanner both satisfy it.
type LineSource interface {
	Scan() bool
	Text() string
	Err() error
}

// Stats counts what a machine saw.
type Stats struct {
	Lines   int
	Ignored int
	Sets    int
	Records int
}

// Result is the output of a parse run.
type Result struct {
	Records []*Record
	Columns *ColumnOrder
	Stats   Stats
}

// Machine is the block state machine for one parse run.
// A Machine is not safe for concurrent use; run one per document.
type Machine struct {
	schema  *compiled
	rules   []rule
	state   State
	columns *ColumnOrder
	current *Record
	records []*Record
	opened  map[string]bool
	depth   int
	line    int
	stats   Stats
	logger  *logging.Logger
}

// Option configures a Machine.
type Option func(*Machine)

// WithLogger sets the logger used for debug tracing of transitions.
func WithLogger(l *logging.Logger) Option {
	return func(m *Machine) {
		if l != nil {
			m.logger = l
		}
	}
}

// WithColumns threads an existing ColumnOrder through the run.
func WithColumns(c *ColumnOrder) Option {
	return func(m *Machine) {
		if c != nil {
			m.columns = c
		}
	}
}

// NewMachine builds a machine for schema.
func NewMachine(schema *Schema, opts ...Option) (*Machine, error) {
	c, err := compile(schema)
	if err != nil {
		return nil, err
	}
	m := &Machine{
		schema:  c,
		rules:   buildRules(c),
		state:   OutsideSection,
		columns: NewColumnOrder(),
		opened:  make(map[string]bool),
		logger:  logging.Default(),
	}
	for _, opt := range opts {
		opt(m)
	}
	if schema.Section == "" || schema.HeaderOptional {
		m.state = InsideSection
	}
	m.logger = m.logger.WithComponent("blockparse").WithFields(map[string]any{"schema": schema.Name})
	return m, nil
}

// State returns the current state.
func (m *Machine) State() State {
	return m.state
}

// Columns returns the ColumnOrder of the run.
func (m *Machine) Columns() *ColumnOrder {
	return m.columns
}

// Feed classifies one line and applies the first rule that matches it.
// It reports which rule fired, or "" when the line was ignored.
func (m *Machine) Feed(line string) RuleName {
	m.line++
	m.stats.Lines++
	line = strings.TrimSpace(line)

	for _, r := range m.rules {
		if !r.when.has(m.state) {
			continue
		}
		mt, ok := r.match(m, line)
		if !ok {
			continue
		}
		r.action(m, mt)
		return r.name
	}
	m.stats.Ignored++
	return ""
}

// Close flushes a record left open at end of input and returns the result.
// The machine must not be fed after Close.
func (m *Machine) Close() *Result {
	m.finalize()
	m.stats.Records = len(m.records)
	return &Result{
		Records: m.records,
		Columns: m.columns,
		Stats:   m.stats,
	}
}

func (m *Machine) transition(to State) {
	if m.state == to {
		return
	}
	m.logger.Debug("state change", "line", m.line, "from", m.state.String(), "to", to.String())
	m.state = to
}

func (m *Machine) matchOpener(line string) (match, bool) {
	for i := range m.schema.Openers {
		o := &m.schema.Openers[i]
		if o.After != "" && !m.opened[o.After] {
			continue
		}
		sub := o.Pattern.FindStringSubmatch(line)
		if sub == nil {
			continue
		}
		if strings.TrimSpace(sub[o.Pattern.SubexpIndex("id")]) == "" {
			continue
		}
		return match{opener: o, sub: sub}, true
	}
	return match{}, false
}

func (m *Machine) open(mt match) {
	// Implicit boundary: a new opener seals the previous record.
	m.finalize()

	o := mt.opener
	id := strings.TrimSpace(mt.sub[o.Pattern.SubexpIndex("id")])
	rec := newRecord(id, o.Kind, len(m.records)+1, m.line)

	if col := m.schema.SequenceColumn; col != "" {
		m.store(rec, col, ScalarValue(fmt.Sprint(rec.Seq)))
	}
	if col := m.schema.IdentityColumn; col != "" {
		m.store(rec, col, ScalarValue(id))
	}
	for i, name := range o.Pattern.SubexpNames() {
		if i == 0 || name == "" || name == "id" {
			continue
		}
		m.store(rec, name, ScalarValue(strings.TrimSpace(mt.sub[i])))
	}

	m.opened[o.Kind] = true
	m.current = rec
	m.logger.Debug("record opened", "line", m.line, "identity", id, "kind", o.Kind)
	m.transition(RecordOpen)
}

// subBlock tracks nesting of config/end pairs inside the open record. Only
// the opening and closing lines count as seen; the rest are ignored.
func (m *Machine) subBlock(line string) {
	switch {
	case subLine.MatchString(line):
		m.depth++
		m.logger.Debug("sub-block entered", "line", m.line, "depth", m.depth)
	case endLine.MatchString(line):
		m.depth--
		m.logger.Debug("sub-block left", "line", m.line, "depth", m.depth)
	default:
		m.stats.Ignored++
	}
}

// set is the RecordAccumulator entry point for one "set <key> <raw>" line.
func (m *Machine) set(key, raw string) {
	rec := m.current
	f := m.schema.field(key)
	if f == nil {
		if !m.schema.PassThrough {
			m.stats.Ignored++
			return
		}
		m.stats.Sets++
		m.store(rec, key, ScalarValue(m.schema.normalize(raw)))
		return
	}

	if f.Shape == List {
		m.stats.Sets++
		m.store(rec, f.column(), ListValue(QuotedItems(raw)))
		return
	}

	val := m.schema.normalize(raw)
	if f.Match != nil {
		sub := f.Match.FindStringSubmatch(val)
		if sub == nil {
			m.stats.Ignored++
			return
		}
		if len(sub) > 1 {
			val = sub[1]
		}
	}
	if f.Transform != nil {
		val = f.Transform(val)
	}

	switch f.Shape {
	case PairKey:
		rec.Pairs = append(rec.Pairs, Pair{Key: val, Value: f.Default})
	case PairValue:
		if len(rec.Pairs) == 0 {
			m.stats.Ignored++
			return
		}
		rec.Pairs[len(rec.Pairs)-1].Value = val
	default:
		m.store(rec, f.column(), ScalarValue(val))
		// Setting a gate flag materializes the fields it gates so their
		// columns appear right after the flag.
		for _, g := range m.schema.gatesFor[f.column()] {
			if !rec.Has(g.column()) {
				m.store(rec, g.column(), ScalarValue(""))
			}
		}
	}
	m.stats.Sets++
}

// store sets an attribute and registers its column on first sight.
func (m *Machine) store(rec *Record, col string, v Value) {
	rec.Set(col, v)
	if !m.schema.hidden[col] {
		m.columns.Add(col)
	}
}

// finalize seals the open record, applying gates, derivations and defaults.
func (m *Machine) finalize() {
	rec := m.current
	if rec == nil {
		return
	}
	m.current = nil

	for _, f := range m.schema.gated {
		if rec.String(f.Gate.Flag) != f.Gate.Value || !rec.Has(f.column()) {
			m.store(rec, f.column(), ScalarValue(""))
		}
	}
	if m.schema.Derive != nil {
		m.schema.Derive(rec)
	}
	for _, d := range m.schema.Defaults {
		if !rec.Has(d.Column) {
			rec.SetString(d.Column, d.Value)
		}
	}
	for _, k := range rec.keys {
		if !m.schema.hidden[k] {
			m.columns.Add(k)
		}
	}

	m.records = append(m.records, rec)
	m.logger.Debug("record finalized", "line", m.line, "identity", rec.Identity)
}

// Parse runs schema over every line of src.
func Parse(ctx context.Context, schema *Schema, src LineSource, opts ...Option) (*Result, error) {
	m, err := NewMachine(schema, opts...)
	if err != nil {
		return nil, err
	}
	for src.Scan() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		m.Feed(src.Text())
	}
	if err := src.Err(); err != nil {
		return nil, err
	}
	return m.Close(), nil
}

// ParseString parses an in-memory document.
func ParseString(schema *Schema, content string, opts ...Option) (*Result, error) {
	scanner := bufio.NewScanner(strings.NewReader(content))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	return Parse(context.Background(), schema, scanner, opts...)
}
