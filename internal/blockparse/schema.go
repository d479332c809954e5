package blockparse

import (
	"fmt"
	"regexp"
	"strings"
)

// Boundary selects how records are closed.
type Boundary int

const (
	// BoundaryNext closes a record on a "next" line.
	BoundaryNext Boundary = iota
	// BoundaryImplicit closes a record only when the next opener line is
	// seen, at "end" (unless ignored) or at end of input. "next" lines are
	// ignored, so nested edit/next sub-blocks cannot close the record.
	BoundaryImplicit
)

func (b Boundary) String() string {
	switch b {
	case BoundaryNext:
		return "next"
	case BoundaryImplicit:
		return "implicit"
	default:
		return "unknown"
	}
}

// Shape is the value shape of a field.
type Shape int

const (
	// Scalar values overwrite: the last set line wins.
	Scalar Shape = iota
	// List values split the remainder into its double-quoted substrings.
	// A later line for the same key replaces the list.
	List
	// PairKey opens a pending pair whose value is the field's Default.
	PairKey
	// PairValue overwrites the value of the most recent pending pair.
	PairValue
)

// Gate makes a field depend on a companion flag. At finalization the field
// is kept only when the flag's column holds Value; otherwise it becomes "".
type Gate struct {
	Flag  string
	Value string
}

// Field describes how one raw "set" key is captured.
type Field struct {
	// Key is the raw key as written after "set".
	Key string
	// Column is the output column; empty means Key.
	Column string
	Shape  Shape
	// Hidden fields are stored on the record but never become columns.
	Hidden bool
	// Match restricts accepted values. If it has a capture group the first
	// group becomes the value; non-matching lines are ignored.
	Match *regexp.Regexp
	// Transform post-processes the normalized value.
	Transform func(string) string
	// Default is the initial value of a PairKey pair.
	Default string
	// Gate, when set, blanks the field unless the flag holds the gate value.
	Gate *Gate
}

func (f Field) column() string {
	if f.Column == "" {
		return f.Key
	}
	return f.Column
}

// Default is a value applied at finalization when Column was never set.
type Default struct {
	Column string
	Value  string
}

// Opener is a line pattern that opens a record.
type Opener struct {
	// Kind tags records opened by this pattern.
	Kind string
	// Pattern must contain a named group "id". Other named groups are
	// stored as attributes under their group name.
	Pattern *regexp.Regexp
	// After restricts the opener to fire only once a record of that kind
	// has been opened in this run.
	After string
}

// Common openers.
var (
	// QuotedEdit matches `edit "<name>"`.
	QuotedEdit = Opener{Pattern: regexp.MustCompile(`(?i)^edit\s+"(?P<id>.+)"`)}
	// NumericEdit matches `edit <number>`.
	NumericEdit = Opener{Pattern: regexp.MustCompile(`(?i)^edit\s+(?P<id>\d+)`)}
)

// Schema is the strategy table for one section type.
type Schema struct {
	// Name identifies the schema in logs and errors.
	Name string
	// Section is the name after "config" (e.g. "firewall policy"). Empty
	// means the document has no header: the whole input is the section.
	Section string
	// HeaderOptional starts the machine inside the section even though a
	// header exists, for dumps that were cut below the "config" line.
	HeaderOptional bool
	// Openers are tried in order; the first match opens a record.
	Openers  []Opener
	Boundary Boundary
	// IgnoreEnd disables the "end" rule, so nested config/end sub-blocks
	// inside a record do not close the section.
	IgnoreEnd bool
	// SkipSubBlocks ignores nested "config <name>" ... "end" blocks inside
	// an open record, so their edit/next/end lines cannot close it.
	SkipSubBlocks bool

	// SequenceColumn, if set, receives the record's 1-based sequence number.
	SequenceColumn string
	// IdentityColumn, if set, receives the record identity.
	IdentityColumn string

	Fields []Field
	// PassThrough captures set keys that have no Field as plain scalars.
	PassThrough bool
	// Normalize cleans raw values before Field transforms. Defaults to
	// StripQuotes.
	Normalize func(string) string

	// Derive runs at finalization, before Defaults are applied.
	Derive   func(r *Record)
	Defaults []Default
}

// Validate checks that the schema can drive a machine.
func (s *Schema) Validate() error {
	if s == nil {
		return fmt.Errorf("nil schema")
	}
	if len(s.Openers) == 0 {
		return fmt.Errorf("schema %q: no openers", s.Name)
	}
	for i, o := range s.Openers {
		if o.Pattern == nil {
			return fmt.Errorf("schema %q: opener %d has no pattern", s.Name, i)
		}
		if o.Pattern.SubexpIndex("id") < 0 {
			return fmt.Errorf("schema %q: opener %d has no \"id\" group", s.Name, i)
		}
	}
	seen := make(map[string]bool)
	for _, f := range s.Fields {
		if f.Key == "" {
			return fmt.Errorf("schema %q: field without key", s.Name)
		}
		k := strings.ToLower(f.Key)
		if seen[k] {
			return fmt.Errorf("schema %q: duplicate field %q", s.Name, f.Key)
		}
		seen[k] = true
		if f.Gate != nil && f.Gate.Flag == "" {
			return fmt.Errorf("schema %q: field %q gate has no flag", s.Name, f.Key)
		}
	}
	return nil
}

// compiled is the lookup form of a schema used by a Machine.
type compiled struct {
	*Schema
	fields    map[string]*Field
	hidden    map[string]bool
	gated     []*Field
	gatesFor  map[string][]*Field
	normalize func(string) string
	enter     *regexp.Regexp
}

func compile(s *Schema) (*compiled, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	c := &compiled{
		Schema:    s,
		fields:    make(map[string]*Field),
		hidden:    make(map[string]bool),
		gatesFor:  make(map[string][]*Field),
		normalize: s.Normalize,
	}
	if c.normalize == nil {
		c.normalize = StripQuotes
	}
	for i := range s.Fields {
		f := &s.Fields[i]
		c.fields[strings.ToLower(f.Key)] = f
		if f.Hidden {
			c.hidden[f.column()] = true
		}
		if f.Gate != nil {
			c.gated = append(c.gated, f)
			c.gatesFor[f.Gate.Flag] = append(c.gatesFor[f.Gate.Flag], f)
		}
	}
	if s.Section != "" {
		words := strings.Fields(s.Section)
		for i, w := range words {
			words[i] = regexp.QuoteMeta(w)
		}
		c.enter = regexp.MustCompile(`(?i)^config\s+` + strings.Join(words, `\s+`) + `$`)
	}
	return c, nil
}

func (c *compiled) field(key string) *Field {
	return c.fields[strings.ToLower(key)]
}
