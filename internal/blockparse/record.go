package blockparse

import "strings"

// Value is an attribute value. List values come from multi-valued lines such
// as `set member "a" "b"`; everything else is a scalar.
type Value struct {
	Scalar string
	List   []string
	IsList bool
}

// ScalarValue returns a scalar Value.
func ScalarValue(s string) Value {
	return Value{Scalar: s}
}

// ListValue returns a list Value holding a copy of items.
func ListValue(items []string) Value {
	return Value{List: append([]string(nil), items...), IsList: true}
}

// String renders the value for a table cell. List items are joined by a space.
func (v Value) String() string {
	if v.IsList {
		return strings.Join(v.List, " ")
	}
	return v.Scalar
}

// Pair is one pending key/value pair of a paired field, e.g. a web filter
// category and the action applied to it.
type Pair struct {
	Key   string
	Value string
}

// Record is one item of a section, opened by an opener line and sealed by
// "next", "end", an implicit boundary or the end of input.
type Record struct {
	// Identity is the name or id captured from the opener line. Never empty.
	Identity string
	// Kind is the opener kind that created the record ("" for plain edit).
	Kind string
	// Seq is the 1-based position of the record in its parse run.
	Seq int
	// Line is the source line number of the opener.
	Line int

	// Pairs holds paired fields in source order.
	Pairs []Pair

	keys  []string
	attrs map[string]Value
}

// NewRecord returns a detached record, for synthetic rows and tests.
func NewRecord(identity, kind string) *Record {
	return newRecord(identity, kind, 0, 0)
}

func newRecord(identity, kind string, seq, line int) *Record {
	return &Record{
		Identity: identity,
		Kind:     kind,
		Seq:      seq,
		Line:     line,
		attrs:    make(map[string]Value),
	}
}

// Set stores v under key. Overwriting keeps the key's original position.
func (r *Record) Set(key string, v Value) {
	if r.attrs == nil {
		r.attrs = make(map[string]Value)
	}
	if _, ok := r.attrs[key]; !ok {
		r.keys = append(r.keys, key)
	}
	r.attrs[key] = v
}

// SetString is shorthand for Set(key, ScalarValue(s)).
func (r *Record) SetString(key, s string) {
	r.Set(key, ScalarValue(s))
}

// Get returns the value stored under key.
func (r *Record) Get(key string) (Value, bool) {
	v, ok := r.attrs[key]
	return v, ok
}

// Has reports whether key has been set.
func (r *Record) Has(key string) bool {
	_, ok := r.attrs[key]
	return ok
}

// String returns the rendered value of key, or "" when unset.
func (r *Record) String(key string) string {
	return r.attrs[key].String()
}

// List returns the list value of key. A scalar is returned as a one item list.
func (r *Record) List(key string) []string {
	v, ok := r.attrs[key]
	if !ok {
		return nil
	}
	if v.IsList {
		return append([]string(nil), v.List...)
	}
	return []string{v.Scalar}
}

// Keys returns the record's keys in insertion order.
func (r *Record) Keys() []string {
	return append([]string(nil), r.keys...)
}

// Clone returns a deep copy of the record.
func (r *Record) Clone() *Record {
	c := newRecord(r.Identity, r.Kind, r.Seq, r.Line)
	c.Pairs = append([]Pair(nil), r.Pairs...)
	for _, k := range r.keys {
		v := r.attrs[k]
		if v.IsList {
			v = ListValue(v.List)
		}
		c.Set(k, v)
	}
	return c
}

// PairValue returns the value of the first pair whose key is key.
func (r *Record) PairValue(key string) (string, bool) {
	for _, p := range r.Pairs {
		if p.Key == key {
			return p.Value, true
		}
	}
	return "", false
}
