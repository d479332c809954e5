// Package table holds finished reports and renders them to files or the
// terminal.
//
// A [Table] is format agnostic: ordered headers plus string rows. Projectors
// for xlsx, csv, sqlite, yaml and a styled terminal table all consume the
// same value, so the parsing packages never know where their output goes.
package table

import (
	"fmt"
	"strings"
)

// Table is a rendered report.
type Table struct {
	// Name is the report key ("policy", "vip", ...). It names the sqlite
	// table and the yaml document.
	Name string
	// Title is the sheet title shown to people.
	Title   string
	Headers []string
	Rows    [][]string
	// DataColumns is the number of trailing headers taken from the input
	// itself, such as web filter profile names. Translate leaves them as is.
	DataColumns int
}

// New returns an empty table.
func New(name, title string, headers []string) *Table {
	return &Table{
		Name:    name,
		Title:   title,
		Headers: append([]string(nil), headers...),
	}
}

// Width returns the number of columns.
func (t *Table) Width() int {
	return len(t.Headers)
}

// Append adds a row, padding short rows with "" and cutting long ones to
// the header width.
func (t *Table) Append(cells ...string) {
	row := make([]string, len(t.Headers))
	copy(row, cells)
	t.Rows = append(t.Rows, row)
}

// Translate returns a copy with the fixed headers and title passed through
// fn. Cells and data headers are left alone.
func (t *Table) Translate(fn func(string) string) *Table {
	if fn == nil {
		return t
	}
	out := &Table{
		Name:    t.Name,
		Title:   fn(t.Title),
		Headers:     make([]string, len(t.Headers)),
		Rows:        t.Rows,
		DataColumns: t.DataColumns,
	}
	fixed := len(t.Headers) - t.DataColumns
	for i, h := range t.Headers {
		if i < fixed {
			h = fn(h)
		}
		out.Headers[i] = h
	}
	return out
}

// Column returns the index of header h, or -1.
func (t *Table) Column(h string) int {
	for i, name := range t.Headers {
		if name == h {
			return i
		}
	}
	return -1
}

// Lines renders the table as tab separated lines, one per row, for diffing
// and plain logs.
func (t *Table) Lines(skipHeader bool) []string {
	lines := make([]string, 0, len(t.Rows)+1)
	if !skipHeader {
		lines = append(lines, strings.Join(t.Headers, "\t"))
	}
	for _, r := range t.Rows {
		lines = append(lines, strings.Join(r, "\t"))
	}
	return lines
}

// Format selects a projector.
type Format string

const (
	FormatXLSX   Format = "xlsx"
	FormatCSV    Format = "csv"
	FormatSQLite Format = "sqlite"
	FormatYAML   Format = "yaml"
	FormatTable  Format = "table"
)

// Formats lists every supported format.
var Formats = []Format{FormatXLSX, FormatCSV, FormatSQLite, FormatYAML, FormatTable}

// ParseFormat resolves a format name. "" means xlsx.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "xlsx", "excel":
		return FormatXLSX, nil
	case "csv":
		return FormatCSV, nil
	case "sqlite", "db":
		return FormatSQLite, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "table", "text":
		return FormatTable, nil
	default:
		return "", fmt.Errorf("unknown format %q", s)
	}
}

// Ext returns the file extension for the format, including the dot.
func (f Format) Ext() string {
	switch f {
	case FormatCSV:
		return ".csv"
	case FormatSQLite:
		return ".db"
	case FormatYAML:
		return ".yaml"
	case FormatTable:
		return ".txt"
	default:
		return ".xlsx"
	}
}

// WithExt swaps the extension of path for the format's extension.
func (f Format) WithExt(path string) string {
	for _, other := range Formats {
		if strings.HasSuffix(strings.ToLower(path), other.Ext()) {
			return path[:len(path)-len(other.Ext())] + f.Ext()
		}
	}
	return path + f.Ext()
}
