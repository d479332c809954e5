package table

import (
	"io"

	"gopkg.in/yaml.v2"
)

// writeYAML emits one document with the report metadata and its rows. Rows
// are ordered maps so keys keep the column order. With SkipHeader rows are
// plain sequences instead.
func writeYAML(w io.Writer, t *Table, opts Options) error {
	rows := make([]any, 0, len(t.Rows))
	for _, r := range t.Rows {
		if opts.SkipHeader {
			rows = append(rows, r)
			continue
		}
		m := make(yaml.MapSlice, 0, len(r))
		for i, h := range t.Headers {
			m = append(m, yaml.MapItem{Key: h, Value: r[i]})
		}
		rows = append(rows, m)
	}

	doc := yaml.MapSlice{
		{Key: "report", Value: t.Name},
		{Key: "title", Value: t.Title},
	}
	if !opts.SkipHeader {
		doc = append(doc, yaml.MapItem{Key: "columns", Value: t.Headers})
	}
	doc = append(doc, yaml.MapItem{Key: "rows", Value: rows})

	out, err := yaml.Marshal(doc)
	if err != nil {
		return err
	}
	_, err = w.Write(out)
	return err
}
