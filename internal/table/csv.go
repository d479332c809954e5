package table

import (
	"encoding/csv"
	"io"
)

func writeCSV(w io.Writer, t *Table, opts Options) error {
	cw := csv.NewWriter(w)
	if !opts.SkipHeader {
		if err := cw.Write(t.Headers); err != nil {
			return err
		}
	}
	if err := cw.WriteAll(t.Rows); err != nil {
		return err
	}
	return cw.Error()
}
