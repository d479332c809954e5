package reports

import (
	"context"
	"errors"
	"fmt"

	"grimm.is/fgreport/internal/blockparse"
	"grimm.is/fgreport/internal/linescan"
	"grimm.is/fgreport/internal/table"
)

// parse runs schema over the file at path.
func (r *run) parse(ctx context.Context, path string, schema *blockparse.Schema) (*blockparse.Result, error) {
	sc, err := linescan.Open(path, r.opts.Encoding)
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %w", r.gen.Name, ErrUnreadableSource, err)
	}
	defer sc.Close()

	res, err := blockparse.Parse(ctx, schema, sc, blockparse.WithLogger(r.logger))
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		if sc.Err() != nil {
			return nil, fmt.Errorf("%s: %w: %s: %w", r.gen.Name, ErrUnreadableSource, path, err)
		}
		return nil, fmt.Errorf("%s: %w", r.gen.Name, err)
	}

	st := res.Stats
	r.opts.Metrics.ObserveParse(r.gen.Name, schema.Name, st.Lines, st.Ignored, st.Sets, st.Records)
	r.logger.Debug("parsed", "schema", schema.Name, "path", path,
		"lines", st.Lines, "records", st.Records, "ignored", st.Ignored)
	return res, nil
}

// project lays records out under columns, one row per record.
func project(name, title string, columns []string, records []*blockparse.Record) *table.Table {
	t := table.New(name, title, columns)
	for _, rec := range records {
		row := make([]string, len(columns))
		for i, c := range columns {
			row[i] = rec.String(c)
		}
		t.Append(row...)
	}
	return t
}
