package table

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"
)

// Options control how a table is written.
type Options struct {
	// SkipHeader omits the header row where the format has one.
	SkipHeader bool
	// RunID tags sqlite rows; a fresh UUID is used when empty.
	RunID string
	// Source is the input path recorded alongside sqlite runs.
	Source string
	// CreatedAt stamps sqlite runs; zero means now.
	CreatedAt time.Time
}

// Write renders t to w in a stream format. SQLite needs a file; use WriteFile.
func Write(w io.Writer, f Format, t *Table, opts Options) error {
	switch f {
	case FormatXLSX:
		return writeXLSX(w, t, opts)
	case FormatCSV:
		return writeCSV(w, t, opts)
	case FormatYAML:
		return writeYAML(w, t, opts)
	case FormatTable:
		return Render(w, t, opts)
	case FormatSQLite:
		return fmt.Errorf("%s output needs a file path", f)
	default:
		return fmt.Errorf("unknown format %q", f)
	}
}

// WriteFile writes t to path. Stream formats are written to a temporary file
// next to path and renamed into place, so a failed run never leaves a
// partial report. SQLite output is added to path inside one transaction.
func WriteFile(path string, f Format, t *Table, opts Options) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	if f == FormatSQLite {
		return writeSQLite(path, t, opts)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if err := Write(tmp, f, t, opts); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return err
	}
	if err := os.Chmod(tmpPath, 0644); err != nil {
		os.Remove(tmpPath)
		return err
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return err
	}
	return nil
}
