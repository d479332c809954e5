package table

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

const runsSchema = `
	CREATE TABLE IF NOT EXISTS report_runs (
		run_id TEXT PRIMARY KEY,
		report TEXT NOT NULL,
		title TEXT,
		source TEXT,
		created_at DATETIME NOT NULL,
		row_count INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_report_runs_report ON report_runs(report);
`

// writeSQLite adds t to the database at path: one row in report_runs and
// the report rows, tagged with the run id, in a table named after the
// report. Columns that a run introduces are added to the table.
func writeSQLite(path string, t *Table, opts Options) (err error) {
	_, statErr := os.Stat(path)
	created := errors.Is(statErr, os.ErrNotExist)

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("open report db: %w", err)
	}
	defer func() {
		db.Close()
		if err != nil && created {
			os.Remove(path)
		}
	}()

	if _, err = db.Exec(runsSchema); err != nil {
		return fmt.Errorf("create report_runs table: %w", err)
	}

	runID := opts.RunID
	if runID == "" {
		runID = uuid.NewString()
	}
	createdAt := opts.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	name := tableName(t.Name)
	columns := columnNames(t.Headers)
	if err = ensureTable(tx, name, columns); err != nil {
		return err
	}

	if _, err = tx.Exec(
		`INSERT INTO report_runs (run_id, report, title, source, created_at, row_count) VALUES (?, ?, ?, ?, ?, ?)`,
		runID, t.Name, t.Title, opts.Source, createdAt.UTC().Format(time.RFC3339), len(t.Rows),
	); err != nil {
		return fmt.Errorf("record run: %w", err)
	}

	quoted := make([]string, 0, len(columns)+2)
	quoted = append(quoted, "run_id", "row_num")
	for _, c := range columns {
		quoted = append(quoted, quoteIdent(c))
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(quoted)), ", ")
	stmt, err := tx.Prepare(fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		quoteIdent(name), strings.Join(quoted, ", "), placeholders))
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, r := range t.Rows {
		args := make([]any, 0, len(quoted))
		args = append(args, runID, i+1)
		for j := range columns {
			cell := ""
			if j < len(r) {
				cell = r[j]
			}
			args = append(args, cell)
		}
		if _, err = stmt.Exec(args...); err != nil {
			return fmt.Errorf("insert row %d: %w", i+1, err)
		}
	}

	return tx.Commit()
}

func ensureTable(tx *sql.Tx, name string, columns []string) error {
	if _, err := tx.Exec(fmt.Sprintf(
		"CREATE TABLE IF NOT EXISTS %s (run_id TEXT NOT NULL REFERENCES report_runs(run_id), row_num INTEGER NOT NULL)",
		quoteIdent(name))); err != nil {
		return fmt.Errorf("create table %s: %w", name, err)
	}

	rows, err := tx.Query(fmt.Sprintf("PRAGMA table_info(%s)", quoteIdent(name)))
	if err != nil {
		return err
	}
	existing := make(map[string]bool)
	for rows.Next() {
		var (
			cid     int
			colName string
			colType string
			notNull int
			dflt    sql.NullString
			pk      int
		)
		if err := rows.Scan(&cid, &colName, &colType, &notNull, &dflt, &pk); err != nil {
			rows.Close()
			return err
		}
		existing[strings.ToLower(colName)] = true
	}
	if err := rows.Close(); err != nil {
		return err
	}

	for _, c := range columns {
		if existing[strings.ToLower(c)] {
			continue
		}
		if _, err := tx.Exec(fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s TEXT", quoteIdent(name), quoteIdent(c))); err != nil {
			return fmt.Errorf("add column %s: %w", c, err)
		}
		existing[strings.ToLower(c)] = true
	}
	return nil
}

func quoteIdent(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

func tableName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return "report"
	}
	if strings.HasPrefix(strings.ToLower(name), "sqlite_") || strings.EqualFold(name, "report_runs") {
		return "report_" + name
	}
	return name
}

// columnNames makes headers usable as sqlite columns. SQLite compares
// column names case-insensitively, so duplicates are detected that way.
func columnNames(headers []string) []string {
	out := make([]string, len(headers))
	seen := map[string]bool{"run_id": true, "row_num": true}
	for i, h := range headers {
		name := strings.TrimSpace(h)
		if name == "" {
			name = fmt.Sprintf("column_%d", i+1)
		}
		base := name
		for n := 2; seen[strings.ToLower(name)]; n++ {
			name = fmt.Sprintf("%s_%d", base, n)
		}
		seen[strings.ToLower(name)] = true
		out[i] = name
	}
	return out
}
