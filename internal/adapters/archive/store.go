// Package archive indexes generated reports in a local SQLite database,
// backing the history listing.
package archive

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/jaekyeom/dayrecap/internal/ports"
)

const schema = `
CREATE TABLE IF NOT EXISTS reports (
	run_id        TEXT PRIMARY KEY,
	date          TEXT NOT NULL,
	path          TEXT NOT NULL,
	total_seconds REAL NOT NULL,
	app_count     INTEGER NOT NULL,
	meeting_count INTEGER NOT NULL,
	task_count    INTEGER NOT NULL,
	created_at    TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_reports_created_at ON reports (created_at DESC);
`

type Store struct {
	db *sql.DB
}

var _ ports.ReportArchive = (*Store)(nil)

// Open creates the database file (and its directory) when missing and
// applies the schema.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("create archive directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open report archive: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply archive schema: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Record upserts one report run; rerunning a day replaces its row fields but
// keeps the run distinct by ID.
func (s *Store) Record(ctx context.Context, record ports.ReportRecord) error {
	const query = `
INSERT INTO reports (run_id, date, path, total_seconds, app_count, meeting_count, task_count, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT (run_id) DO UPDATE SET
	date = excluded.date,
	path = excluded.path,
	total_seconds = excluded.total_seconds,
	app_count = excluded.app_count,
	meeting_count = excluded.meeting_count,
	task_count = excluded.task_count,
	created_at = excluded.created_at
`

	_, err := s.db.ExecContext(ctx, query,
		record.RunID, record.Date, record.Path, record.TotalSeconds,
		record.AppCount, record.MeetingCount, record.TaskCount, record.CreatedAt)
	if err != nil {
		return fmt.Errorf("record report run: %w", err)
	}

	return nil
}

// Recent returns the newest runs first.
func (s *Store) Recent(ctx context.Context, limit int) ([]ports.ReportRecord, error) {
	if limit <= 0 {
		limit = 10
	}

	const query = `
SELECT run_id, date, path, total_seconds, app_count, meeting_count, task_count, created_at
FROM reports
ORDER BY created_at DESC, run_id
LIMIT ?
`

	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("query report runs: %w", err)
	}
	defer rows.Close()

	var records []ports.ReportRecord
	for rows.Next() {
		var r ports.ReportRecord
		err := rows.Scan(&r.RunID, &r.Date, &r.Path, &r.TotalSeconds,
			&r.AppCount, &r.MeetingCount, &r.TaskCount, &r.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("scan report run: %w", err)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate report runs: %w", err)
	}

	return records, nil
}
