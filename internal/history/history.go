// Package history persists sync run outcomes in an embedded SQLite database
// under the vault's state directory. The engine itself never touches it;
// callers record a run after the driver returns and query past runs for
// status display.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
)

// Run is one recorded sync pass.
type Run struct {
	ID         int64
	StartedAt  time.Time
	FinishedAt time.Time

	// Snapshot metadata from the export, cached for display only.
	Project     string
	ToolVersion string
	ExportedAt  string

	Created int
	Updated int
	Moved   int
	Skipped int
	Errors  int

	Skips []Skip
}

// Skip is one skipped record within a run.
type Skip struct {
	RecordID   string
	RecordName string
	Reason     string
}

// DB wraps the history database connection.
type DB struct {
	conn *sql.DB
	path string
}

// Open opens (creating if needed) the history database at path and ensures
// the schema exists. The caller must Close it.
func Open(path string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create history directory: %w", err)
	}

	conn, err := sql.Open("sqlite3", "file:"+path)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}
	if err := conn.Ping(); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to ping history database: %w", err)
	}

	db := &DB{conn: conn, path: path}

	// WAL lets a status query read while a watch-mode run is writing.
	if _, err := db.conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}
	if _, err := db.conn.Exec("PRAGMA busy_timeout=5000"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to set busy timeout: %w", err)
	}
	if _, err := db.conn.Exec("PRAGMA foreign_keys=ON"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	if err := db.initSchema(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// Close checkpoints and closes the database.
func (db *DB) Close() error {
	if db.conn == nil {
		return nil
	}
	if _, err := db.conn.Exec("PRAGMA wal_checkpoint(TRUNCATE)"); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to checkpoint WAL: %v\n", err)
	}
	if err := db.conn.Close(); err != nil {
		return fmt.Errorf("failed to close history database: %w", err)
	}
	db.conn = nil
	return nil
}

func (db *DB) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		started_at TEXT NOT NULL,
		finished_at TEXT NOT NULL,
		project TEXT NOT NULL,
		tool_version TEXT,
		exported_at TEXT NOT NULL,
		created INTEGER NOT NULL DEFAULT 0,
		updated INTEGER NOT NULL DEFAULT 0,
		moved INTEGER NOT NULL DEFAULT 0,
		skipped INTEGER NOT NULL DEFAULT 0,
		errors INTEGER NOT NULL DEFAULT 0
	);

	CREATE TABLE IF NOT EXISTS skips (
		run_id INTEGER NOT NULL,
		record_id TEXT NOT NULL,
		record_name TEXT NOT NULL,
		reason TEXT NOT NULL,
		FOREIGN KEY (run_id) REFERENCES runs(id) ON DELETE CASCADE
	);

	CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started_at);
	CREATE INDEX IF NOT EXISTS idx_skips_run ON skips(run_id);
	`
	if _, err := db.conn.Exec(schema); err != nil {
		return fmt.Errorf("failed to initialize history schema: %w", err)
	}
	return nil
}

// RecordRun inserts a run and its skips atomically, returning the run id.
func (db *DB) RecordRun(run *Run) (int64, error) {
	return db.RecordRunContext(context.Background(), run)
}

// RecordRunContext inserts a run with context support.
func (db *DB) RecordRunContext(ctx context.Context, run *Run) (int64, error) {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		INSERT INTO runs (started_at, finished_at, project, tool_version, exported_at,
			created, updated, moved, skipped, errors)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.StartedAt.Format(time.RFC3339),
		run.FinishedAt.Format(time.RFC3339),
		run.Project,
		run.ToolVersion,
		run.ExportedAt,
		run.Created, run.Updated, run.Moved, run.Skipped, run.Errors,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert run: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read run id: %w", err)
	}

	for _, s := range run.Skips {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO skips (run_id, record_id, record_name, reason)
			VALUES (?, ?, ?, ?)`,
			id, s.RecordID, s.RecordName, s.Reason,
		); err != nil {
			return 0, fmt.Errorf("failed to insert skip: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit run: %w", err)
	}
	return id, nil
}

// LastRun returns the most recent run, or nil when no run has been
// recorded yet.
func (db *DB) LastRun() (*Run, error) {
	return db.LastRunContext(context.Background())
}

// LastRunContext returns the most recent run with context support.
func (db *DB) LastRunContext(ctx context.Context) (*Run, error) {
	row := db.conn.QueryRowContext(ctx, `
		SELECT id, started_at, finished_at, project, tool_version, exported_at,
			created, updated, moved, skipped, errors
		FROM runs ORDER BY id DESC LIMIT 1`)

	run, err := scanRun(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	run.Skips, err = db.skipsFor(ctx, run.ID)
	if err != nil {
		return nil, err
	}
	return run, nil
}

// ListRuns returns runs started at or after since, newest first. A zero
// since returns everything.
func (db *DB) ListRuns(since time.Time) ([]*Run, error) {
	return db.ListRunsContext(context.Background(), since)
}

// ListRunsContext returns runs with context support.
func (db *DB) ListRunsContext(ctx context.Context, since time.Time) ([]*Run, error) {
	rows, err := db.conn.QueryContext(ctx, `
		SELECT id, started_at, finished_at, project, tool_version, exported_at,
			created, updated, moved, skipped, errors
		FROM runs
		WHERE started_at >= ?
		ORDER BY id DESC`,
		since.Format(time.RFC3339),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating runs: %w", err)
	}
	return runs, nil
}

func (db *DB) skipsFor(ctx context.Context, runID int64) ([]Skip, error) {
	rows, err := db.conn.QueryContext(ctx, `
		SELECT record_id, record_name, reason
		FROM skips WHERE run_id = ?`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query skips: %w", err)
	}
	defer rows.Close()

	var skips []Skip
	for rows.Next() {
		var s Skip
		if err := rows.Scan(&s.RecordID, &s.RecordName, &s.Reason); err != nil {
			return nil, fmt.Errorf("failed to scan skip: %w", err)
		}
		skips = append(skips, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating skips: %w", err)
	}
	return skips, nil
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanRun(s scanner) (*Run, error) {
	var run Run
	var started, finished string
	var toolVersion sql.NullString

	err := s.Scan(&run.ID, &started, &finished, &run.Project, &toolVersion,
		&run.ExportedAt, &run.Created, &run.Updated, &run.Moved,
		&run.Skipped, &run.Errors)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan run: %w", err)
	}

	if t, err := time.Parse(time.RFC3339, started); err == nil {
		run.StartedAt = t
	}
	if t, err := time.Parse(time.RFC3339, finished); err == nil {
		run.FinishedAt = t
	}
	run.ToolVersion = toolVersion.String
	return &run, nil
}
