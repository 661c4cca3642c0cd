package journal

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// Run statuses.
const (
	StatusRunning   = "running"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// Run is one recorded processing run.
type Run struct {
	ID          int64
	StartedAt   time.Time
	FinishedAt  time.Time
	Source      string
	Destination string
	Status      string
	Error       string
}

// Phase is one recorded pipeline phase within a run.
type Phase struct {
	RunID      int64
	Name       string
	Status     string
	StartedAt  time.Time
	FinishedAt time.Time
	Error      string
}

// Store persists run history backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

const schema = `
CREATE TABLE IF NOT EXISTS runs (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    started_at TEXT NOT NULL,
    finished_at TEXT,
    source TEXT NOT NULL,
    destination TEXT NOT NULL,
    status TEXT NOT NULL,
    error TEXT NOT NULL DEFAULT ''
);
CREATE TABLE IF NOT EXISTS phases (
    run_id INTEGER NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
    name TEXT NOT NULL,
    status TEXT NOT NULL,
    started_at TEXT NOT NULL,
    finished_at TEXT,
    error TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_phases_run ON phases(run_id);
`

// Open initializes or connects to the journal database at path.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create journal directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open journal db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply journal schema: %w", err)
	}

	return &Store{db: db, path: path}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// BeginRun records the start of a processing run and returns its ID.
func (s *Store) BeginRun(ctx context.Context, source, destination string) (int64, error) {
	result, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (started_at, source, destination, status) VALUES (?, ?, ?, ?)`,
		timestamp(time.Now()), source, destination, StatusRunning,
	)
	if err != nil {
		return 0, fmt.Errorf("insert run: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("run id: %w", err)
	}
	return id, nil
}

// FinishRun records the outcome of a run. A nil runErr marks it
// completed.
func (s *Store) FinishRun(ctx context.Context, runID int64, runErr error) error {
	status := StatusCompleted
	message := ""
	if runErr != nil {
		status = StatusFailed
		message = runErr.Error()
	}
	_, err := s.db.ExecContext(ctx,
		`UPDATE runs SET finished_at = ?, status = ?, error = ? WHERE id = ?`,
		timestamp(time.Now()), status, message, runID,
	)
	if err != nil {
		return fmt.Errorf("finish run: %w", err)
	}
	return nil
}

// RecordPhase records one finished phase of a run.
func (s *Store) RecordPhase(ctx context.Context, runID int64, name string, startedAt time.Time, phaseErr error) error {
	status := StatusCompleted
	message := ""
	if phaseErr != nil {
		status = StatusFailed
		message = phaseErr.Error()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO phases (run_id, name, status, started_at, finished_at, error) VALUES (?, ?, ?, ?, ?, ?)`,
		runID, name, status, timestamp(startedAt), timestamp(time.Now()), message,
	)
	if err != nil {
		return fmt.Errorf("record phase %q: %w", name, err)
	}
	return nil
}

// ListRuns returns the most recent runs, newest first.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, started_at, COALESCE(finished_at, ''), source, destination, status, error
         FROM runs ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var run Run
		var started, finished string
		if err := rows.Scan(&run.ID, &started, &finished, &run.Source, &run.Destination, &run.Status, &run.Error); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		run.StartedAt = parseTimestamp(started)
		run.FinishedAt = parseTimestamp(finished)
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// RunPhases returns the phases of one run in recorded order.
func (s *Store) RunPhases(ctx context.Context, runID int64) ([]Phase, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT run_id, name, status, started_at, COALESCE(finished_at, ''), error
         FROM phases WHERE run_id = ? ORDER BY rowid`, runID)
	if err != nil {
		return nil, fmt.Errorf("list phases: %w", err)
	}
	defer rows.Close()

	var phases []Phase
	for rows.Next() {
		var phase Phase
		var started, finished string
		if err := rows.Scan(&phase.RunID, &phase.Name, &phase.Status, &started, &finished, &phase.Error); err != nil {
			return nil, fmt.Errorf("scan phase: %w", err)
		}
		phase.StartedAt = parseTimestamp(started)
		phase.FinishedAt = parseTimestamp(finished)
		phases = append(phases, phase)
	}
	return phases, rows.Err()
}

func timestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTimestamp(value string) time.Time {
	if value == "" {
		return time.Time{}
	}
	parsed, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return time.Time{}
	}
	return parsed
}
