package runstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// Store manages run history persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the run history database and applies migrations.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("ensure store directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
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

	store := &Store{db: db, path: path}
	if err := store.applyMigrations(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}

	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database location.
func (s *Store) Path() string { return s.path }

// CreateRun inserts a new run in the running state.
func (s *Store) CreateRun(ctx context.Context, run *Run) error {
	if run == nil {
		return errors.New("run is nil")
	}
	if run.Status == "" {
		run.Status = RunRunning
	}
	if run.StartedAt.IsZero() {
		run.StartedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO runs (id, plan, input_path, input_snapshot, status, started_at, jobs_total)
         VALUES (?, ?, ?, ?, ?, ?, ?)`,
		run.ID,
		run.Plan,
		nullableString(run.InputPath),
		nullableString(run.InputSnapshot),
		run.Status,
		run.StartedAt.Format(time.RFC3339Nano),
		run.JobsTotal,
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	return nil
}

// FinishRun records the final state and counters of a run.
func (s *Store) FinishRun(ctx context.Context, run *Run) error {
	if run == nil {
		return errors.New("run is nil")
	}
	now := time.Now().UTC()
	run.FinishedAt = &now
	_, err := s.db.ExecContext(
		ctx,
		`UPDATE runs SET status = ?, finished_at = ?, jobs_total = ?, jobs_failed = ?, jobs_skipped = ?
         WHERE id = ?`,
		run.Status,
		now.Format(time.RFC3339Nano),
		run.JobsTotal,
		run.JobsFailed,
		run.JobsSkipped,
		run.ID,
	)
	if err != nil {
		return fmt.Errorf("finish run: %w", err)
	}
	return nil
}

// RecordJob persists the result of one job invocation. Written as jobs
// complete so a crashed run still shows partial history.
func (s *Store) RecordJob(ctx context.Context, rec *JobRecord) error {
	if rec == nil {
		return errors.New("job record is nil")
	}
	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO run_jobs (run_id, position, name, input, output, status, error_message, started_at, duration_ms)
         VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.RunID,
		rec.Position,
		rec.Name,
		nullableString(rec.Input),
		nullableString(rec.Output),
		rec.Status,
		nullableString(rec.ErrorMessage),
		rec.StartedAt.UTC().Format(time.RFC3339Nano),
		rec.Duration.Milliseconds(),
	)
	if err != nil {
		return fmt.Errorf("record job: %w", err)
	}
	return nil
}

// GetRun fetches a run by identifier. Returns nil when absent.
func (s *Store) GetRun(ctx context.Context, id string) (*Run, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM runs WHERE id = ?`, id)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get run: %w", err)
	}
	return run, nil
}

// FindRun fetches a run by full identifier or by a unique identifier
// prefix, so runs can be looked up with the short IDs the CLI prints.
// Returns nil when nothing matches and an error when the prefix is
// ambiguous.
func (s *Store) FindRun(ctx context.Context, idOrPrefix string) (*Run, error) {
	run, err := s.GetRun(ctx, idOrPrefix)
	if err != nil || run != nil {
		return run, err
	}

	rows, err := s.db.QueryContext(
		ctx,
		`SELECT `+runColumns+` FROM runs WHERE id LIKE ? || '%' LIMIT 2`,
		idOrPrefix,
	)
	if err != nil {
		return nil, fmt.Errorf("find run: %w", err)
	}
	defer rows.Close()

	var matches []*Run
	for rows.Next() {
		match, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		matches = append(matches, match)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	switch len(matches) {
	case 0:
		return nil, nil
	case 1:
		return matches[0], nil
	default:
		return nil, fmt.Errorf("run prefix %q is ambiguous", idOrPrefix)
	}
}

// ListRuns returns the most recent runs, newest first.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]*Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT `+runColumns+` FROM runs ORDER BY started_at DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
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
	return runs, rows.Err()
}

// JobsForRun returns the job records of a run in execution order.
func (s *Store) JobsForRun(ctx context.Context, runID string) ([]*JobRecord, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT run_id, position, name, input, output, status, error_message, started_at, duration_ms
         FROM run_jobs WHERE run_id = ? ORDER BY position`,
		runID,
	)
	if err != nil {
		return nil, fmt.Errorf("jobs for run: %w", err)
	}
	defer rows.Close()

	var records []*JobRecord
	for rows.Next() {
		var (
			rec        JobRecord
			input      sql.NullString
			output     sql.NullString
			errMsg     sql.NullString
			startedRaw sql.NullString
			durationMS int64
		)
		if err := rows.Scan(&rec.RunID, &rec.Position, &rec.Name, &input, &output, &rec.Status, &errMsg, &startedRaw, &durationMS); err != nil {
			return nil, err
		}
		rec.Input = input.String
		rec.Output = output.String
		rec.ErrorMessage = errMsg.String
		if t, err := time.Parse(time.RFC3339Nano, startedRaw.String); err == nil {
			rec.StartedAt = t
		}
		rec.Duration = time.Duration(durationMS) * time.Millisecond
		records = append(records, &rec)
	}
	return records, rows.Err()
}

const runColumns = "id, plan, input_path, input_snapshot, status, started_at, finished_at, jobs_total, jobs_failed, jobs_skipped"

func scanRun(scanner interface{ Scan(dest ...any) error }) (*Run, error) {
	var (
		run         Run
		inputPath   sql.NullString
		snapshot    sql.NullString
		statusStr   string
		startedRaw  sql.NullString
		finishedRaw sql.NullString
	)
	if err := scanner.Scan(
		&run.ID,
		&run.Plan,
		&inputPath,
		&snapshot,
		&statusStr,
		&startedRaw,
		&finishedRaw,
		&run.JobsTotal,
		&run.JobsFailed,
		&run.JobsSkipped,
	); err != nil {
		return nil, err
	}

	run.InputPath = inputPath.String
	run.InputSnapshot = snapshot.String
	run.Status = RunStatus(statusStr)
	if t, err := time.Parse(time.RFC3339Nano, startedRaw.String); err == nil {
		run.StartedAt = t
	}
	if finishedRaw.Valid {
		if t, err := time.Parse(time.RFC3339Nano, finishedRaw.String); err == nil {
			run.FinishedAt = &t
		}
	}
	return &run, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}
