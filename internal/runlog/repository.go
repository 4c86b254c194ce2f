package runlog

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/nerrad567/show-logic-core/effects"
)

// Repository defines the interface for run persistence.
// This abstraction allows different implementations (SQLite, mock, etc.)
// and enables unit testing without database dependencies.
type Repository interface {
	Create(ctx context.Context, run *Run) error
	Get(ctx context.Context, id string) (*Run, error)
	List(ctx context.Context, limit int) ([]Run, error)
	ListByShow(ctx context.Context, showID string, limit int) ([]Run, error)

	// DeleteOlderThan prunes runs that started before the cutoff,
	// returning the number of rows removed.
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// runColumns is the SELECT column list for run queries.
const runColumns = `id, show_id, show_name, status, started_at, completed_at,
			duration_ms, effects_dispatched, effects_completed, effects_failed,
			failures, error_message`

// SQLiteRepository implements Repository using SQLite.
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository creates a new SQLite-backed repository.
func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// Create inserts a new run record.
func (r *SQLiteRepository) Create(ctx context.Context, run *Run) error {
	failuresJSON, err := marshalFailures(run.Failures)
	if err != nil {
		return fmt.Errorf("marshalling failures: %w", err)
	}

	query := `
		INSERT INTO runs (
			id, show_id, show_name, status, started_at, completed_at,
			duration_ms, effects_dispatched, effects_completed, effects_failed,
			failures, error_message
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	// Timestamps are stored RFC3339 in UTC so that string comparison and
	// ORDER BY sort chronologically.
	_, err = r.db.ExecContext(ctx, query,
		run.ID,
		run.ShowID,
		run.ShowName,
		string(run.Status),
		run.StartedAt.UTC().Format(time.RFC3339),
		run.CompletedAt.UTC().Format(time.RFC3339),
		run.DurationMS,
		run.EffectsDispatched,
		run.EffectsCompleted,
		run.EffectsFailed,
		failuresJSON,
		nullableString(run.Error),
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return ErrRunExists
		}
		return fmt.Errorf("inserting run: %w", err)
	}
	return nil
}

// Get retrieves a run by its unique identifier.
func (r *SQLiteRepository) Get(ctx context.Context, id string) (*Run, error) {
	query := `SELECT ` + runColumns + ` FROM runs WHERE id = ?`

	row := r.db.QueryRowContext(ctx, query, id)
	run, err := scanRun(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRunNotFound
		}
		return nil, fmt.Errorf("querying run by id: %w", err)
	}
	return run, nil
}

// List retrieves the most recent runs across all shows.
func (r *SQLiteRepository) List(ctx context.Context, limit int) ([]Run, error) {
	query := `SELECT ` + runColumns + ` FROM runs ORDER BY started_at DESC LIMIT ?`
	return r.queryRuns(ctx, query, clampLimit(limit))
}

// ListByShow retrieves the most recent runs for a single show.
func (r *SQLiteRepository) ListByShow(ctx context.Context, showID string, limit int) ([]Run, error) {
	query := `SELECT ` + runColumns + ` FROM runs WHERE show_id = ? ORDER BY started_at DESC LIMIT ?`
	return r.queryRuns(ctx, query, showID, clampLimit(limit))
}

// DeleteOlderThan removes runs that started before the cutoff.
func (r *SQLiteRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := r.db.ExecContext(ctx,
		"DELETE FROM runs WHERE started_at < ?",
		cutoff.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return 0, fmt.Errorf("deleting runs: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("checking rows affected: %w", err)
	}
	return rowsAffected, nil
}

// queryRuns executes a query and returns a slice of runs.
func (r *SQLiteRepository) queryRuns(ctx context.Context, query string, args ...any) ([]Run, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, scanErr := scanRunFromRows(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("scanning run: %w", scanErr)
		}
		runs = append(runs, *run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating runs: %w", err)
	}
	return runs, nil
}

// ─── Row Scanning Helpers ───────────────────────────────────────────────────

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanRun scans a single sql.Row into a Run.
func scanRun(row *sql.Row) (*Run, error) {
	return scanRunRow(row)
}

// scanRunFromRows scans a sql.Rows result into a Run.
func scanRunFromRows(rows *sql.Rows) (*Run, error) {
	return scanRunRow(rows)
}

func scanRunRow(scanner rowScanner) (*Run, error) {
	var r Run
	var status, startedAt, completedAt string
	var failuresJSON, errorMessage sql.NullString

	err := scanner.Scan(
		&r.ID,
		&r.ShowID,
		&r.ShowName,
		&status,
		&startedAt,
		&completedAt,
		&r.DurationMS,
		&r.EffectsDispatched,
		&r.EffectsCompleted,
		&r.EffectsFailed,
		&failuresJSON,
		&errorMessage,
	)
	if err != nil {
		return nil, err
	}

	r.Status = effects.Status(status)

	// Parse timestamps (stored as RFC3339, format is controlled by us)
	if t, parseErr := time.Parse(time.RFC3339, startedAt); parseErr == nil {
		r.StartedAt = t
	}
	if t, parseErr := time.Parse(time.RFC3339, completedAt); parseErr == nil {
		r.CompletedAt = t
	}

	if errorMessage.Valid {
		r.Error = errorMessage.String
	}

	// Unmarshal failures JSON
	if failuresJSON.Valid && failuresJSON.String != "" && failuresJSON.String != "null" {
		if jsonErr := json.Unmarshal([]byte(failuresJSON.String), &r.Failures); jsonErr != nil {
			return nil, fmt.Errorf("unmarshalling failures: %w", jsonErr)
		}
	}

	return &r, nil
}

// ─── SQL Helpers ────────────────────────────────────────────────────────────

func nullableString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func marshalFailures(failures []effects.EffectFailure) (sql.NullString, error) {
	if len(failures) == 0 {
		return sql.NullString{}, nil
	}
	data, err := json.Marshal(failures)
	if err != nil {
		return sql.NullString{}, err
	}
	return sql.NullString{String: string(data), Valid: true}, nil
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return 10
	}
	if limit > 100 {
		return 100
	}
	return limit
}

func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint failed") ||
		strings.Contains(msg, "unique constraint")
}
