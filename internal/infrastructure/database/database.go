package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

const (
	// dirPermissions restricts the database directory to owner + group.
	dirPermissions = 0750

	// filePermissions restricts the database file to the owner.
	filePermissions = 0600

	// millisPerSecond converts the configured busy timeout into the unit
	// the sqlite3 driver expects.
	millisPerSecond = 1000

	// openPingTimeout bounds the connectivity check during Open.
	openPingTimeout = 5 * time.Second

	// connMaxIdleTime is how long an idle connection is kept open.
	connMaxIdleTime = 30 * time.Minute
)

// Config holds the database section of config.yaml.
type Config struct {
	// Path is the SQLite database file. Its directory is created on first
	// open if missing.
	Path string

	// WALMode enables Write-Ahead Logging, allowing reads to proceed
	// while a write is in flight.
	WALMode bool

	// BusyTimeout is how long a statement waits on a locked database,
	// in seconds, before failing with "database is locked".
	BusyTimeout int
}

// DB wraps a sql.DB with the run-store lifecycle: pragma setup on open,
// embedded migrations, and a health probe for startup checks.
type DB struct {
	*sql.DB
	path string
}

// Open connects to the SQLite database described by cfg, creating the file
// and its directory when absent. The connection is verified with a ping
// before being returned.
func Open(cfg Config) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(cfg.Path), dirPermissions); err != nil {
		return nil, fmt.Errorf("creating database directory: %w", err)
	}

	// Pragmas ride along on the DSN, see
	// https://github.com/mattn/go-sqlite3#connection-string
	params := []string{
		fmt.Sprintf("_busy_timeout=%d", cfg.BusyTimeout*millisPerSecond),
		"_foreign_keys=on",
	}
	if cfg.WALMode {
		params = append(params, "_journal_mode=WAL", "_synchronous=NORMAL")
	}

	sqlDB, err := sql.Open("sqlite3", "file:"+cfg.Path+"?"+strings.Join(params, "&"))
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// One writer connection; SQLite serialises writes anyway and a single
	// connection avoids lock contention between our own statements.
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetConnMaxLifetime(time.Hour)
	sqlDB.SetConnMaxIdleTime(connMaxIdleTime)

	db := &DB{DB: sqlDB, path: cfg.Path}

	ctx, cancel := context.WithTimeout(context.Background(), openPingTimeout)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		sqlDB.Close() //nolint:errcheck // best effort on the error path
		return nil, fmt.Errorf("verifying database connection: %w", err)
	}

	// Tighten file permissions. The file may not exist until the first
	// write, so a failure here is not an error.
	_ = os.Chmod(cfg.Path, filePermissions)

	return db, nil
}

// Close releases the underlying connection. Safe on a zero-value DB.
func (db *DB) Close() error {
	if db.DB == nil {
		return nil
	}
	if err := db.DB.Close(); err != nil {
		return fmt.Errorf("closing database: %w", err)
	}
	return nil
}

// Path returns the database file path this DB was opened with.
func (db *DB) Path() string {
	return db.path
}

// HealthCheck runs a trivial query to confirm the connection is usable.
func (db *DB) HealthCheck(ctx context.Context) error {
	var one int
	if err := db.QueryRowContext(ctx, "SELECT 1").Scan(&one); err != nil {
		return fmt.Errorf("database health check failed: %w", err)
	}
	return nil
}

// ExecContext runs a statement that returns no rows, wrapping driver
// errors with context.
func (db *DB) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	result, err := db.DB.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("executing query: %w", err)
	}
	return result, nil
}

// QueryRowContext runs a query expected to return at most one row.
func (db *DB) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	return db.DB.QueryRowContext(ctx, query, args...)
}

// BeginTx starts a transaction. Callers defer tx.Rollback (a no-op once
// committed) and Commit explicitly.
func (db *DB) BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error) {
	tx, err := db.DB.BeginTx(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("starting transaction: %w", err)
	}
	return tx, nil
}
