package database

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// MigrationsFS is set by the migrations package so that schema files are
// compiled into the binary:
//
//	//go:embed *.sql
//	var migrationsFS embed.FS
//
//	func init() {
//	    database.MigrationsFS = migrationsFS
//	    database.MigrationsDir = "."
//	}
var MigrationsFS embed.FS

// MigrationsDir is the directory inside MigrationsFS holding the schema
// files. "." when the files sit at the root of the embedded filesystem.
var MigrationsDir = "migrations"

// Migration is one schema change, read from a pair of embedded files named
// VERSION_description.up.sql and VERSION_description.down.sql, where VERSION
// is YYYYMMDD_HHMMSS. A migration without an up file is ignored; the down
// file is optional.
type Migration struct {
	// Version orders migrations and keys the schema_migrations table.
	Version string

	// Name is the description part of the filename, e.g. "create_runs".
	Name string

	UpSQL   string
	DownSQL string
}

// MigrationRecord is an applied entry from the schema_migrations table.
type MigrationRecord struct {
	Version   string
	AppliedAt time.Time
}

// Migrate brings the schema up to date, applying pending migrations oldest
// first, each in its own transaction. A failure leaves earlier migrations
// committed and later ones unattempted; rerunning Migrate resumes at the
// failed version.
func (db *DB) Migrate(ctx context.Context) error {
	if err := db.ensureMigrationsTable(ctx); err != nil {
		return fmt.Errorf("ensuring migrations table: %w", err)
	}

	_, pending, err := db.migrationState(ctx)
	if err != nil {
		return err
	}

	for _, m := range pending {
		if err := db.applyUp(ctx, m); err != nil {
			return fmt.Errorf("applying migration %s (%s): %w", m.Version, m.Name, err)
		}
	}

	return nil
}

// MigrateDown rolls back the most recently applied migration. Intended for
// development and tests; a migration without down SQL cannot be rolled back.
func (db *DB) MigrateDown(ctx context.Context) error {
	applied, _, err := db.migrationState(ctx)
	if err != nil {
		return err
	}
	if len(applied) == 0 {
		return nil
	}

	latest := applied[len(applied)-1].Version
	m, found := findMigration(latest)
	if !found {
		return fmt.Errorf("migration %s not present in embedded filesystem", latest)
	}
	if m.DownSQL == "" {
		return fmt.Errorf("migration %s has no down SQL", latest)
	}

	return db.applyDown(ctx, m)
}

// GetMigrationStatus reports which migrations have been applied and which
// are still pending. Used for startup logging.
func (db *DB) GetMigrationStatus(ctx context.Context) (applied []MigrationRecord, pending []Migration, err error) {
	if err := db.ensureMigrationsTable(ctx); err != nil {
		return nil, nil, fmt.Errorf("ensuring migrations table: %w", err)
	}
	return db.migrationState(ctx)
}

// migrationState pairs the applied records from the database with the
// embedded migrations they have not yet covered.
func (db *DB) migrationState(ctx context.Context) ([]MigrationRecord, []Migration, error) {
	applied, err := db.appliedRecords(ctx)
	if err != nil {
		return nil, nil, err
	}

	available, err := readMigrations()
	if err != nil {
		return nil, nil, fmt.Errorf("reading embedded migrations: %w", err)
	}

	seen := make(map[string]bool, len(applied))
	for _, r := range applied {
		seen[r.Version] = true
	}

	var pending []Migration
	for _, m := range available {
		if !seen[m.Version] {
			pending = append(pending, m)
		}
	}

	return applied, pending, nil
}

// ensureMigrationsTable creates the bookkeeping table on first use.
func (db *DB) ensureMigrationsTable(ctx context.Context) error {
	const schema = `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version TEXT PRIMARY KEY,
			applied_at TEXT NOT NULL
		)
	`
	_, err := db.ExecContext(ctx, schema)
	return err
}

// appliedRecords returns the applied migrations in version order.
func (db *DB) appliedRecords(ctx context.Context) ([]MigrationRecord, error) {
	rows, err := db.DB.QueryContext(ctx,
		"SELECT version, applied_at FROM schema_migrations ORDER BY version",
	)
	if err != nil {
		return nil, fmt.Errorf("querying schema_migrations: %w", err)
	}
	defer rows.Close()

	var records []MigrationRecord
	for rows.Next() {
		var (
			r         MigrationRecord
			appliedAt string
		)
		if err := rows.Scan(&r.Version, &appliedAt); err != nil {
			return nil, fmt.Errorf("scanning migration record: %w", err)
		}
		// Timestamps are written by applyUp in RFC3339; a parse failure
		// leaves the zero time rather than failing the whole listing.
		r.AppliedAt, _ = time.Parse(time.RFC3339, appliedAt)
		records = append(records, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating schema_migrations: %w", err)
	}
	return records, nil
}

// applyUp runs one migration's up SQL and records it, atomically.
func (db *DB) applyUp(ctx context.Context, m Migration) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	if _, err := tx.ExecContext(ctx, m.UpSQL); err != nil {
		return fmt.Errorf("executing up SQL: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		"INSERT INTO schema_migrations (version, applied_at) VALUES (?, ?)",
		m.Version,
		time.Now().UTC().Format(time.RFC3339),
	); err != nil {
		return fmt.Errorf("recording migration: %w", err)
	}
	return tx.Commit()
}

// applyDown runs one migration's down SQL and deletes its record, atomically.
func (db *DB) applyDown(ctx context.Context, m Migration) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	if _, err := tx.ExecContext(ctx, m.DownSQL); err != nil {
		return fmt.Errorf("executing down SQL: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		"DELETE FROM schema_migrations WHERE version = ?", m.Version,
	); err != nil {
		return fmt.Errorf("deleting migration record: %w", err)
	}
	return tx.Commit()
}

// findMigration locates one embedded migration by version.
func findMigration(version string) (Migration, bool) {
	available, err := readMigrations()
	if err != nil {
		return Migration{}, false
	}
	for _, m := range available {
		if m.Version == version {
			return m, true
		}
	}
	return Migration{}, false
}

// readMigrations loads every embedded migration, sorted oldest first.
// Files that do not match the naming contract are skipped, as are versions
// that only have a down file.
func readMigrations() ([]Migration, error) {
	var empty embed.FS
	if MigrationsFS == empty {
		return nil, nil
	}

	entries, err := fs.ReadDir(MigrationsFS, MigrationsDir)
	if err != nil {
		// Missing directory means no migrations are embedded.
		return nil, nil
	}

	byVersion := make(map[string]*Migration)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		version, name, up, ok := parseMigrationFilename(entry.Name())
		if !ok {
			continue
		}

		sql, err := fs.ReadFile(MigrationsFS, filepath.Join(MigrationsDir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", entry.Name(), err)
		}

		m := byVersion[version]
		if m == nil {
			m = &Migration{Version: version}
			byVersion[version] = m
		}
		if up {
			m.Name = name
			m.UpSQL = string(sql)
		} else {
			m.DownSQL = string(sql)
		}
	}

	migrations := make([]Migration, 0, len(byVersion))
	for _, m := range byVersion {
		if m.UpSQL == "" {
			continue
		}
		migrations = append(migrations, *m)
	}

	sort.Slice(migrations, func(i, j int) bool {
		return migrations[i].Version < migrations[j].Version
	})
	return migrations, nil
}

// parseMigrationFilename splits a filename of the form
// YYYYMMDD_HHMMSS_description.up.sql (or .down.sql) into its version,
// description and direction. ok is false for any other shape.
func parseMigrationFilename(filename string) (version, name string, up, ok bool) {
	base, found := strings.CutSuffix(filename, ".sql")
	if !found {
		return "", "", false, false
	}

	if trimmed, isUp := strings.CutSuffix(base, ".up"); isUp {
		base, up = trimmed, true
	} else if trimmed, isDown := strings.CutSuffix(base, ".down"); isDown {
		base, up = trimmed, false
	} else {
		return "", "", false, false
	}

	// Version is the first two underscore-separated fields (date and time);
	// everything after them is the description.
	date := strings.IndexByte(base, '_')
	if date < 0 {
		return "", "", false, false
	}
	desc := strings.IndexByte(base[date+1:], '_')
	if desc < 0 {
		return "", "", false, false
	}

	split := date + 1 + desc
	return base[:split], base[split+1:], up, true
}
