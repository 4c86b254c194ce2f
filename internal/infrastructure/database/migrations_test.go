package database

import (
	"context"
	"embed"
	"testing"
	"time"
)

//go:embed testdata/*.sql
var testMigrationsFS embed.FS

// useTestMigrations points the package at the testdata fixtures for the
// duration of a test, restoring the real embedded set afterwards.
func useTestMigrations(t *testing.T, fs embed.FS, dir string) {
	t.Helper()

	origFS := MigrationsFS
	origDir := MigrationsDir
	t.Cleanup(func() {
		MigrationsFS = origFS
		MigrationsDir = origDir
	})

	MigrationsFS = fs
	MigrationsDir = dir
}

func TestMigrate(t *testing.T) {
	useTestMigrations(t, testMigrationsFS, "testdata")

	db := openTestDB(t)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := db.Migrate(ctx); err != nil {
		t.Fatalf("Migrate() error = %v", err)
	}

	var tableName string
	err := db.QueryRowContext(ctx,
		"SELECT name FROM sqlite_master WHERE type='table' AND name='test_shows'",
	).Scan(&tableName)
	if err != nil {
		t.Fatalf("fixture table was not created: %v", err)
	}

	applied, pending, err := db.GetMigrationStatus(ctx)
	if err != nil {
		t.Fatalf("GetMigrationStatus() error = %v", err)
	}
	if len(applied) != 1 {
		t.Errorf("applied = %d, want 1", len(applied))
	}
	if len(applied) == 1 && applied[0].AppliedAt.IsZero() {
		t.Error("applied_at timestamp should be recorded")
	}
	if len(pending) != 0 {
		t.Errorf("pending = %d, want 0", len(pending))
	}

	// A second run must be a no-op, not a re-application.
	if err := db.Migrate(ctx); err != nil {
		t.Fatalf("repeat Migrate() error = %v", err)
	}
}

func TestMigrateDown(t *testing.T) {
	useTestMigrations(t, testMigrationsFS, "testdata")

	db := openTestDB(t)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := db.Migrate(ctx); err != nil {
		t.Fatalf("Migrate() error = %v", err)
	}
	if err := db.MigrateDown(ctx); err != nil {
		t.Fatalf("MigrateDown() error = %v", err)
	}

	var count int
	err := db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='test_shows'",
	).Scan(&count)
	if err != nil {
		t.Fatalf("query error: %v", err)
	}
	if count != 0 {
		t.Error("fixture table should have been dropped")
	}

	applied, pending, err := db.GetMigrationStatus(ctx)
	if err != nil {
		t.Fatalf("GetMigrationStatus() error = %v", err)
	}
	if len(applied) != 0 {
		t.Errorf("applied after rollback = %d, want 0", len(applied))
	}
	if len(pending) != 1 {
		t.Errorf("pending after rollback = %d, want 1", len(pending))
	}
}

func TestMigrateDown_NothingApplied(t *testing.T) {
	useTestMigrations(t, testMigrationsFS, "testdata")

	db := openTestDB(t)

	if err := db.MigrateDown(context.Background()); err != nil {
		t.Fatalf("MigrateDown() on fresh database error = %v", err)
	}
}

func TestMigrate_NoEmbeddedFiles(t *testing.T) {
	var emptyFS embed.FS
	useTestMigrations(t, emptyFS, ".")

	db := openTestDB(t)

	if err := db.Migrate(context.Background()); err != nil {
		t.Fatalf("Migrate() with no embedded files error = %v", err)
	}
}

func TestGetMigrationStatus_BeforeMigrate(t *testing.T) {
	useTestMigrations(t, testMigrationsFS, "testdata")

	db := openTestDB(t)

	applied, pending, err := db.GetMigrationStatus(context.Background())
	if err != nil {
		t.Fatalf("GetMigrationStatus() error = %v", err)
	}
	if len(applied) != 0 {
		t.Errorf("applied = %d, want 0", len(applied))
	}
	if len(pending) != 1 {
		t.Errorf("pending = %d, want 1", len(pending))
	}
	if len(pending) == 1 && pending[0].Name != "create_test_shows" {
		t.Errorf("pending name = %q, want create_test_shows", pending[0].Name)
	}
}

func TestParseMigrationFilename(t *testing.T) {
	tests := []struct {
		name        string
		filename    string
		wantVersion string
		wantName    string
		wantUp      bool
		wantOk      bool
	}{
		{
			name:        "up migration",
			filename:    "20260815_100000_create_runs.up.sql",
			wantVersion: "20260815_100000",
			wantName:    "create_runs",
			wantUp:      true,
			wantOk:      true,
		},
		{
			name:        "down migration",
			filename:    "20260815_100000_create_runs.down.sql",
			wantVersion: "20260815_100000",
			wantName:    "create_runs",
			wantUp:      false,
			wantOk:      true,
		},
		{
			name:        "multi word description",
			filename:    "20260901_083000_add_notes_to_runs.up.sql",
			wantVersion: "20260901_083000",
			wantName:    "add_notes_to_runs",
			wantUp:      true,
			wantOk:      true,
		},
		{
			name:     "not a sql file",
			filename: "readme.txt",
			wantOk:   false,
		},
		{
			name:     "direction missing",
			filename: "20260815_100000_create_runs.sql",
			wantOk:   false,
		},
		{
			name:     "description missing",
			filename: "20260815_100000.up.sql",
			wantOk:   false,
		},
		{
			name:     "no version fields",
			filename: "invalid.up.sql",
			wantOk:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			version, name, up, ok := parseMigrationFilename(tt.filename)
			if ok != tt.wantOk {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOk)
			}
			if !ok {
				return
			}
			if version != tt.wantVersion {
				t.Errorf("version = %q, want %q", version, tt.wantVersion)
			}
			if name != tt.wantName {
				t.Errorf("name = %q, want %q", name, tt.wantName)
			}
			if up != tt.wantUp {
				t.Errorf("up = %v, want %v", up, tt.wantUp)
			}
		})
	}
}
