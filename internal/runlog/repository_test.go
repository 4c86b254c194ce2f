package runlog

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/nerrad567/show-logic-core/effects"
)

// setupTestDB creates an in-memory SQLite database with the runs schema.
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("opening test db: %v", err)
	}

	// Create the runs table (matches migration)
	schema := `
		CREATE TABLE runs (
			id TEXT PRIMARY KEY,
			show_id TEXT NOT NULL,
			show_name TEXT NOT NULL,
			status TEXT NOT NULL CHECK (status IN ('completed', 'partial', 'failed', 'cancelled')),
			started_at TEXT NOT NULL,
			completed_at TEXT NOT NULL,
			duration_ms INTEGER NOT NULL DEFAULT 0,
			effects_dispatched INTEGER NOT NULL DEFAULT 0,
			effects_completed INTEGER NOT NULL DEFAULT 0,
			effects_failed INTEGER NOT NULL DEFAULT 0,
			failures TEXT,
			error_message TEXT
		);

		CREATE INDEX idx_runs_show_id ON runs(show_id);
		CREATE INDEX idx_runs_started_at ON runs(started_at DESC);`

	if _, err := db.Exec(schema); err != nil {
		t.Fatalf("creating schema: %v", err)
	}

	t.Cleanup(func() { db.Close() })
	return db
}

// testRun creates a clean completed run for the given show.
func testRun(id, showID string, startedAt time.Time) *Run {
	return &Run{
		ID:                id,
		ShowID:            showID,
		ShowName:          "Fireplace Evening",
		Status:            effects.StatusCompleted,
		StartedAt:         startedAt,
		CompletedAt:       startedAt.Add(3 * time.Second),
		DurationMS:        3000,
		EffectsDispatched: 12,
		EffectsCompleted:  12,
	}
}

func TestSQLiteRepository_Create(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSQLiteRepository(db)
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Second)

	t.Run("create success", func(t *testing.T) {
		if err := repo.Create(ctx, testRun("run-01", "show-fireplace", now)); err != nil {
			t.Fatalf("Create: %v", err)
		}
	})

	t.Run("duplicate ID", func(t *testing.T) {
		err := repo.Create(ctx, testRun("run-01", "show-fireplace", now))
		if !errors.Is(err, ErrRunExists) {
			t.Errorf("expected ErrRunExists, got: %v", err)
		}
	})
}

func TestSQLiteRepository_Get(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSQLiteRepository(db)
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Second)

	// Store a partial run with failure details and an error message
	run := testRun("run-get", "show-fireplace", now)
	run.Status = effects.StatusPartial
	run.EffectsCompleted = 10
	run.EffectsFailed = 2
	run.Failures = []effects.EffectFailure{
		{Kind: "light_on", Target: "hearth", ErrorMsg: "device unreachable", At: now},
		{Kind: "sound", Target: "sounds/crackle.wav", ErrorMsg: "player exited", At: now.Add(time.Second)},
	}
	run.Error = "light_on hearth: device unreachable"

	if err := repo.Create(ctx, run); err != nil {
		t.Fatalf("Create: %v", err)
	}

	t.Run("found", func(t *testing.T) {
		got, err := repo.Get(ctx, "run-get")
		if err != nil {
			t.Fatalf("Get: %v", err)
		}

		if got.ShowID != "show-fireplace" {
			t.Errorf("ShowID = %q, want %q", got.ShowID, "show-fireplace")
		}
		if got.ShowName != "Fireplace Evening" {
			t.Errorf("ShowName = %q, want %q", got.ShowName, "Fireplace Evening")
		}
		if got.Status != effects.StatusPartial {
			t.Errorf("Status = %q, want %q", got.Status, effects.StatusPartial)
		}
		if !got.StartedAt.Equal(now) {
			t.Errorf("StartedAt = %v, want %v", got.StartedAt, now)
		}
		if got.DurationMS != 3000 {
			t.Errorf("DurationMS = %d, want 3000", got.DurationMS)
		}
		if got.EffectsDispatched != 12 || got.EffectsCompleted != 10 || got.EffectsFailed != 2 {
			t.Errorf("counters = %d/%d/%d, want 12/10/2",
				got.EffectsDispatched, got.EffectsCompleted, got.EffectsFailed)
		}
		if len(got.Failures) != 2 {
			t.Fatalf("Failures count = %d, want 2", len(got.Failures))
		}
		if got.Failures[0].Target != "hearth" {
			t.Errorf("Failure Target = %q, want %q", got.Failures[0].Target, "hearth")
		}
		if got.Failures[1].Kind != "sound" {
			t.Errorf("Failure Kind = %q, want %q", got.Failures[1].Kind, "sound")
		}
		if got.Error != "light_on hearth: device unreachable" {
			t.Errorf("Error = %q, want the stored message", got.Error)
		}
	})

	t.Run("clean run has no failures or error", func(t *testing.T) {
		if err := repo.Create(ctx, testRun("run-clean", "show-fireplace", now)); err != nil {
			t.Fatalf("Create: %v", err)
		}

		got, err := repo.Get(ctx, "run-clean")
		if err != nil {
			t.Fatalf("Get: %v", err)
		}
		if len(got.Failures) != 0 {
			t.Errorf("Failures count = %d, want 0", len(got.Failures))
		}
		if got.Error != "" {
			t.Errorf("Error = %q, want empty", got.Error)
		}
	})

	t.Run("not found", func(t *testing.T) {
		_, err := repo.Get(ctx, "nonexistent")
		if !errors.Is(err, ErrRunNotFound) {
			t.Errorf("expected ErrRunNotFound, got: %v", err)
		}
	})
}

func TestSQLiteRepository_List(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSQLiteRepository(db)
	ctx := context.Background()

	t.Run("empty", func(t *testing.T) {
		runs, err := repo.List(ctx, 10)
		if err != nil {
			t.Fatalf("List: %v", err)
		}
		if len(runs) != 0 {
			t.Errorf("expected 0 runs, got %d", len(runs))
		}
	})

	// Insert 5 runs with different start times
	now := time.Now().UTC().Truncate(time.Second)
	for i := 0; i < 5; i++ {
		run := testRun(effects.GenerateID(), "show-fireplace", now.Add(time.Duration(i)*time.Second))
		if err := repo.Create(ctx, run); err != nil {
			t.Fatalf("Create %d: %v", i, err)
		}
	}

	t.Run("default limit", func(t *testing.T) {
		runs, err := repo.List(ctx, 0)
		if err != nil {
			t.Fatalf("List: %v", err)
		}
		if len(runs) != 5 {
			t.Errorf("expected 5 runs, got %d", len(runs))
		}
	})

	t.Run("with limit", func(t *testing.T) {
		runs, err := repo.List(ctx, 3)
		if err != nil {
			t.Fatalf("List: %v", err)
		}
		if len(runs) != 3 {
			t.Errorf("expected 3 runs, got %d", len(runs))
		}
	})

	t.Run("ordered by started_at DESC", func(t *testing.T) {
		runs, err := repo.List(ctx, 5)
		if err != nil {
			t.Fatalf("List: %v", err)
		}
		if len(runs) < 2 {
			t.Fatal("need at least 2 runs for ordering check")
		}
		// Most recent first
		if !runs[0].StartedAt.After(runs[1].StartedAt) {
			t.Errorf("expected descending order: %v should be after %v",
				runs[0].StartedAt, runs[1].StartedAt)
		}
	})

	t.Run("limit capped at 100", func(t *testing.T) {
		// Should not error even with limit > 100
		if _, err := repo.List(ctx, 500); err != nil {
			t.Fatalf("List with large limit: %v", err)
		}
	})
}

func TestSQLiteRepository_ListByShow(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSQLiteRepository(db)
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Second)
	for i, showID := range []string{"show-a", "show-a", "show-b"} {
		run := testRun(effects.GenerateID(), showID, now.Add(time.Duration(i)*time.Second))
		if err := repo.Create(ctx, run); err != nil {
			t.Fatalf("Create %d: %v", i, err)
		}
	}

	runs, err := repo.ListByShow(ctx, "show-a", 10)
	if err != nil {
		t.Fatalf("ListByShow: %v", err)
	}
	if len(runs) != 2 {
		t.Errorf("expected 2 runs for show-a, got %d", len(runs))
	}

	none, err := repo.ListByShow(ctx, "nonexistent", 10)
	if err != nil {
		t.Fatalf("ListByShow: %v", err)
	}
	if len(none) != 0 {
		t.Errorf("expected 0 runs for unknown show, got %d", len(none))
	}
}

func TestSQLiteRepository_DeleteOlderThan(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSQLiteRepository(db)
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Second)
	old := now.Add(-48 * time.Hour)

	for i, startedAt := range []time.Time{old, old.Add(time.Minute), now} {
		run := testRun(effects.GenerateID(), "show-fireplace", startedAt)
		if err := repo.Create(ctx, run); err != nil {
			t.Fatalf("Create %d: %v", i, err)
		}
	}

	removed, err := repo.DeleteOlderThan(ctx, now.Add(-24*time.Hour))
	if err != nil {
		t.Fatalf("DeleteOlderThan: %v", err)
	}
	if removed != 2 {
		t.Errorf("removed = %d, want 2", removed)
	}

	runs, err := repo.List(ctx, 10)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(runs) != 1 {
		t.Errorf("expected 1 remaining run, got %d", len(runs))
	}
}
