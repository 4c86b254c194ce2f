// Package runlog persists the history of show playback runs.
//
// Each call to effects.Show.Play produces an Execution report; runlog
// stores finished reports in SQLite so operators can answer "what ran,
// when, and how did it end" after the fact. Failures are kept as JSON
// alongside the counters, so a partial run retains exactly which effects
// misbehaved.
//
// # Key Types
//
//   - Run: One finished playback, mapped from effects.Execution
//   - Repository: Storage interface (SQLite implementation provided)
//
// # Usage
//
//	repo := runlog.NewSQLiteRepository(db.DB)
//	run := runlog.FromExecution(exec, playErr)
//	if err := repo.Create(ctx, run); err != nil {
//	    return err
//	}
package runlog
