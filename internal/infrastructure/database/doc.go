// Package database manages the SQLite store for Show Logic Core.
//
// Open configures a single-connection pool with WAL journalling (so
// reads proceed during writes), a busy timeout against lock contention,
// foreign keys enforced, and the database file restricted to 0600.
// Migrate applies schema migrations embedded in the binary.
//
//	db, err := database.Open(database.Config{
//	    Path:        cfg.Database.Path,
//	    WALMode:     cfg.Database.WALMode,
//	    BusyTimeout: cfg.Database.BusyTimeout,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer db.Close()
//
//	if err := db.Migrate(ctx); err != nil {
//	    log.Fatal(err)
//	}
//
// # Migrations
//
// Each migration ships as an .up.sql/.down.sql pair and must stay
// additive so rollbacks are safe: new columns are nullable or carry
// defaults, and columns are never dropped or renamed. All query helpers
// take parameterised statements only.
package database
