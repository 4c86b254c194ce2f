// Package migrations compiles the SQL migration files into the binary,
// so deployments never depend on .sql files being present on disk.
// Importing it (blank import from main) registers the embedded
// filesystem with the database package.
package migrations

import (
	"embed"

	"github.com/nerrad567/show-logic-core/internal/infrastructure/database"
)

//go:embed *.sql
var migrationsFS embed.FS

func init() {
	database.MigrationsFS = migrationsFS
	// The embedded FS is rooted at this directory.
	database.MigrationsDir = "."
}
