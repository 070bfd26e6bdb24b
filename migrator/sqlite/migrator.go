package sqlite

import (
	"database/sql"
	"embed"
	"fmt"

	"github.com/GuiaBolso/darwin"
	"github.com/diegoclair/sqlmigrator"
)

//go:embed sql/*.sql
var migrations embed.FS

// Migrate applies the embedded schema and seed migrations. Already applied
// versions are skipped, so it is safe to run on every start.
func Migrate(db *sql.DB) error {
	migrator := sqlmigrator.New(db, darwin.SqliteDialect{})

	if err := migrator.Migrate(migrations, "sql"); err != nil {
		return fmt.Errorf("failed to migrate holidays schema: %w", err)
	}
	return nil
}
