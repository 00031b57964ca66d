package migrations

import "github.com/uptrace/bun/migrate"

// Migrations holds the schema changes applied by the migrate command.
var Migrations = migrate.NewMigrations()
