// Package migrations holds the bun migration set. Migration names come from
// the file names, so the registration order follows the original schema
// history.
package migrations

import "github.com/uptrace/bun/migrate"

var Migrations = migrate.NewMigrations()
