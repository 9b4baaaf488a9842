// Package migrations holds the goose SQL migrations. The same files run on
// PostgreSQL in production and on SQLite in tests.
package migrations

import "embed"

//go:embed *.sql
var Files embed.FS
