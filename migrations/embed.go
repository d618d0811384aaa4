// Package migrations bundles the Postgres schema as embedded SQL
package migrations

import "embed"

// FS holds the numbered up/down migration files
//
//go:embed *.sql
var FS embed.FS
