// Package migrations embeds the SQL migration files for the SQLite
// store.
package migrations

import "embed"

// FS holds the SQL migration files, embedded at compile time.
//
//go:embed *.sql
var FS embed.FS
