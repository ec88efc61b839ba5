// Package migrations embeds the SQL schema migrations for the postgres record store.
package migrations

import "embed"

// FS holds the *.up.sql and *.down.sql migration pairs.
//
//go:embed *.sql
var FS embed.FS
