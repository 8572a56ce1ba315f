// Package migrations embeds the SQL schema applied at startup.
package migrations

import "embed"

// FS holds the goose *.sql files.  The numeric file prefix is the version.
//
//go:embed *.sql
var FS embed.FS
