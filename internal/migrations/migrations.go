// Package migrations embeds the goose SQL migrations.
package migrations

import "embed"

// FS holds the embedded migration files, applied with goose at startup.
//
//go:embed *.sql
var FS embed.FS
