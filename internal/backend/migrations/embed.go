// Package migrations embeds the goose schema migrations shared by the
// sqlite and postgres document-store adapters.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
