// Package migrations embeds the goose SQL migrations of the credential store.
// goose records applied versions in its goose_db_version table.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
