// Package migrations embeds the SQL schema for the sqlite document store.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
