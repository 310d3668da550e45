// Package migrations embeds the SQL schema files so the server binary can
// apply them at startup without shipping loose files alongside it.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
