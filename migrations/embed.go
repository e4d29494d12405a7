// Package migrations embeds the SQL migrations for each supported database so
// the server can apply them with goose at start-up.
package migrations

import "embed"

// MySQL holds mysql/*.sql.
//
//go:embed mysql/*.sql
var MySQL embed.FS

// Postgres holds postgres/*.sql.
//
//go:embed postgres/*.sql
var Postgres embed.FS
