// Package migrations embeds the schema for each supported backend dialect.
package migrations

import "embed"

// SQLite holds the migrations under the sqlite directory.
//
//go:embed sqlite/*.sql
var SQLite embed.FS

// Postgres holds the migrations under the postgres directory.
//
//go:embed postgres/*.sql
var Postgres embed.FS
