// Package schemas provides embedded SQL migration files for the status backends.
package schemas

import "embed"

// Migrations contains the SQL migration files, one directory per dialect.
//
//go:embed migrations/mysql/*.sql migrations/sqlite/*.sql
var Migrations embed.FS
