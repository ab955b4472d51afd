// Package migrations embeds the schema for each supported database driver.
package migrations

import "embed"

// FS holds one directory of *.up.sql files per driver.
//
//go:embed postgres/*.sql sqlite/*.sql
var FS embed.FS
