// Package migrations embeds the SQL schema for every supported driver.
package migrations

import "embed"

//go:embed postgres/*.sql oracle/*.sql
var FS embed.FS
