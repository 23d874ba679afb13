// Package migrations embeds the versioned schema files applied at startup.
package migrations

import "embed"

// FS holds every *.up.sql/*.down.sql pair, named <version>_<title>.
//
//go:embed *.sql
var FS embed.FS
