package appfs

import "embed"

// FS holds the SQL migrations applied by goose.
//
//go:embed migrations
var FS embed.FS
