// Package migrations holds the Foodgram schema as goose SQL files, numbered
// in apply order. The server applies them on start when MIGRATE_ON_START is
// set; integration tests apply them through testutil.
package migrations

import "embed"

// FS is handed to goose.NewProvider, so no migration path is needed at runtime.
//
//go:embed *.sql
var FS embed.FS
