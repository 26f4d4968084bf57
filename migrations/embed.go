// Package migrations embeds the history schema so the binary can
// migrate its local store without SQL files on the device filesystem.
package migrations

import "embed"

//go:embed *.sql
var files embed.FS

// Files returns the embedded migration filesystem, applied by
// database.Migrate at startup.
func Files() embed.FS {
	return files
}
