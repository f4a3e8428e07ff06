// Package assets bundles the default song table and the browser client.
package assets

import (
	"embed"
	"io/fs"
)

//go:embed songs.yaml web
var FS embed.FS

// DefaultSongs returns the raw embedded song table.
func DefaultSongs() ([]byte, error) {
	return FS.ReadFile("songs.yaml")
}

// Web returns the browser client rooted at web/.
func Web() fs.FS {
	sub, err := fs.Sub(FS, "web")
	if err != nil {
		// web/ is embedded at build time; Sub only fails on a bad path
		panic(err)
	}
	return sub
}
