// Package assets bundles the consoles shipped with the binary.
package assets

import (
	"embed"
	"io/fs"
)

//go:embed consoles
var bundle embed.FS

// Consoles returns the bundled console directories, one per console name.
func Consoles() fs.FS {
	sub, err := fs.Sub(bundle, "consoles")
	if err != nil {
		panic(err)
	}
	return sub
}
