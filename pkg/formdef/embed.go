package formdef

import (
	"embed"
	"io/fs"
)

//go:embed definitions/*
var embeddedDefinitions embed.FS

// EmbeddedFS returns the bundled sample definitions. Callers may pass this
// filesystem to Load.
func EmbeddedFS() fs.FS {
	sub, err := fs.Sub(embeddedDefinitions, "definitions")
	if err != nil {
		// The embed directive guarantees the subpath exists.
		panic(err)
	}
	return sub
}
