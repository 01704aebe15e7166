package views

import (
	"embed"
	"io/fs"
)

//go:embed static
var static embed.FS

// Static returns the stylesheet and script referenced by Layout, rooted so that "app.css" is at the top.
func Static() fs.FS {
	sub, err := fs.Sub(static, "static")
	if err != nil {
		panic(err)
	}
	return sub
}
