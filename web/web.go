// Package web embeds the browser client: a canvas that replays draw commands
// streamed over the session WebSocket, plus keyboard, button and swipe input.
package web

import (
	"embed"
	"io/fs"
)

//go:embed static
var files embed.FS

// Static returns the client files rooted at the static directory
func Static() fs.FS {
	sub, err := fs.Sub(files, "static")
	if err != nil {
		// The directory is embedded at build time
		panic(err)
	}
	return sub
}
