// Package web embeds the HTML templates so the binary and the tests render
// the same views regardless of working directory.
package web

import "embed"

//go:embed template/*.html
var Templates embed.FS
