// Package web holds the bundled dashboard page.
package web

import "embed"

//go:embed index.html
var Files embed.FS
