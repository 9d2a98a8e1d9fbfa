// Package web embeds the dashboard static files for serving from the Go binary.
package web

import "embed"

//go:embed static
var Static embed.FS
