// Package assets bundles the game's default images.
package assets

import "embed"

// FS holds every bundled asset, addressed by file name ("ship.png").
//
//go:embed *.png
var FS embed.FS
