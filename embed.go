package mapty

import "embed"

// WebFS holds the page served at the site root.
//
//go:embed web
var WebFS embed.FS
