// Package templates embeds the HTML views served by the page routes.
package templates

import "embed"

//go:embed *.html
var FS embed.FS
