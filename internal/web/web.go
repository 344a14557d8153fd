// Package web holds the static assets served by the HTTP layer.
package web

import (
	_ "embed"
)

// IndexTemplate is the html/template source of the chat page.
//
//go:embed templates/index.html
var IndexTemplate string
