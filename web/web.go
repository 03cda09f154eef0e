// Package web — шаблоны и статика сайта, встроенные в бинарник.
package web

import "embed"

//go:embed templates/*.html
var Templates embed.FS

//go:embed static
var Static embed.FS
