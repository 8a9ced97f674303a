// Package web holds the embedded browser UI.
package web

import (
	_ "embed"
	"html/template"
	"io"
)

//go:embed index.html
var indexHTML string

// Logo is the sidebar logo, served at /logo.svg.
//
//go:embed logo.svg
var Logo []byte

var indexTmpl = template.Must(template.New("index").Parse(indexHTML))

// Slider describes one numeric control.
type Slider struct {
	Min, Max, Default, Step float64
}

// Page is the data rendered into the index page.
type Page struct {
	Title      string
	Frequency  Slider
	Duration   Slider
	SampleRate Slider
	EmbedURL   string
	Model      string
}

// RenderIndex writes the UI page.
func RenderIndex(w io.Writer, p Page) error {
	return indexTmpl.Execute(w, p)
}
