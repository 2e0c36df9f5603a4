// Package views renders the storefront's server-side HTML pages.
package views

import (
	"embed"
	"html/template"
	"io"
)

//go:embed templates/*.html
var files embed.FS

type Views struct {
	t *template.Template
}

func New() (*Views, error) {
	t, err := template.ParseFS(files, "templates/*.html")
	if err != nil {
		return nil, err
	}
	return &Views{t: t}, nil
}

func (v *Views) Render(w io.Writer, page string, data any) error {
	return v.t.ExecuteTemplate(w, page, data)
}
