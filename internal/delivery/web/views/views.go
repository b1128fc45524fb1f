// Package views renders the application's HTML pages from embedded templates.
package views

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"

	"symposium/internal/delivery/web/flash"
)

//go:embed templates/*.html
var templateFS embed.FS

// pages are the renderable page templates; each is parsed together with the
// shared layout.
var pages = []string{
	"talks_index",
	"talks_create",
	"talks_edit",
	"talks_show",
	"talks_delete",
	"login",
	"signup",
}

// Page is the data every template receives: the page title, the popped flash
// (message, field errors, old input), and the page-specific view model.
type Page struct {
	Title string
	Flash flash.Data
	Data  any
}

// Renderer holds the parsed template set.
type Renderer struct {
	logger    *slog.Logger
	templates map[string]*template.Template
}

// New parses the embedded templates and returns a Renderer.
func New(logger *slog.Logger) (*Renderer, error) {
	templates := make(map[string]*template.Template, len(pages))
	for _, name := range pages {
		t, err := template.ParseFS(templateFS, "templates/layout.html", "templates/talk_form.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
		templates[name] = t
	}
	return &Renderer{logger: logger, templates: templates}, nil
}

// Render writes the named page with the given status code. Template failures
// are logged and surface as a plain 500; by then nothing has been written to
// the client because pages are executed into a buffer first.
func (r *Renderer) Render(w http.ResponseWriter, status int, name string, page Page) {
	t, ok := r.templates[name]
	if !ok {
		r.logger.Error("unknown template", "name", name)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", page); err != nil {
		r.logger.Error("render failed", "name", name, "err", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}
