// ABOUTME: Template rendering functions for the exchange pages
// ABOUTME: Loads templates from embedded filesystem and renders them

package web

import (
	"html/template"
	"net/http"

	"github.com/2389/santa-exchange/internal/store"
)

// indexData feeds the listing page template.
type indexData struct {
	Title           string
	Greeting        template.HTML
	Notes           []store.WishNote
	Filled          bool
	ID              string
	SubmissionsOpen bool
	DrawEnabled     bool
	FillSuccess     bool
	DrawSuccess     bool
	DrawnNote       *store.WishNote
}

// errorData feeds the error page template.
type errorData struct {
	Title   string
	Message string
}

// renderIndex renders the listing page
func (h *Handler) renderIndex(w http.ResponseWriter, data indexData) {
	tmpl := template.Must(template.ParseFS(templateFS, "templates/base.html", "templates/index.html"))

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := tmpl.Execute(w, data); err != nil {
		h.logger.Error("failed to render index page", "error", err)
	}
}

// renderError renders the error page with the given status and fixed message
func (h *Handler) renderError(w http.ResponseWriter, status int, message string) {
	tmpl := template.Must(template.ParseFS(templateFS, "templates/base.html", "templates/error.html"))

	data := errorData{
		Title:   "Error",
		Message: message,
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := tmpl.Execute(w, data); err != nil {
		h.logger.Error("failed to render error page", "error", err)
	}
}
