// Package view renders the gateway's HTML pages. Templates are embedded in
// the binary; role-conditional fragments use the allowed template function,
// the fragment-level counterpart of the route guard.
package view

import (
	"embed"
	"fmt"
	"html/template"
	"io"

	"github.com/labstack/echo/v4"

	"github.com/SH19-University-of-Glasgow-2024-25/booking-web/internal/core/domain"
)

//go:embed templates/*.html
var templatesFS embed.FS

// Renderer satisfies echo.Renderer over the embedded template set.
type Renderer struct {
	templates *template.Template
}

// NewRenderer parses the embedded templates with the gate functions attached.
func NewRenderer() (*Renderer, error) {
	t, err := template.New("").Funcs(funcs()).ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return &Renderer{templates: t}, nil
}

// Render satisfies the echo.Renderer interface.
func (r *Renderer) Render(w io.Writer, name string, data interface{}, _ echo.Context) error {
	return r.templates.ExecuteTemplate(w, name, data)
}

// funcs returns the template function map.
//
// allowed is the conditional content gate: a pure function of the current
// role and a static allow-set, re-evaluated on every render. Pages use it to
// show fragments (nav links, panels, buttons) to a subset of roles without
// separate page trees.
func funcs() template.FuncMap {
	return template.FuncMap{
		"allowed": func(role domain.Role, allow ...string) bool {
			set := make([]domain.Role, len(allow))
			for i, a := range allow {
				set[i] = domain.Role(a)
			}
			return role.In(set...)
		},
	}
}
