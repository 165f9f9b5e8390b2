// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Gatehouse Contributors

package web

import (
	"embed"
	"html/template"
	"io"

	"github.com/samber/oops"
)

// Renderer turns a view name and its data into a response body. Page
// generation is owned entirely by the implementation; the core only decides
// WHICH view to render with WHAT data.
type Renderer interface {
	Render(w io.Writer, view string, data any) error
}

// View names the handlers emit. A Renderer must know all of them.
const (
	ViewLanding   = "landing"
	ViewSignup    = "signup"
	ViewLogin     = "login"
	ViewMembers   = "members"
	ViewAdmin     = "admin"
	ViewForbidden = "403"
	ViewNotFound  = "404"
	ViewError     = "500"
)

//go:embed templates/*.html
var templatesFS embed.FS

// TemplateRenderer is the fallback Renderer backed by the embedded
// bare-bones templates. Deployments with a real frontend substitute their
// own Renderer; the handlers cannot tell the difference.
type TemplateRenderer struct {
	templates *template.Template
}

// NewTemplateRenderer parses the embedded templates.
func NewTemplateRenderer() (*TemplateRenderer, error) {
	templates, err := template.ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, oops.Code("RENDER_PARSE_FAILED").Wrap(err)
	}
	return &TemplateRenderer{templates: templates}, nil
}

// Render executes the named view template.
func (r *TemplateRenderer) Render(w io.Writer, view string, data any) error {
	if err := r.templates.ExecuteTemplate(w, view+".html", data); err != nil {
		return oops.Code("RENDER_FAILED").With("view", view).Wrap(err)
	}
	return nil
}

// Compile-time interface check.
var _ Renderer = (*TemplateRenderer)(nil)
