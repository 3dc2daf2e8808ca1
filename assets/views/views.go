// Copyright 2025, the Portail contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package views renders the pages of the portal.

Pages are html/template files embedded next to this file. Each exported
function returns a templ.Component, so handlers render every page the same
way:

	views.Page(data).Render(r.Context(), w)
*/
package views

import (
	"context"
	"embed"
	"fmt"
	"html/template"
	"io"

	"github.com/a-h/templ"

	tmpl "codeberg.org/ambagabon/portail/server/template"
)

//go:embed *.html
var files embed.FS

var root = template.Must(template.New("views").Funcs(tmpl.Funcs(context.Background())).ParseFS(files, "*.html"))

// render executes the template called name with functions bound to the
// rendering context.
func render(name string, data any) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		t, err := root.Clone()
		if err != nil {
			return fmt.Errorf("cloning templates: %w", err)
		}

		page := t.Funcs(tmpl.Funcs(ctx)).Lookup(name)
		if page == nil {
			return fmt.Errorf("%w: %q", errNoTemplate, name)
		}

		return templ.FromGoHTML(page, data).Render(ctx, w)
	})
}

// Index renders the landing page.
func Index(data IndexData) templ.Component {
	return render("index", data)
}

// Page renders an informational page.
func Page(data PageData) templ.Component {
	return render("page", data)
}

// Form renders a request form, its errors and its outcome.
func Form(data FormData) templ.Component {
	return render("form", data)
}

// Error renders the error page.
func Error(data ErrorData) templ.Component {
	return render("error", data)
}
