// Copyright 2025, the Portail contributors
// SPDX-License-Identifier: AGPL-3.0-only

package routes

import (
	"net/http"

	"codeberg.org/ambagabon/portail/assets/views"
	"codeberg.org/ambagabon/portail/core/content"
	"codeberg.org/ambagabon/portail/server/request_context"
)

// IndexPage renders the landing page.
func IndexPage(w http.ResponseWriter, r *http.Request) error {
	return views.Index(views.IndexData{}).Render(r.Context(), w)
}

// ContentPage returns a handler for the informational page called slug.
func ContentPage(slug string) func(w http.ResponseWriter, r *http.Request) error {
	return func(w http.ResponseWriter, r *http.Request) error {
		page, ok := content.Get().Page(slug)
		if !ok {
			w.WriteHeader(http.StatusNotFound)

			return nil
		}

		lang := request_context.FromRequest(r).CommonData.Lang

		return views.Page(views.PageData{
			Title: page.Title.In(lang),
			Page:  page,
		}).Render(r.Context(), w)
	}
}
