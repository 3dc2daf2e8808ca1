// Copyright 2025, the Portail contributors
// SPDX-License-Identifier: AGPL-3.0-only

package routes

import (
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"codeberg.org/ambagabon/portail/assets/views"
	"codeberg.org/ambagabon/portail/i18n"
	"codeberg.org/ambagabon/portail/server/request_context"
)

// ErrorPage renders the error page for the status and error stored in the
// request context. The caller writes the status line.
func ErrorPage(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Cache-Control", "no-store")

	rc := request_context.FromRequest(r)
	ctx := r.Context()

	data := views.ErrorData{
		StatusCode: rc.StatusCode,
		RequestID:  rc.RequestID,
	}

	var userErr *i18n.UserError

	switch {
	case rc.StatusCode == http.StatusNotFound:
		data.Title = i18n.Tr(ctx, "Page not found")
		data.Message = i18n.Tr(ctx, "The page you are looking for does not exist or has moved.")
	case rc.StatusCode == http.StatusForbidden:
		data.Title = i18n.Tr(ctx, "Access denied")
		data.Message = i18n.Tr(ctx, "Requests from your network are not accepted. Please contact the High Commission by email.")
	case rc.StatusCode == http.StatusTooManyRequests:
		data.Title = i18n.Tr(ctx, "Too many requests")
		data.Message = i18n.Tr(ctx, "You have sent too many requests. Please wait a minute before trying again.")
	case errors.As(rc.RequestError, &userErr):
		data.Title = i18n.Tr(ctx, "Something went wrong")
		data.Message = userErr.Error()
	default:
		data.Title = i18n.Tr(ctx, "Something went wrong")
		data.Message = i18n.Tr(ctx, "An unexpected error occurred. Please try again later.")
	}

	if err := views.Error(data).Render(ctx, w); err != nil {
		log.Err(err).Str("request_id", rc.RequestID).Msg("Failed to render the error page")
	}
}

// NotFound answers every path no other route claims.
func NotFound(w http.ResponseWriter, _ *http.Request) error {
	w.WriteHeader(http.StatusNotFound)

	return nil
}
