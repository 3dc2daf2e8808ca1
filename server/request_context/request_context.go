// Copyright 2025, the Portail contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package request_context provides per-request state management for HTTP handlers.

This package is separate because Go disallows a cyclic import graph.
*/
package request_context

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"golang.org/x/text/language"

	"codeberg.org/ambagabon/portail/i18n"
	"codeberg.org/ambagabon/portail/server/template/commondata"
)

// RequestContext carries request-scoped data through the middleware chain.
type RequestContext struct {
	// RequestID identifies the request in logs and on the error page.
	RequestID string

	// Holds any critical error encountered during request processing.
	//
	// Populated by middleware.CatchError when handlers return errors,
	// which renders an error page instead of the handler's output.
	RequestError error

	// HTTP status code to be sent in the response. Defaults to 200 OK.
	StatusCode int

	CommonData commondata.PageCommonData

	T language.Tag
}

type requestContextKeyType struct{}

var requestContextKey = requestContextKeyType{}

// WithRequestContext resolves the request language, initializes a new
// request context and attaches both to the parent context.
//
// This is called once per request, early in the middleware chain.
func WithRequestContext(ctx context.Context, r *http.Request) context.Context {
	ctx = i18n.WithRequest(ctx, r)

	rc := RequestContext{
		RequestID:  uuid.NewString(),
		StatusCode: http.StatusOK,
		T:          i18n.TagFrom(ctx),
	}
	commondata.PopulatePageCommonData(r, &rc.CommonData, i18n.Code(rc.T))

	return context.WithValue(ctx, requestContextKey, &rc)
}

// FromContext extracts the RequestContext from a context, always returning
// a valid pointer.
//
// If no context is found, returns a zero-value instance.
func FromContext(ctx context.Context) *RequestContext {
	if v := ctx.Value(requestContextKey); v != nil {
		if rc, ok := v.(*RequestContext); ok {
			return rc
		}
	}

	return &RequestContext{CommonData: commondata.PageCommonData{Lang: i18n.BaseLocale, OtherLang: "en"}}
}

// FromRequest is a convenience wrapper for extracting RequestContext
// directly from HTTP requests.
func FromRequest(r *http.Request) *RequestContext {
	return FromContext(r.Context())
}
