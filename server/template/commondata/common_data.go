// Copyright 2025, the Portail contributors
// SPDX-License-Identifier: AGPL-3.0-only

package commondata

import (
	"net/http"
	"net/url"

	"codeberg.org/ambagabon/portail/core/cookie"
	"codeberg.org/ambagabon/portail/core/untrusted"
	"codeberg.org/ambagabon/portail/server/utils"
)

// PageCommonData holds common variables accessible in templates and handlers.
//
// It is populated for each request and attached to the
// request_context.RequestContext.
type PageCommonData struct {
	// BaseURL is the origin URL (scheme + host) of the current request.
	BaseURL string

	// CurrentPath is the URL path from request (e.g., "/services").
	CurrentPath string

	// CurrentPathWithParams is the full request URI including query parameters.
	CurrentPathWithParams string

	// Queries is the URL query parameters (first value only for each key).
	Queries map[string]string

	// CookieList is all portal cookies as key-value map.
	CookieList map[cookie.CookieName]string

	// Lang is the code of the language the page is rendered in, and
	// OtherLang the code offered by the toggle.
	Lang      string
	OtherLang string

	// SwitchLangURL is the current page with the lang query parameter set to
	// OtherLang.
	SwitchLangURL string
}

// PopulatePageCommonData fills the PageCommonData struct from the request.
// lang is the code of the language matched for the request.
func PopulatePageCommonData(r *http.Request, data *PageCommonData, lang string) {
	data.BaseURL = utils.GetOriginFromRequest(r)
	data.CurrentPath = r.URL.Path
	data.CurrentPathWithParams = r.URL.RequestURI()

	data.Queries = make(map[string]string)

	for k, v := range r.URL.Query() {
		if len(v) > 0 {
			data.Queries[k] = v[0]
		}
	}

	data.CookieList = make(map[cookie.CookieName]string, len(cookie.AllCookieNames))
	for _, name := range cookie.AllCookieNames {
		data.CookieList[name] = untrusted.GetCookie(r, name)
	}

	data.Lang = lang

	data.OtherLang = "en"
	if lang == "en" {
		data.OtherLang = "fr"
	}

	query := r.URL.Query()
	query.Set("lang", data.OtherLang)
	query.Del("reset")

	data.SwitchLangURL = (&url.URL{Path: r.URL.Path, RawQuery: query.Encode()}).String()
}
