// Copyright 2025, the Portail contributors
// SPDX-License-Identifier: AGPL-3.0-only

package middleware

import (
	"net/http"
	"strings"

	"codeberg.org/ambagabon/portail/i18n"
)

// localePrefixes are the path prefixes that older links used for the
// locale, for example /en/services.
var localePrefixes = []string{"fr", "en"}

// NormalizeURL is a middleware that handles URL normalization by:
// 1. Turning a /fr/ or /en/ prefix into the lang query parameter.
// 2. Removing trailing slashes from URLs (except root).
func NormalizeURL(w http.ResponseWriter, r *http.Request, next http.Handler) {
	if lang, rest, ok := cutLocalePrefix(r.URL.Path); ok {
		target := *r.URL
		target.Path = rest

		query := target.Query()
		query.Set(i18n.LangParam, lang)
		target.RawQuery = query.Encode()

		http.Redirect(w, r, target.String(), http.StatusMovedPermanently)

		return
	}

	if hasTrailingSlash(r) {
		removeTrailingSlash(w, r)

		return
	}

	next.ServeHTTP(w, r)
}

// hasTrailingSlash checks if a request path has a trailing slash (except root).
func hasTrailingSlash(r *http.Request) bool {
	return r.URL.Path != "/" && strings.HasSuffix(r.URL.Path, "/")
}

// removeTrailingSlash removes trailing slash and redirects.
func removeTrailingSlash(w http.ResponseWriter, r *http.Request) {
	target := *r.URL
	target.Path = strings.TrimRight(target.Path, "/")

	if target.Path == "" {
		target.Path = "/"
	}

	http.Redirect(w, r, target.String(), http.StatusPermanentRedirect)
}

// cutLocalePrefix splits "/en/services" into "en" and "/services".
// A bare "/en" or "/en/" maps to the landing page.
func cutLocalePrefix(path string) (lang, rest string, ok bool) {
	for _, prefix := range localePrefixes {
		after, found := strings.CutPrefix(path, "/"+prefix)
		if !found || (after != "" && after[0] != '/') {
			continue
		}

		if after == "" || after == "/" {
			after = "/"
		}

		return prefix, after, true
	}

	return "", "", false
}
