// Copyright 2025, the Portail contributors
// SPDX-License-Identifier: AGPL-3.0-only

// Links to the forms printed before the current paths still work.
//
// Add more redirects in (*Router).DefineRoutes

package router

import (
	"net/http"
)

// redirectTo permanently redirects to target, keeping the method and the
// query string.
//
// Example:   /formulaires/immatriculation?lang=en   ->   /immatriculation?lang=en
func redirectTo(target string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		location := target
		if r.URL.RawQuery != "" {
			location += "?" + r.URL.RawQuery
		}

		http.Redirect(w, r, location, http.StatusPermanentRedirect)
	}
}
