// Copyright 2025, the Portail contributors
// SPDX-License-Identifier: AGPL-3.0-only

package untrusted

import (
	"net/http"

	"codeberg.org/ambagabon/portail/core/cookie"
)

// GetLang returns the locale stored by the FR/EN toggle, or "".
func GetLang(r *http.Request) string {
	return GetCookie(r, cookie.LangCookie)
}

// SetLang stores the locale chosen with the FR/EN toggle.
func SetLang(w http.ResponseWriter, r *http.Request, lang string) {
	SetCookie(w, r, cookie.LangCookie, lang)
}
