// Copyright 2025, the Portail contributors
// SPDX-License-Identifier: AGPL-3.0-only

package untrusted

import (
	"net/http"
	"net/url"
	"time"

	"codeberg.org/ambagabon/portail/core/cookie"
	"codeberg.org/ambagabon/portail/server/utils"
)

// CookieSameSite is Lax so the locale survives arrivals from external links.
const CookieSameSite = http.SameSiteLaxMode

// Cookies expire one year after they are set.
const cookieMaxAge = 365 * 24 * time.Hour

// Clear a cookie by setting its expiration date to this.
var cookieExpireDelete = time.Unix(0, 0).UTC()

func newCookie(r *http.Request, name cookie.CookieName, value string, expires time.Time) *http.Cookie {
	return &http.Cookie{
		Name:     string(name),
		Value:    value,
		Path:     "/",
		Expires:  expires,
		Secure:   utils.IsConnectionSecure(r),
		HttpOnly: cookie.IsHttpOnly(name),
		SameSite: CookieSameSite,
	}
}

// GetCookie returns the unescaped value of the named cookie, or "".
func GetCookie(r *http.Request, name cookie.CookieName) string {
	c, err := r.Cookie(string(name))
	if err != nil {
		return ""
	}

	value, err := url.QueryUnescape(c.Value)
	if err != nil {
		return ""
	}

	return value
}

// SetCookie stores value under name. An empty value clears the cookie.
func SetCookie(w http.ResponseWriter, r *http.Request, name cookie.CookieName, value string) {
	if value == "" {
		ClearCookie(w, r, name)

		return
	}

	http.SetCookie(w, newCookie(r, name, url.QueryEscape(value), time.Now().Add(cookieMaxAge)))
}

// ClearCookie expires the named cookie.
func ClearCookie(w http.ResponseWriter, r *http.Request, name cookie.CookieName) {
	http.SetCookie(w, newCookie(r, name, "", cookieExpireDelete))
}
