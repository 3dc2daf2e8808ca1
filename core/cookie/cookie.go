// Copyright 2025, the Portail contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package cookie names the cookies set by the portal.
*/
package cookie

// CookieName is the name of a cookie set by the portal.
type CookieName string

const (
	// LangCookie stores the locale chosen with the FR/EN toggle.
	LangCookie CookieName = "Lang"
)

// AllCookieNames lists every cookie the portal may set.
var AllCookieNames = []CookieName{
	LangCookie,
}

// IsHttpOnly reports whether scripts are denied access to the cookie.
// None of the portal scripts read cookies.
func IsHttpOnly(CookieName) bool {
	return true
}
