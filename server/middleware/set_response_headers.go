// Copyright 2025, the Portail contributors
// SPDX-License-Identifier: AGPL-3.0-only

package middleware

import (
	"maps"
	"net/http"
	"strings"
	"sync/atomic"

	"codeberg.org/ambagabon/portail/config"
)

// mapsOrigin serves the embedded contact map.
const mapsOrigin = "https://www.google.com"

var (
	// baseHeaders defines the default headers to be set in responses.
	//
	// Portail-Version and Portail-Revision are added dynamically in SetResponseHeaders.
	//
	// NOTE: we intentionally don't set CORP or HSTS headers; the reverse proxy owns them.
	baseHeaders = http.Header{
		"Referrer-Policy":         {"strict-origin-when-cross-origin"},
		"X-Frame-Options":         {"DENY"},
		"X-Content-Type-Options":  {"nosniff"},
		"Permissions-Policy":      {strings.Join(defaultPermissionsPolicy, ", ")},
		"Content-Security-Policy": {contentSecurityPolicy},
	}

	contentSecurityPolicy = strings.Join([]string{
		"base-uri 'self'",
		"default-src 'self'",
		"style-src 'self'",
		"font-src 'self'",
		"connect-src 'self'",
		"script-src 'self'",
		"img-src 'self' data:",
		"frame-src " + mapsOrigin,
		"form-action 'self'",
		"frame-ancestors 'none'",
	}, "; ") + ";"

	// defaultPermissionsPolicy defines the default Permissions-Policy header.
	defaultPermissionsPolicy = []string{
		"accelerometer=()",
		"camera=()",
		"display-capture=()",
		"geolocation=()",
		"gyroscope=()",
		"magnetometer=()",
		"microphone=()",
		"payment=()",
		"usb=()",
	}
)

// SetResponseHeaders adds default headers to HTTP responses.
func SetResponseHeaders(w http.ResponseWriter, r *http.Request, next http.Handler) {
	headers := w.Header()

	maps.Insert(headers, maps.All(baseHeaders))

	if config.Global.Development.InDevelopment {
		invalidateCacheInDevelopment(headers)
	}

	setCacheControl(headers, r.URL.Path)

	headers.Set("Portail-Version", config.BuildVersion)
	headers.Set("Portail-Revision", config.Global.Build.Revision())

	next.ServeHTTP(w, r)
}

var clearedDevCache atomic.Bool

// invalidateCacheInDevelopment clears the browser cache on the first
// response after a restart.
func invalidateCacheInDevelopment(headers http.Header) {
	if clearedDevCache.CompareAndSwap(false, true) {
		headers.Set("Clear-Site-Data", `"cache"`)
	}
}

// setCacheControl sets appropriate cache control headers for static assets.
// Handlers may override it.
func setCacheControl(headers http.Header, path string) {
	// Default to only storing in the browser cache and forcing revalidation
	cacheDuration := "private, no-cache"

	switch {
	case strings.HasPrefix(path, "/icons/"):
		// 1 month
		cacheDuration = "max-age=2592000"
	case strings.HasPrefix(path, "/js/"), strings.HasPrefix(path, "/css/"):
		// 1 week; links carry the cache ID
		cacheDuration = "max-age=604800"
	case strings.HasPrefix(path, "/img/"):
		cacheDuration = "max-age=1209600"
	case strings.HasSuffix(path, ".txt"):
		cacheDuration = "max-age=86400"
	}

	headers.Set("Cache-Control", cacheDuration)
}
