// Copyright 2025, the Portail contributors
// SPDX-License-Identifier: AGPL-3.0-only

package limiter

import (
	"math"
	"net/http"
	"slices"
	"strconv"

	"github.com/rs/zerolog/log"

	"codeberg.org/ambagabon/portail/config"
	"codeberg.org/ambagabon/portail/core/dispatch"
	"codeberg.org/ambagabon/portail/server/request_context"
	"codeberg.org/ambagabon/portail/server/routes"
)

// Rate limiting header names.
//
// ref: https://www.ietf.org/archive/id/draft-polli-ratelimit-headers-02.html
const (
	HeaderRateLimitLimit     string = "RateLimit-Limit"
	HeaderRateLimitRemaining string = "RateLimit-Remaining"
	HeaderRateLimitReset     string = "RateLimit-Reset"
)

// excludedPaths are never limited. The placeholder registration route
// receives the portal's own dispatches, so it would share the server's bucket.
var excludedPaths = []string{
	dispatch.RegistrationPath,
	"/locale",
}

// Evaluate is the entrypoint to the limiter middleware.
func Evaluate(w http.ResponseWriter, r *http.Request, next http.Handler) {
	defer DoCleanup()

	if r.Method != http.MethodPost || slices.Contains(excludedPaths, r.URL.Path) {
		next.ServeHTTP(w, r)

		return
	}

	client, err := newClientInfo(r)
	if err != nil {
		log.Warn().Err(err).Str("remote_addr", r.RemoteAddr).Msg("Could not identify client, not limiting")
		next.ServeHTTP(w, r)

		return
	}

	// 1: IP-based filtering - explicit allow/deny lists take precedence.
	if allowed, blocked := client.checkIPLists(); allowed {
		next.ServeHTTP(w, r)

		return
	} else if blocked {
		log.Warn().
			Str("ip", client.ip.String()).
			Str("network", client.network.String()).
			Msg("Request blocked, IP in block-list")

		deny(w, r, http.StatusForbidden)

		return
	}

	// 2: Local clients are only filtered on request.
	if !config.Global.Limiter.FilterLocal && client.isLocal() {
		next.ServeHTTP(w, r)

		return
	}

	// 3: Token bucket of the client's network.
	limiter := getOrCreateLimiter(client.network.String())

	allowed := limiter.allow()
	addRateLimitHeaders(w, limiter)

	if !allowed {
		log.Warn().
			Str("ip", client.ip.String()).
			Str("network", client.network.String()).
			Str("path", r.URL.Path).
			Msg("Request blocked, exceeded submission rate")

		deny(w, r, http.StatusTooManyRequests)

		return
	}

	next.ServeHTTP(w, r)
}

// deny renders the error page with status.
func deny(w http.ResponseWriter, r *http.Request, status int) {
	rc := request_context.FromRequest(r)
	rc.StatusCode = status

	w.WriteHeader(status)
	routes.ErrorPage(w, r)
}

// addRateLimitHeaders adds rate limiting information to the response headers.
func addRateLimitHeaders(w http.ResponseWriter, limiter *limiterWrapper) {
	tokens, burst, limit := limiter.state()

	remaining := int(math.Max(0, math.Min(float64(burst), math.Floor(tokens))))

	// Seconds until the bucket is full again.
	var resetTime int64

	if tokens < float64(burst) && limit > 0 {
		resetTime = int64(math.Ceil((float64(burst) - tokens) / float64(limit)))
	}

	resetStr := strconv.FormatInt(resetTime, 10)

	w.Header().Set(HeaderRateLimitLimit, strconv.Itoa(burst))
	w.Header().Set(HeaderRateLimitRemaining, strconv.Itoa(remaining))
	w.Header().Set(HeaderRateLimitReset, resetStr)

	if remaining <= 0 && limit > 0 {
		// Time until one token is back.
		retry := int64(math.Ceil((1 - tokens) / float64(limit)))
		w.Header().Set("Retry-After", strconv.FormatInt(retry, 10))
	}
}
