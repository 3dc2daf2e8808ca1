// Copyright 2025, the Portail contributors
// SPDX-License-Identifier: AGPL-3.0-only

package router

import (
	"codeberg.org/ambagabon/portail/config"
	"codeberg.org/ambagabon/portail/server/middleware"
	"codeberg.org/ambagabon/portail/server/middleware/limiter"
	"codeberg.org/ambagabon/portail/server/middleware/set_request_context"
)

// RegisterMiddleware installs the middleware chain.
func (router *Router) RegisterMiddleware() {
	// the first middleware is the most outer / first executed one
	router.Use(middleware.WithServerTiming)

	if config.Global.Compression.Enabled {
		router.Use(middleware.Compress)
	}

	router.Use(middleware.NormalizeURL)                // trailing slashes and /en/ prefixes
	router.Use(set_request_context.WithRequestContext) // needed for everything else
	router.Use(middleware.SetResponseHeaders)          // all pages need this

	if config.Global.Limiter.Enabled {
		router.Use(limiter.Evaluate)
	}
}
