// Copyright 2025, the Portail contributors
// SPDX-License-Identifier: AGPL-3.0-only

package router

import (
	"fmt"
	"io/fs"
	"net/http"
	"net/http/pprof"
	"runtime/trace"
	"time"

	"codeberg.org/ambagabon/portail/config"
	"codeberg.org/ambagabon/portail/core/content"
	"codeberg.org/ambagabon/portail/core/dispatch"
	"codeberg.org/ambagabon/portail/core/forms"
	"codeberg.org/ambagabon/portail/core/formtoken"
	"codeberg.org/ambagabon/portail/core/metrics"
	"codeberg.org/ambagabon/portail/server/assets"
	"codeberg.org/ambagabon/portail/server/middleware"
	"codeberg.org/ambagabon/portail/server/routes"
	"codeberg.org/ambagabon/portail/server/utils"
)

// DefineRoutes registers every route of the portal. Form tokens are signed
// with tokens; nil disables them.
//
// content.Setup must have run: informational pages are registered from the
// loaded content.
func (router *Router) DefineRoutes(tokens *formtoken.Issuer) {
	fileServerHandler := fileServer()

	router.Handle("GET /robots.txt", fileServerHandler)

	// Patterns ending in "/" are prefix matches.
	router.Handle("GET /img/", fileServerHandler)
	router.Handle("GET /css/", fileServerHandler)
	router.Handle("GET /js/", fileServerHandler)
	router.Handle("GET /icons/", fileServerHandler)

	// /{$} matches only the root path
	router.HandleFunc("GET /{$}", middleware.CatchError(routes.IndexPage))

	for _, page := range content.Get().Pages {
		router.HandleFunc("GET "+page.Path, middleware.CatchError(routes.ContentPage(page.Slug)))
	}

	formRoutes := &routes.Forms{
		Tokens:       tokens,
		RequireToken: config.Global.Forms.RequireToken,
		Client:       utils.HTTPClient,
		Timeout:      config.Global.Forms.DispatchTimeout,
		Endpoint:     config.Global.Forms.RegistrationEndpoint,
	}

	for _, def := range forms.All() {
		router.HandleFunc("GET "+def.Path, middleware.CatchError(formRoutes.Page(def)))
		router.HandleFunc("POST "+def.Path, middleware.CatchError(formRoutes.Submit(def)))
		router.HandleFunc("/formulaires/"+def.Slug, redirectTo(def.Path))
	}

	router.HandleFunc("POST "+dispatch.RegistrationPath, middleware.CatchError(routes.RegistrationAPI))
	router.HandleFunc("POST /locale", middleware.CatchError(routes.SetLocale))
	router.HandleFunc("GET /healthz", middleware.CatchError(routes.Health))

	if config.Global.Metrics.Enabled {
		router.Handle("GET "+config.Global.Metrics.Path, metrics.Handler())
	}

	if config.Global.Development.InDevelopment {
		registerDebugRoutes(router)
	}

	router.HandleFunc("/", middleware.CatchError(routes.NotFound))
}

// Serve static files from embedded assets.
func fileServer() http.HandlerFunc {
	staticContentFS, err := fs.Sub(assets.FS, "assets")
	if err != nil {
		panic(fmt.Errorf("failed to create sub-filesystem for embedded 'assets' directory: %w", err))
	}

	fileServer := http.FileServer(http.FS(staticContentFS))

	return func(w http.ResponseWriter, r *http.Request) {
		// Using a strong ETag for static files embedded via go:embed
		// ref: https://www.rfc-editor.org/rfc/rfc9110#weak.and.strong.validators
		//
		// go:embed requires a rebuild when files change, so the per-instance
		// cache ID changes with every deployment.
		w.Header().Set("ETag", `"`+config.Global.Instance.FileServerCacheID+`"`)
		fileServer.ServeHTTP(w, r)
	}
}

var flightRecorder = trace.NewFlightRecorder(trace.FlightRecorderConfig{MinAge: time.Minute})

func registerDebugRoutes(router *Router) {
	if !flightRecorder.Enabled() {
		if err := flightRecorder.Start(); err != nil {
			panic(err)
		}
	}

	router.HandleFunc("GET /debug/pprof/", pprof.Index)
	router.HandleFunc("GET /debug/pprof/cmdline", pprof.Cmdline)
	router.HandleFunc("GET /debug/pprof/profile", pprof.Profile)
	router.HandleFunc("GET /debug/pprof/symbol", pprof.Symbol)
	router.HandleFunc("GET /debug/pprof/trace", pprof.Trace)
	router.HandleFunc("GET /debug/flight", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = flightRecorder.WriteTo(w)
	})
}
