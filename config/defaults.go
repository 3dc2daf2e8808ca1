// Copyright 2025, the Portail contributors
// SPDX-License-Identifier: AGPL-3.0-only

package config

import "time"

const (
	// Default timeout for the registration endpoint call, in seconds.
	defaultDispatchTimeoutSeconds = 10
	// Default lifetime of a form token, in hours.
	defaultTokenTTLHours = 2

	defaultSubmitsPerMinute = 6
	defaultSubmitBurst      = 10
)

// SetDefaults populates the configuration with default values.
func (cfg *ServerConfig) SetDefaults() {
	cfg.Basic.Host = "localhost"
	cfg.Basic.Port = "8383"

	cfg.Site.Name = "Haut-Commissariat du Gabon au Rwanda"
	cfg.Site.ContactEmail = "ambagabonrwanda@gmail.com"
	cfg.Site.DefaultLocale = "fr"

	cfg.Forms.RegistrationEndpoint = ""
	cfg.Forms.DispatchTimeout = defaultDispatchTimeoutSeconds * time.Second
	cfg.Forms.RequireToken = true
	cfg.Forms.TokenTTL = defaultTokenTTLHours * time.Hour

	cfg.Instance.RepoURL = "https://codeberg.org/ambagabon/portail"

	cfg.Development.SaveDispatches = false
	cfg.Development.DispatchSaveLocation = "/tmp/portail/dispatches"

	cfg.Log.Level = "info"
	cfg.Log.Outputs = []string{"/dev/stderr"}
	cfg.Log.Format = "console"

	cfg.Limiter.Enabled = false
	cfg.Limiter.FilterLocal = false
	cfg.Limiter.IPv4Prefix = 24
	cfg.Limiter.IPv6Prefix = 48
	cfg.Limiter.SubmitsPerMinute = defaultSubmitsPerMinute
	cfg.Limiter.SubmitBurst = defaultSubmitBurst

	cfg.Metrics.Enabled = false
	cfg.Metrics.Path = "/metrics"

	cfg.Compression.Enabled = true

	cfg.Internationalization.StrictMissingKeys = false
}
