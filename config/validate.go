// Copyright 2025, the Portail contributors
// SPDX-License-Identifier: AGPL-3.0-only

package config

import (
	"errors"
	"fmt"
	"os"
	"os/user"
	"regexp"
	"strconv"
	"strings"

	"aidanwoods.dev/go-paseto"
	"github.com/rs/zerolog/log"

	"codeberg.org/ambagabon/portail/server/utils"
)

// validation errors.
var (
	errUnixSocketWithHostPort       = errors.New("unix socket configured - cannot specify Host and Port simultaneously")
	errUnixSocketInvalidPermissions = errors.New("invalid Basic.UnixSocketPermissions value")
	errUnixSocketUserDoesNotExist   = errors.New("user does not exist")
	errUnixSocketGroupDoesNotExist  = errors.New("group does not exist")
	errInvalidDefaultLocale         = errors.New("site.defaultLocale must be one of: fr, en")
	errInvalidDispatchTimeout       = errors.New("forms.dispatchTimeout must be positive")
	errInvalidTokenTTL              = errors.New("forms.tokenTTL must be positive")
	errTokenSecretInvalid           = errors.New("forms.tokenSecret is not a valid paseto key")
	errInvalidLogLevel              = errors.New("log.logLevel must be one of: debug, info, warn, error")
	errInvalidIPv4Prefix            = errors.New("IPv4 prefix must be between 0 and 32")
	errInvalidIPv6Prefix            = errors.New("IPv6 prefix must be between 0 and 128")
	errInvalidSubmitRate            = errors.New("limiter.submitsPerMinute and limiter.submitBurst must be positive")
	errInvalidMetricsPath           = errors.New("metrics.path must start with '/'")
)

var (
	fileModeOctalRegexp  = regexp.MustCompile(`^0?[0-7]{3}$`)
	fileModeStringRegexp = regexp.MustCompile(`^(?:[r-][w-][x-]){3}$`)
	digitsRegexp         = regexp.MustCompile(`^[0-9]+$`)
)

// validateAndSet validates the server configuration and populates derived fields.
func (cfg *ServerConfig) validateAndSet() error {
	if err := cfg.validateListener(); err != nil {
		return err
	}

	switch cfg.Site.DefaultLocale {
	case "fr", "en":
	default:
		return errInvalidDefaultLocale
	}

	if cfg.Forms.RegistrationEndpoint != "" {
		endpoint, err := utils.ParseURL(cfg.Forms.RegistrationEndpoint, "Registration endpoint")
		if err != nil {
			return fmt.Errorf("invalid registration endpoint: %w", err)
		}

		cfg.Forms.RegistrationEndpoint = endpoint.String()
	}

	if cfg.Forms.DispatchTimeout <= 0 {
		return errInvalidDispatchTimeout
	}

	if cfg.Forms.TokenTTL <= 0 {
		return errInvalidTokenTTL
	}

	if cfg.Forms.TokenSecret != "" {
		if _, err := paseto.NewV4AsymmetricSecretKeyFromHex(cfg.Forms.TokenSecret); err != nil {
			log.Error().
				Err(err).
				Msgf("Generated secret key (put this in config.yaml)\nforms:\n  tokenSecret: \"%s\"",
					paseto.NewV4AsymmetricSecretKey().ExportHex())

			return errTokenSecretInvalid
		}
	}

	repoURL, err := utils.ParseURL(cfg.Instance.RepoURL, "Repo")
	if err != nil {
		return fmt.Errorf("invalid repo URL: %w", err)
	}

	cfg.Instance.RepoURL = repoURL.String()

	switch strings.ToLower(cfg.Log.Level) {
	case "debug", "info", "warn", "error":
		cfg.Log.Level = strings.ToLower(cfg.Log.Level)
	default:
		return errInvalidLogLevel
	}

	if cfg.Metrics.Enabled && !strings.HasPrefix(cfg.Metrics.Path, "/") {
		return errInvalidMetricsPath
	}

	// Skip validating Limiter configuration if it's not enabled
	if !cfg.Limiter.Enabled {
		return nil
	}

	if cfg.Limiter.IPv4Prefix < 0 || cfg.Limiter.IPv4Prefix > 32 {
		return errInvalidIPv4Prefix
	}

	if cfg.Limiter.IPv6Prefix < 0 || cfg.Limiter.IPv6Prefix > 128 {
		return errInvalidIPv6Prefix
	}

	if cfg.Limiter.SubmitsPerMinute <= 0 || cfg.Limiter.SubmitBurst <= 0 {
		return errInvalidSubmitRate
	}

	return nil
}

// validateListener checks the TCP or unix socket settings.
func (cfg *ServerConfig) validateListener() error {
	if cfg.Basic.UnixSocket == "" {
		if cfg.Basic.Host == "" {
			cfg.Basic.Host = "localhost"
			log.Info().
				Str("host", cfg.Basic.Host).
				Msg("Binding to default host")
		}

		if cfg.Basic.Port == "" {
			cfg.Basic.Port = "8383"
			log.Info().
				Str("port", cfg.Basic.Port).
				Msg("Using default port")
		}

		return nil
	}

	if cfg.Basic.Host != "" || cfg.Basic.Port != "" {
		return errUnixSocketWithHostPort
	}

	mode, err := parseSocketPermissions(cfg.Basic.RawUnixSocketPermissions)
	if err != nil {
		return err
	}

	cfg.Basic.UnixSocketPermissions = mode

	if name := cfg.Basic.UnixSocketUser; name != "" {
		lookup := user.Lookup
		if digitsRegexp.MatchString(name) {
			lookup = user.LookupId
		}

		if _, err := lookup(name); err != nil {
			return errUnixSocketUserDoesNotExist
		}
	}

	if name := cfg.Basic.UnixSocketGroup; name != "" {
		lookup := user.LookupGroup
		if digitsRegexp.MatchString(name) {
			lookup = user.LookupGroupId
		}

		if _, err := lookup(name); err != nil {
			return errUnixSocketGroupDoesNotExist
		}
	}

	return nil
}

// parseSocketPermissions accepts "660", "0660" or "rw-rw----".
// The empty string yields 0o666.
func parseSocketPermissions(raw string) (os.FileMode, error) {
	switch {
	case raw == "":
		return 0o666, nil
	case fileModeOctalRegexp.MatchString(raw):
		mode, _ := strconv.ParseUint(raw, 8, 32)

		return os.FileMode(mode), nil
	case fileModeStringRegexp.MatchString(raw):
		mode := os.FileMode(0)

		for i, c := range raw {
			if c != '-' {
				mode |= 1 << (8 - i)
			}
		}

		return mode, nil
	default:
		return 0, errUnixSocketInvalidPermissions
	}
}
