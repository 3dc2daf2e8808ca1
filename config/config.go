// Copyright 2025, the Portail contributors
// SPDX-License-Identifier: AGPL-3.0-only

package config

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/goccy/go-yaml"
	"github.com/rs/zerolog/log"

	_ "codeberg.org/ambagabon/portail/core/audit" // setup better logging format
	"codeberg.org/ambagabon/portail/core/idgen"
)

// Global exposes the server configuration.
var Global ServerConfig

// ServerConfig holds the application configuration.
type ServerConfig struct {
	Build buildInfo `yaml:"-"`

	Basic struct {
		Host                     string      `env:"PORTAIL_HOST,overwrite" yaml:"host"`
		Port                     string      `env:"PORTAIL_PORT,overwrite" yaml:"port"`
		UnixSocket               string      `env:"PORTAIL_UNIXSOCKET" yaml:"unixSocket"`
		RawUnixSocketPermissions string      `env:"PORTAIL_UNIXSOCKET_PERMISSIONS" yaml:"unixSocketPermissions"`
		UnixSocketPermissions    os.FileMode `yaml:"-"`
		UnixSocketUser           string      `env:"PORTAIL_UNIXSOCKET_USER" yaml:"unixSocketUser"`
		UnixSocketGroup          string      `env:"PORTAIL_UNIXSOCKET_GROUP" yaml:"unixSocketGroup"`
	} `yaml:"basic"`

	Site struct {
		Name          string `env:"PORTAIL_SITE_NAME,overwrite" yaml:"name"`
		ContactEmail  string `env:"PORTAIL_CONTACT_EMAIL,overwrite" yaml:"contactEmail"`
		DefaultLocale string `env:"PORTAIL_DEFAULT_LOCALE,overwrite" yaml:"defaultLocale"`
	} `yaml:"site"`

	Forms struct {
		// Empty means "same origin as the incoming request".
		RegistrationEndpoint string        `env:"PORTAIL_REGISTRATION_ENDPOINT,overwrite" yaml:"registrationEndpoint"`
		DispatchTimeout      time.Duration `env:"PORTAIL_DISPATCH_TIMEOUT,overwrite" yaml:"dispatchTimeout"`
		RequireToken         bool          `env:"PORTAIL_FORM_REQUIRE_TOKEN,overwrite" yaml:"requireToken"`
		TokenTTL             time.Duration `env:"PORTAIL_FORM_TOKEN_TTL,overwrite" yaml:"tokenTTL"`

		// hex of a v4.public secret key; an ephemeral key is generated when empty
		TokenSecret string `env:"PORTAIL_FORM_TOKEN_SECRET" yaml:"tokenSecret"`
	} `yaml:"forms"`

	Instance struct {
		StartingTime      string `yaml:"-"`
		FileServerCacheID string `yaml:"-"`
		RepoURL           string `env:"PORTAIL_REPO_URL,overwrite" yaml:"repoUrl"`
	} `yaml:"instance"`

	Development struct {
		InDevelopment        bool   `env:"PORTAIL_DEV" yaml:"inDevelopment"`
		SaveDispatches       bool   `env:"PORTAIL_SAVE_DISPATCHES,overwrite" yaml:"saveDispatches"` // JSON bodies sent to the registration endpoint
		DispatchSaveLocation string `env:"PORTAIL_DISPATCH_SAVE_LOCATION,overwrite" yaml:"dispatchSaveLocation"`
	} `yaml:"development"`

	Log struct {
		Level   string   `env:"PORTAIL_LOG_LEVEL,overwrite" yaml:"logLevel"`
		Outputs []string `env:"PORTAIL_LOG_OUTPUTS,overwrite" yaml:"logOutputs"`
		Format  string   `env:"PORTAIL_LOG_FORMAT,overwrite" yaml:"logFormat"`
	} `yaml:"log"`

	Limiter struct {
		Enabled     bool     `env:"PORTAIL_LIMITER,overwrite" yaml:"enabled"`
		PassIPs     []string `env:"PORTAIL_LIMITER_PASS_IPS,overwrite" yaml:"passList"`
		BlockIPs    []string `env:"PORTAIL_LIMITER_BLOCK_IPS,overwrite" yaml:"blockList"`
		FilterLocal bool     `env:"PORTAIL_LIMITER_FILTER_LOCAL,overwrite" yaml:"filterLocal"`
		IPv4Prefix  int      `env:"PORTAIL_LIMITER_IPV4_PREFIX,overwrite" yaml:"ipv4Prefix"`
		IPv6Prefix  int      `env:"PORTAIL_LIMITER_IPV6_PREFIX,overwrite" yaml:"ipv6Prefix"`

		// Form submissions allowed per minute and network, and the bucket size.
		SubmitsPerMinute int `env:"PORTAIL_LIMITER_SUBMITS_PER_MINUTE,overwrite" yaml:"submitsPerMinute"`
		SubmitBurst      int `env:"PORTAIL_LIMITER_SUBMIT_BURST,overwrite" yaml:"submitBurst"`
	} `yaml:"limiter"`

	Metrics struct {
		Enabled bool   `env:"PORTAIL_METRICS,overwrite" yaml:"enabled"`
		Path    string `env:"PORTAIL_METRICS_PATH,overwrite" yaml:"path"`
	} `yaml:"metrics"`

	Compression struct {
		Enabled bool `env:"PORTAIL_COMPRESSION,overwrite" yaml:"enabled"`
	} `yaml:"compression"`

	Internationalization struct {
		// Strict mode for missing keys.
		//
		// When enabled, missing keys are logged (deduplicated per locale+key) and
		// visibly wrapped using markers.
		StrictMissingKeys bool `env:"PORTAIL_STRICT_MISSING_KEYS" yaml:"strictMissingKeys"`
	} `yaml:"internationalization"`
}

// LoadConfig loads the configuration from various sources.
func (cfg *ServerConfig) LoadConfig() error {
	parsedConfigFlagValue := parseCommandLineArgs()

	// Check if the -config flag was explicitly set by the user.
	configFlagUserSet := false

	flag.Visit(func(f *flag.Flag) {
		if f.Name == "config" {
			configFlagUserSet = true
		}
	})

	var configFilePath string

	// Precedence: -config flag, then PORTAIL_CONFIGFILE, then ./config.yaml or ./config.yml.
	if configFlagUserSet {
		configFilePath = parsedConfigFlagValue
	} else if envVar := os.Getenv("PORTAIL_CONFIGFILE"); envVar != "" {
		configFilePath = envVar
	} else {
		configFilePath = parsedConfigFlagValue

		if _, err := os.Stat(configFilePath); os.IsNotExist(err) {
			ymlPath := "./config.yml"
			if _, statErr := os.Stat(ymlPath); statErr == nil {
				configFilePath = ymlPath
			}
		}
	}

	cfg.SetDefaults()

	cfg.Build.load()

	cfg.Instance.FileServerCacheID = idgen.Make()
	cfg.Instance.StartingTime = time.Now().UTC().Format("2006-01-02 15:04")

	if err := cfg.readYAML(configFilePath); err != nil {
		return fmt.Errorf("error loading YAML config: %w", err)
	}

	if err := useDotEnv(); err != nil {
		return fmt.Errorf("error using .env file: %w", err)
	}

	if err := readEnv(cfg); err != nil {
		return fmt.Errorf("error loading environment variables: %w", err)
	}

	if err := cfg.validateAndSet(); err != nil {
		return fmt.Errorf("configuration invalid: %w", err)
	}

	cfg.setupAudit()

	cfg.print()

	// Heuristically check for containerized environment and warn if host is not a wildcard address.
	if isContainerized() && cfg.Basic.UnixSocket == "" && cfg.Basic.Host != "0.0.0.0" && cfg.Basic.Host != "::" {
		log.Warn().
			Str("host", cfg.Basic.Host).
			Msg("Running in a containerized environment but host is not a wildcard address (e.g., '0.0.0.0' or '::'). This may prevent the service from being accessible outside the container.")
	}

	return nil
}

var staticSkippedPathPrefixes = []string{"/img/", "/css/", "/js/", "/icons/"}

// ShouldSkipServerLogging determines if a request should bypass the logging middleware.
func (cfg *ServerConfig) ShouldSkipServerLogging(path string) bool {
	for _, prefix := range staticSkippedPathPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}

	if cfg.Metrics.Enabled && path == cfg.Metrics.Path {
		return true
	}

	return path == "/healthz"
}

// isContainerized checks for common indicators of a containerized environment.
//
// This is a heuristic and may not be 100% accurate.
func isContainerized() bool {
	if os.Getenv("KUBERNETES_SERVICE_HOST") != "" {
		return true
	}

	if _, err := os.Stat("/.dockerenv"); err == nil {
		return true
	}

	if _, err := os.Stat("/.containerenv"); err == nil {
		return true
	}

	// #nosec G304 -- well-known system file, read for heuristics only.
	cgroup, err := os.ReadFile("/proc/self/cgroup")
	if err == nil {
		content := string(cgroup)

		return strings.Contains(content, "docker") ||
			strings.Contains(content, "kubepods") ||
			strings.Contains(content, "containerd") ||
			strings.Contains(content, "lxc") ||
			strings.Contains(content, "crio") ||
			strings.Contains(content, ".machine")
	}

	return false
}

// GetDurationEncoderOption returns a YAML encoder option that marshals
// time.Duration into a human-readable string format (e.g., "30m", "1h").
func GetDurationEncoderOption() yaml.EncodeOption {
	return yaml.CustomMarshaler[time.Duration](
		func(d time.Duration) ([]byte, error) {
			return yaml.Marshal(d.String())
		},
	)
}
