// Copyright 2025, the Portail contributors
// SPDX-License-Identifier: AGPL-3.0-only

package utils_test

import (
	"crypto/tls"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeberg.org/ambagabon/portail/server/utils"
)

func TestParseURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		urlStr   string
		wantErr  bool
		expected string
	}{
		{"Valid URL", "https://example.com", false, "https://example.com"},
		{"Valid URL with path", "https://example.com/api/immatriculation", false, "https://example.com/api/immatriculation"},
		{"Missing scheme", "example.com", true, ""},
		{"Missing host", "https://", true, ""},
		{"Relative path", "/api/immatriculation", true, ""},
		{"Trailing slash", "https://example.com/", false, "https://example.com"},
		{"Path with trailing slash", "https://example.com/path/", false, "https://example.com/path"},
		{"Empty URL", "", true, ""},
		{"URL with query params", "https://example.com/path?q=test", false, "https://example.com/path?q=test"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := utils.ParseURL(tt.urlStr, "Test")
			if tt.wantErr {
				assert.Error(t, err)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.expected, got.String())
		})
	}
}

func TestSanitizeReturnPath(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"/services/passeports":  "/services/passeports",
		"  /equipe?lang=en ":    "/equipe?lang=en",
		"":                      "",
		"services":              "",
		"https://evil.example/": "",
		"//evil.example":        "",
		`/\evil.example`:        "",
		"javascript:alert(1)":   "",
		"/immatriculation#form": "/immatriculation#form",
	}

	for in, want := range tests {
		t.Run(in, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, want, utils.SanitizeReturnPath(in))
		})
	}
}

func TestGetOriginFromRequest(t *testing.T) {
	t.Parallel()

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Host = "portail.example"
	assert.Equal(t, "http://portail.example", utils.GetOriginFromRequest(r))

	r.RemoteAddr = "10.0.0.2:4242"
	r.Header.Set("X-Forwarded-Proto", "https")
	assert.Equal(t, "https://portail.example", utils.GetOriginFromRequest(r))

	r.RemoteAddr = "203.0.113.9:4242"
	assert.Equal(t, "http://portail.example", utils.GetOriginFromRequest(r), "untrusted forwarded header")

	r.TLS = &tls.ConnectionState{}
	assert.Equal(t, "https://portail.example", utils.GetOriginFromRequest(r))
}

func TestGetFormValue(t *testing.T) {
	t.Parallel()

	body := url.Values{"return_path": {"/equipe"}}.Encode()
	r := httptest.NewRequest(http.MethodPost, "/locale", strings.NewReader(body))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	assert.Equal(t, "/equipe", utils.GetFormValue(r, "return_path"))
	assert.Equal(t, "fr", utils.GetFormValue(r, "lang", "fr"))
	assert.Empty(t, utils.GetFormValue(r, "lang"))
}
