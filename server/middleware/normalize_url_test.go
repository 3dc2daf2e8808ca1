// Copyright 2025, the Portail contributors
// SPDX-License-Identifier: AGPL-3.0-only

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name             string
		requestURL       string
		expectedStatus   int
		expectedLocation string
	}{
		{
			name:           "root path",
			requestURL:     "/",
			expectedStatus: http.StatusOK,
		},
		{
			name:           "path without trailing slash",
			requestURL:     "/services/attestations",
			expectedStatus: http.StatusOK,
		},
		{
			name:             "trailing slash",
			requestURL:       "/services/",
			expectedStatus:   http.StatusPermanentRedirect,
			expectedLocation: "/services",
		},
		{
			name:             "query kept on trailing slash redirect",
			requestURL:       "/immatriculation/?lang=en",
			expectedStatus:   http.StatusPermanentRedirect,
			expectedLocation: "/immatriculation?lang=en",
		},
		{
			name:             "english prefix",
			requestURL:       "/en/services",
			expectedStatus:   http.StatusMovedPermanently,
			expectedLocation: "/services?lang=en",
		},
		{
			name:             "french prefix on the landing page",
			requestURL:       "/fr/",
			expectedStatus:   http.StatusMovedPermanently,
			expectedLocation: "/?lang=fr",
		},
		{
			name:             "prefix overrides the query",
			requestURL:       "/en/urgences?lang=fr&x=1",
			expectedStatus:   http.StatusMovedPermanently,
			expectedLocation: "/urgences?lang=en&x=1",
		},
		{
			name:           "word starting like a locale",
			requestURL:     "/entreprises",
			expectedStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusOK)
			})

			rr := httptest.NewRecorder()
			Wrap(NormalizeURL, next).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, tt.requestURL, nil))

			assert.Equal(t, tt.expectedStatus, rr.Code)
			assert.Equal(t, tt.expectedLocation, rr.Header().Get("Location"))
		})
	}
}

func TestCutLocalePrefix(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path string
		lang string
		rest string
		ok   bool
	}{
		{"/en/services", "en", "/services", true},
		{"/fr", "fr", "/", true},
		{"/en/", "en", "/", true},
		{"/english", "", "", false},
		{"/services/en", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			t.Parallel()

			lang, rest, ok := cutLocalePrefix(tt.path)

			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.lang, lang)
			assert.Equal(t, tt.rest, rest)
		})
	}
}
