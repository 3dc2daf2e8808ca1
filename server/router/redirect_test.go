// Copyright 2025, the Portail contributors
// SPDX-License-Identifier: AGPL-3.0-only

package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLegacyRedirect(t *testing.T) {
	t.Parallel()

	tests := []struct {
		method   string
		url      string
		location string
	}{
		{http.MethodGet, "/formulaires/immatriculation", "/immatriculation"},
		{http.MethodGet, "/formulaires/immatriculation?lang=en", "/immatriculation?lang=en"},
		{http.MethodPost, "/formulaires/immatriculation", "/immatriculation"},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.url, func(t *testing.T) {
			t.Parallel()

			rr := httptest.NewRecorder()
			redirectTo("/immatriculation").ServeHTTP(rr, httptest.NewRequest(tt.method, tt.url, nil))

			assert.Equal(t, http.StatusPermanentRedirect, rr.Code)
			assert.Equal(t, tt.location, rr.Header().Get("Location"))
		})
	}
}
