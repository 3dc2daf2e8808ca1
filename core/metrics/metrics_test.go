// Copyright 2025, the Portail contributors
// SPDX-License-Identifier: AGPL-3.0-only

package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCountSubmission(t *testing.T) {
	before := testutil.ToFloat64(submissions.WithLabelValues("passeports", OutcomeInvalid))

	CountSubmission("passeports", OutcomeInvalid)
	CountSubmission("passeports", OutcomeInvalid)

	assert.InDelta(t, before+2, testutil.ToFloat64(submissions.WithLabelValues("passeports", OutcomeInvalid)), 0)
}

func TestHandler(t *testing.T) {
	CountRegistration()
	ObserveDispatch("immatriculation", 30*time.Millisecond)

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)

	assert.Contains(t, string(body), "portail_registrations_received_total")
	assert.Contains(t, string(body), `portail_dispatch_duration_seconds_count{form="immatriculation"}`)
	assert.Contains(t, string(body), "go_goroutines")
}
