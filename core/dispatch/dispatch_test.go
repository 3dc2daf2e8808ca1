// Copyright 2025, the Portail contributors
// SPDX-License-Identifier: AGPL-3.0-only

package dispatch

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type record struct {
	NomComplet   string `json:"nomComplet"`
	Consentement bool   `json:"consentement"`
}

func testSubmission() Submission {
	return Submission{
		Form:      "immatriculation",
		Reference: "IMM-20251103-ABCDEFG",
		ID:        uuid.New(),
		Record:    record{NomComplet: "MABICKA Marie Jeanne", Consentement: true},
	}
}

func TestLogDispatcher(t *testing.T) {
	t.Parallel()

	receipt, err := LogDispatcher{}.Dispatch(t.Context(), testSubmission())
	require.NoError(t, err)
	assert.True(t, receipt.Success)
}

func TestHTTPDispatcherSendsOneRequest(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32

	sub := testSubmission()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)

		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, RegistrationPath, r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, sub.ID.String(), r.Header.Get("Idempotency-Key"))

		body, err := io.ReadAll(r.Body)
		assert.NoError(t, err)

		var got map[string]any
		assert.NoError(t, json.Unmarshal(body, &got))
		assert.Equal(t, map[string]any{"nomComplet": "MABICKA Marie Jeanne", "consentement": true}, got)

		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"success":true,"message":"Demande d'immatriculation reçue avec succès."}`)
	}))
	t.Cleanup(server.Close)

	d := &HTTPDispatcher{Client: server.Client(), Endpoint: server.URL + RegistrationPath, Timeout: time.Second}

	receipt, err := d.Dispatch(t.Context(), sub)
	require.NoError(t, err)
	assert.Equal(t, int32(1), calls.Load())
	assert.Equal(t, Receipt{
		StatusCode: http.StatusOK,
		Success:    true,
		Message:    "Demande d'immatriculation reçue avec succès.",
	}, receipt)
}

func TestHTTPDispatcherErrorStatusIsNotRetried(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = io.WriteString(w, `{"success":false,"message":"maintenance"}`)
	}))
	t.Cleanup(server.Close)

	d := &HTTPDispatcher{Client: server.Client(), Endpoint: server.URL}

	receipt, err := d.Dispatch(t.Context(), testSubmission())
	require.ErrorIs(t, err, ErrEndpointStatus)
	assert.Equal(t, int32(1), calls.Load())
	assert.False(t, receipt.Success)
	assert.Equal(t, "maintenance", receipt.Message)
	assert.Equal(t, http.StatusServiceUnavailable, receipt.StatusCode)
}

func TestHTTPDispatcherTransportError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.NotFoundHandler())
	endpoint := server.URL
	server.Close()

	d := &HTTPDispatcher{Client: http.DefaultClient, Endpoint: endpoint}

	_, err := d.Dispatch(t.Context(), testSubmission())
	require.ErrorIs(t, err, ErrEndpointTransport)
}

func TestHTTPDispatcherTimeout(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	t.Cleanup(func() {
		close(release)
		server.Close()
	})

	d := &HTTPDispatcher{Client: server.Client(), Endpoint: server.URL, Timeout: 50 * time.Millisecond}

	_, err := d.Dispatch(t.Context(), testSubmission())
	require.ErrorIs(t, err, ErrEndpointTransport)
}

func TestLocalClient(t *testing.T) {
	t.Parallel()

	var (
		calls    atomic.Int32
		received record
	)

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)

		assert.Equal(t, RegistrationPath, r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		body, _ := io.ReadAll(r.Body)
		assert.NoError(t, json.Unmarshal(body, &received))

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = io.WriteString(w, `{"success":true,"message":"reçu"}`)
	})

	d := &HTTPDispatcher{Client: LocalClient(handler), Endpoint: LocalEndpoint}

	receipt, err := d.Dispatch(t.Context(), testSubmission())
	require.NoError(t, err)
	assert.Equal(t, int32(1), calls.Load())
	assert.Equal(t, "MABICKA Marie Jeanne", received.NomComplet)
	assert.True(t, receipt.Success)
	assert.Equal(t, "reçu", receipt.Message)
}

func TestLocalClientErrorStatus(t *testing.T) {
	t.Parallel()

	handler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})

	d := &HTTPDispatcher{Client: LocalClient(handler), Endpoint: LocalEndpoint}

	receipt, err := d.Dispatch(t.Context(), testSubmission())
	require.ErrorIs(t, err, ErrEndpointStatus)
	assert.Equal(t, http.StatusInternalServerError, receipt.StatusCode)
}

func TestReadAnswer(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		status int
		answer string
		want   Receipt
	}{
		{name: "empty body", status: 204, want: Receipt{StatusCode: 204, Success: true}},
		{name: "not json", status: 200, answer: "ok", want: Receipt{StatusCode: 200, Success: true}},
		{name: "explicit failure", status: 200, answer: `{"success":false}`, want: Receipt{StatusCode: 200}},
		{name: "message only", status: 201, answer: `{"message":"reçu"}`, want: Receipt{StatusCode: 201, Success: true, Message: "reçu"}},
		{name: "error status wins", status: 500, answer: `{"success":true}`, want: Receipt{StatusCode: 500}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, readAnswer(tt.status, []byte(tt.answer)))
		})
	}
}

func TestFunc(t *testing.T) {
	t.Parallel()

	var got Submission

	d := Func(func(_ context.Context, sub Submission) (Receipt, error) {
		got = sub

		return Receipt{Success: true}, nil
	})

	sub := testSubmission()
	_, err := d.Dispatch(t.Context(), sub)
	require.NoError(t, err)
	assert.Equal(t, sub, got)
}
