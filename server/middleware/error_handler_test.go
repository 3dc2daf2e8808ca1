// Copyright 2025, the Portail contributors
// SPDX-License-Identifier: AGPL-3.0-only

package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeberg.org/ambagabon/portail/core/content"
	"codeberg.org/ambagabon/portail/i18n"
	"codeberg.org/ambagabon/portail/server/assets"
	"codeberg.org/ambagabon/portail/server/request_context"
	"codeberg.org/ambagabon/portail/server/template"
)

// TestMain loads what the error page needs from the checkout.
func TestMain(m *testing.M) {
	assets.FS = os.DirFS("../..")

	for _, setup := range []func() error{
		i18n.Setup,
		content.Setup,
		func() error { return template.LoadIcons(template.IconsDir) },
	} {
		if err := setup(); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}

	os.Exit(m.Run())
}

// createTestRequest creates a test HTTP request with request context.
func createTestRequest(t *testing.T) *http.Request {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, "/test", nil)

	return req.WithContext(request_context.WithRequestContext(req.Context(), req))
}

func TestCatchErrorSuccess(t *testing.T) {
	t.Parallel()

	handler := CatchError(func(w http.ResponseWriter, _ *http.Request) error {
		w.Header().Set("X-Test", "kept")
		_, err := w.Write([]byte(`{"status": "success"}`))

		return err
	})

	req := createTestRequest(t)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"status": "success"}`, rr.Body.String())
	assert.Equal(t, "kept", rr.Header().Get("X-Test"))
	assert.NoError(t, request_context.FromRequest(req).RequestError)
}

func TestCatchErrorHandlerError(t *testing.T) {
	t.Parallel()

	testError := errors.New("test handler error")

	handler := CatchError(func(w http.ResponseWriter, _ *http.Request) error {
		_, _ = w.Write([]byte("partial output"))

		return testError
	})

	req := createTestRequest(t)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.NotContains(t, rr.Body.String(), "partial output")

	rc := request_context.FromRequest(req)
	require.ErrorIs(t, rc.RequestError, testError)

	doc, err := goquery.NewDocumentFromReader(rr.Body)
	require.NoError(t, err)

	assert.Equal(t, "500", strings.TrimSpace(doc.Find(".status").Text()))
	assert.Contains(t, doc.Find(".note").Text(), rc.RequestID)
}

func TestCatchErrorNotFound(t *testing.T) {
	t.Parallel()

	handler := CatchError(func(w http.ResponseWriter, _ *http.Request) error {
		w.WriteHeader(http.StatusNotFound)

		return nil
	})

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, createTestRequest(t))

	assert.Equal(t, http.StatusNotFound, rr.Code)

	doc, err := goquery.NewDocumentFromReader(rr.Body)
	require.NoError(t, err)

	assert.Equal(t, "404", strings.TrimSpace(doc.Find(".status").Text()))
}

func TestCatchErrorKeepsHandledErrorPages(t *testing.T) {
	t.Parallel()

	handler := CatchError(func(w http.ResponseWriter, _ *http.Request) error {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("form with failure banner"))

		return errors.New("endpoint down")
	})

	req := createTestRequest(t)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadGateway, rr.Code)
	assert.Equal(t, "form with failure banner", rr.Body.String())
	assert.Equal(t, http.StatusBadGateway, request_context.FromRequest(req).StatusCode)
}
