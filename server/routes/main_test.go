// Copyright 2025, the Portail contributors
// SPDX-License-Identifier: AGPL-3.0-only

package routes

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"

	"codeberg.org/ambagabon/portail/core/content"
	"codeberg.org/ambagabon/portail/i18n"
	"codeberg.org/ambagabon/portail/server/assets"
	"codeberg.org/ambagabon/portail/server/request_context"
	"codeberg.org/ambagabon/portail/server/template"
)

// TestMain loads catalogues, content and icons from the checkout.
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

// newRequest returns a request carrying a request context, as the
// middleware chain would build it.
func newRequest(method, target string, body io.Reader) *http.Request {
	r := httptest.NewRequest(method, target, body)
	if body != nil {
		r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	return r.WithContext(request_context.WithRequestContext(r.Context(), r))
}

// serve runs handler and parses the page it wrote.
func serve(t *testing.T, handler func(http.ResponseWriter, *http.Request) error, r *http.Request) (*httptest.ResponseRecorder, *goquery.Document) {
	t.Helper()

	rr := httptest.NewRecorder()
	_ = handler(rr, r)

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(rr.Body.Bytes()))
	require.NoError(t, err)

	return rr, doc
}
