// Copyright 2025, the Portail contributors
// SPDX-License-Identifier: AGPL-3.0-only

package untrusted

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeberg.org/ambagabon/portail/core/cookie"
)

func TestSetAndGetLang(t *testing.T) {
	t.Parallel()

	r := httptest.NewRequest(http.MethodPost, "/locale", nil)
	w := httptest.NewRecorder()

	SetLang(w, r, "en")

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, string(cookie.LangCookie), cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)
	assert.Equal(t, http.SameSiteLaxMode, cookies[0].SameSite)

	next := httptest.NewRequest(http.MethodGet, "/", nil)
	next.AddCookie(cookies[0])

	assert.Equal(t, "en", GetLang(next))
}

func TestSetEmptyValueClears(t *testing.T) {
	t.Parallel()

	r := httptest.NewRequest(http.MethodPost, "/locale", nil)
	w := httptest.NewRecorder()

	SetCookie(w, r, cookie.LangCookie, "")

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Empty(t, cookies[0].Value)
	assert.True(t, cookies[0].Expires.Before(cookieExpireDelete.Add(1)))
}

func TestGetCookieRejectsBadEscapes(t *testing.T) {
	t.Parallel()

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(&http.Cookie{Name: string(cookie.LangCookie), Value: "%zz"})

	assert.Empty(t, GetLang(r))
}
