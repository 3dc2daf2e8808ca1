// Copyright 2025, the Portail contributors
// SPDX-License-Identifier: AGPL-3.0-only

package formtoken

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueAndVerify(t *testing.T) {
	t.Parallel()

	issuer, err := New("", time.Hour)
	require.NoError(t, err)

	token := issuer.Issue("immatriculation")
	assert.Regexp(t, `^v4\.public\.`, token)

	require.NoError(t, issuer.Verify(token, "immatriculation"))
	require.ErrorIs(t, issuer.Verify(token, "passeports"), ErrInvalid, "issued for another form")
	require.ErrorIs(t, issuer.Verify("", "immatriculation"), ErrInvalid)
	require.ErrorIs(t, issuer.Verify("v4.public.garbage", "immatriculation"), ErrInvalid)
}

func TestVerifyExpired(t *testing.T) {
	t.Parallel()

	issuer, err := New("", time.Minute)
	require.NoError(t, err)

	issuer.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }

	require.ErrorIs(t, issuer.Verify(issuer.Issue("etudiants"), "etudiants"), ErrInvalid)
}

func TestVerifyOtherKey(t *testing.T) {
	t.Parallel()

	a, err := New(NewSecretKeyHex(), time.Hour)
	require.NoError(t, err)

	b, err := New(NewSecretKeyHex(), time.Hour)
	require.NoError(t, err)

	require.ErrorIs(t, b.Verify(a.Issue("etat-civil"), "etat-civil"), ErrInvalid)
}

func TestNewRejectsBadSecret(t *testing.T) {
	t.Parallel()

	_, err := New("abcd", time.Hour)
	require.Error(t, err)
}

func TestSameSecretSharesTokens(t *testing.T) {
	t.Parallel()

	secret := NewSecretKeyHex()

	a, err := New(secret, time.Hour)
	require.NoError(t, err)

	b, err := New(secret, time.Hour)
	require.NoError(t, err)

	require.NoError(t, b.Verify(a.Issue("avertisseur"), "avertisseur"))
}
