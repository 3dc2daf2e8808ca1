// Copyright 2025, the Portail contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package formtoken signs and checks the hidden token carried by every form.

A token is a v4.public PASETO naming the form it was issued for and
expiring after a configured lifetime. It keeps stale pages and forged
posts out without storing anything on the server.
*/
package formtoken

import (
	"errors"
	"fmt"
	"time"

	"aidanwoods.dev/go-paseto"
)

// FieldName is the name of the hidden input carrying the token.
const FieldName = "_token"

// Domain separation for the signature. Changing it invalidates every token in flight.
const implicit = "Portail form token"

// ErrInvalid is returned for missing, expired, forged or misdirected tokens.
var ErrInvalid = errors.New("invalid form token")

// Issuer signs tokens and verifies them.
type Issuer struct {
	secret paseto.V4AsymmetricSecretKey
	public paseto.V4AsymmetricPublicKey
	ttl    time.Duration
	now    func() time.Time
}

// New returns an issuer using the hex encoded secret key. An empty secret
// generates a key that lives as long as the process.
func New(secretHex string, ttl time.Duration) (*Issuer, error) {
	var (
		secret paseto.V4AsymmetricSecretKey
		err    error
	)

	if secretHex == "" {
		secret = paseto.NewV4AsymmetricSecretKey()
	} else if secret, err = paseto.NewV4AsymmetricSecretKeyFromHex(secretHex); err != nil {
		return nil, fmt.Errorf("loading form token secret: %w", err)
	}

	return &Issuer{
		secret: secret,
		public: secret.Public(),
		ttl:    ttl,
		now:    time.Now,
	}, nil
}

// NewSecretKeyHex returns a fresh secret key, hex encoded.
func NewSecretKeyHex() string {
	return paseto.NewV4AsymmetricSecretKey().ExportHex()
}

// Issue returns a token for form.
func (i *Issuer) Issue(form string) string {
	now := i.now()

	token := paseto.NewToken()
	token.SetIssuedAt(now)
	token.SetNotBefore(now)
	token.SetExpiration(now.Add(i.ttl))
	token.SetSubject(form)

	return token.V4Sign(i.secret, []byte(implicit))
}

// Verify checks that token was issued by i for form and has not expired.
func (i *Issuer) Verify(token, form string) error {
	if token == "" {
		return fmt.Errorf("%w: missing", ErrInvalid)
	}

	parser := paseto.NewParser()
	parser.AddRule(paseto.Subject(form))

	if _, err := parser.ParseV4Public(i.public, token, []byte(implicit)); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}

	return nil
}
