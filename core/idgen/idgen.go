// Copyright 2025, the Portail contributors
// SPDX-License-Identifier: AGPL-3.0-only

// Package idgen makes short identifiers for cache busting and submission references.
package idgen

import (
	"crypto/rand"
	"encoding/base32"
	"encoding/base64"
	"strings"
	"time"
)

// noPadding is base32 without padding, upper case, easy to read back over the phone.
var noPadding = base32.StdEncoding.WithPadding(base32.NoPadding)

// Make makes a short ID from the time of day and 3 bytes of entropy.
func Make() string {
	var entropy [3]byte

	_, _ = rand.Read(entropy[:])

	return time.Now().Format("150405") + base64.RawURLEncoding.EncodeToString(entropy[:])
}

// Reference builds a human-friendly submission reference such as
// "IMM-20251103-K7QX2M". The prefix is upper-cased.
func Reference(prefix string, t time.Time) string {
	var entropy [4]byte

	_, _ = rand.Read(entropy[:])

	code := noPadding.EncodeToString(entropy[:])

	return strings.ToUpper(prefix) + "-" + t.Format("20060102") + "-" + code
}
