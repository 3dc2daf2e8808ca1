// Copyright 2025, the Portail contributors
// SPDX-License-Identifier: AGPL-3.0-only

package audit

import (
	"context"
	"encoding/base64"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServerTimingName(t *testing.T) {
	t.Parallel()

	span := Span{Destination: ToEndpoint, Method: "POST", URL: "http://localhost/api/immatriculation"}
	parts := strings.Split(span.ServerTimingName(), "$")

	require.Len(t, parts, 3)
	assert.Equal(t, "endpoint", parts[0])
	assert.Equal(t, "POST", parts[1])

	decoded, err := base64.RawURLEncoding.DecodeString(parts[2])
	require.NoError(t, err)
	assert.Equal(t, span.URL, string(decoded))
}

func TestSpanEndIsIdempotent(t *testing.T) {
	t.Parallel()

	span := Span{Destination: ToUser}
	span.Begin(context.Background())
	span.End()

	first := span.Duration()
	span.End()

	assert.Equal(t, first, span.Duration())
}

func TestSpanSavesEndpointBodies(t *testing.T) {
	dir := t.TempDir()

	SaveBodies, BodyDirectory = true, dir
	t.Cleanup(func() { SaveBodies, BodyDirectory = false, "" })

	span := Span{Destination: ToEndpoint, RequestID: "req1", Body: []byte(`{"nomComplet":"A"}`)}
	span.Log()

	data, err := os.ReadFile(filepath.Join(dir, "req1.json"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"nomComplet":"A"}`, string(data))

	userSpan := Span{Destination: ToUser, RequestID: "req2", Body: []byte("<html>")}
	userSpan.Log()

	_, err = os.Stat(filepath.Join(dir, "req2.json"))
	assert.True(t, os.IsNotExist(err), "visitor responses are never saved")
}

func TestHumanizeSize(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "512", humanizeSize(512))
	assert.Equal(t, "1.50K", humanizeSize(1536))
	assert.Equal(t, "2.00M", humanizeSize(2*bytesInMB))
}
