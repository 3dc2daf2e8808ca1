// Copyright 2025, the Portail contributors
// SPDX-License-Identifier: AGPL-3.0-only

package limiter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"golang.org/x/time/rate"
)

func TestGetOrCreateLimiter(t *testing.T) {
	setupLimiterTest(t)

	first := getOrCreateLimiter("10.1.2.0/24")
	assert.Same(t, first, getOrCreateLimiter("10.1.2.0/24"))
	assert.NotSame(t, first, getOrCreateLimiter("10.1.3.0/24"))

	tokens, burst, limit := first.state()
	assert.Equal(t, 3, burst)
	assert.InDelta(t, 3, tokens, 0.001)
	assert.InDelta(t, float64(rate.Limit(0.1)), float64(limit), 0.0001)
}

func TestCleanupExpiredLimiters(t *testing.T) {
	clock := setupLimiterTest(t)

	stale := getOrCreateLimiter("10.0.0.0/24")
	assert.True(t, stale.allow())

	clock.Sleep(LimiterExpiryDuration - time.Minute)

	fresh := getOrCreateLimiter("10.0.1.0/24")
	assert.True(t, fresh.allow())

	clock.Sleep(2 * time.Minute)
	cleanupExpiredLimiters()

	_, staleKept := limiters.Load("10.0.0.0/24")
	_, freshKept := limiters.Load("10.0.1.0/24")

	assert.False(t, staleKept)
	assert.True(t, freshKept)
}
