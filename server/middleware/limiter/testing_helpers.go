// Copyright 2025, the Portail contributors
// SPDX-License-Identifier: AGPL-3.0-only

package limiter

import (
	"sync"
	"testing"
	"time"

	"codeberg.org/ambagabon/portail/config"
)

// testConfigMutex serializes tests that mutate global package state.
var testConfigMutex sync.Mutex

// mockTimeProvider maintains a controllable current time for testing.
type mockTimeProvider struct {
	mu          sync.Mutex
	currentTime time.Time
}

// Now returns the current mock time.
func (m *mockTimeProvider) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.currentTime
}

// Sleep advances the mock current time by the specified duration.
func (m *mockTimeProvider) Sleep(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.currentTime = m.currentTime.Add(d)
}

// setupLimiterTest configures the limiter, hooks a mock clock and clears
// every bucket. Everything is restored when the test completes.
//
// NOTE: call it once per test, not in subtests; it holds a global mutex.
func setupLimiterTest(t *testing.T) *mockTimeProvider {
	t.Helper()

	testConfigMutex.Lock()

	origConfig := config.Global
	origTimeNow := timeNow

	config.Global.Limiter.Enabled = true
	config.Global.Limiter.IPv4Prefix = 24
	config.Global.Limiter.IPv6Prefix = 64
	config.Global.Limiter.PassIPs = nil
	config.Global.Limiter.BlockIPs = nil
	config.Global.Limiter.FilterLocal = false
	config.Global.Limiter.SubmitsPerMinute = 6
	config.Global.Limiter.SubmitBurst = 3

	mockTime := &mockTimeProvider{currentTime: time.Date(2025, 11, 3, 9, 0, 0, 0, time.UTC)}
	timeNow = mockTime.Now
	limiters = sync.Map{}

	t.Cleanup(func() {
		config.Global = origConfig
		timeNow = origTimeNow
		limiters = sync.Map{}

		testConfigMutex.Unlock()
	})

	return mockTime
}
