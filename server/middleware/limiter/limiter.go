// Copyright 2025, the Portail contributors
// SPDX-License-Identifier: AGPL-3.0-only

package limiter

import (
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"codeberg.org/ambagabon/portail/config"
)

const (
	LimiterExpiryDuration = time.Hour       // How long to keep idle limiters in memory.
	CleanupInterval       = 5 * time.Minute // Interval between limiter cleanup runs.
)

var (
	limiters sync.Map   // network string -> *limiterWrapper
	timeNow  = time.Now // Wrapper for time.Now, which allows us to mock it in tests.
)

// limiterWrapper holds the token bucket of one network.
type limiterWrapper struct {
	limiter    *rate.Limiter
	network    string
	mu         sync.Mutex
	lastAccess time.Time
}

// submitRate converts the configured submissions per minute to a rate.
func submitRate() rate.Limit {
	return rate.Limit(float64(config.Global.Limiter.SubmitsPerMinute) / float64(time.Minute/time.Second))
}

// getOrCreateLimiter returns the limiterWrapper of network, creating it
// with the configured rate and burst.
func getOrCreateLimiter(network string) *limiterWrapper {
	if value, ok := limiters.Load(network); ok {
		if limWrapper, ok := value.(*limiterWrapper); ok {
			return limWrapper
		}
	}

	fresh := &limiterWrapper{
		limiter:    rate.NewLimiter(submitRate(), config.Global.Limiter.SubmitBurst),
		network:    network,
		lastAccess: timeNow(),
	}

	// Two first requests may race; both end up on the stored wrapper.
	actual, _ := limiters.LoadOrStore(network, fresh)

	limWrapper, _ := actual.(*limiterWrapper)

	return limWrapper
}

// allow consumes one token at the current time.
func (l *limiterWrapper) allow() bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := timeNow()
	l.lastAccess = now

	return l.limiter.AllowN(now, 1)
}

// state reports the bucket as seen at the current time.
func (l *limiterWrapper) state() (tokens float64, burst int, limit rate.Limit) {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.limiter.TokensAt(timeNow()), l.limiter.Burst(), l.limiter.Limit()
}

// cleanupExpiredLimiters removes limiters that haven't been accessed for the expiry duration.
func cleanupExpiredLimiters() {
	now := timeNow()

	var expired []any

	limiters.Range(func(key, value any) bool {
		limWrapper, ok := value.(*limiterWrapper)
		if !ok {
			expired = append(expired, key)

			return true
		}

		limWrapper.mu.Lock()
		lastAccess := limWrapper.lastAccess
		limWrapper.mu.Unlock()

		if now.Sub(lastAccess) > LimiterExpiryDuration {
			expired = append(expired, key)
		}

		return true
	})

	for _, key := range expired {
		limiters.Delete(key)
	}

	if len(expired) > 0 {
		log.Info().Int("count", len(expired)).Msg("Cleaned up expired limiters")
	}
}
