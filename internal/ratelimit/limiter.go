// Package ratelimit throttles the two write endpoints per client IP. State
// lives in the shared key-value store, so the limit spans replicas but is
// soft: two concurrent requests can both pass Check before either increments.
package ratelimit

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"politicswithalex/api_site/pkg/kv"
	"politicswithalex/api_site/pkg/logging"
)

const (
	// DefaultMax is the number of guarded actions allowed per window.
	DefaultMax = 5
	// DefaultWindow is the rolling window length.
	DefaultWindow = time.Hour
)

// Limiter counts guarded actions per (action, client) key. Each Increment
// stores count+1 with the TTL reset to the full window, so the window slides
// from the most recent action rather than a fixed calendar boundary. A steady
// trickle of requests therefore never fully resets the count; that matches
// the upstream behavior this service replaces.
type Limiter struct {
	store  kv.Store
	logger logging.Logger
	max    int
	window time.Duration
}

func New(store kv.Store, logger logging.Logger, max int, window time.Duration) *Limiter {
	if max <= 0 {
		max = DefaultMax
	}
	if window <= 0 {
		window = DefaultWindow
	}
	return &Limiter{store: store, logger: logger, max: max, window: window}
}

// Max returns the per-window threshold.
func (l *Limiter) Max() int {
	return l.max
}

func (l *Limiter) key(action, clientID string) string {
	return fmt.Sprintf("rl:%s:%s", action, clientID)
}

// Check returns the current count for the key, 0 when unset or expired.
// Store errors fail open: throttling degrades rather than blocking traffic.
func (l *Limiter) Check(ctx context.Context, action, clientID string) int {
	value, found, err := l.store.Get(ctx, l.key(action, clientID))
	if err != nil {
		l.logger.WithFields(logging.Fields{
			"action": action,
			"client": clientID,
			"error":  err.Error(),
		}).Warn("Rate limit lookup failed; allowing request")
		return 0
	}
	if !found {
		return 0
	}
	count, err := strconv.Atoi(string(value))
	if err != nil {
		return 0
	}
	return count
}

// Allowed reports whether another guarded action fits under the threshold.
func (l *Limiter) Allowed(ctx context.Context, action, clientID string) bool {
	return l.Check(ctx, action, clientID) < l.max
}

// Increment records one guarded action: count+1 stored with the TTL reset to
// the full window. Write errors are logged and swallowed.
func (l *Limiter) Increment(ctx context.Context, action, clientID string) {
	count := l.Check(ctx, action, clientID)
	key := l.key(action, clientID)
	if err := l.store.Put(ctx, key, []byte(strconv.Itoa(count+1)), l.window); err != nil {
		l.logger.WithFields(logging.Fields{
			"action": action,
			"client": clientID,
			"error":  err.Error(),
		}).Warn("Rate limit update failed")
	}
}
