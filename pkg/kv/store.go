// Package kv provides the key-value capability backing the content cache and
// the rate limiter. The backing store is a managed external service (Redis);
// when it is not configured the service keeps working with a no-op store, so
// every read misses and every write is dropped.
package kv

import (
	"context"
	"time"
)

// Store is a string-keyed byte store with per-key TTL. An entry is never
// returned past its expiry; absence and expiry are indistinguishable to
// callers.
type Store interface {
	// Get returns the value for key, or found=false if the key is absent or
	// expired.
	Get(ctx context.Context, key string) (value []byte, found bool, err error)

	// Put stores value under key for ttl. A ttl of zero or less stores the
	// value without expiry.
	Put(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// Nop is a Store with no backing storage: Get always misses, Put discards.
type Nop struct{}

func (Nop) Get(ctx context.Context, key string) ([]byte, bool, error) {
	return nil, false, nil
}

func (Nop) Put(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return nil
}
