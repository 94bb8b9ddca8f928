// Package cache provides the TTL key-value stores backing read-through caches.
package cache

import (
	"context"
	"time"
)

// Store is a byte-oriented key-value store with per-entry expiry
type Store interface {
	// Get returns the value and true on hit. A miss is (nil, false, nil).
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}
