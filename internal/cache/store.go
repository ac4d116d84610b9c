// Package cache holds the time-boxed memoization layer used by the data
// fetcher. Values are opaque bytes so a cache hit returns exactly what was
// stored.
package cache

import (
	"context"
	"time"
)

// Store keeps values for a fixed retention window measured from creation.
type Store interface {
	// Get returns the value and true when a non-expired entry exists.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}
