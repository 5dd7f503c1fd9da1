package cache

import (
	"context"
	"errors"
	"time"
)

// ErrCacheMiss is returned when a key is not present.
var ErrCacheMiss = errors.New("cache: key not found")

// CacheService is the shared cache used for derived data such as preview
// match counts. It stores marshalled values; it is NOT the compiled-matcher
// LRU, which lives in the mapping package and needs no invalidation.
type CacheService interface {
	// Get retrieves a value and unmarshals it into the 'dest' pointer.
	// Returns ErrCacheMiss when the key is absent or expired.
	Get(ctx context.Context, key string, dest interface{}) error

	// Set marshals and stores a value with a TTL.
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error

	// Delete removes a value from the cache.
	Delete(ctx context.Context, key string) error
}
