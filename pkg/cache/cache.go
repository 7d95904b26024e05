package cache

import (
	"context"
	"errors"
)

// ErrNilLoader is returned when GetOrLoad is called without a loader.
var ErrNilLoader = errors.New("cache: nil loader")

// Loader computes the value for a key on a cache miss. Loader errors are
// returned to every waiting caller and are never stored.
type Loader[V any] func(ctx context.Context) (V, error)

// Cache is a keyed get-or-populate cache with single-flight semantics:
// concurrent misses for the same key collapse into one loader execution
// whose result every caller shares.
//
// Invalidate guarantees that once it returns, subsequent reads observe
// post-invalidation state; a loader that started before the invalidation
// must not store its result afterwards.
type Cache[V any] interface {
	// GetOrLoad returns the cached value for key, running load once on a
	// miss.
	GetOrLoad(ctx context.Context, key string, load Loader[V]) (V, error)

	// Invalidate evicts the value for key.
	Invalidate(ctx context.Context, key string) error

	// InvalidateAll evicts every cached value.
	InvalidateAll(ctx context.Context) error

	// Stats returns hit/miss counters.
	Stats() Stats

	// Close releases resources held by the cache.
	Close() error
}

// Stats holds cache counters.
type Stats struct {
	Hits          int64
	Misses        int64
	Invalidations int64
	HitRate       float64
	ItemCount     int64
}

func hitRate(hits, misses int64) float64 {
	total := hits + misses
	if total == 0 {
		return 0
	}
	return float64(hits) / float64(total)
}
