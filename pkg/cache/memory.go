package cache

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	lru "github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/sync/singleflight"
)

const (
	// DefaultMemorySize is the default maximum entry count.
	DefaultMemorySize = 1024

	// DefaultMemoryTTL bounds staleness for entries no invalidation ever
	// reaches.
	DefaultMemoryTTL = 30 * time.Minute
)

// Memory is an in-process Cache backed by an expirable LRU. Population is
// single-flight per key, and a generation counter per key discards loader
// results that raced with an invalidation.
type Memory[V any] struct {
	cache *lru.LRU[string, V]
	group singleflight.Group

	// mu guards epoch and gens. A loader snapshots both before loading and
	// stores its result only when neither moved, so a value computed before
	// an Invalidate never lands after it.
	mu    sync.Mutex
	epoch uint64
	gens  map[string]uint64

	hits          atomic.Int64
	misses        atomic.Int64
	invalidations atomic.Int64
}

// NewMemory creates a memory cache holding at most size entries, each
// expiring after ttl. Non-positive arguments fall back to the defaults.
func NewMemory[V any](size int, ttl time.Duration) *Memory[V] {
	if size <= 0 {
		size = DefaultMemorySize
	}
	if ttl <= 0 {
		ttl = DefaultMemoryTTL
	}
	return &Memory[V]{
		cache: lru.NewLRU[string, V](size, nil, ttl),
		gens:  make(map[string]uint64),
	}
}

func (m *Memory[V]) GetOrLoad(ctx context.Context, key string, load Loader[V]) (V, error) {
	var zero V
	if load == nil {
		return zero, ErrNilLoader
	}

	if v, ok := m.cache.Get(key); ok {
		m.hits.Add(1)
		return v, nil
	}
	m.misses.Add(1)

	ch := m.group.DoChan(key, func() (interface{}, error) {
		m.mu.Lock()
		epoch, gen := m.epoch, m.gens[key]
		m.mu.Unlock()

		v, err := load(ctx)
		if err != nil {
			return nil, err
		}

		m.mu.Lock()
		if m.epoch == epoch && m.gens[key] == gen {
			m.cache.Add(key, v)
		}
		m.mu.Unlock()
		return v, nil
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return zero, res.Err
		}
		return res.Val.(V), nil
	case <-ctx.Done():
		return zero, ctx.Err()
	}
}

func (m *Memory[V]) Invalidate(_ context.Context, key string) error {
	m.mu.Lock()
	m.gens[key]++
	m.mu.Unlock()

	m.cache.Remove(key)
	m.group.Forget(key)
	m.invalidations.Add(1)
	return nil
}

func (m *Memory[V]) InvalidateAll(_ context.Context) error {
	m.mu.Lock()
	m.epoch++
	m.mu.Unlock()

	m.cache.Purge()
	m.invalidations.Add(1)
	return nil
}

func (m *Memory[V]) Stats() Stats {
	hits, misses := m.hits.Load(), m.misses.Load()
	return Stats{
		Hits:          hits,
		Misses:        misses,
		Invalidations: m.invalidations.Load(),
		HitRate:       hitRate(hits, misses),
		ItemCount:     int64(m.cache.Len()),
	}
}

func (m *Memory[V]) Close() error {
	m.cache.Purge()
	return nil
}
