package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-redis/redis/v8"
	"golang.org/x/sync/singleflight"
)

// DefaultRedisTTL bounds staleness for entries written by other processes;
// in-process invalidation still evicts immediately.
const DefaultRedisTTL = 5 * time.Minute

// RedisConfig configures the Redis cache.
type RedisConfig struct {
	// URL is a redis:// connection URL.
	URL string

	// KeyPrefix namespaces this cache's keys, e.g. "gatehouse:permissions:".
	KeyPrefix string

	// TTL for stored entries. Non-positive falls back to DefaultRedisTTL.
	TTL time.Duration

	Password   string
	DB         int
	MaxRetries int
	PoolSize   int
}

// Redis is a Cache backed by a Redis instance, sharing entries across
// processes. Values are stored as JSON. Population stays single-flight
// within the process; the TTL bounds staleness introduced by other writers.
type Redis[V any] struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
	group  singleflight.Group

	mu    sync.Mutex
	epoch uint64
	gens  map[string]uint64

	hits          atomic.Int64
	misses        atomic.Int64
	invalidations atomic.Int64
}

// NewRedis connects to Redis and verifies the connection.
func NewRedis[V any](cfg RedisConfig) (*Redis[V], error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis URL: %w", err)
	}

	if cfg.Password != "" {
		opts.Password = cfg.Password
	}
	if cfg.DB > 0 {
		opts.DB = cfg.DB
	}
	if cfg.MaxRetries > 0 {
		opts.MaxRetries = cfg.MaxRetries
	}
	if cfg.PoolSize > 0 {
		opts.PoolSize = cfg.PoolSize
	}

	opts.DialTimeout = 5 * time.Second
	opts.ReadTimeout = 3 * time.Second
	opts.WriteTimeout = 3 * time.Second

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = DefaultRedisTTL
	}

	return &Redis[V]{
		client: client,
		prefix: cfg.KeyPrefix,
		ttl:    ttl,
		gens:   make(map[string]uint64),
	}, nil
}

func (r *Redis[V]) redisKey(key string) string {
	return r.prefix + key
}

func (r *Redis[V]) GetOrLoad(ctx context.Context, key string, load Loader[V]) (V, error) {
	var zero V
	if load == nil {
		return zero, ErrNilLoader
	}

	data, err := r.client.Get(ctx, r.redisKey(key)).Result()
	if err == nil {
		var v V
		if err := json.Unmarshal([]byte(data), &v); err != nil {
			// Corrupt entry; drop it and repopulate.
			r.client.Del(ctx, r.redisKey(key))
		} else {
			r.hits.Add(1)
			return v, nil
		}
	} else if err != redis.Nil {
		return zero, fmt.Errorf("redis get failed: %w", err)
	}
	r.misses.Add(1)

	ch := r.group.DoChan(key, func() (interface{}, error) {
		r.mu.Lock()
		epoch, gen := r.epoch, r.gens[key]
		r.mu.Unlock()

		v, err := load(ctx)
		if err != nil {
			return nil, err
		}

		payload, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal cache value: %w", err)
		}

		r.mu.Lock()
		stale := r.epoch != epoch || r.gens[key] != gen
		r.mu.Unlock()
		if !stale {
			if err := r.client.Set(ctx, r.redisKey(key), payload, r.ttl).Err(); err != nil {
				return nil, fmt.Errorf("redis set failed: %w", err)
			}
		}
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

func (r *Redis[V]) Invalidate(ctx context.Context, key string) error {
	r.mu.Lock()
	r.gens[key]++
	r.mu.Unlock()
	r.group.Forget(key)

	if err := r.client.Del(ctx, r.redisKey(key)).Err(); err != nil {
		return fmt.Errorf("redis del failed: %w", err)
	}
	r.invalidations.Add(1)
	return nil
}

func (r *Redis[V]) InvalidateAll(ctx context.Context) error {
	r.mu.Lock()
	r.epoch++
	r.mu.Unlock()

	iter := r.client.Scan(ctx, 0, r.prefix+"*", 0).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("redis scan failed: %w", err)
	}
	if len(keys) > 0 {
		if err := r.client.Del(ctx, keys...).Err(); err != nil {
			return fmt.Errorf("redis del failed: %w", err)
		}
	}
	r.invalidations.Add(1)
	return nil
}

func (r *Redis[V]) Stats() Stats {
	hits, misses := r.hits.Load(), r.misses.Load()
	return Stats{
		Hits:          hits,
		Misses:        misses,
		Invalidations: r.invalidations.Load(),
		HitRate:       hitRate(hits, misses),
	}
}

func (r *Redis[V]) Close() error {
	return r.client.Close()
}
