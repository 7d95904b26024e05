// Package cache provides the keyed get-or-populate caches backing
// permission snapshots.
//
// # Overview
//
// Cache is a generic contract: GetOrLoad runs the loader at most once per
// key under concurrent misses (single-flight), Invalidate evicts a key and
// guarantees that a loader which started before the invalidation cannot
// store its stale result afterwards. Two implementations exist:
//
//   - Memory: an expirable LRU for single-process deployments.
//   - Redis: JSON values in Redis for multi-process deployments, with the
//     entry TTL bounding staleness from writers in other processes.
//
// # Design Decisions
//
// The populate-vs-invalidate race is guarded by a per-key generation
// counter plus a cache-wide epoch: a loader snapshots both before loading
// and stores its result only if neither moved. Loader errors are returned
// to every waiting caller and never cached, so a missing entity is retried
// on the next lookup rather than negatively cached.
package cache
