package cachemanager

import (
	"context"
	"time"
)

// Loader fetches the value for a cache miss.
type Loader[V any, I any] func(ctx context.Context, input I) (V, error)

// ReadThroughCache serves values from a CacheManager and falls back to a
// Loader on miss. Loader errors are returned and never cached.
type ReadThroughCache[K ~string, V any, I any] struct {
	cache  CacheManager[K, V]
	load   Loader[V, I]
	bypass bool
}

// NewReadThroughCache wraps cache. With bypass set every call goes to load.
func NewReadThroughCache[K ~string, V any, I any](cache CacheManager[K, V], load Loader[V, I], bypass bool) *ReadThroughCache[K, V, I] {
	return &ReadThroughCache[K, V, I]{cache: cache, load: load, bypass: bypass}
}

// Get returns the cached value or loads and caches it for ttl.
func (r *ReadThroughCache[K, V, I]) Get(ctx context.Context, key K, input I, ttl time.Duration) (V, error) {
	return r.get(ctx, key, input, ttl, false)
}

// GetWithRefresh is Get, but a hit also restarts the entry's TTL.
func (r *ReadThroughCache[K, V, I]) GetWithRefresh(ctx context.Context, key K, input I, ttl time.Duration) (V, error) {
	return r.get(ctx, key, input, ttl, true)
}

// Invalidate drops key so the next Get reloads it.
func (r *ReadThroughCache[K, V, I]) Invalidate(ctx context.Context, key K) error {
	return r.cache.Delete(ctx, key)
}

func (r *ReadThroughCache[K, V, I]) get(ctx context.Context, key K, input I, ttl time.Duration, refresh bool) (V, error) {
	if r.bypass {
		return r.load(ctx, input)
	}

	var (
		v  V
		ok bool
	)
	if refresh {
		v, ok = r.cache.GetWithRefresh(ctx, key, ttl)
	} else {
		v, ok = r.cache.Get(ctx, key)
	}
	if ok {
		return v, nil
	}

	v, err := r.load(ctx, input)
	if err != nil {
		return v, err
	}
	r.cache.Set(ctx, key, v, ttl)
	return v, nil
}
