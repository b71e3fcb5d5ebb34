// Package cache stores upstream results behind a pluggable provider
// (sqlite, redis or memory).
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"
)

const (
	// DefaultTTL is how long master lists stay fresh.
	DefaultTTL = 24 * time.Hour
	// DefaultSize caps the entry count of the memory provider.
	DefaultSize = 256
)

// Cache is a byte-oriented key/value store with a provider-wide TTL.
type Cache interface {
	// Get returns the value and true on a hit. Expired entries are misses.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores value under key, replacing any existing entry.
	Set(ctx context.Context, key string, value []byte) error
	// DeletePrefix removes every entry whose key starts with prefix and
	// reports how many were removed. An empty prefix clears the cache.
	DeletePrefix(ctx context.Context, prefix string) (int64, error)
	// Close releases the provider's resources.
	Close() error
}

// ExpiryPruner is implemented by providers that keep expired entries on disk
// until they are pruned.
type ExpiryPruner interface {
	ClearExpired(ctx context.Context) (int64, error)
}

// ClearExpired prunes expired entries from c. Providers that expire entries
// on their own report zero.
func ClearExpired(ctx context.Context, c Cache) (int64, error) {
	if p, ok := c.(ExpiryPruner); ok {
		return p.ClearExpired(ctx)
	}
	return 0, nil
}

// FetchFunc represents a function that fetches data from an external source
type FetchFunc[T any] func(ctx context.Context) (T, error)

// GetOrFetch retrieves data from cache or fetches it using the provided function.
// It reports whether the value came from the cache.
func GetOrFetch[T any](ctx context.Context, c Cache, key string, fetch FetchFunc[T]) (T, bool, error) {
	return GetOrFetchWithPolicy(ctx, c, key, fetch, nil)
}

// GetOrFetchWithPolicy is GetOrFetch with control over whether a fetched value
// should be cached. If shouldCache is nil, all fetched values are cached.
func GetOrFetchWithPolicy[T any](ctx context.Context, c Cache, key string, fetch FetchFunc[T], shouldCache func(T) bool) (T, bool, error) {
	var zero T

	if c == nil {
		data, err := fetch(ctx)
		return data, false, err
	}

	cached, ok, err := c.Get(ctx, key)
	switch {
	case err != nil:
		slog.Warn("Cache lookup failed, fetching directly", "key", key, "error", err)
	case ok:
		var result T
		if err := json.Unmarshal(cached, &result); err == nil {
			slog.Debug("Cache hit", "key", key)
			return result, true, nil
		}
		slog.Warn("Failed to unmarshal cached data, will refetch", "key", key, "error", err)
	}

	slog.Debug("Cache miss, fetching data", "key", key)
	data, err := fetch(ctx)
	if err != nil {
		return zero, false, fmt.Errorf("failed to fetch data: %w", err)
	}

	store(ctx, c, key, data, shouldCache)
	return data, false, nil
}

// Refresh fetches unconditionally and replaces the cached value, subject to
// shouldCache. The previous entry is kept when the fetch fails.
func Refresh[T any](ctx context.Context, c Cache, key string, fetch FetchFunc[T], shouldCache func(T) bool) (T, error) {
	var zero T

	data, err := fetch(ctx)
	if err != nil {
		return zero, fmt.Errorf("failed to fetch data: %w", err)
	}
	if c != nil {
		store(ctx, c, key, data, shouldCache)
	}
	return data, nil
}

// store writes data under key. Failures are logged, never returned.
func store[T any](ctx context.Context, c Cache, key string, data T, shouldCache func(T) bool) {
	if shouldCache != nil && !shouldCache(data) {
		slog.Debug("Skipping cache store per policy", "key", key)
		return
	}

	jsonData, err := json.Marshal(data)
	if err != nil {
		slog.Warn("Failed to marshal data for caching", "key", key, "error", err)
		return
	}
	// caching failure shouldn't fail the request
	if err := c.Set(ctx, key, jsonData); err != nil {
		slog.Warn("Failed to cache data", "key", key, "error", err)
	} else {
		slog.Debug("Data cached successfully", "key", key)
	}
}
