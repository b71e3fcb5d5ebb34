package cache

import (
	"context"

	"github.com/lepinkainen/bestlastyear/internal/metrics"
)

// instrumentedCache records hits and misses under the group label.
type instrumentedCache struct {
	inner Cache
	group string
}

func (c *instrumentedCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	val, ok, err := c.inner.Get(ctx, key)
	if ok {
		metrics.CacheHitsTotal.WithLabelValues(c.group).Inc()
	} else {
		metrics.CacheMissesTotal.WithLabelValues(c.group).Inc()
	}
	return val, ok, err
}

func (c *instrumentedCache) Set(ctx context.Context, key string, value []byte) error {
	return c.inner.Set(ctx, key, value)
}

func (c *instrumentedCache) DeletePrefix(ctx context.Context, prefix string) (int64, error) {
	return c.inner.DeletePrefix(ctx, prefix)
}

func (c *instrumentedCache) ClearExpired(ctx context.Context) (int64, error) {
	return ClearExpired(ctx, c.inner)
}

func (c *instrumentedCache) Close() error {
	return c.inner.Close()
}
