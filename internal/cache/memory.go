package cache

import (
	"context"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2/expirable"
)

func init() {
	Register("memory", newMemoryCache)
}

// memoryCache wraps hashicorp/golang-lru/v2/expirable to implement the Cache interface.
type memoryCache struct {
	inner *lru.LRU[string, []byte]
}

func newMemoryCache(cfg ProviderConfig) (Cache, error) {
	return &memoryCache{
		inner: lru.NewLRU[string, []byte](cfg.Size, nil, cfg.TTL),
	}, nil
}

func (m *memoryCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	val, ok := m.inner.Get(key)
	return val, ok, nil
}

func (m *memoryCache) Set(_ context.Context, key string, value []byte) error {
	m.inner.Add(key, value)
	return nil
}

func (m *memoryCache) DeletePrefix(_ context.Context, prefix string) (int64, error) {
	var removed int64
	for _, key := range m.inner.Keys() {
		if strings.HasPrefix(key, prefix) && m.inner.Remove(key) {
			removed++
		}
	}
	return removed, nil
}

func (m *memoryCache) Close() error {
	return nil
}
