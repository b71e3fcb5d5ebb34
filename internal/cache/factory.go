package cache

import (
	"fmt"
	"sort"
	"sync"
	"time"
)

// ProviderConfig holds the configuration needed to create a cache instance.
type ProviderConfig struct {
	// TTL is the time-to-live for cache entries.
	TTL time.Duration

	// Size is the maximum number of entries for the memory provider.
	Size int

	// DBFile is the SQLite database path.
	DBFile string

	// RedisAddress is the Redis server address (e.g., "localhost:6379").
	RedisAddress string

	// RedisPassword is the password for the Redis server.
	RedisPassword string

	// RedisDB is the Redis database number.
	RedisDB int

	// Group labels the cache in Prometheus metrics. When non-empty the cache
	// is wrapped with hit/miss instrumentation.
	Group string
}

// Provider is a constructor function that creates a Cache from config.
type Provider func(cfg ProviderConfig) (Cache, error)

var (
	mu        sync.RWMutex
	providers = make(map[string]Provider)
)

// Register registers a cache provider under the given name.
// It panics if the name is already registered or the provider is nil.
func Register(name string, p Provider) {
	mu.Lock()
	defer mu.Unlock()

	if p == nil {
		panic("cache: Register provider is nil")
	}
	if _, exists := providers[name]; exists {
		panic(fmt.Sprintf("cache: provider %q already registered", name))
	}
	providers[name] = p
}

// New creates a new Cache using the named provider and the given config.
func New(name string, cfg ProviderConfig) (Cache, error) {
	mu.RLock()
	p, ok := providers[name]
	mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("cache: unknown provider %q (registered: %v)", name, RegisteredProviders())
	}

	if cfg.TTL <= 0 {
		cfg.TTL = DefaultTTL
	}
	if cfg.Size <= 0 {
		cfg.Size = DefaultSize
	}

	inner, err := p(cfg)
	if err != nil {
		return nil, err
	}
	if cfg.Group == "" {
		return inner, nil
	}
	return &instrumentedCache{inner: inner, group: cfg.Group}, nil
}

// RegisteredProviders returns a sorted list of registered provider names.
func RegisteredProviders() []string {
	mu.RLock()
	defer mu.RUnlock()

	names := make([]string, 0, len(providers))
	for name := range providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
