package translate

import (
	"context"
	"sync"
)

// Cache is the key-value capability translation results are memoized
// through. It is injected rather than ambient so tests can run without a
// real storage backend.
type Cache interface {
	Get(ctx context.Context, locale, source string) (string, bool, error)
	Put(ctx context.Context, locale, source, translated string) error
}

// MemoryCache is a process-local Cache.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]string
}

// NewMemoryCache constructs an empty in-memory cache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{entries: make(map[string]string)}
}

func (c *MemoryCache) Get(_ context.Context, locale, source string) (string, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	value, ok := c.entries[cacheKey(locale, source)]
	return value, ok, nil
}

func (c *MemoryCache) Put(_ context.Context, locale, source, translated string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[cacheKey(locale, source)] = translated
	return nil
}

func cacheKey(locale, source string) string {
	return locale + "\x00" + source
}
