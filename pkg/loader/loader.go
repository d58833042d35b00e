// Package loader reads the raw dataset tables of a build from a local
// directory, a web base URL or an S3 bucket and decodes them into records.
package loader

import (
	"context"
	"sync"

	"golang.org/x/sync/singleflight"
)

// DatasetLoader fetches the raw bytes of one dataset table by file name,
// e.g. "passages.json". Implementations cache results until Reset.
type DatasetLoader interface {
	Load(ctx context.Context, name string) ([]byte, error)
	// Reset drops cached tables so the next Load fetches again.
	Reset()
	// Describe names the source for logs, e.g. "dir:/data".
	Describe() string
}

// CacheKey returns the cache key of a table within a source.
func CacheKey(source, name string) string {
	return source + "::" + name
}

// Cache memoises table bytes and collapses concurrent fetches of the same
// key into one.
type Cache struct {
	mu    sync.RWMutex
	items map[string][]byte
	group singleflight.Group
}

func NewCache() *Cache {
	return &Cache{items: make(map[string][]byte)}
}

func (c *Cache) lookup(key string) ([]byte, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	b, ok := c.items[key]
	return b, ok
}

// Get returns the cached value of key or calls fetch once to fill it.
// Failed fetches are not cached.
func (c *Cache) Get(key string, fetch func() ([]byte, error)) ([]byte, error) {
	if cached, ok := c.lookup(key); ok {
		return cached, nil
	}

	result, err, _ := c.group.Do(key, func() (any, error) {
		if cached, ok := c.lookup(key); ok {
			return cached, nil
		}
		b, err := fetch()
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.items[key] = b
		c.mu.Unlock()
		return b, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]byte), nil
}

func (c *Cache) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = make(map[string][]byte)
}
