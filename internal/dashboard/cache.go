package dashboard

import (
	"context"
	"sync"

	"golang.org/x/sync/singleflight"
)

// Cache maps endpoint keys to the last fetched result. Entries live until
// explicitly invalidated or overwritten; there is no TTL. Concurrent
// misses for the same key are coalesced into one underlying fetch.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]interface{}
	group   singleflight.Group
}

func NewCache() *Cache {
	return &Cache{entries: make(map[string]interface{})}
}

// Get returns the cached value for key, fetching and storing it on a miss.
func (c *Cache) Get(ctx context.Context, key string, fetch func(ctx context.Context) (interface{}, error)) (interface{}, error) {
	c.mu.RLock()
	v, ok := c.entries[key]
	c.mu.RUnlock()
	if ok {
		return v, nil
	}

	v, err, _ := c.group.Do(key, func() (interface{}, error) {
		// Re-check under the flight: a refresh may have landed meanwhile.
		c.mu.RLock()
		cached, ok := c.entries[key]
		c.mu.RUnlock()
		if ok {
			return cached, nil
		}

		fetched, err := fetch(ctx)
		if err != nil {
			return nil, err
		}
		c.Put(key, fetched)
		return fetched, nil
	})
	if err != nil {
		return nil, err
	}
	return v, nil
}

// Put stores a value unconditionally. Used by the refresh loop, which
// bypasses the cache on read and overwrites on completion.
func (c *Cache) Put(key string, v interface{}) {
	c.mu.Lock()
	c.entries[key] = v
	c.mu.Unlock()
}

func (c *Cache) Invalidate(keys ...string) {
	c.mu.Lock()
	for _, key := range keys {
		delete(c.entries, key)
	}
	c.mu.Unlock()
}
