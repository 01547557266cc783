package cache

import (
	"sync"

	"mosaic/internal/colorkey"
)

// MemoryCache keeps every sprite for the lifetime of the process.
type MemoryCache struct {
	mu    sync.RWMutex
	items map[colorkey.Key][]byte
}

// NewMemoryCache creates an unbounded in-memory cache
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		items: make(map[colorkey.Key][]byte),
	}
}

func (c *MemoryCache) Has(key colorkey.Key) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	_, ok := c.items[key]
	return ok
}

func (c *MemoryCache) Get(key colorkey.Key) ([]byte, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	value, ok := c.items[key]
	return value, ok
}

func (c *MemoryCache) Set(key colorkey.Key, value []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items[key] = value
}

func (c *MemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.items)
}

func (c *MemoryCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items = make(map[colorkey.Key][]byte)
}
