package cache

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"

	"mosaic/internal/colorkey"
)

// LRUCache bounds the number of sprites kept in memory, evicting the least
// recently served color first.
type LRUCache struct {
	items *lru.Cache[colorkey.Key, []byte]
}

// NewLRUCache creates a cache holding at most maxSprites entries
func NewLRUCache(maxSprites int) (*LRUCache, error) {
	items, err := lru.New[colorkey.Key, []byte](maxSprites)
	if err != nil {
		return nil, fmt.Errorf("failed to create lru cache: %w", err)
	}
	return &LRUCache{items: items}, nil
}

func (c *LRUCache) Has(key colorkey.Key) bool {
	return c.items.Contains(key)
}

func (c *LRUCache) Get(key colorkey.Key) ([]byte, bool) {
	return c.items.Get(key)
}

func (c *LRUCache) Set(key colorkey.Key, value []byte) {
	c.items.Add(key, value)
}

func (c *LRUCache) Len() int {
	return c.items.Len()
}

func (c *LRUCache) Clear() {
	c.items.Purge()
}
