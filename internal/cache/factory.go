package cache

import (
	"fmt"

	"go.uber.org/zap"
)

// NewCache creates a cache instance based on the cache type
func NewCache(cacheType string, maxSprites int, log *zap.Logger) (Cache, error) {
	switch cacheType {
	case "memory":
		log.Info("Using unbounded memory cache")
		return NewMemoryCache(), nil
	case "lru":
		log.Info("Using lru cache", zap.Int("max_sprites", maxSprites))
		return NewLRUCache(maxSprites)
	default:
		return nil, fmt.Errorf("unknown cache type: %s (supported: memory, lru)", cacheType)
	}
}
