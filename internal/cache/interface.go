package cache

import "mosaic/internal/colorkey"

// Cache stores encoded sprites by color key.
type Cache interface {
	Get(key colorkey.Key) ([]byte, bool)
	Set(key colorkey.Key, value []byte)
	Has(key colorkey.Key) bool // Check presence without touching recency
	Len() int
	Clear()
}
