package sprite_renderer

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"mosaic/internal/cache"
	"mosaic/internal/colorkey"
)

// Renderer is the process-wide sprite cache service. Each color key is
// painted at most once while it stays in the cache: concurrent misses for
// the same key attach to the in-flight render instead of starting another.
type Renderer struct {
	tileWidth   int
	tileHeight  int
	painter     Painter
	spriteCache cache.Cache
	metrics     *Metrics
	logger      *zap.Logger

	// in-flight renders keyed by color
	flights singleflight.Group
}

type SpriteResult struct {
	Data []byte
	ETag string
	Size int
}

func New(tileWidth, tileHeight int, painter Painter, spriteCache cache.Cache, metrics *Metrics, logger *zap.Logger) *Renderer {
	return &Renderer{
		tileWidth:   tileWidth,
		tileHeight:  tileHeight,
		painter:     painter,
		spriteCache: spriteCache,
		metrics:     metrics,
		logger:      logger,
	}
}

// RenderSprite returns the encoded sprite for key, painting and caching it on
// the first request. If ctx ends while a render is in flight the caller gives
// up waiting but the render still completes and is cached.
func (r *Renderer) RenderSprite(ctx context.Context, key colorkey.Key) (*SpriteResult, error) {
	if cached, ok := r.spriteCache.Get(key); ok {
		r.metrics.cacheHits.Inc()
		return r.result(key, cached), nil
	}
	r.metrics.cacheMisses.Inc()

	ch := r.flights.DoChan(string(key), func() (interface{}, error) {
		// A flight for this key may have finished between our miss and
		// joining the group.
		if cached, ok := r.spriteCache.Get(key); ok {
			return cached, nil
		}
		return r.paint(key)
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return r.result(key, res.Val.([]byte)), nil
	case <-ctx.Done():
		return nil, fmt.Errorf("waiting for sprite %s: %w", key, ctx.Err())
	}
}

func (r *Renderer) paint(key colorkey.Key) ([]byte, error) {
	start := time.Now()
	r.metrics.renders.Inc()

	data, err := r.painter.Paint(key, r.tileWidth, r.tileHeight)
	if err != nil {
		r.metrics.renderErrors.Inc()
		return nil, fmt.Errorf("failed to render sprite %s: %w", key, err)
	}

	r.spriteCache.Set(key, data)

	duration := time.Since(start)
	r.metrics.renderDuration.Observe(duration.Seconds())
	r.logger.Debug("Rendered sprite",
		zap.String("color", key.String()),
		zap.Int("bytes", len(data)),
		zap.Int64("duration_us", duration.Microseconds()),
	)
	return data, nil
}

// Cached reports whether key is already in the cache.
func (r *Renderer) Cached(key colorkey.Key) bool {
	return r.spriteCache.Has(key)
}

func (r *Renderer) result(key colorkey.Key, data []byte) *SpriteResult {
	return &SpriteResult{
		Data: data,
		ETag: r.generateETag(key),
		Size: len(data),
	}
}

func (r *Renderer) generateETag(key colorkey.Key) string {
	keyStr := fmt.Sprintf("%s_%dx%d.png", key, r.tileWidth, r.tileHeight)
	hash := sha256.Sum256([]byte(keyStr))
	return hex.EncodeToString(hash[:])[:16]
}
