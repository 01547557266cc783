package sprite_renderer

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"mosaic/internal/colorkey"
)

// Warmup renders keys ahead of the first client request using at most
// workerLimit concurrent renders.
func (r *Renderer) Warmup(ctx context.Context, keys []colorkey.Key, workerLimit int) {
	if len(keys) == 0 {
		return
	}

	r.logger.Info("Starting sprite warmup", zap.Int("colors", len(keys)))

	if workerLimit <= 0 {
		workerLimit = 1
	}

	workerChan := make(chan struct{}, workerLimit)
	var wg sync.WaitGroup

	for _, key := range keys {
		if ctx.Err() != nil {
			break
		}

		wg.Add(1)
		workerChan <- struct{}{} // Acquire worker slot

		go func(key colorkey.Key) {
			defer wg.Done()
			defer func() { <-workerChan }() // Release worker slot

			if _, err := r.RenderSprite(ctx, key); err != nil {
				r.logger.Debug("Warmup sprite failed", zap.String("color", key.String()), zap.Error(err))
			}
		}(key)
	}

	wg.Wait()
	r.logger.Info("Sprite warmup completed", zap.Int("cached", r.spriteCache.Len()))
}
