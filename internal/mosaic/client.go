package mosaic

import (
	"context"
	"image"
	"net/http"
	"sync/atomic"

	"go.uber.org/zap"
)

// Client ties a validated configuration to the rendering pipeline. A Client
// only exists once setup succeeded; there is nothing to attach input to
// after a configuration error.
type Client struct {
	config     *Config
	compositor *Compositor
	indicator  Indicator
	logger     *zap.Logger

	running atomic.Bool
}

// NewClient validates opts and wires a compositor that reduces colors in a
// per-row worker and fetches sprites from opts.APIBaseURL over httpClient.
func NewClient(opts Options, httpClient *http.Client, indicator Indicator, logger *zap.Logger) (*Client, error) {
	cfg, err := NewConfig(opts)
	if err != nil {
		return nil, err
	}

	batcher := NewWorkerBatcher(cfg.SampleStride, cfg.WorkerTimeout)
	fetcher := NewHTTPSpriteFetcher(cfg.APIBaseURL, httpClient, cfg.FetchTimeout)
	return NewClientWith(cfg, batcher, fetcher, indicator, logger), nil
}

// NewClientWith builds a client around an already validated config.
func NewClientWith(cfg *Config, batcher ColorBatcher, fetcher SpriteFetcher, indicator Indicator, logger *zap.Logger) *Client {
	indicator.SetLoading(false)

	logger.Debug("Mosaic client ready",
		zap.Int("tile_width", cfg.TileWidth),
		zap.Int("tile_height", cfg.TileHeight),
		zap.String("api", cfg.APIBaseURL),
		zap.Strings("accepted", cfg.AcceptedMimeTypes()),
	)

	return &Client{
		config:     cfg,
		compositor: NewCompositor(cfg, batcher, fetcher, indicator, logger),
		indicator:  indicator,
		logger:     logger,
	}
}

func (c *Client) Config() *Config {
	return c.config
}

func (c *Client) Compositor() *Compositor {
	return c.compositor
}

// HandleFile renders the mosaic for an image file's content. The returned
// image holds every row drawn before a failure, so it is non-nil whenever
// the input decoded. While another file is being rendered HandleFile returns
// ErrRunInProgress and leaves the indicator to the active run.
func (c *Client) HandleFile(ctx context.Context, data []byte) (image.Image, error) {
	if !c.running.CompareAndSwap(false, true) {
		return nil, ErrRunInProgress
	}
	defer c.running.Store(false)

	c.indicator.SetLoading(true)

	img, err := DecodeSource(data, c.config)
	if err != nil {
		c.indicator.SetLoading(false)
		c.logger.Warn("Rejected input", zap.Error(err))
		return nil, err
	}

	b := img.Bounds()
	surface := NewCanvasSurface(b.Dx(), b.Dy())
	defer surface.Close()

	err = c.compositor.Run(ctx, img, surface)
	return surface.Image(), err
}
