package mosaic

import (
	"fmt"
	"time"
)

const (
	DefaultTileWidth     = 16
	DefaultTileHeight    = 16
	DefaultAPIBaseURL    = "http://localhost:8765"
	DefaultFetchTimeout  = 10 * time.Second
	DefaultWorkerTimeout = 10 * time.Second
)

// BaselineMimeTypes is the allow-list every custom accepted type must come from.
var BaselineMimeTypes = []string{"image/jpeg", "image/png", "image/gif", "image/bmp"}

// Options is the user-supplied setup. Zero values fall back to defaults.
type Options struct {
	TileWidth         int
	TileHeight        int
	APIBaseURL        string
	AcceptedMimeTypes []string
	FetchTimeout      time.Duration
	WorkerTimeout     time.Duration
	SampleStride      int
}

// Config is the validated, immutable mosaic configuration.
type Config struct {
	TileWidth     int
	TileHeight    int
	APIBaseURL    string
	FetchTimeout  time.Duration
	WorkerTimeout time.Duration
	SampleStride  int

	accepted []string
}

// NewConfig validates opts as a whole. On any error no Config is returned.
func NewConfig(opts Options) (*Config, error) {
	cfg := &Config{
		TileWidth:     orDefault(opts.TileWidth, DefaultTileWidth),
		TileHeight:    orDefault(opts.TileHeight, DefaultTileHeight),
		APIBaseURL:    opts.APIBaseURL,
		FetchTimeout:  opts.FetchTimeout,
		WorkerTimeout: opts.WorkerTimeout,
		SampleStride:  orDefault(opts.SampleStride, DefaultSampleStride),
		accepted:      BaselineMimeTypes,
	}
	if cfg.APIBaseURL == "" {
		cfg.APIBaseURL = DefaultAPIBaseURL
	}
	if cfg.FetchTimeout <= 0 {
		cfg.FetchTimeout = DefaultFetchTimeout
	}
	if cfg.WorkerTimeout <= 0 {
		cfg.WorkerTimeout = DefaultWorkerTimeout
	}

	if cfg.TileWidth < 0 || cfg.TileHeight < 0 {
		return nil, fmt.Errorf("%w: tile size %dx%d", ErrConfiguration, opts.TileWidth, opts.TileHeight)
	}
	if cfg.SampleStride < 0 {
		return nil, fmt.Errorf("%w: sample stride %d", ErrConfiguration, opts.SampleStride)
	}

	if len(opts.AcceptedMimeTypes) > 0 {
		for _, t := range opts.AcceptedMimeTypes {
			if !contains(BaselineMimeTypes, t) {
				return nil, fmt.Errorf("%w: mime type %q not supported", ErrConfiguration, t)
			}
		}
		cfg.accepted = append([]string(nil), opts.AcceptedMimeTypes...)
	}

	return cfg, nil
}

// Accepts reports whether files of the given MIME type may be rendered.
func (c *Config) Accepts(mimeType string) bool {
	return contains(c.accepted, mimeType)
}

// AcceptedMimeTypes returns a copy of the accepted set.
func (c *Config) AcceptedMimeTypes() []string {
	return append([]string(nil), c.accepted...)
}

func orDefault(v, def int) int {
	if v == 0 {
		return def
	}
	return v
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
