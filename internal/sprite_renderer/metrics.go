package sprite_renderer

import (
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics counts sprite cache traffic and render work.
type Metrics struct {
	renders        prometheus.Counter
	renderErrors   prometheus.Counter
	cacheHits      prometheus.Counter
	cacheMisses    prometheus.Counter
	renderDuration prometheus.Histogram
}

// NewMetrics registers the sprite metrics with reg. A nil reg uses the
// default registerer.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	m := &Metrics{
		renders: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "mosaic",
			Name:      "sprite_renders_total",
			Help:      "Sprites rasterized and encoded.",
		}),
		renderErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "mosaic",
			Name:      "sprite_render_errors_total",
			Help:      "Sprite renders that failed.",
		}),
		cacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "mosaic",
			Name:      "sprite_cache_hits_total",
			Help:      "Sprite requests answered from the cache.",
		}),
		cacheMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "mosaic",
			Name:      "sprite_cache_misses_total",
			Help:      "Sprite requests that did not find a cached sprite.",
		}),
		renderDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "mosaic",
			Name:      "sprite_render_duration_seconds",
			Help:      "Time spent rasterizing and encoding one sprite.",
			Buckets:   prometheus.DefBuckets,
		}),
	}

	var err error
	if m.renders, err = register(reg, m.renders); err != nil {
		return nil, err
	}
	if m.renderErrors, err = register(reg, m.renderErrors); err != nil {
		return nil, err
	}
	if m.cacheHits, err = register(reg, m.cacheHits); err != nil {
		return nil, err
	}
	if m.cacheMisses, err = register(reg, m.cacheMisses); err != nil {
		return nil, err
	}
	if m.renderDuration, err = register(reg, m.renderDuration); err != nil {
		return nil, err
	}

	return m, nil
}

// register adds c to reg, reusing the collector already registered under the
// same descriptor when there is one.
func register[T prometheus.Collector](reg prometheus.Registerer, c T) (T, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(T); ok {
				return existing, nil
			}
		}
		return c, fmt.Errorf("register sprite metrics: %w", err)
	}
	return c, nil
}
