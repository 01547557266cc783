package main

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/cshum/vipsgen/vips"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"mosaic/internal/cache"
	"mosaic/internal/config"
	httphandlers "mosaic/internal/http"
	"mosaic/internal/logger"
	"mosaic/internal/sprite_renderer"
)

func main() {
	cfg := config.Load()

	log, err := logger.New(cfg.LogLevel, "json")
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
	defer log.Sync()

	if cfg.SpriteRenderer == "vips" {
		startVips(cfg, log)
		defer vips.Shutdown()
	}

	painter, err := sprite_renderer.NewPainter(cfg.SpriteRenderer)
	if err != nil {
		log.Fatal("Failed to initialize sprite renderer", zap.Error(err))
	}

	spriteCache, err := cache.NewCache(cfg.CacheType, cfg.CacheMaxSprites, log)
	if err != nil {
		log.Fatal("Failed to initialize cache", zap.Error(err))
	}

	registry := prometheus.NewRegistry()
	metrics, err := sprite_renderer.NewMetrics(registry)
	if err != nil {
		log.Fatal("Failed to register metrics", zap.Error(err))
	}

	renderer := sprite_renderer.New(cfg.TileWidth, cfg.TileHeight, painter, spriteCache, metrics, log)

	handlers := httphandlers.New(cfg, log, renderer)
	handler := handlers.Routes(map[string]http.Handler{
		"/metrics": promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if len(cfg.WarmupColors) > 0 {
		go renderer.Warmup(ctx, cfg.WarmupColors, cfg.WarmupWorkers)
	}

	server := &http.Server{
		Addr:    cfg.Addr(),
		Handler: handler,
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed", zap.Error(err))
		}
	}()

	log.Info("mosaic server running",
		zap.String("addr", cfg.Addr()),
		zap.Int("tile_width", cfg.TileWidth),
		zap.Int("tile_height", cfg.TileHeight),
		zap.String("renderer", cfg.SpriteRenderer),
	)

	<-ctx.Done()

	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server stopped", zap.Int("cached_sprites", spriteCache.Len()))
}

func startVips(cfg *config.Config, log *zap.Logger) {
	vipsConfig := &vips.Config{
		ConcurrencyLevel: cfg.VipsConcurrency,
		MaxCacheMem:      cfg.VipsMaxCacheMB * 1024 * 1024, // Convert MB to bytes
		MaxCacheFiles:    0,                                // Disable disk cache
		MaxCacheSize:     0,                                // Disable disk cache
		ReportLeaks:      false,
		CacheTrace:       false,
		VectorEnabled:    true,
	}

	// Map vips log levels to zap levels
	vips.SetLogging(func(domain string, level vips.LogLevel, message string) {
		if level >= vips.LogLevelError {
			log.Error("vips", zap.String("domain", domain), zap.Int("level", int(level)), zap.String("message", message))
		} else if level >= vips.LogLevelWarning {
			log.Warn("vips", zap.String("domain", domain), zap.Int("level", int(level)), zap.String("message", message))
		}
	}, vips.LogLevelError)

	vips.Startup(vipsConfig)

	log.Info("VIPS initialized",
		zap.Int("max_cache_mb", cfg.VipsMaxCacheMB),
		zap.Int("concurrency", cfg.VipsConcurrency),
	)
}
