package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"mosaic/internal/colorkey"
)

type Config struct {
	Host            string
	Port            int
	PublicDir       string
	TileWidth       int
	TileHeight      int
	CacheType       string
	CacheMaxSprites int
	SpriteRenderer  string
	RenderTimeout   time.Duration
	WarmupColors    []colorkey.Key
	WarmupWorkers   int
	VipsMaxCacheMB  int
	VipsConcurrency int
	LogLevel        string
	AllowedOrigin   string
}

func Load() *Config {
	cfg := &Config{
		Host:            getEnv("HOST", "localhost"),
		Port:            getEnvInt("PORT", 8765),
		PublicDir:       getEnv("PUBLIC_DIR", "public"),
		TileWidth:       getEnvInt("TILE_WIDTH", 16),
		TileHeight:      getEnvInt("TILE_HEIGHT", 16),
		CacheType:       getEnv("CACHE", "memory"),
		CacheMaxSprites: getEnvInt("CACHE_MAX_SPRITES", 4096),
		SpriteRenderer:  getEnv("SPRITE_RENDERER", "canvas"),
		RenderTimeout:   getEnvDuration("RENDER_TIMEOUT", 10*time.Second),
		WarmupColors:    getEnvColors("WARMUP_COLORS"),
		WarmupWorkers:   getEnvInt("WARMUP_WORKERS", 1),
		VipsMaxCacheMB:  getEnvInt("VIPS_MAX_CACHE_MB", 64),
		VipsConcurrency: getEnvInt("VIPS_CONCURRENCY", 1),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		AllowedOrigin:   getEnv("ALLOWED_ORIGIN", ""),
	}

	return cfg
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

// getEnvColors parses a comma separated list of color keys, skipping
// malformed entries.
func getEnvColors(key string) []colorkey.Key {
	var keys []colorkey.Key
	for _, part := range strings.Split(os.Getenv(key), ",") {
		k, err := colorkey.Parse(strings.TrimPrefix(strings.TrimSpace(part), "#"))
		if err != nil {
			continue
		}
		keys = append(keys, k)
	}
	return keys
}

func (c *Config) Addr() string {
	return c.Host + ":" + strconv.Itoa(c.Port)
}
