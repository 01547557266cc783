package http

import (
	"context"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"mosaic/internal/colorkey"
	"mosaic/internal/config"
	"mosaic/internal/sprite_renderer"
)

type Handlers struct {
	config   *config.Config
	logger   *zap.Logger
	renderer *sprite_renderer.Renderer
}

func New(config *config.Config, logger *zap.Logger, renderer *sprite_renderer.Renderer) *Handlers {
	return &Handlers{
		config:   config,
		logger:   logger,
		renderer: renderer,
	}
}

// Routes registers every handler on a new mux. extra handlers (such as
// /metrics) are mounted as given.
func (h *Handlers) Routes(extra map[string]http.Handler) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/color/", h.HandleColor)
	mux.HandleFunc("/js/", h.HandleScript)
	mux.HandleFunc("/healthz", h.HandleHealthz)
	mux.HandleFunc("/", h.HandleIndex)
	for pattern, handler := range extra {
		mux.Handle(pattern, handler)
	}

	return h.CORSMiddleware(h.RequestLoggingMiddleware(mux))
}

func (h *Handlers) RequestLoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := uuid.New().String()
		start := time.Now()

		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(wrapped, r)

		duration := time.Since(start)

		h.logger.Debug("request",
			zap.String("request_id", requestID),
			zap.String("ip", h.extractIP(r)),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", wrapped.statusCode),
			zap.Int64("bytes", wrapped.bytesWritten),
			zap.Int64("duration_us", duration.Microseconds()),
		)
	})
}

// CORSMiddleware lets a page served from another origin fetch sprites.
func (h *Handlers) CORSMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowedOrigin := h.config.AllowedOrigin
		if allowedOrigin == "" {
			allowedOrigin = "*"
		}

		w.Header().Set("Access-Control-Allow-Origin", allowedOrigin)
		w.Header().Set("Access-Control-Allow-Methods", "GET, HEAD, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (h *Handlers) HandleHealthz(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

// HandleIndex serves the host page on "/" and answers 404 for every path no
// other route claimed.
func (h *Handlers) HandleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		notFound(w)
		return
	}
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	filePath := filepath.Join(h.config.PublicDir, "mosaic.html")
	data, err := os.ReadFile(filePath)
	if err != nil {
		h.logger.Error("Failed to read host page", zap.String("path", filePath), zap.Error(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(data)
}

// HandleScript serves regular files below {PublicDir}/js.
func (h *Handlers) HandleScript(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	root := filepath.Clean(filepath.Join(h.config.PublicDir, "js"))
	filePath := filepath.Join(h.config.PublicDir, filepath.FromSlash(r.URL.Path))

	if !strings.HasPrefix(filePath, root+string(filepath.Separator)) {
		notFound(w)
		return
	}

	info, err := os.Stat(filePath)
	if err != nil || !info.Mode().IsRegular() {
		notFound(w)
		return
	}

	w.Header().Set("Content-Type", "application/javascript")
	http.ServeFile(w, r, filePath)
}

// HandleColor serves /color/{hex}, rendering the sprite on first request.
func (h *Handlers) HandleColor(w http.ResponseWriter, r *http.Request) {
	key, err := colorkey.Parse(strings.TrimPrefix(r.URL.Path, "/color/"))
	if err != nil {
		notFound(w)
		return
	}

	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.config.RenderTimeout)
	defer cancel()

	result, err := h.renderer.RenderSprite(ctx, key)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, context.DeadlineExceeded) {
			status = http.StatusServiceUnavailable
		}
		h.logger.Error("Failed to render sprite", zap.String("color", key.String()), zap.Error(err))
		http.Error(w, "Failed to render sprite", status)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("ETag", `"`+result.ETag+`"`)
	w.Header().Set("Cache-Control", "public, max-age=31536000")
	w.Header().Set("Content-Length", strconv.Itoa(result.Size))

	// HEAD request doesn't send body
	if r.Method == http.MethodHead {
		w.WriteHeader(http.StatusOK)
		return
	}

	w.Write(result.Data)
}

func notFound(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusNotFound)
	w.Write([]byte("404 Not Found\n"))
}

// Not for real production use due to potential spoofing
func (h *Handlers) extractIP(r *http.Request) string {
	ip := r.Header.Get("X-Real-Ip")
	if ip != "" {
		return strings.Split(ip, ":")[0]
	}

	addr := r.RemoteAddr
	if addr != "" {
		return strings.Split(addr, ":")[0]
	}

	return "unknown"
}

type responseWriter struct {
	http.ResponseWriter
	statusCode   int
	bytesWritten int64
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	n, err := rw.ResponseWriter.Write(b)
	rw.bytesWritten += int64(n)
	return n, err
}
