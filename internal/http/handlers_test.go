package http

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"mosaic/internal/cache"
	"mosaic/internal/colorkey"
	"mosaic/internal/config"
	"mosaic/internal/sprite_renderer"
)

type countingPainter struct {
	calls atomic.Int32
	delay time.Duration
}

func (p *countingPainter) Paint(key colorkey.Key, width, height int) ([]byte, error) {
	p.calls.Add(1)
	time.Sleep(p.delay)
	return sprite_renderer.CanvasPainter{}.Paint(key, width, height)
}

func newTestServer(t *testing.T, painter sprite_renderer.Painter) *httptest.Server {
	t.Helper()

	publicDir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(publicDir, "js"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(publicDir, "mosaic.html"), []byte("<html>mosaic</html>"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(publicDir, "js", "mosaic.js"), []byte("// client"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(publicDir, "secret.txt"), []byte("nope"), 0644))

	cfg := &config.Config{
		PublicDir:     publicDir,
		TileWidth:     16,
		TileHeight:    16,
		RenderTimeout: 5 * time.Second,
	}

	metrics, err := sprite_renderer.NewMetrics(prometheus.NewRegistry())
	require.NoError(t, err)
	renderer := sprite_renderer.New(cfg.TileWidth, cfg.TileHeight, painter, cache.NewMemoryCache(), metrics, zap.NewNop())

	server := httptest.NewServer(New(cfg, zap.NewNop(), renderer).Routes(nil))
	t.Cleanup(server.Close)
	return server
}

func get(t *testing.T, url string) (*http.Response, []byte) {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, body
}

func TestColorIsRenderedOnce(t *testing.T) {
	painter := &countingPainter{}
	server := newTestServer(t, painter)

	first, firstBody := get(t, server.URL+"/color/AABBCC")
	require.Equal(t, http.StatusOK, first.StatusCode)
	assert.Equal(t, "image/png", first.Header.Get("Content-Type"))

	second, secondBody := get(t, server.URL+"/color/aabbcc")
	require.Equal(t, http.StatusOK, second.StatusCode)

	assert.Equal(t, firstBody, secondBody)
	assert.Equal(t, first.Header.Get("ETag"), second.Header.Get("ETag"))
	assert.EqualValues(t, 1, painter.calls.Load())
}

func TestConcurrentColorRequestsRenderOnce(t *testing.T) {
	const n = 16
	painter := &countingPainter{delay: 50 * time.Millisecond}
	server := newTestServer(t, painter)

	bodies := make([][]byte, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			resp, err := http.Get(server.URL + "/color/336699")
			if !assert.NoError(t, err) {
				return
			}
			defer resp.Body.Close()
			assert.Equal(t, http.StatusOK, resp.StatusCode)
			bodies[i], _ = io.ReadAll(resp.Body)
		}(i)
	}
	wg.Wait()

	assert.EqualValues(t, 1, painter.calls.Load())
	for i := 1; i < n; i++ {
		assert.True(t, bytes.Equal(bodies[0], bodies[i]), "response %d differs", i)
	}
}

func TestMalformedPathsAreNotFound(t *testing.T) {
	painter := &countingPainter{}
	server := newTestServer(t, painter)

	for _, path := range []string{
		"/color/zzzzzz",
		"/color/abc",
		"/color/aabbccdd",
		"/color/aabbcc/extra",
		"/nothing/here",
		"/secret.txt",
		"/js/missing.js",
		"/js/",
	} {
		resp, body := get(t, server.URL+path)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode, path)
		assert.Equal(t, "404 Not Found\n", string(body), path)
		assert.Equal(t, "text/plain", resp.Header.Get("Content-Type"), path)
	}
	assert.Zero(t, painter.calls.Load())
}

func TestStaticRoutes(t *testing.T) {
	server := newTestServer(t, &countingPainter{})

	resp, body := get(t, server.URL+"/")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/html; charset=utf-8", resp.Header.Get("Content-Type"))
	assert.Equal(t, "<html>mosaic</html>", string(body))

	resp, body = get(t, server.URL+"/js/mosaic.js")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/javascript", resp.Header.Get("Content-Type"))
	assert.Equal(t, "// client", string(body))

	resp, body = get(t, server.URL+"/healthz")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", string(body))
}

func TestHeadColorOmitsBody(t *testing.T) {
	server := newTestServer(t, &countingPainter{})

	resp, err := http.Head(server.URL + "/color/010203")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("Content-Length"))
	body, _ := io.ReadAll(resp.Body)
	assert.Empty(t, body)
}

func TestShippedFrontEndIsServed(t *testing.T) {
	cfg := &config.Config{
		PublicDir:     filepath.Join("..", "..", "public"),
		TileWidth:     16,
		TileHeight:    16,
		RenderTimeout: 5 * time.Second,
	}
	metrics, err := sprite_renderer.NewMetrics(prometheus.NewRegistry())
	require.NoError(t, err)
	renderer := sprite_renderer.New(16, 16, &countingPainter{}, cache.NewMemoryCache(), metrics, zap.NewNop())
	server := httptest.NewServer(New(cfg, zap.NewNop(), renderer).Routes(nil))
	defer server.Close()

	resp, page := get(t, server.URL+"/")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(page), "/js/mosaic.js")

	resp, script := get(t, server.URL+"/js/mosaic.js")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(script), "new Worker('/js/worker.js')")

	// Color reduction runs off the page thread, one worker per row.
	resp, worker := get(t, server.URL+"/js/worker.js")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/javascript", resp.Header.Get("Content-Type"))
	assert.True(t, strings.Contains(string(worker), "onmessage"))
	assert.True(t, strings.Contains(string(worker), "postMessage"))
}
