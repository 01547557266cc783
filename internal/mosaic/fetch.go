package mosaic

import (
	"context"
	"fmt"
	"image"
	"image/png"
	"net/http"
	"strings"
	"time"

	"mosaic/internal/colorkey"
)

// SpriteFetcher resolves a color key to a drawable sprite.
type SpriteFetcher interface {
	FetchSprite(ctx context.Context, key colorkey.Key) (image.Image, error)
}

// HTTPSpriteFetcher requests sprites from a server's /color/{hex} route.
type HTTPSpriteFetcher struct {
	baseURL string
	client  *http.Client
	timeout time.Duration
}

func NewHTTPSpriteFetcher(baseURL string, client *http.Client, timeout time.Duration) *HTTPSpriteFetcher {
	if client == nil {
		client = http.DefaultClient
	}
	if timeout <= 0 {
		timeout = DefaultFetchTimeout
	}
	return &HTTPSpriteFetcher{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
		timeout: timeout,
	}
}

func (f *HTTPSpriteFetcher) FetchSprite(ctx context.Context, key colorkey.Key) (image.Image, error) {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	url := f.baseURL + "/color/" + key.String()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSpriteFetchFailure, err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrSpriteFetchFailure, key, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %s: status %d", ErrSpriteFetchFailure, key, resp.StatusCode)
	}

	sprite, err := png.Decode(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrSpriteFetchFailure, key, err)
	}
	return sprite, nil
}
