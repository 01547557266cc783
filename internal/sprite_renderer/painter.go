package sprite_renderer

import (
	"bytes"
	"fmt"

	"github.com/gogpu/gg"

	"mosaic/internal/colorkey"
)

// Painter rasterizes the sprite for one color and returns it PNG encoded.
type Painter interface {
	Paint(key colorkey.Key, width, height int) ([]byte, error)
}

// NewPainter returns the painter registered under kind.
func NewPainter(kind string) (Painter, error) {
	switch kind {
	case "canvas":
		return CanvasPainter{}, nil
	case "vips":
		return VipsPainter{}, nil
	default:
		return nil, fmt.Errorf("unknown sprite renderer: %s (supported: canvas, vips)", kind)
	}
}

// CanvasPainter draws sprites with the pure Go gg rasterizer.
type CanvasPainter struct{}

func (CanvasPainter) Paint(key colorkey.Key, width, height int) ([]byte, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid sprite size %dx%d", width, height)
	}

	dc := gg.NewContext(width, height)
	defer dc.Close()

	// Transparent background, filled ellipse inscribed in the tile, no stroke
	dc.Clear()
	dc.SetHexColor(key.Hex())
	rx := float64(width) / 2
	ry := float64(height) / 2
	dc.DrawEllipse(rx, ry, rx, ry)
	if err := dc.Fill(); err != nil {
		return nil, fmt.Errorf("failed to fill ellipse: %w", err)
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("failed to encode: %w", err)
	}
	return buf.Bytes(), nil
}
