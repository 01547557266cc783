package sprite_renderer

import (
	"fmt"

	"github.com/cshum/vipsgen/vips"

	"mosaic/internal/colorkey"
)

// VipsPainter rasterizes an SVG ellipse with libvips. vips.Startup must have
// been called before the first Paint.
type VipsPainter struct{}

func (VipsPainter) Paint(key colorkey.Key, width, height int) ([]byte, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid sprite size %dx%d", width, height)
	}

	rx := float64(width) / 2
	ry := float64(height) / 2
	svg := fmt.Sprintf(
		`<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d">`+
			`<ellipse cx="%g" cy="%g" rx="%g" ry="%g" fill="%s" stroke="none"/></svg>`,
		width, height, rx, ry, rx, ry, key.Hex(),
	)

	image, err := vips.NewSvgloadBuffer([]byte(svg), vips.DefaultSvgloadBufferOptions())
	if err != nil {
		return nil, fmt.Errorf("failed to load svg: %w", err)
	}
	defer image.Close()

	pngOpts := vips.DefaultPngsaveBufferOptions()
	pngOpts.Interlace = false

	data, err := image.PngsaveBuffer(pngOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to export: %w", err)
	}
	return data, nil
}
