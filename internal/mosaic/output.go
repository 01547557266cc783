package mosaic

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/gif"
	"image/png"
	"io"

	"github.com/ericpauley/go-quantize/quantize"
)

const gifColors = 256

// EncodeOutput writes the finished mosaic as png or gif.
func EncodeOutput(w io.Writer, img image.Image, format string) error {
	switch format {
	case "png", "":
		return png.Encode(w, img)
	case "gif":
		b := img.Bounds()
		q := quantize.MedianCutQuantizer{}
		pm := image.NewPaletted(b, q.Quantize(make(color.Palette, 0, gifColors), img))
		draw.Draw(pm, b, img, b.Min, draw.Src)
		return gif.Encode(w, pm, &gif.Options{NumColors: len(pm.Palette)})
	default:
		return fmt.Errorf("unsupported output format: %s (supported: png, gif)", format)
	}
}
