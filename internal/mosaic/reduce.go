package mosaic

import "mosaic/internal/colorkey"

// DefaultSampleStride visits every fifth pixel of a tile.
const DefaultSampleStride = 5

const bytesPerPixel = 4

// AverageColor reduces an RGBA buffer to one color using DefaultSampleStride.
func AverageColor(pixels []byte) colorkey.Key {
	return AverageColorStride(pixels, DefaultSampleStride)
}

// AverageColorStride averages R, G and B over the last pixel of every window
// of stride pixels. Alpha is ignored. A buffer too short to yield a sample
// reduces to black.
func AverageColorStride(pixels []byte, stride int) colorkey.Key {
	if stride <= 0 {
		stride = DefaultSampleStride
	}
	step := stride * bytesPerPixel

	var r, g, b, count uint64
	for i := step - bytesPerPixel; i+2 < len(pixels); i += step {
		r += uint64(pixels[i])
		g += uint64(pixels[i+1])
		b += uint64(pixels[i+2])
		count++
	}
	if count == 0 {
		return colorkey.Black
	}
	return colorkey.FromRGB(uint8(r/count), uint8(g/count), uint8(b/count))
}
