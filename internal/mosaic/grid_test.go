package mosaic

import (
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPartitionFloorsDimensions(t *testing.T) {
	cases := []struct {
		w, h, tw, th int
		cols, rows   int
	}{
		{32, 32, 16, 16, 2, 2},
		{33, 47, 16, 16, 2, 2},
		{15, 100, 16, 16, 0, 6},
		{100, 10, 7, 3, 14, 3},
		{0, 0, 16, 16, 0, 0},
	}
	for _, c := range cases {
		g := Partition(image.Rect(0, 0, c.w, c.h), c.tw, c.th)
		assert.Equal(t, c.cols, g.Columns, "%+v", c)
		assert.Equal(t, c.rows, g.Rows, "%+v", c)

		for row := 0; row < g.Rows; row++ {
			cells := g.RowTiles(row)
			require.Len(t, cells, g.Columns)
			for col, p := range cells {
				assert.Equal(t, image.Pt(col, row), p)
				assert.True(t, g.Cell(p.X, p.Y).In(image.Rect(0, 0, c.w, c.h)))
			}
		}
		assert.Nil(t, g.RowTiles(g.Rows))
		assert.Nil(t, g.RowTiles(-1))
	}
}

func TestExtractTileReadsSubRectangle(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 32, 16))
	for y := 0; y < 16; y++ {
		for x := 16; x < 32; x++ {
			img.Set(x, y, color.RGBA{R: 200, G: 100, B: 50, A: 255})
		}
	}

	left, err := ExtractTile(img, 0, 0, 16, 16)
	require.NoError(t, err)
	require.Len(t, left, 16*16*4)
	assert.Equal(t, []byte{0, 0, 0, 0}, left[:4])

	right, err := ExtractTile(img, 1, 0, 16, 16)
	require.NoError(t, err)
	assert.Equal(t, []byte{200, 100, 50, 255}, right[:4])
	assert.Equal(t, "c86432", AverageColor(right).String())
}

func TestExtractTileKeepsColorOfTranslucentPixels(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 32, 16))
	for y := 0; y < 16; y++ {
		for x := 16; x < 32; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: 200, G: 100, B: 50, A: 128})
		}
	}

	left, err := ExtractTile(img, 0, 0, 16, 16)
	require.NoError(t, err)
	assert.Equal(t, []byte{0, 0, 0, 0}, left[:4])

	right, err := ExtractTile(img, 1, 0, 16, 16)
	require.NoError(t, err)
	require.Len(t, right, 16*16*4)
	assert.Equal(t, []byte{200, 100, 50, 128}, right[:4])
	assert.Equal(t, []byte{200, 100, 50, 128}, right[len(right)-4:])
	assert.Equal(t, "c86432", AverageColor(right).String())
}

func TestExtractTileUnpremultipliesRGBASource(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 16, 16))
	for y := 0; y < 16; y++ {
		for x := 0; x < 16; x++ {
			img.SetRGBA(x, y, color.RGBA{R: 100, G: 50, B: 25, A: 128})
		}
	}

	pixels, err := ExtractTile(img, 0, 0, 16, 16)
	require.NoError(t, err)
	assert.InDelta(t, 200, int(pixels[0]), 2)
	assert.InDelta(t, 100, int(pixels[1]), 2)
	assert.InDelta(t, 50, int(pixels[2]), 2)
	assert.Equal(t, byte(128), pixels[3])
}

func TestExtractTileHonorsImageOrigin(t *testing.T) {
	img := image.NewRGBA(image.Rect(10, 10, 26, 26))
	img.Set(10, 10, color.RGBA{R: 1, G: 2, B: 3, A: 255})

	pixels, err := ExtractTile(img, 0, 0, 16, 16)
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3, 255}, pixels[:4])
}

func TestExtractTileUnsupportedSurface(t *testing.T) {
	_, err := ExtractTile(nil, 0, 0, 16, 16)
	assert.True(t, errors.Is(err, ErrUnsupportedSurface))

	img := image.NewRGBA(image.Rect(0, 0, 20, 20))
	_, err = ExtractTile(img, 1, 0, 16, 16)
	assert.True(t, errors.Is(err, ErrUnsupportedSurface))

	_, err = ExtractTile(img, 0, 0, 0, 16)
	assert.True(t, errors.Is(err, ErrUnsupportedSurface))
}
