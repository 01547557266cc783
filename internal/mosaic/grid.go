package mosaic

import (
	"fmt"
	"image"

	"golang.org/x/image/draw"
)

// Grid is the tile layout of one source image. Pixels to the right of the
// last column and below the last row are not covered.
type Grid struct {
	Columns    int
	Rows       int
	TileWidth  int
	TileHeight int
}

// Partition lays a tileWidth x tileHeight grid over bounds.
func Partition(bounds image.Rectangle, tileWidth, tileHeight int) Grid {
	g := Grid{TileWidth: tileWidth, TileHeight: tileHeight}
	if tileWidth <= 0 || tileHeight <= 0 {
		return g
	}
	g.Columns = bounds.Dx() / tileWidth
	g.Rows = bounds.Dy() / tileHeight
	return g
}

// Tiles is the number of cells in the grid.
func (g Grid) Tiles() int {
	return g.Columns * g.Rows
}

// RowTiles returns the cell coordinates of row in column order, or nil if
// row is outside the grid.
func (g Grid) RowTiles(row int) []image.Point {
	if row < 0 || row >= g.Rows {
		return nil
	}
	points := make([]image.Point, g.Columns)
	for col := range points {
		points[col] = image.Pt(col, row)
	}
	return points
}

// Cell returns the rectangle covered by the tile at (column, row), relative
// to the origin of the grid.
func (g Grid) Cell(column, row int) image.Rectangle {
	return image.Rect(
		column*g.TileWidth, row*g.TileHeight,
		(column+1)*g.TileWidth, (row+1)*g.TileHeight,
	)
}

// Tile is one cell's pixels, RGBA row-major.
type Tile struct {
	Column int
	Row    int
	Pixels []byte
}

// ExtractTile copies the tile at (column, row) onto a fresh off-screen
// surface of exactly tileWidth x tileHeight and returns its bytes as
// non-premultiplied RGBA, so color channels do not depend on alpha.
func ExtractTile(img image.Image, column, row, tileWidth, tileHeight int) ([]byte, error) {
	if img == nil {
		return nil, fmt.Errorf("%w: no source image", ErrUnsupportedSurface)
	}
	if tileWidth <= 0 || tileHeight <= 0 {
		return nil, fmt.Errorf("%w: tile size %dx%d", ErrUnsupportedSurface, tileWidth, tileHeight)
	}

	b := img.Bounds()
	src := image.Rect(column*tileWidth, row*tileHeight, (column+1)*tileWidth, (row+1)*tileHeight).Add(b.Min)
	if !src.In(b) {
		return nil, fmt.Errorf("%w: tile %d,%d outside source %v", ErrUnsupportedSurface, column, row, b)
	}

	surface := image.NewNRGBA(image.Rect(0, 0, tileWidth, tileHeight))
	if n, ok := img.(*image.NRGBA); ok {
		// Copy rows as-is; a round trip through premultiplied color loses
		// precision at low alpha.
		rowLen := tileWidth * bytesPerPixel
		for y := 0; y < tileHeight; y++ {
			i := n.PixOffset(src.Min.X, src.Min.Y+y)
			copy(surface.Pix[y*surface.Stride:y*surface.Stride+rowLen], n.Pix[i:i+rowLen])
		}
	} else {
		draw.Draw(surface, surface.Bounds(), img, src.Min, draw.Src)
	}

	if len(surface.Pix) != tileWidth*tileHeight*bytesPerPixel {
		return nil, fmt.Errorf("%w: short readback", ErrUnsupportedSurface)
	}
	return surface.Pix, nil
}
