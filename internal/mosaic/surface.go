package mosaic

import (
	"image"
	"sync/atomic"

	"github.com/gogpu/gg"
	"go.uber.org/zap"
)

// Surface is the output the compositor draws sprites onto.
type Surface interface {
	DrawTile(sprite image.Image, x, y, width, height int)
}

// CanvasSurface is a Surface backed by a gg drawing context.
type CanvasSurface struct {
	dc *gg.Context
}

func NewCanvasSurface(width, height int) *CanvasSurface {
	return &CanvasSurface{dc: gg.NewContext(width, height)}
}

// DrawTile draws the top-left width x height region of sprite at (x, y).
func (s *CanvasSurface) DrawTile(sprite image.Image, x, y, width, height int) {
	b := sprite.Bounds()
	src := image.Rect(b.Min.X, b.Min.Y, b.Min.X+width, b.Min.Y+height).Intersect(b)

	s.dc.DrawImageEx(gg.ImageBufFromImage(sprite), gg.DrawImageOptions{
		X:             float64(x),
		Y:             float64(y),
		DstWidth:      float64(width),
		DstHeight:     float64(height),
		SrcRect:       &src,
		Interpolation: gg.InterpNearest,
		Opacity:       1.0,
		BlendMode:     gg.BlendNormal,
	})
}

func (s *CanvasSurface) Image() image.Image {
	return s.dc.Image()
}

func (s *CanvasSurface) Close() error {
	return s.dc.Close()
}

// Indicator shows whether a mosaic run is in progress.
type Indicator interface {
	SetLoading(on bool)
}

// LogIndicator reports loading state changes through the logger.
type LogIndicator struct {
	logger  *zap.Logger
	visible atomic.Bool
}

func NewLogIndicator(logger *zap.Logger) *LogIndicator {
	return &LogIndicator{logger: logger}
}

func (i *LogIndicator) SetLoading(on bool) {
	if i.visible.Swap(on) == on {
		return
	}
	if on {
		i.logger.Info("Loading")
	} else {
		i.logger.Info("Loading finished")
	}
}

func (i *LogIndicator) Visible() bool {
	return i.visible.Load()
}
