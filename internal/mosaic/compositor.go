package mosaic

import (
	"context"
	"errors"
	"fmt"
	"image"
	"sync/atomic"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"mosaic/internal/colorkey"
)

// State is the compositor's position in a run.
type State int32

const (
	StateIdle State = iota
	StateRowPending
	StateRowColorsComputed
	StateRowSpritesResolved
	StateRowDrawn
	StateDone
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRowPending:
		return "row_pending"
	case StateRowColorsComputed:
		return "row_colors_computed"
	case StateRowSpritesResolved:
		return "row_sprites_resolved"
	case StateRowDrawn:
		return "row_drawn"
	case StateDone:
		return "done"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("state(%d)", int32(s))
	}
}

// rowState tracks the tiles of the current row that have not been drawn yet.
type rowState struct {
	row     int
	pending int
}

func (r *rowState) drawn() {
	r.pending--
}

// Compositor renders a mosaic row by row. Row N+1 starts only after every
// tile of row N has been drawn; a row is drawn only once all its sprites
// have resolved.
type Compositor struct {
	config    *Config
	batcher   ColorBatcher
	fetcher   SpriteFetcher
	indicator Indicator
	logger    *zap.Logger

	// OnRowDrawn, when set, is called after each row reaches the surface.
	OnRowDrawn func(row int)

	running atomic.Bool
	state   atomic.Int32
}

func NewCompositor(config *Config, batcher ColorBatcher, fetcher SpriteFetcher, indicator Indicator, logger *zap.Logger) *Compositor {
	return &Compositor{
		config:    config,
		batcher:   batcher,
		fetcher:   fetcher,
		indicator: indicator,
		logger:    logger,
	}
}

// State returns the state of the current or last run.
func (c *Compositor) State() State {
	return State(c.state.Load())
}

// Run renders img onto surface. Only one run may be active at a time. On
// failure the rows already drawn stay on the surface.
func (c *Compositor) Run(ctx context.Context, img image.Image, surface Surface) error {
	if !c.running.CompareAndSwap(false, true) {
		return ErrRunInProgress
	}
	defer c.running.Store(false)

	log := c.logger.With(zap.String("run_id", uuid.New().String()))

	grid := Partition(img.Bounds(), c.config.TileWidth, c.config.TileHeight)

	c.setState(StateIdle)
	c.indicator.SetLoading(true)
	defer c.indicator.SetLoading(false)

	log.Info("Starting mosaic",
		zap.Int("width", img.Bounds().Dx()),
		zap.Int("height", img.Bounds().Dy()),
		zap.Int("columns", grid.Columns),
		zap.Int("rows", grid.Rows),
	)

	for row := 0; row < grid.Rows; row++ {
		if err := ctx.Err(); err != nil {
			c.setState(StateFailed)
			return fmt.Errorf("row %d: %w", row, err)
		}
		if err := c.renderRow(ctx, img, surface, grid, row); err != nil {
			c.setState(StateFailed)
			log.Warn("Mosaic failed", zap.Int("row", row), zap.Error(err))
			return fmt.Errorf("row %d: %w", row, err)
		}
	}

	c.setState(StateDone)
	log.Info("Mosaic completed", zap.Int("tiles", grid.Tiles()))
	return nil
}

func (c *Compositor) renderRow(ctx context.Context, img image.Image, surface Surface, grid Grid, row int) error {
	c.setState(StateRowPending)

	cells := grid.RowTiles(row)
	state := &rowState{row: row, pending: len(cells)}

	buffers := make([][]byte, len(cells))
	for i, cell := range cells {
		pixels, err := ExtractTile(img, cell.X, cell.Y, grid.TileWidth, grid.TileHeight)
		if err != nil {
			return err
		}
		buffers[i] = pixels
	}

	colors, err := c.batcher.ComputeRowColors(ctx, buffers)
	if err != nil {
		return asKind(err, ErrWorkerFailure)
	}
	if len(colors) != len(cells) {
		return fmt.Errorf("%w: got %d colors for %d tiles", ErrWorkerFailure, len(colors), len(cells))
	}
	c.setState(StateRowColorsComputed)

	sprites, err := c.fetchRow(ctx, colors)
	if err != nil {
		return err
	}
	c.setState(StateRowSpritesResolved)

	for i, cell := range cells {
		at := grid.Cell(cell.X, cell.Y).Min
		surface.DrawTile(sprites[i], at.X, at.Y, grid.TileWidth, grid.TileHeight)
		state.drawn()
	}
	if state.pending != 0 {
		return fmt.Errorf("row %d: %d tiles left undrawn", row, state.pending)
	}
	c.setState(StateRowDrawn)

	c.logger.Debug("Row drawn", zap.Int("row", row), zap.Int("tiles", len(cells)))
	if c.OnRowDrawn != nil {
		c.OnRowDrawn(row)
	}
	return nil
}

// fetchRow requests every sprite of a row concurrently and returns once all
// of them have resolved, or at the first failure.
func (c *Compositor) fetchRow(ctx context.Context, colors []colorkey.Key) ([]image.Image, error) {
	sprites := make([]image.Image, len(colors))

	g, gctx := errgroup.WithContext(ctx)
	for i, key := range colors {
		g.Go(func() error {
			sprite, err := c.fetcher.FetchSprite(gctx, key)
			if err != nil {
				return asKind(err, ErrSpriteFetchFailure)
			}
			sprites[i] = sprite
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return sprites, nil
}

// asKind wraps err with kind unless it already carries it.
func asKind(err, kind error) error {
	if errors.Is(err, kind) {
		return err
	}
	return fmt.Errorf("%w: %v", kind, err)
}

func (c *Compositor) setState(s State) {
	c.state.Store(int32(s))
}
