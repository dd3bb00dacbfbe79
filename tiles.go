package mandel

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log"
	"runtime"
	"sync"
)

// TileSize is the edge length of the square tiles handed to workers.
const TileSize = 64

// TileScheduler hands out tiles of one render to any number of Renderers
// and assembles their results. Tiles that are still in process when the
// unstarted set runs dry are handed out again, so a slow renderer does
// not hold up the frame.
type TileScheduler struct {
	workers  int
	mapper   Mapper
	maxIter  int
	raster   *Raster
	progress func(done float32)

	done     context.Context
	doneFunc context.CancelFunc

	totalPixels    int
	finishedPixels int

	unstarted map[image.Rectangle]struct{}
	inProcess map[image.Rectangle]struct{}
	m         sync.Mutex
}

// NewTileScheduler prepares a tiled render of v on a canvas of size s.
func NewTileScheduler(v Viewport, s CanvasSize, rs RenderSettings) (*TileScheduler, error) {
	if err := rs.Validate(); err != nil {
		return nil, err
	}
	if err := s.validate(); err != nil {
		return nil, err
	}
	m, err := NewMapper(v, s, rs.AllowDistortion)
	if err != nil {
		return nil, err
	}

	tiles := splitRectNoClip(s.Bounds(), TileSize, TileSize)
	unstarted := make(map[image.Rectangle]struct{}, len(tiles))
	for _, t := range tiles {
		unstarted[t] = struct{}{}
	}
	done, cancel := context.WithCancel(context.Background())
	return &TileScheduler{
		mapper:      m,
		maxIter:     rs.MaxIter,
		raster:      NewRaster(s.Bounds()),
		unstarted:   unstarted,
		inProcess:   make(map[image.Rectangle]struct{}),
		totalPixels: s.W * s.H,
		done:        done,
		doneFunc:    cancel,
	}, nil
}

// OnProgress registers fn to be called with the finished fraction after each tile.
func (ts *TileScheduler) OnProgress(fn func(done float32)) {
	ts.m.Lock()
	ts.progress = fn
	ts.m.Unlock()
}

// TotalTiles returns the number of tiles of the render.
func (ts *TileScheduler) TotalTiles() int {
	ts.m.Lock()
	defer ts.m.Unlock()
	return len(splitRectNoClip(ts.raster.Rect, TileSize, TileSize))
}

func (ts *TileScheduler) popTile() (tile image.Rectangle, found bool) {
	ts.m.Lock()
	defer ts.m.Unlock()

	// Get unstarted tile
	if len(ts.unstarted) > 0 {
		for tile = range ts.unstarted {
			break
		}
		delete(ts.unstarted, tile)

		// Move popped tile to currently processed tiles
		ts.inProcess[tile] = struct{}{}
		return tile, true
	}

	// If there is no unstarted tile, we work again on a started one
	if len(ts.inProcess) > 0 {
		for tile = range ts.inProcess {
			break
		}

		return tile, true
	}

	return image.Rectangle{}, false
}

// Finished returns the fraction of pixels rendered so far.
func (ts *TileScheduler) Finished() float32 {
	ts.m.Lock()
	defer ts.m.Unlock()
	return ts.finished()
}

func (ts *TileScheduler) finished() float32 {
	return float32(ts.finishedPixels) / float32(ts.totalPixels)
}

func (ts *TileScheduler) tileFinished(tile *Raster) {
	rect := tile.Bounds()
	ts.m.Lock()

	_, found := ts.inProcess[rect]
	if found {
		ts.raster.Draw(tile)
		ts.finishedPixels += rect.Dx() * rect.Dy()
	}
	delete(ts.inProcess, rect)

	if len(ts.unstarted) == 0 && len(ts.inProcess) == 0 {
		ts.doneFunc()
	}
	fin, progress := ts.finished(), ts.progress
	ts.m.Unlock()

	if found && progress != nil {
		progress(fin)
	}
}

func (ts *TileScheduler) incActiveWorkers() {
	ts.m.Lock()
	ts.workers++
	ts.m.Unlock()
}

func (ts *TileScheduler) decActiveWorkers() {
	ts.m.Lock()
	ts.workers--
	ts.m.Unlock()
}

// ActiveWorkers returns the number of Work calls currently running.
func (ts *TileScheduler) ActiveWorkers() int {
	ts.m.Lock()
	defer ts.m.Unlock()
	return ts.workers
}

// Work renders unfinished tiles on r until none are left or ctx is done.
// It can be called from multiple goroutines in parallel.
func (ts *TileScheduler) Work(ctx context.Context, r Renderer) error {
	ts.incActiveWorkers()
	defer ts.decActiveWorkers()

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		tile, found := ts.popTile()
		if !found {
			return nil
		}
		tileRaster, err := r.RenderTile(ctx, ts.mapper, tile, ts.maxIter)
		if err != nil {
			return fmt.Errorf("render of tile %s: %w", tile, err)
		}
		if err := checkTile(tileRaster, tile); err != nil {
			return err
		}
		ts.tileFinished(tileRaster)
	}
}

// checkTile rejects rasters that do not cover exactly tile, which a
// remote renderer could send.
func checkTile(r *Raster, tile image.Rectangle) error {
	if r == nil {
		return fmt.Errorf("renderer returned no raster for tile %s: %w", tile, ErrInvalidGeometry)
	}
	n := tile.Dx() * tile.Dy()
	if r.Bounds() != tile || len(r.Class) != n || len(r.Iter) != n {
		return fmt.Errorf("renderer returned %s (%d pixels) for tile %s: %w", r.Bounds(), len(r.Class), tile, ErrInvalidGeometry)
	}
	return nil
}

// Raster waits for the last tile and returns the assembled raster.
func (ts *TileScheduler) Raster(ctx context.Context) (*Raster, error) {
	select {
	case <-ts.done.Done():
		return ts.raster, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// RenderParallel renders like Render, spreading tiles over rs.Workers
// local workers and any remote renderers. The result is identical to
// Render. No partial raster is returned when ctx is cancelled.
func RenderParallel(ctx context.Context, v Viewport, s CanvasSize, rs RenderSettings, remote ...Renderer) (*Raster, error) {
	ts, err := NewTileScheduler(v, s, rs)
	if err != nil {
		return nil, err
	}
	return ts.Run(ctx, rs.Workers, LocalRenderer{}, remote...)
}

// Run works the scheduler with the given number of local goroutines, one
// per CPU when workers is 0, and returns the finished raster.
//
// Every remote renderer gets a goroutine of its own. A failing remote
// only leaves the render; its tile is still in process and gets picked
// up by the local workers. Remote calls are cancelled once the local
// workers are done.
func (ts *TileScheduler) Run(ctx context.Context, workers int, local Renderer, remote ...Renderer) (*Raster, error) {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	remoteCtx, cancelRemote := context.WithCancel(ctx)
	var remoteWg sync.WaitGroup
	for _, r := range remote {
		remoteWg.Add(1)
		go func() {
			defer remoteWg.Done()
			if err := ts.Work(remoteCtx, r); err != nil && remoteCtx.Err() == nil {
				log.Printf("remote renderer left render of %s: %v", ts.mapper.Viewport, err)
			}
		}()
	}
	defer func() {
		cancelRemote()
		remoteWg.Wait()
	}()

	var wg sync.WaitGroup
	errs := make([]error, workers)
	for i := range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs[i] = ts.Work(ctx, local)
		}()
	}
	wg.Wait()

	if err := errors.Join(errs...); err != nil {
		log.Printf("render of %s aborted at %.0f%%: %v", ts.mapper.Viewport, 100*ts.Finished(), err)
		return nil, err
	}
	return ts.Raster(ctx)
}

// splitRectNoClip splits r into tiles of size tileW × tileH.
// Tiles at the right and bottom edges are smaller if r is not divisible.
func splitRectNoClip(r image.Rectangle, tileW, tileH int) []image.Rectangle {
	if tileW <= 0 || tileH <= 0 {
		panic("tile dimensions must be positive")
	}

	w := r.Dx()
	h := r.Dy()

	var tiles []image.Rectangle

	for oy := 0; oy < h; oy += tileH {
		th := tileH
		if oy+th > h {
			th = h - oy
		}

		for ox := 0; ox < w; ox += tileW {
			tw := tileW
			if ox+tw > w {
				tw = w - ox
			}

			tile := image.Rect(
				r.Min.X+ox,
				r.Min.Y+oy,
				r.Min.X+ox+tw,
				r.Min.Y+oy+th,
			)
			tiles = append(tiles, tile)
		}
	}

	return tiles
}
