// Package session is the application shell around the renderer: it owns
// the current viewport, settings and selection, persists them through the
// injected stores and caches the last rendered raster.
package session

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"log"
	"math"
	"sync"
	"time"

	mandel "github.com/marben/mandelzoom"
	"github.com/marben/mandelzoom/internal/overlay"
)

// Background is the color of pixels the renderer leaves unset.
var Background = color.RGBA{R: 0x3a, G: 0x3a, B: 0x6e, A: 0xff}

// Frame is one rendered view.
type Frame struct {
	Viewport  mandel.Viewport
	Settings  mandel.RenderSettings
	Selection mandel.Selection
	Raster    *mandel.Raster
	Image     *image.RGBA
	Stats     mandel.Stats
	Elapsed   time.Duration // zero when served from cache
}

type cacheKey struct {
	viewport mandel.Viewport
	size     mandel.CanvasSize
	maxIter  int
	distort  bool
}

// Session holds the interactive state of one canvas.
type Session struct {
	mu sync.Mutex

	size     mandel.CanvasSize
	views    mandel.ViewStateStore
	prefs    mandel.SettingsStore
	defaults mandel.RenderSettings

	viewport mandel.Viewport
	settings mandel.RenderSettings
	selector mandel.Selector
	cursor   image.Point

	cached    *mandel.Raster
	cachedKey cacheKey

	remote func() []mandel.Renderer
}

// New creates a session for a canvas of the given size. Stored viewport
// and settings override the defaults; invalid stored settings are replaced
// by defaults.
func New(size mandel.CanvasSize, views mandel.ViewStateStore, prefs mandel.SettingsStore, defaults mandel.RenderSettings) (*Session, error) {
	if _, err := mandel.DefaultViewport.Scale(size); err != nil {
		return nil, err
	}
	if size.W <= 0 {
		return nil, fmt.Errorf("canvas width %d: %w", size.W, mandel.ErrInvalidGeometry)
	}
	if err := defaults.Validate(); err != nil {
		return nil, fmt.Errorf("default settings: %w", err)
	}

	s := &Session{
		size:     size,
		views:    views,
		prefs:    prefs,
		defaults: defaults,
		viewport: mandel.DefaultViewport,
		settings: defaults,
		cursor:   image.Pt(-1, -1),
	}

	if views != nil {
		v, ok, err := views.LoadViewport()
		switch {
		case err != nil:
			log.Printf("session: stored viewport ignored: %v", err)
		case ok && degenerate(v):
			log.Printf("session: stored viewport %s ignored: no extent on one axis", v)
		case ok:
			s.viewport = v
		}
	}
	if prefs != nil {
		rs, ok, err := prefs.LoadSettings()
		switch {
		case err != nil:
			log.Printf("session: stored settings ignored, using defaults: %v", err)
		case ok:
			s.settings = s.merge(rs)
		}
	}
	return s, nil
}

// degenerate reports viewports that collapse an axis onto a single value,
// as a selection whose corners share a row or column does. Corners in any
// order are fine.
func degenerate(v mandel.Viewport) bool {
	for _, f := range []float64{v.Xmin, v.Xmax, v.Ymin, v.Ymax} {
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return true
		}
	}
	return v.Xmin == v.Xmax || v.Ymin == v.Ymax
}

// merge takes the user-tunable fields from rs and the rest from the defaults.
func (s *Session) merge(rs mandel.RenderSettings) mandel.RenderSettings {
	out := s.defaults
	out.MaxIter = rs.MaxIter
	out.Palette = rs.Palette
	return out
}

// UseRemote makes renders share their tiles with the renderers returned
// by fn, typically the connected workers.
func (s *Session) UseRemote(fn func() []mandel.Renderer) {
	s.mu.Lock()
	s.remote = fn
	s.mu.Unlock()
}

func (s *Session) Size() mandel.CanvasSize {
	return s.size
}

func (s *Session) Viewport() mandel.Viewport {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.viewport
}

func (s *Session) Settings() mandel.RenderSettings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settings
}

func (s *Session) Selection() mandel.Selection {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selector.State()
}

func (s *Session) mapper() (mandel.Mapper, error) {
	return mandel.NewMapper(s.viewport, s.size, s.settings.AllowDistortion)
}

// Click feeds a selection click at pixel p. When it completes a selection
// the new viewport is stored and returned with done == true.
func (s *Session) Click(p image.Point) (next mandel.Viewport, done bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, err := s.mapper()
	if err != nil {
		return mandel.Viewport{}, false, err
	}
	next, done = s.selector.Click(p, m)
	if !done {
		return mandel.Viewport{}, false, nil
	}
	s.viewport = next
	s.cursor = image.Pt(-1, -1)
	return next, true, s.saveViewport()
}

// Hover records the cursor position used to echo a running selection.
func (s *Session) Hover(p image.Point) {
	s.mu.Lock()
	s.cursor = p
	s.mu.Unlock()
}

// Reset restores the default viewport and drops any picked corner.
func (s *Session) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.viewport = mandel.DefaultViewport
	s.selector.Reset()
	return s.saveViewport()
}

// SetViewport jumps to v, dropping any picked corner.
func (s *Session) SetViewport(v mandel.Viewport) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.viewport = v
	s.selector.Reset()
	return s.saveViewport()
}

func (s *Session) saveViewport() error {
	if s.views == nil {
		return nil
	}
	if err := s.views.SaveViewport(s.viewport); err != nil {
		return fmt.Errorf("save viewport: %w", err)
	}
	return nil
}

// UpdateSettings replaces the iteration limit and palette. Invalid
// settings are rejected and the current ones kept.
func (s *Session) UpdateSettings(maxIter int, p mandel.Palette) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rs := s.settings
	rs.MaxIter = maxIter
	rs.Palette = p
	if err := rs.Validate(); err != nil {
		return err
	}
	s.settings = rs
	return s.saveSettings()
}

// ResetSettings restores the default iteration limit and palette.
func (s *Session) ResetSettings() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings = s.defaults
	return s.saveSettings()
}

func (s *Session) saveSettings() error {
	if s.prefs == nil {
		return nil
	}
	if err := s.prefs.SaveSettings(s.settings); err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	return nil
}

// Render renders the current view, reusing the cached raster when
// nothing that affects it changed. The running selection is echoed on
// the returned image.
func (s *Session) Render(ctx context.Context) (*Frame, error) {
	s.mu.Lock()
	v, rs, sel, cursor := s.viewport, s.settings, s.selector.State(), s.cursor
	key := s.key(v, rs)
	raster := s.cached
	if s.cachedKey != key {
		raster = nil
	}
	remote := s.remote
	s.mu.Unlock()

	var elapsed time.Duration
	if raster == nil {
		start := time.Now()
		var helpers []mandel.Renderer
		if remote != nil {
			helpers = remote()
		}
		var err error
		raster, err = mandel.RenderParallel(ctx, v, s.size, rs, helpers...)
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", v, err)
		}
		elapsed = time.Since(start)
		log.Printf("render of %s at %s took %s (remote workers: %d)", v, s.size, elapsed, len(helpers))

		s.mu.Lock()
		s.cached, s.cachedKey = raster, key
		s.mu.Unlock()
	}
	return compose(raster, v, rs, sel, cursor, elapsed), nil
}

// Cached returns the current view built from the cached raster. ok is
// false when the view has to be rendered first; Cached never renders.
func (s *Session) Cached() (f *Frame, ok bool) {
	s.mu.Lock()
	v, rs, sel, cursor := s.viewport, s.settings, s.selector.State(), s.cursor
	if s.cached == nil || s.cachedKey != s.key(v, rs) {
		s.mu.Unlock()
		return nil, false
	}
	raster := s.cached
	s.mu.Unlock()
	return compose(raster, v, rs, sel, cursor, 0), true
}

func (s *Session) key(v mandel.Viewport, rs mandel.RenderSettings) cacheKey {
	return cacheKey{viewport: v, size: s.size, maxIter: rs.MaxIter, distort: rs.AllowDistortion}
}

func compose(raster *mandel.Raster, v mandel.Viewport, rs mandel.RenderSettings, sel mandel.Selection, cursor image.Point, elapsed time.Duration) *Frame {
	img := raster.Image(rs.Palette, Background)
	overlay.Selection(img, sel, cursor, overlay.SelectionColor)
	return &Frame{
		Viewport:  v,
		Settings:  rs,
		Selection: sel,
		Raster:    raster,
		Image:     img,
		Stats:     raster.Stats(),
		Elapsed:   elapsed,
	}
}

// GetImage implements mandel.ImgProvider.
func (s *Session) GetImage(ctx context.Context) (*image.RGBA, error) {
	f, err := s.Render(ctx)
	if err != nil {
		return nil, err
	}
	return f.Image, nil
}

var _ mandel.ImgProvider = (*Session)(nil)
