package session

import (
	"context"
	"errors"
	"image"
	"math"
	"testing"

	mandel "github.com/marben/mandelzoom"
	"github.com/marben/mandelzoom/internal/overlay"
	"github.com/marben/mandelzoom/internal/viewstore"
)

var testSize = mandel.CanvasSize{W: 120, H: 80}

func newTestSession(t *testing.T, store *viewstore.Store) *Session {
	t.Helper()
	var (
		views mandel.ViewStateStore
		prefs mandel.SettingsStore
	)
	if store != nil {
		views, prefs = store, store
	}
	s, err := New(testSize, views, prefs, mandel.DefaultSettings())
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestNewInvalidGeometry(t *testing.T) {
	if _, err := New(mandel.CanvasSize{W: 10, H: 0}, nil, nil, mandel.DefaultSettings()); !errors.Is(err, mandel.ErrInvalidGeometry) {
		t.Fatalf("expected ErrInvalidGeometry, got %v", err)
	}
}

func TestNewUsesDefaults(t *testing.T) {
	s := newTestSession(t, viewstore.NewMemory())
	if s.Viewport() != mandel.DefaultViewport {
		t.Fatalf("expected default viewport, got %v", s.Viewport())
	}
	if s.Settings().MaxIter != mandel.DefaultMaxIter {
		t.Fatalf("expected default iteration limit, got %d", s.Settings().MaxIter)
	}
}

func TestStoredStateOverridesDefaults(t *testing.T) {
	store := viewstore.NewMemory()
	viewstore.WriteViewport(store, mandel.SeahorseValley)
	viewstore.WriteSettings(store, mandel.RenderSettings{MaxIter: 42, Palette: mandel.DefaultPalette})

	s := newTestSession(t, store)
	if s.Viewport() != mandel.SeahorseValley {
		t.Fatalf("expected stored viewport, got %v", s.Viewport())
	}
	if s.Settings().MaxIter != 42 {
		t.Fatalf("expected stored iteration limit, got %d", s.Settings().MaxIter)
	}
}

func TestDegenerateStoredViewportFallsBack(t *testing.T) {
	// two clicks on the same pixel
	m, err := mandel.NewMapper(mandel.DefaultViewport, testSize, false)
	if err != nil {
		t.Fatal(err)
	}
	flat := m.Selection(image.Pt(30, 30), image.Pt(30, 30))
	row := m.Selection(image.Pt(10, 30), image.Pt(50, 30))

	for _, v := range []mandel.Viewport{flat, row, {Xmin: math.NaN(), Xmax: 1, Ymin: -1, Ymax: 1}} {
		store := viewstore.NewMemory()
		viewstore.WriteViewport(store, v)
		s := newTestSession(t, store)
		if s.Viewport() != mandel.DefaultViewport {
			t.Fatalf("stored %v: expected default viewport, got %v", v, s.Viewport())
		}
	}

	// reversed corners are kept as stored
	reversed := m.Selection(image.Pt(50, 60), image.Pt(10, 20))
	store := viewstore.NewMemory()
	viewstore.WriteViewport(store, reversed)
	if s := newTestSession(t, store); s.Viewport() != reversed {
		t.Fatalf("expected non-normalized stored viewport %v, got %v", reversed, s.Viewport())
	}
}

func TestInvalidStoredSettingsFallBack(t *testing.T) {
	store := viewstore.NewMemory()
	viewstore.WriteSettings(store, mandel.DefaultSettings())
	store.Set(viewstore.KeyMaxIter, "-5")

	s := newTestSession(t, store)
	if s.Settings().MaxIter != mandel.DefaultMaxIter {
		t.Fatalf("expected default iteration limit, got %d", s.Settings().MaxIter)
	}
}

func TestClickZoomsAndPersists(t *testing.T) {
	store := viewstore.NewMemory()
	s := newTestSession(t, store)

	if _, done, err := s.Click(image.Pt(10, 20)); done || err != nil {
		t.Fatalf("first click: expected pending selection, got done=%t err=%v", done, err)
	}
	if sel := s.Selection(); sel.Phase != mandel.CornerPicked {
		t.Fatalf("expected corner picked, got %s", sel)
	}

	next, done, err := s.Click(image.Pt(70, 60))
	if err != nil || !done {
		t.Fatalf("second click: expected completed selection, got done=%t err=%v", done, err)
	}
	want, _ := mandel.RectangleFromSelection(image.Pt(10, 20), image.Pt(70, 60), mandel.DefaultViewport, testSize)
	if next != want || s.Viewport() != want {
		t.Fatalf("expected viewport %v, got %v", want, s.Viewport())
	}

	stored, ok, err := store.LoadViewport()
	if err != nil || !ok || stored != want {
		t.Fatalf("expected stored viewport %v, got %v (ok=%t err=%v)", want, stored, ok, err)
	}
}

func TestReset(t *testing.T) {
	store := viewstore.NewMemory()
	s := newTestSession(t, store)
	if err := s.SetViewport(mandel.ElephantValley); err != nil {
		t.Fatal(err)
	}
	s.Click(image.Pt(5, 5))

	if err := s.Reset(); err != nil {
		t.Fatal(err)
	}
	if s.Viewport() != mandel.DefaultViewport {
		t.Fatalf("expected default viewport, got %v", s.Viewport())
	}
	if s.Selection().Phase != mandel.Idle {
		t.Fatalf("expected idle selection, got %s", s.Selection())
	}
	if stored, _, _ := store.LoadViewport(); stored != mandel.DefaultViewport {
		t.Fatalf("expected stored default viewport, got %v", stored)
	}
}

func TestUpdateSettings(t *testing.T) {
	store := viewstore.NewMemory()
	s := newTestSession(t, store)

	p, _ := mandel.ParsePalette([]string{"#ffffff", "#000000", "#ff0000"})
	if err := s.UpdateSettings(50, p); err != nil {
		t.Fatal(err)
	}
	if rs, ok, _ := store.LoadSettings(); !ok || rs.MaxIter != 50 || rs.Palette != p {
		t.Fatalf("expected stored settings, got %+v", rs)
	}

	if err := s.UpdateSettings(0, p); !errors.Is(err, mandel.ErrInvalidSettings) {
		t.Fatalf("expected ErrInvalidSettings, got %v", err)
	}
	if s.Settings().MaxIter != 50 {
		t.Fatalf("expected rejected update to keep settings, got %d", s.Settings().MaxIter)
	}

	if err := s.ResetSettings(); err != nil {
		t.Fatal(err)
	}
	if s.Settings().MaxIter != mandel.DefaultMaxIter || s.Settings().Palette != mandel.DefaultPalette {
		t.Fatalf("expected default settings, got %+v", s.Settings())
	}
}

func TestRenderCache(t *testing.T) {
	s := newTestSession(t, nil)
	first, err := s.Render(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	want, _ := mandel.Render(mandel.DefaultViewport, testSize, mandel.DefaultSettings())
	if !first.Raster.Equal(want) {
		t.Fatal("expected session raster to equal direct render")
	}

	second, err := s.Render(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if second.Raster != first.Raster {
		t.Fatal("expected cached raster on unchanged view")
	}
	if second.Elapsed != 0 {
		t.Fatalf("expected zero elapsed time for cached frame, got %s", second.Elapsed)
	}

	// palette changes reuse the raster, iteration changes do not
	p, _ := mandel.ParsePalette([]string{"#ffffff", "#000000", "#ff0000"})
	if err := s.UpdateSettings(mandel.DefaultMaxIter, p); err != nil {
		t.Fatal(err)
	}
	third, _ := s.Render(context.Background())
	if third.Raster != first.Raster {
		t.Fatal("expected palette change to reuse raster")
	}
	if got := third.Image.RGBAAt(60, 40); got != p.Interior && got != p.EscapeEven && got != p.EscapeOdd {
		t.Fatalf("expected new palette color, got %v", got)
	}
	if err := s.UpdateSettings(20, p); err != nil {
		t.Fatal(err)
	}
	fourth, _ := s.Render(context.Background())
	if fourth.Raster == first.Raster {
		t.Fatal("expected re-render after iteration change")
	}
}

func TestCached(t *testing.T) {
	s := newTestSession(t, nil)
	if _, ok := s.Cached(); ok {
		t.Fatal("expected no cached frame before the first render")
	}
	rendered, err := s.Render(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	// hovering with a picked corner reuses the raster and echoes the selection
	if _, _, err := s.Click(image.Pt(10, 10)); err != nil {
		t.Fatal(err)
	}
	s.Hover(image.Pt(50, 40))
	f, ok := s.Cached()
	if !ok {
		t.Fatal("expected cached frame for unchanged view")
	}
	if f.Raster != rendered.Raster || f.Elapsed != 0 {
		t.Fatal("expected frame built from the cached raster")
	}
	if f.Selection.Phase != mandel.CornerPicked {
		t.Fatalf("expected picked corner, got %s", f.Selection)
	}
	if got := f.Image.RGBAAt(30, 10); got != overlay.SelectionColor {
		t.Fatalf("expected selection echo on cached frame, got %v", got)
	}

	// a completed zoom invalidates the cache until the next render
	if _, done, err := s.Click(image.Pt(50, 40)); err != nil || !done {
		t.Fatalf("expected completed selection, got done=%t err=%v", done, err)
	}
	if _, ok := s.Cached(); ok {
		t.Fatal("expected no cached frame for the zoomed view")
	}
}

func TestRenderEchoesSelection(t *testing.T) {
	s := newTestSession(t, nil)
	s.Click(image.Pt(30, 30))
	s.Hover(image.Pt(60, 50))
	f, err := s.Render(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if f.Selection.Phase != mandel.CornerPicked {
		t.Fatalf("expected corner picked, got %s", f.Selection)
	}
	for _, p := range []image.Point{{30, 30}, {60, 50}, {45, 30}} {
		if got := f.Image.RGBAAt(p.X, p.Y); got != overlay.SelectionColor {
			t.Fatalf("pixel %v: expected selection echo, got %v", p, got)
		}
	}
	if got := f.Image.RGBAAt(0, 0); got != Background {
		t.Fatalf("expected background on unset pixel, got %v", got)
	}
}

func TestGetImage(t *testing.T) {
	s := newTestSession(t, nil)
	img, err := s.GetImage(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if img.Bounds() != testSize.Bounds() {
		t.Fatalf("expected %s, got %s", testSize.Bounds(), img.Bounds())
	}
}
