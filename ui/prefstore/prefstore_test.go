package prefstore

import (
	"errors"
	"image/color"
	"testing"

	"fyne.io/fyne/v2/test"

	mandel "github.com/marben/mandelzoom"
	"github.com/marben/mandelzoom/internal/viewstore"
)

func newStore(t *testing.T) *Store {
	t.Helper()
	a := test.NewApp()
	t.Cleanup(a.Quit)
	return New(a.Preferences())
}

func TestEmptyPreferences(t *testing.T) {
	s := newStore(t)
	if _, ok, err := s.LoadViewport(); ok || err != nil {
		t.Fatalf("expected no viewport, got ok=%v err=%v", ok, err)
	}
	if _, ok, err := s.LoadSettings(); ok || err != nil {
		t.Fatalf("expected no settings, got ok=%v err=%v", ok, err)
	}
}

func TestRoundTrip(t *testing.T) {
	s := newStore(t)

	v := mandel.Viewport{Xmin: -0.7453, Ymin: 0.1127, Xmax: -0.7433, Ymax: 0.1147}
	if err := s.SaveViewport(v); err != nil {
		t.Fatal(err)
	}
	got, ok, err := s.LoadViewport()
	if err != nil || !ok {
		t.Fatalf("expected stored viewport, got ok=%v err=%v", ok, err)
	}
	if got != v {
		t.Fatalf("expected %v, got %v", v, got)
	}

	rs := mandel.DefaultSettings()
	rs.MaxIter = 1234
	rs.Palette.EscapeOdd = color.RGBA{R: 0x12, G: 0x34, B: 0x56, A: 0xff}
	if err := s.SaveSettings(rs); err != nil {
		t.Fatal(err)
	}
	gotRS, ok, err := s.LoadSettings()
	if err != nil || !ok {
		t.Fatalf("expected stored settings, got ok=%v err=%v", ok, err)
	}
	if gotRS.MaxIter != 1234 || gotRS.Palette != rs.Palette {
		t.Fatalf("expected %+v, got %+v", rs, gotRS)
	}
}

func TestCorruptPreference(t *testing.T) {
	s := newStore(t)
	s.Set(viewstore.KeyMaxIter, "many")
	_, _, err := s.LoadSettings()
	if !errors.Is(err, mandel.ErrInvalidSettings) {
		t.Fatalf("expected ErrInvalidSettings, got %v", err)
	}
}
