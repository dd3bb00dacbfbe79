package mandel

import (
	"errors"
	"image"
	"image/color"
	"testing"
)

func TestSelectorTwoClicks(t *testing.T) {
	size := CanvasSize{W: 100, H: 100}
	m, err := NewMapper(DefaultViewport, size, false)
	if err != nil {
		t.Fatal(err)
	}

	var sel Selector
	if sel.State().Phase != Idle {
		t.Fatalf("expected idle selector, got %s", sel.State())
	}

	if _, done := sel.Click(image.Pt(20, 30), m); done {
		t.Fatal("first click must not complete a selection")
	}
	if st := sel.State(); st.Phase != CornerPicked || st.Corner != image.Pt(20, 30) {
		t.Fatalf("expected corner picked at (20,30), got %s", st)
	}

	next, done := sel.Click(image.Pt(60, 70), m)
	if !done {
		t.Fatal("second click must complete the selection")
	}
	want, _ := RectangleFromSelection(image.Pt(20, 30), image.Pt(60, 70), DefaultViewport, size)
	if next != want {
		t.Fatalf("expected %v, got %v", want, next)
	}
	if sel.State().Phase != Idle {
		t.Fatalf("expected idle after completion, got %s", sel.State())
	}
}

func TestSelectorReset(t *testing.T) {
	m, _ := NewMapper(DefaultViewport, CanvasSize{W: 10, H: 10}, false)
	var sel Selector
	sel.Click(image.Pt(1, 1), m)
	sel.Reset()
	if sel.State().Phase != Idle {
		t.Fatalf("expected idle after reset, got %s", sel.State())
	}
	if _, done := sel.Click(image.Pt(2, 2), m); done {
		t.Fatal("expected reset to discard the picked corner")
	}
}

func TestParsePalette(t *testing.T) {
	p, err := ParsePalette([]string{"#000000", "#DD5599", "55aa22"})
	if err != nil {
		t.Fatal(err)
	}
	if p != DefaultPalette {
		t.Fatalf("expected default palette, got %+v", p)
	}
	if hex := p.Hex(); hex != [3]string{"#000000", "#dd5599", "#55aa22"} {
		t.Fatalf("unexpected hex form %v", hex)
	}

	bad := [][]string{
		{"#000000", "#ffffff"},
		{"#000000", "#ffffff", "#ffffff", "#ffffff"},
		{"#000000", "#ffffff", "#fffff"},
		{"#000000", "#ffffff", "#gggggg"},
	}
	for _, colors := range bad {
		if _, err := ParsePalette(colors); !errors.Is(err, ErrInvalidSettings) {
			t.Fatalf("ParsePalette(%v): expected ErrInvalidSettings, got %v", colors, err)
		}
	}
}

func TestPaletteColor(t *testing.T) {
	if c, ok := DefaultPalette.Color(ClassEscapeEven); !ok || c != (color.RGBA{R: 0xdd, G: 0x55, B: 0x99, A: 0xff}) {
		t.Fatalf("unexpected even color %v", c)
	}
	if _, ok := DefaultPalette.Color(ClassUnset); ok {
		t.Fatal("expected no color for unset pixels")
	}
	if got, want := DefaultPalette.Hex(), [3]string{"#000000", "#dd5599", "#55aa22"}; got != want {
		t.Fatalf("expected default palette %v, got %v", want, got)
	}
}

func TestSettingsValidate(t *testing.T) {
	if err := DefaultSettings().Validate(); err != nil {
		t.Fatalf("expected default settings to be valid, got %v", err)
	}
	rs := DefaultSettings()
	rs.Workers = -1
	if err := rs.Validate(); !errors.Is(err, ErrInvalidSettings) {
		t.Fatalf("expected ErrInvalidSettings, got %v", err)
	}
}
