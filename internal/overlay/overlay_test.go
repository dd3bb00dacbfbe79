package overlay

import (
	"image"
	"image/color"
	"testing"

	mandel "github.com/marben/mandelzoom"
)

func TestSelectionIdleDrawsNothing(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 10, 10))
	Selection(img, mandel.Selection{}, image.Pt(5, 5), SelectionColor)
	for i, b := range img.Pix {
		if b != 0 {
			t.Fatalf("expected untouched image, byte %d is %d", i, b)
		}
	}
}

func TestSelectionOutline(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 20, 20))
	sel := mandel.Selection{Phase: mandel.CornerPicked, Corner: image.Pt(12, 14)}
	Selection(img, sel, image.Pt(3, 4), SelectionColor)

	for _, p := range []image.Point{{12, 14}, {3, 4}, {3, 14}, {12, 4}, {7, 4}, {3, 9}, {12, 9}, {7, 14}} {
		if got := img.RGBAAt(p.X, p.Y); got != SelectionColor {
			t.Fatalf("pixel %v: expected outline, got %v", p, got)
		}
	}
	if got := img.RGBAAt(7, 9); got != (color.RGBA{}) {
		t.Fatalf("expected rectangle interior untouched, got %v", got)
	}
}

func TestSelectionCursorOutside(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	sel := mandel.Selection{Phase: mandel.CornerPicked, Corner: image.Pt(2, 2)}
	Selection(img, sel, image.Pt(-1, -1), SelectionColor)
	if got := img.RGBAAt(2, 2); got != SelectionColor {
		t.Fatalf("expected corner marker, got %v", got)
	}
	if got := img.RGBAAt(2, 3); got != (color.RGBA{}) {
		t.Fatalf("expected no outline, got %v", got)
	}
}

func TestLineClipped(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	Line(img, -5, 1, 10, 1, SelectionColor)
	for x := 0; x < 4; x++ {
		if img.RGBAAt(x, 1) != SelectionColor {
			t.Fatalf("pixel (%d, 1): expected line", x)
		}
	}
}
