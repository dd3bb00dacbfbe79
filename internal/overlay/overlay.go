// Package overlay echoes the running zoom selection on top of a rendered frame.
package overlay

import (
	"image"
	"image/color"

	mandel "github.com/marben/mandelzoom"
)

// SelectionColor is the color of the corner marker and outline.
var SelectionColor = color.RGBA{R: 0xff, A: 0xff}

// Selection draws the echo of sel: a marker pixel at the picked corner
// and, when cursor is inside the image, the outline of the rectangle
// from the corner to the cursor. Idle selections draw nothing.
func Selection(img *image.RGBA, sel mandel.Selection, cursor image.Point, col color.RGBA) {
	if sel.Phase != mandel.CornerPicked {
		return
	}
	Marker(img, sel.Corner, col)
	if cursor.In(img.Bounds()) {
		Rect(img, sel.Corner, cursor, col)
	}
}

// Marker sets the pixel at p.
func Marker(img *image.RGBA, p image.Point, col color.RGBA) {
	if p.In(img.Bounds()) {
		img.SetRGBA(p.X, p.Y, col)
	}
}

// Rect draws the outline of the rectangle with corners a and b.
func Rect(img *image.RGBA, a, b image.Point, col color.RGBA) {
	Line(img, a.X, a.Y, b.X, a.Y, col)
	Line(img, a.X, a.Y, a.X, b.Y, col)
	Line(img, a.X, b.Y, b.X, b.Y, col)
	Line(img, b.X, a.Y, b.X, b.Y, col)
}

// Line draws a one pixel wide line, clipped to the image.
func Line(img *image.RGBA, x1, y1, x2, y2 int, col color.RGBA) {
	bounds := img.Bounds()

	dx := x2 - x1
	dy := y2 - y1
	if dx < 0 {
		dx = -dx
	}
	if dy < 0 {
		dy = -dy
	}

	sx := 1
	if x1 > x2 {
		sx = -1
	}
	sy := 1
	if y1 > y2 {
		sy = -1
	}

	err := dx - dy

	for {
		if (image.Point{X: x1, Y: y1}).In(bounds) {
			img.SetRGBA(x1, y1, col)
		}

		if x1 == x2 && y1 == y2 {
			break
		}

		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x1 += sx
		}
		if e2 < dx {
			err += dx
			y1 += sy
		}
	}
}
