package mandel

import (
	"fmt"
	"image"
	"math"
)

// Mapper converts between pixel coordinates and complex-plane coordinates
// for one viewport on one canvas.
//
// Both axes use the scale derived from the viewport height unless the
// mapper was built with distortion allowed, in which case the x axis is
// scaled by the viewport width instead. The uniform mapping keeps pixels
// square, so the visible x extent follows the canvas aspect ratio rather
// than Xmax.
type Mapper struct {
	Viewport Viewport
	Size     CanvasSize

	fx, fy float64
}

// NewMapper precomputes the per-pixel scale of v on a canvas of size s.
func NewMapper(v Viewport, s CanvasSize, allowDistortion bool) (Mapper, error) {
	fy, err := v.Scale(s)
	if err != nil {
		return Mapper{}, err
	}
	fx := fy
	if allowDistortion {
		if s.W <= 0 {
			return Mapper{}, fmt.Errorf("canvas width %d: %w", s.W, ErrInvalidGeometry)
		}
		fx = math.Abs(v.Xmax-v.Xmin) / float64(s.W)
	}
	return Mapper{Viewport: v, Size: s, fx: fx, fy: fy}, nil
}

// Scale returns the complex-plane distance covered by one pixel:
// |Ymax - Ymin| / H.
func (v Viewport) Scale(s CanvasSize) (float64, error) {
	if s.H <= 0 {
		return 0, fmt.Errorf("canvas height %d: %w", s.H, ErrInvalidGeometry)
	}
	return math.Abs(v.Ymax-v.Ymin) / float64(s.H), nil
}

// Scale returns the horizontal and vertical distance per pixel.
func (m Mapper) Scale() (fx, fy float64) {
	return m.fx, m.fy
}

// At maps pixel (x, y) onto the complex plane.
func (m Mapper) At(x, y int) complex128 {
	return complex(
		m.Viewport.Xmin+float64(x)*m.fx,
		m.Viewport.Ymin+float64(y)*m.fy,
	)
}

// Pixel maps c back to the nearest pixel. It is the inverse of At for
// points that lie on the pixel grid.
func (m Mapper) Pixel(c complex128) image.Point {
	var p image.Point
	if m.fx != 0 {
		p.X = int(math.Round((real(c) - m.Viewport.Xmin) / m.fx))
	}
	if m.fy != 0 {
		p.Y = int(math.Round((imag(c) - m.Viewport.Ymin) / m.fy))
	}
	return p
}

// Selection maps two selected pixel corners through the current viewport.
// The result is not normalized: corner1 becomes (Xmin, Ymin) and corner2
// becomes (Xmax, Ymax).
func (m Mapper) Selection(corner1, corner2 image.Point) Viewport {
	c1 := m.At(corner1.X, corner1.Y)
	c2 := m.At(corner2.X, corner2.Y)
	return Viewport{
		Xmin: real(c1),
		Ymin: imag(c1),
		Xmax: real(c2),
		Ymax: imag(c2),
	}
}

// PixelToComplex maps pixel p onto the complex plane shown by v on a
// canvas of size s, using the uniform height-derived scale.
func PixelToComplex(p image.Point, v Viewport, s CanvasSize) (complex128, error) {
	m, err := NewMapper(v, s, false)
	if err != nil {
		return 0, err
	}
	return m.At(p.X, p.Y), nil
}

// ComplexToPixel is the inverse of PixelToComplex, rounded to the nearest pixel.
func ComplexToPixel(c complex128, v Viewport, s CanvasSize) (image.Point, error) {
	m, err := NewMapper(v, s, false)
	if err != nil {
		return image.Point{}, err
	}
	return m.Pixel(c), nil
}

// RectangleFromSelection derives the next viewport from two pixel corners
// picked on the canvas currently showing v.
func RectangleFromSelection(corner1, corner2 image.Point, v Viewport, s CanvasSize) (Viewport, error) {
	m, err := NewMapper(v, s, false)
	if err != nil {
		return Viewport{}, err
	}
	return m.Selection(corner1, corner2), nil
}
