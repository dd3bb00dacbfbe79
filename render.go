package mandel

import (
	"context"
	"fmt"
	"image"
	"math"
)

// Class is the escape classification of one pixel.
type Class uint8

const (
	// ClassUnset marks pixels that were not run through the escape loop
	// (row 0 and column 0 of every render).
	ClassUnset Class = iota
	ClassInterior
	ClassEscapeEven
	ClassEscapeOdd
)

func (c Class) String() string {
	switch c {
	case ClassInterior:
		return "interior"
	case ClassEscapeEven:
		return "escape-even"
	case ClassEscapeOdd:
		return "escape-odd"
	}
	return "unset"
}

// Classify runs the escape-time loop for c.
//
// The loop runs while iteration <= maxIter and |z| < 2. The escape test
// |z| > 2 is strict and happens right after the update, so the returned
// iteration is the one that pushed z out; its parity picks the class.
// A point whose orbit lands exactly on |z| == 2 leaves the loop without
// escaping and is interior. The norm is the square root of the squared
// magnitude, not the squared magnitude itself, which keeps boundary pixels
// identical to the reference images.
func Classify(c complex128, maxIter int) (Class, int) {
	cr, ci := real(c), imag(c)
	var zr, zi float64
	i := 1
	for ; i <= maxIter && math.Sqrt(zr*zr+zi*zi) < 2; i++ {
		zr, zi = zr*zr-zi*zi+cr, 2*zr*zi+ci
		if math.Sqrt(zr*zr+zi*zi) > 2 {
			if i%2 == 0 {
				return ClassEscapeEven, i
			}
			return ClassEscapeOdd, i
		}
	}
	return ClassInterior, i - 1
}

// Render classifies every pixel of the canvas except row 0 and column 0.
// It is a pure function of its inputs.
func Render(v Viewport, s CanvasSize, rs RenderSettings) (*Raster, error) {
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
	return renderTile(m, s.Bounds(), rs.MaxIter), nil
}

func renderTile(m Mapper, tile image.Rectangle, maxIter int) *Raster {
	r := NewRaster(tile)
	for y := max(tile.Min.Y, 1); y < tile.Max.Y; y++ {
		for x := max(tile.Min.X, 1); x < tile.Max.X; x++ {
			class, it := Classify(m.At(x, y), maxIter)
			r.Set(x, y, class, it)
		}
	}
	return r
}

// LocalRenderer renders tiles on the current process.
type LocalRenderer struct {
	// OnTileRender, if set, is called before each tile is rendered.
	OnTileRender func(tile image.Rectangle)
}

func (lr LocalRenderer) RenderTile(ctx context.Context, m Mapper, tile image.Rectangle, maxIter int) (*Raster, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !tile.In(m.Size.Bounds()) {
		return nil, fmt.Errorf("tile %s outside canvas %s: %w", tile, m.Size, ErrInvalidGeometry)
	}
	if maxIter <= 0 {
		return nil, fmt.Errorf("iteration limit %d: %w", maxIter, ErrInvalidSettings)
	}
	if lr.OnTileRender != nil {
		lr.OnTileRender(tile)
	}
	return renderTile(m, tile, maxIter), nil
}

var _ Renderer = LocalRenderer{}
