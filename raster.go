package mandel

import (
	"image"
	"image/color"
	"image/draw"
	"slices"
)

// Raster is a grid of classified pixels. Like image.RGBA it carries its
// own rectangle, so a tile raster keeps global canvas coordinates.
type Raster struct {
	Rect  image.Rectangle
	Class []Class
	Iter  []int32 // iteration at which the loop stopped
}

// NewRaster returns an all-unset raster covering r.
func NewRaster(r image.Rectangle) *Raster {
	n := r.Dx() * r.Dy()
	return &Raster{
		Rect:  r,
		Class: make([]Class, n),
		Iter:  make([]int32, n),
	}
}

func (r *Raster) Bounds() image.Rectangle {
	return r.Rect
}

func (r *Raster) offset(x, y int) int {
	return (y-r.Rect.Min.Y)*r.Rect.Dx() + (x - r.Rect.Min.X)
}

// At returns the class of pixel (x, y), or ClassUnset outside the raster.
func (r *Raster) At(x, y int) Class {
	if !(image.Point{X: x, Y: y}).In(r.Rect) {
		return ClassUnset
	}
	return r.Class[r.offset(x, y)]
}

// Iterations returns the iteration count recorded for pixel (x, y).
func (r *Raster) Iterations(x, y int) int {
	if !(image.Point{X: x, Y: y}).In(r.Rect) {
		return 0
	}
	return int(r.Iter[r.offset(x, y)])
}

func (r *Raster) Set(x, y int, c Class, iter int) {
	if !(image.Point{X: x, Y: y}).In(r.Rect) {
		return
	}
	i := r.offset(x, y)
	r.Class[i] = c
	r.Iter[i] = int32(iter)
}

// Draw copies the part of src that overlaps r.
func (r *Raster) Draw(src *Raster) {
	rect := r.Rect.Intersect(src.Rect)
	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		so := src.offset(rect.Min.X, y)
		do := r.offset(rect.Min.X, y)
		copy(r.Class[do:do+rect.Dx()], src.Class[so:so+rect.Dx()])
		copy(r.Iter[do:do+rect.Dx()], src.Iter[so:so+rect.Dx()])
	}
}

// Equal reports whether both rasters cover the same rectangle with identical contents.
func (r *Raster) Equal(o *Raster) bool {
	if r == nil || o == nil {
		return r == o
	}
	return r.Rect == o.Rect && slices.Equal(r.Class, o.Class) && slices.Equal(r.Iter, o.Iter)
}

// Paint sets every classified pixel of dst to its palette color.
// Unset pixels are left untouched.
func (r *Raster) Paint(dst draw.Image, p Palette) {
	for y := r.Rect.Min.Y; y < r.Rect.Max.Y; y++ {
		for x := r.Rect.Min.X; x < r.Rect.Max.X; x++ {
			if col, ok := p.Color(r.Class[r.offset(x, y)]); ok {
				dst.Set(x, y, col)
			}
		}
	}
}

// Image paints the raster over a background-filled RGBA image.
func (r *Raster) Image(p Palette, background color.Color) *image.RGBA {
	img := image.NewRGBA(r.Rect)
	draw.Draw(img, img.Bounds(), image.NewUniform(background), image.Point{}, draw.Src)
	r.Paint(img, p)
	return img
}
