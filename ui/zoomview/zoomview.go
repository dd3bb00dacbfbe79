// Package zoomview provides the fyne widget showing rendered frames and
// turning taps into canvas pixel clicks.
package zoomview

import (
	"image"
	"math"

	"fyne.io/fyne/v2"
	fynecanvas "fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	mandel "github.com/marben/mandelzoom"
)

// ZoomView displays frames of a fixed canvas size. Positions are mapped
// back to frame pixels however the widget is stretched.
type ZoomView struct {
	widget.BaseWidget

	size  mandel.CanvasSize
	image *fynecanvas.Image

	// Callbacks
	onTap   func(p image.Point) // Tap at frame pixel
	onHover func(p image.Point) // Cursor moved; (-1, -1) when it left
}

var (
	_ fyne.Tappable     = (*ZoomView)(nil)
	_ desktop.Hoverable = (*ZoomView)(nil)
)

// New creates a view for frames of the given size.
func New(size mandel.CanvasSize) *ZoomView {
	img := fynecanvas.NewImageFromImage(image.NewRGBA(size.Bounds()))
	img.FillMode = fynecanvas.ImageFillStretch
	img.ScaleMode = fynecanvas.ImageScalePixels

	v := &ZoomView{size: size, image: img}
	v.ExtendBaseWidget(v)
	return v
}

// OnTap sets the callback for taps.
func (v *ZoomView) OnTap(fn func(p image.Point)) {
	v.onTap = fn
}

// OnHover sets the callback for cursor moves.
func (v *ZoomView) OnHover(fn func(p image.Point)) {
	v.onHover = fn
}

// SetImage shows img.
func (v *ZoomView) SetImage(img image.Image) {
	v.image.Image = img
	v.image.Refresh()
}

// Image returns the frame currently shown.
func (v *ZoomView) Image() image.Image {
	return v.image.Image
}

func (v *ZoomView) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(v.image)
}

func (v *ZoomView) MinSize() fyne.Size {
	return fyne.NewSize(float32(v.size.W), float32(v.size.H))
}

// Tapped handles left-click events.
func (v *ZoomView) Tapped(ev *fyne.PointEvent) {
	if v.onTap == nil {
		return
	}
	if p, ok := v.pixel(ev.Position); ok {
		v.onTap(p)
	}
}

func (v *ZoomView) MouseIn(ev *desktop.MouseEvent) {
	v.MouseMoved(ev)
}

func (v *ZoomView) MouseMoved(ev *desktop.MouseEvent) {
	if v.onHover == nil {
		return
	}
	if p, ok := v.pixel(ev.Position); ok {
		v.onHover(p)
	}
}

func (v *ZoomView) MouseOut() {
	if v.onHover != nil {
		v.onHover(image.Pt(-1, -1))
	}
}

// pixel converts a widget position to a frame pixel. Positions outside
// the widget are rejected.
func (v *ZoomView) pixel(pos fyne.Position) (image.Point, bool) {
	size := v.Size()
	if size.Width <= 0 || size.Height <= 0 {
		return image.Point{}, false
	}
	if pos.X < 0 || pos.Y < 0 || pos.X >= size.Width || pos.Y >= size.Height {
		return image.Point{}, false
	}
	x := int(math.Floor(float64(pos.X) * float64(v.size.W) / float64(size.Width)))
	y := int(math.Floor(float64(pos.Y) * float64(v.size.H) / float64(size.Height)))
	return image.Pt(x, y), true
}
