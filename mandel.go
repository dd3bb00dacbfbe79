package mandel

import (
	"errors"
	"fmt"
	"image"
	"sort"
	"strings"
)

var (
	// ErrInvalidGeometry is returned when the canvas cannot be mapped onto the complex plane.
	ErrInvalidGeometry = errors.New("invalid geometry")

	// ErrInvalidSettings is returned for a non-positive iteration limit or a malformed palette.
	ErrInvalidSettings = errors.New("invalid settings")
)

// Viewport is the rectangle of the complex plane mapped onto the canvas.
// (Xmin, Ymin) is the iteration origin of pixel (0, 0); (Xmax, Ymax) only
// contributes to the scale.
type Viewport struct {
	Xmin, Xmax float64
	Ymin, Ymax float64
}

// DefaultViewport shows the whole set.
var DefaultViewport = Viewport{
	Xmin: -2,
	Xmax: 0.5,
	Ymin: -1.25,
	Ymax: 1.25,
}

// Valid reports whether the viewport has positive extent on both axes.
func (v Viewport) Valid() bool {
	return v.Xmax > v.Xmin && v.Ymax > v.Ymin
}

func (v Viewport) String() string {
	return fmt.Sprintf("(%g, %g)-(%g, %g)", v.Xmin, v.Ymin, v.Xmax, v.Ymax)
}

// CanvasSize is the raster size in pixels.
type CanvasSize struct {
	W, H int
}

// Bounds returns the pixel rectangle covered by the canvas.
func (s CanvasSize) Bounds() image.Rectangle {
	return image.Rect(0, 0, s.W, s.H)
}

func (s CanvasSize) validate() error {
	if s.W <= 0 || s.H <= 0 {
		return fmt.Errorf("canvas %dx%d: %w", s.W, s.H, ErrInvalidGeometry)
	}
	return nil
}

func (s CanvasSize) String() string {
	return fmt.Sprintf("%dx%d", s.W, s.H)
}

// Classic regions / landmarks in the Mandelbrot set
var (
	// Seahorse Valley – dense filaments and repeating “seahorse” curls
	SeahorseValley = Viewport{
		Xmin: -0.8,
		Xmax: -0.7,
		Ymin: 0.05,
		Ymax: 0.15,
	}

	// Elephant Valley – large bulb with trunk-like tendrils
	ElephantValley = Viewport{
		Xmin: -1.85,
		Xmax: -1.75,
		Ymin: -0.10,
		Ymax: -0.02,
	}

	// Spiral Minibrot – small Mandelbrot copy with tight spiral arms
	SpiralMinibrot = Viewport{
		Xmin: -0.7435,
		Xmax: -0.7420,
		Ymin: 0.1310,
		Ymax: 0.1325,
	}

	// Triple Spiral – threefold symmetric spiral structure
	TripleSpiral = Viewport{
		Xmin: -0.7480,
		Xmax: -0.7450,
		Ymin: 0.0950,
		Ymax: 0.0980,
	}

	// Valley of the Dragon – deep, highly detailed spiral filaments
	ValleyOfTheDragon = Viewport{
		Xmin: -0.7400,
		Xmax: -0.7350,
		Ymin: 0.1800,
		Ymax: 0.1850,
	}

	// Minibrot in a Mini-Spiral – self-similar Mandelbrot copy inside a spiral arm
	MinibrotInMiniSpiral = Viewport{
		Xmin: -1.7390,
		Xmax: -1.7375,
		Ymin: -0.0235,
		Ymax: -0.0220,
	}
)

var landmarks = map[string]Viewport{
	"default":  DefaultViewport,
	"seahorse": SeahorseValley,
	"elephant": ElephantValley,
	"spiral":   SpiralMinibrot,
	"triple":   TripleSpiral,
	"dragon":   ValleyOfTheDragon,
	"minibrot": MinibrotInMiniSpiral,
}

// Landmark looks up a preset viewport by its short name.
func Landmark(name string) (Viewport, bool) {
	v, ok := landmarks[strings.ToLower(strings.TrimSpace(name))]
	return v, ok
}

// LandmarkNames lists the names accepted by Landmark.
func LandmarkNames() []string {
	names := make([]string, 0, len(landmarks))
	for n := range landmarks {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
