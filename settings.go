package mandel

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"
)

// DefaultMaxIter is the iteration limit used when none is configured.
const DefaultMaxIter = 300

// Palette holds the three colors of the escape classification.
type Palette struct {
	Interior   color.RGBA // never escapes within the limit
	EscapeEven color.RGBA // escapes on an even iteration
	EscapeOdd  color.RGBA // escapes on an odd iteration
}

// DefaultPalette: odd escapes are green and even escapes pink, so the
// outermost band (iteration 1) is green.
var DefaultPalette = Palette{
	Interior:   color.RGBA{R: 0x00, G: 0x00, B: 0x00, A: 0xff},
	EscapeEven: color.RGBA{R: 0xdd, G: 0x55, B: 0x99, A: 0xff},
	EscapeOdd:  color.RGBA{R: 0x55, G: 0xaa, B: 0x22, A: 0xff},
}

// Color returns the palette entry for class c. ClassUnset has no entry.
func (p Palette) Color(c Class) (color.RGBA, bool) {
	switch c {
	case ClassInterior:
		return p.Interior, true
	case ClassEscapeEven:
		return p.EscapeEven, true
	case ClassEscapeOdd:
		return p.EscapeOdd, true
	}
	return color.RGBA{}, false
}

// Hex returns the colors as #rrggbb strings in interior, even, odd order.
func (p Palette) Hex() [3]string {
	return [3]string{hexColor(p.Interior), hexColor(p.EscapeEven), hexColor(p.EscapeOdd)}
}

// ParsePalette reads exactly three #rrggbb colors in interior, even, odd order.
func ParsePalette(colors []string) (Palette, error) {
	if len(colors) != 3 {
		return Palette{}, fmt.Errorf("palette needs 3 colors, got %d: %w", len(colors), ErrInvalidSettings)
	}
	var cs [3]color.RGBA
	for i, s := range colors {
		c, err := ParseHexColor(s)
		if err != nil {
			return Palette{}, err
		}
		cs[i] = c
	}
	return Palette{Interior: cs[0], EscapeEven: cs[1], EscapeOdd: cs[2]}, nil
}

// ParseHexColor parses "#rrggbb" (the leading # is optional).
func ParseHexColor(s string) (color.RGBA, error) {
	h := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(h) != 6 {
		return color.RGBA{}, fmt.Errorf("color %q: %w", s, ErrInvalidSettings)
	}
	n, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("color %q: %w", s, ErrInvalidSettings)
	}
	return color.RGBA{R: uint8(n >> 16), G: uint8(n >> 8), B: uint8(n), A: 0xff}, nil
}

func hexColor(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// RenderSettings are the user-tunable parameters of a render.
type RenderSettings struct {
	MaxIter int
	Palette Palette

	// Workers is the number of tile workers for parallel renders; 0 means one per CPU.
	Workers int

	// AllowDistortion scales the x axis by the viewport width instead of its height.
	AllowDistortion bool
}

// DefaultSettings returns the settings used on first start and after a settings reset.
func DefaultSettings() RenderSettings {
	return RenderSettings{
		MaxIter: DefaultMaxIter,
		Palette: DefaultPalette,
	}
}

// Validate reports ErrInvalidSettings for a non-positive iteration limit
// or a negative worker count.
func (rs RenderSettings) Validate() error {
	if rs.MaxIter <= 0 {
		return fmt.Errorf("iteration limit %d: %w", rs.MaxIter, ErrInvalidSettings)
	}
	if rs.Workers < 0 {
		return fmt.Errorf("worker count %d: %w", rs.Workers, ErrInvalidSettings)
	}
	return nil
}
