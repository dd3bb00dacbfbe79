package mandel

import (
	"fmt"
	"image"
)

// SelectionPhase is the state of the two-click zoom selection.
type SelectionPhase int

const (
	Idle SelectionPhase = iota
	CornerPicked
)

// Selection is the tagged selection state. Corner is only meaningful
// when Phase is CornerPicked.
type Selection struct {
	Phase  SelectionPhase
	Corner image.Point
}

func (s Selection) String() string {
	if s.Phase == CornerPicked {
		return fmt.Sprintf("corner picked at %s", s.Corner)
	}
	return "idle"
}

// Selector drives the selection: the first click picks a corner, the
// second one completes the rectangle and yields the next viewport.
type Selector struct {
	state Selection
}

// State returns the current selection state.
func (s *Selector) State() Selection {
	return s.state
}

// Reset drops any picked corner.
func (s *Selector) Reset() {
	s.state = Selection{}
}

// Click feeds one click at pixel p on the canvas described by m.
// done is true when p completed a selection; next is then the new viewport.
func (s *Selector) Click(p image.Point, m Mapper) (next Viewport, done bool) {
	if s.state.Phase == Idle {
		s.state = Selection{Phase: CornerPicked, Corner: p}
		return Viewport{}, false
	}
	next = m.Selection(s.state.Corner, p)
	s.state = Selection{}
	return next, true
}
