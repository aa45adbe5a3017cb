// Package hilbert generates Hilbert space-filling paths over square
// power-of-two grids as per-pixel direction maps.
package hilbert

import (
	"errors"
	"math/bits"
)

// Direction is the step taken when leaving a pixel.
type Direction uint8

// Directions stored in a Map. End marks the last pixel of the path.
const (
	None Direction = iota
	Left
	Right
	Up
	Down
	End
)

// String returns a human-readable name for the direction.
func (d Direction) String() string {
	switch d {
	case Left:
		return "LEFT"
	case Right:
		return "RIGHT"
	case Up:
		return "UP"
	case Down:
		return "DOWN"
	case End:
		return "END"
	default:
		return "NONE"
	}
}

// ErrSide is returned for sides that are not a positive power of two.
var ErrSide = errors.New("hilbert: side must be a power of two")

// Map is a side x side grid holding the outgoing direction of each pixel.
// The path starts at (0, 0).
type Map struct {
	Side int
	Dirs []Direction
}

// IsPowerOfTwo reports whether n is a positive power of two.
func IsPowerOfTwo(n int) bool {
	return n > 0 && n&(n-1) == 0
}

// Level returns log2(side).
func Level(side int) int {
	return bits.Len(uint(side)) - 1
}

// turtle walks the grid writing its heading into the map before each step.
type turtle struct {
	m      *Map
	x, y   int
	dx, dy int
}

// rotate turns the heading by +90 (angle > 0) or -90 degrees.
func (t *turtle) rotate(angle int) {
	if angle > 0 {
		t.dx, t.dy = -t.dy, t.dx
	} else {
		t.dx, t.dy = t.dy, -t.dx
	}
}

func (t *turtle) forward() {
	var d Direction
	switch {
	case t.dx > 0:
		d = Right
	case t.dx < 0:
		d = Left
	case t.dy > 0:
		d = Down
	default:
		d = Up
	}
	t.m.Dirs[t.y*t.m.Side+t.x] = d
	t.x += t.dx
	t.y += t.dy
}

// curve emits one Hilbert sub-curve. Negating angle yields the mirrored
// sub-curve, so the usual A/B production pair collapses into one function.
func (t *turtle) curve(angle, level int) {
	if level == 0 {
		return
	}
	t.rotate(angle)
	t.curve(-angle, level-1)
	t.forward()
	t.rotate(-angle)
	t.curve(angle, level-1)
	t.forward()
	t.curve(angle, level-1)
	t.rotate(-angle)
	t.forward()
	t.curve(-angle, level-1)
	t.rotate(angle)
}

// New builds the direction map for a side x side grid.
func New(side int) (*Map, error) {
	if !IsPowerOfTwo(side) {
		return nil, ErrSide
	}
	m := &Map{Side: side, Dirs: make([]Direction, side*side)}
	t := &turtle{m: m, dx: 1}
	t.curve(1, Level(side))
	m.Dirs[t.y*side+t.x] = End
	return m, nil
}

// Path follows the map from (0, 0) and returns the linear pixel indices in
// visiting order. The last element is the End pixel.
func (m *Map) Path() []int {
	path := make([]int, 0, len(m.Dirs))
	x, y := 0, 0
	for range len(m.Dirs) {
		i := y*m.Side + x
		path = append(path, i)
		switch m.Dirs[i] {
		case Left:
			x--
		case Right:
			x++
		case Up:
			y--
		case Down:
			y++
		default:
			return path
		}
	}
	return path
}
