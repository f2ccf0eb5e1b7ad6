// Package walker is a small real-time simulation built on the ecs package:
// keyboard input becomes a per-tick movement command, the command drives a
// player's velocity, and velocity drives position and a directional walk
// animation. Each tick ends with a Snapshot for a Renderer.
package walker

import "fmt"

// Direction is one of the four cardinal directions.
type Direction uint8

const (
	Up Direction = iota
	Down
	Left
	Right
)

// Directions lists every direction in declaration order.
var Directions = [...]Direction{Up, Down, Left, Right}

func (d Direction) String() string {
	switch d {
	case Up:
		return "up"
	case Down:
		return "down"
	case Left:
		return "left"
	case Right:
		return "right"
	}
	return fmt.Sprintf("Direction(%d)", uint8(d))
}

func (d Direction) Valid() bool {
	return d <= Right
}

// Offset returns the displacement of one tick at the given speed.
func (d Direction) Offset(speed int) (dx, dy int) {
	switch d {
	case Left:
		return -speed, 0
	case Right:
		return speed, 0
	case Up:
		return 0, -speed
	case Down:
		return 0, speed
	}
	return 0, 0
}

type Position struct {
	X, Y int
}

func (p Position) Offset(dx, dy int) Position {
	return Position{X: p.X + dx, Y: p.Y + dy}
}

func (p Position) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

// Velocity is a speed in units per tick along a direction. Direction keeps
// its value while Speed is zero so an idle entity still faces the way it
// last moved.
type Velocity struct {
	Speed     int
	Direction Direction
}

func (v Velocity) Moving() bool {
	return v.Speed > 0
}

// Validate rejects a negative speed or an unknown direction.
func (v Velocity) Validate() error {
	if v.Speed < 0 {
		return fmt.Errorf("%w: speed %d", ErrInvalidVelocity, v.Speed)
	}
	if !v.Direction.Valid() {
		return fmt.Errorf("%w: %s", ErrInvalidVelocity, v.Direction)
	}
	return nil
}

// Rect is a pixel region of a spritesheet.
type Rect struct {
	X, Y, W, H int
}

// Within reports whether r lies entirely inside a sheet of the given bounds.
func (r Rect) Within(b SheetBounds) bool {
	return r.X >= 0 && r.Y >= 0 && r.W > 0 && r.H > 0 &&
		r.X+r.W <= b.Width && r.Y+r.H <= b.Height
}

// Sprite selects the region of a spritesheet to draw.
type Sprite struct {
	Sheet  int
	Region Rect
}

// MovementAnimation holds one frame sequence per direction and the index of
// the current frame.
type MovementAnimation struct {
	Frame     int
	Sequences [len(Directions)][]Sprite
}

func (a *MovementAnimation) Sequence(d Direction) []Sprite {
	return a.Sequences[d]
}

// KeyboardControlled marks an entity whose velocity follows keyboard input.
type KeyboardControlled struct{}
