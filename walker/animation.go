package walker

import "fmt"

// sheetRow is the spritesheet row holding each direction's frames.
func sheetRow(d Direction) int {
	switch d {
	case Down:
		return 0
	case Left:
		return 1
	case Right:
		return 2
	case Up:
		return 3
	}
	panic(fmt.Sprintf("walker: no spritesheet row for %s", d))
}

// CharacterAnimationFrames lays out count frames of direction d, left to
// right, starting in the row for d relative to first.
func CharacterAnimationFrames(sheet int, first Rect, d Direction, count int) []Sprite {
	y := first.Y + first.H*sheetRow(d)
	frames := make([]Sprite, count)
	for i := range frames {
		frames[i] = Sprite{
			Sheet:  sheet,
			Region: Rect{X: first.X + first.W*i, Y: y, W: first.W, H: first.H},
		}
	}
	return frames
}

// NewMovementAnimation builds the four direction sequences for a character
// sheet and checks them against the sheet bounds.
func NewMovementAnimation(sheet int, first Rect, frames int, sheets []SheetBounds) (MovementAnimation, error) {
	var a MovementAnimation
	for _, d := range Directions {
		a.Sequences[d] = CharacterAnimationFrames(sheet, first, d, frames)
	}
	if err := a.Validate(sheets); err != nil {
		return MovementAnimation{}, err
	}
	return a, nil
}

// Validate checks that all sequences are non-empty and equally long, that
// the current frame indexes them, and that every frame lies within its
// sheet.
func (a *MovementAnimation) Validate(sheets []SheetBounds) error {
	n := len(a.Sequences[0])
	if n > 0 && (a.Frame < 0 || a.Frame >= n) {
		return fmt.Errorf("%w: frame %d of %d", ErrFrameOutOfRange, a.Frame, n)
	}
	for _, d := range Directions {
		seq := a.Sequences[d]
		if len(seq) == 0 || len(seq) != n {
			return fmt.Errorf("%w: %s has %d frames, up has %d", ErrSequenceLength, d, len(seq), n)
		}
		for i, s := range seq {
			if err := s.Validate(sheets); err != nil {
				return fmt.Errorf("%s frame %d: %w", d, i, err)
			}
		}
	}
	return nil
}

// Validate checks that the region lies within the sprite's sheet.
func (s Sprite) Validate(sheets []SheetBounds) error {
	if s.Sheet < 0 || s.Sheet >= len(sheets) {
		return fmt.Errorf("%w: index %d of %d", ErrUnknownSheet, s.Sheet, len(sheets))
	}
	if b := sheets[s.Sheet]; !s.Region.Within(b) {
		return fmt.Errorf("%w: %+v in %dx%d sheet %d", ErrRegionOutOfBounds, s.Region, b.Width, b.Height, s.Sheet)
	}
	return nil
}

// AnimationState is the state of the walk animation machine.
type AnimationState struct {
	Walking   bool
	Direction Direction
}

func (s AnimationState) String() string {
	if s.Walking {
		return "walking " + s.Direction.String()
	}
	return "idle " + s.Direction.String()
}

// StateOf derives the animation state from a velocity.
func StateOf(v Velocity) AnimationState {
	return AnimationState{Walking: v.Moving(), Direction: v.Direction}
}
