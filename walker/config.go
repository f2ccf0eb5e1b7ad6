package walker

import (
	"errors"
	"fmt"
	"time"
)

const (
	// PlayerMovementSpeed is how far a moving player travels per tick.
	PlayerMovementSpeed = 20
	// DefaultTickRate is the pacing of the reference game loop.
	DefaultTickRate = 20
)

var (
	ErrInvalidConfig     = errors.New("walker: invalid config")
	ErrSequenceLength    = errors.New("walker: animation sequences must be non-empty and of equal length")
	ErrRegionOutOfBounds = errors.New("walker: sprite region outside spritesheet")
	ErrUnknownSheet      = errors.New("walker: unknown spritesheet")
	ErrFrameOutOfRange   = errors.New("walker: animation frame outside its sequence")
	ErrInvalidVelocity   = errors.New("walker: invalid velocity")
)

// SheetBounds is the pixel size of a loaded spritesheet. Sheets are
// addressed by their index in the slice handed to New.
type SheetBounds struct {
	Width, Height int
}

// ReferenceSheet is the size of the bundled character sheet: three 26x36
// frames per row, one row per direction.
var ReferenceSheet = SheetBounds{Width: 78, Height: 144}

type Config struct {
	// Speed is the player speed in units per tick while a key is held.
	Speed int
	// TickRate is the number of ticks per second a Clock should pace.
	TickRate int

	// PlayerSheet is the index of the player's spritesheet.
	PlayerSheet int
	// FirstFrame is the region of the first Down frame; all other frames
	// are laid out from it.
	FirstFrame Rect
	// FramesPerDirection is the length of each direction's sequence.
	FramesPerDirection int

	// DisplayScale multiplies sprite size on screen.
	DisplayScale int
	WindowWidth  int
	WindowHeight int
}

func DefaultConfig() Config {
	return Config{
		Speed:              PlayerMovementSpeed,
		TickRate:           DefaultTickRate,
		PlayerSheet:        0,
		FirstFrame:         Rect{X: 0, Y: 0, W: 26, H: 36},
		FramesPerDirection: 3,
		DisplayScale:       3,
		WindowWidth:        800,
		WindowHeight:       600,
	}
}

func (c Config) Validate() error {
	switch {
	case c.Speed <= 0:
		return fmt.Errorf("%w: speed %d", ErrInvalidConfig, c.Speed)
	case c.TickRate <= 0:
		return fmt.Errorf("%w: tick rate %d", ErrInvalidConfig, c.TickRate)
	case c.FirstFrame.W <= 0 || c.FirstFrame.H <= 0:
		return fmt.Errorf("%w: frame size %dx%d", ErrInvalidConfig, c.FirstFrame.W, c.FirstFrame.H)
	case c.FramesPerDirection <= 0:
		return fmt.Errorf("%w: %d frames per direction", ErrInvalidConfig, c.FramesPerDirection)
	case c.DisplayScale <= 0:
		return fmt.Errorf("%w: display scale %d", ErrInvalidConfig, c.DisplayScale)
	case c.WindowWidth <= 0 || c.WindowHeight <= 0:
		return fmt.Errorf("%w: window %dx%d", ErrInvalidConfig, c.WindowWidth, c.WindowHeight)
	}
	return nil
}

// TickInterval is the wall-clock duration of one tick.
func (c Config) TickInterval() time.Duration {
	return time.Second / time.Duration(c.TickRate)
}
