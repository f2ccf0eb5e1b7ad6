package main

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/plus3/walker/walker"
)

var keyMap = map[ebiten.Key]walker.Key{
	ebiten.KeyArrowUp:    walker.KeyArrowUp,
	ebiten.KeyArrowDown:  walker.KeyArrowDown,
	ebiten.KeyArrowLeft:  walker.KeyArrowLeft,
	ebiten.KeyArrowRight: walker.KeyArrowRight,
	ebiten.KeyEscape:     walker.KeyEscape,
}

func translateKey(k ebiten.Key) walker.Key {
	if key, ok := keyMap[k]; ok {
		return key
	}
	return walker.KeyOther
}

// keyboardSource reports the key edges ebiten saw since the last update.
// Releases come before presses so that switching arrows within one update
// ends in a move.
type keyboardSource struct {
	keys    []ebiten.Key
	pending []walker.InputEvent
	width   int
	height  int
	muted   bool
}

// Resize queues a resize event when the window size changed.
func (s *keyboardSource) Resize(width, height int) {
	if width == s.width && height == s.height {
		return
	}
	s.width, s.height = width, height
	s.pending = append(s.pending, walker.InputEvent{Kind: walker.EventResize, Width: width, Height: height})
}

// Mute drops key events while another consumer, such as the debug overlay,
// owns the keyboard. Escape still quits.
func (s *keyboardSource) Mute(muted bool) {
	s.muted = muted
}

func (s *keyboardSource) Poll() []walker.InputEvent {
	events := s.pending
	s.pending = nil

	s.keys = inpututil.AppendJustReleasedKeys(s.keys[:0])
	for _, k := range s.keys {
		if key := translateKey(k); !s.muted || key == walker.KeyEscape {
			events = append(events, walker.KeyUp(key))
		}
	}
	s.keys = inpututil.AppendJustPressedKeys(s.keys[:0])
	for _, k := range s.keys {
		if key := translateKey(k); !s.muted || key == walker.KeyEscape {
			events = append(events, walker.KeyDown(key))
		}
	}
	return events
}
