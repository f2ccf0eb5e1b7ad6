package main

import (
	"github.com/gdamore/tcell/v2"
	"github.com/plus3/walker/walker"
)

// releaseEmulator turns terminal key presses into key-down and key-up
// events. Terminals report no releases, so the held arrow is released by
// pressing the opposite arrow, Space or any other non-arrow key, and a
// second press of the held arrow counts as auto-repeat.
type releaseEmulator struct {
	held walker.Key
}

func (r *releaseEmulator) Press(k walker.Key) []walker.InputEvent {
	d, isArrow := k.Direction()
	if !isArrow {
		var events []walker.InputEvent
		if r.held != walker.KeyNone {
			events = append(events, walker.KeyUp(r.held))
			r.held = walker.KeyNone
		}
		return append(events, walker.KeyDown(k))
	}

	switch {
	case k == r.held:
		return []walker.InputEvent{{Kind: walker.EventKeyDown, Key: k, Repeat: true}}
	case r.held != walker.KeyNone && opposite(r.held, d):
		up := walker.KeyUp(r.held)
		r.held = walker.KeyNone
		return []walker.InputEvent{up}
	}
	r.held = k
	return []walker.InputEvent{walker.KeyDown(k)}
}

func opposite(held walker.Key, d walker.Direction) bool {
	hd, _ := held.Direction()
	hx, hy := hd.Offset(1)
	dx, dy := d.Offset(1)
	return hx == -dx && hy == -dy
}

var arrowKeys = map[tcell.Key]walker.Key{
	tcell.KeyUp:    walker.KeyArrowUp,
	tcell.KeyDown:  walker.KeyArrowDown,
	tcell.KeyLeft:  walker.KeyArrowLeft,
	tcell.KeyRight: walker.KeyArrowRight,
}

// terminalSource polls a tcell screen from a goroutine and hands the events
// to Poll without blocking.
type terminalSource struct {
	events   chan tcell.Event
	emulator releaseEmulator
}

func newTerminalSource(screen tcell.Screen) *terminalSource {
	s := &terminalSource{events: make(chan tcell.Event, 100)}
	go func() {
		for {
			ev := screen.PollEvent()
			if ev == nil {
				close(s.events)
				return
			}
			s.events <- ev
		}
	}()
	return s
}

func (s *terminalSource) Poll() []walker.InputEvent {
	var out []walker.InputEvent
	for {
		select {
		case ev, ok := <-s.events:
			if !ok {
				return append(out, walker.InputEvent{Kind: walker.EventQuit})
			}
			out = append(out, s.translate(ev)...)
		default:
			return out
		}
	}
}

func (s *terminalSource) translate(ev tcell.Event) []walker.InputEvent {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch ev.Key() {
		case tcell.KeyCtrlC:
			return []walker.InputEvent{{Kind: walker.EventQuit}}
		case tcell.KeyEscape:
			return []walker.InputEvent{walker.KeyDown(walker.KeyEscape)}
		case tcell.KeyRune:
			if ev.Rune() == 'q' {
				return []walker.InputEvent{{Kind: walker.EventQuit}}
			}
		}
		if k, ok := arrowKeys[ev.Key()]; ok {
			return s.emulator.Press(k)
		}
		return s.emulator.Press(walker.KeyOther)
	case *tcell.EventResize:
		w, h := ev.Size()
		return []walker.InputEvent{{Kind: walker.EventResize, Width: w, Height: h}}
	}
	return nil
}
