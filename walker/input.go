package walker

import "fmt"

type EventKind uint8

const (
	EventKeyDown EventKind = iota
	EventKeyUp
	EventResize
	EventQuit
)

type Key uint8

const (
	KeyNone Key = iota
	KeyArrowUp
	KeyArrowDown
	KeyArrowLeft
	KeyArrowRight
	KeyEscape
	KeyOther
)

// Direction maps an arrow key to its direction.
func (k Key) Direction() (Direction, bool) {
	switch k {
	case KeyArrowUp:
		return Up, true
	case KeyArrowDown:
		return Down, true
	case KeyArrowLeft:
		return Left, true
	case KeyArrowRight:
		return Right, true
	}
	return 0, false
}

// InputEvent is one raw event from an input source. Repeat marks key-down
// events generated by keyboard auto-repeat. Width and Height are set for
// resize events.
type InputEvent struct {
	Kind   EventKind
	Key    Key
	Repeat bool
	Width  int
	Height int
}

func KeyDown(k Key) InputEvent { return InputEvent{Kind: EventKeyDown, Key: k} }
func KeyUp(k Key) InputEvent   { return InputEvent{Kind: EventKeyUp, Key: k} }

type CommandKind uint8

const (
	CommandStop CommandKind = iota
	CommandMove
)

// MovementCommand is the movement intent of one tick.
type MovementCommand struct {
	Kind      CommandKind
	Direction Direction
}

func Stop() MovementCommand {
	return MovementCommand{Kind: CommandStop}
}

func Move(d Direction) MovementCommand {
	return MovementCommand{Kind: CommandMove, Direction: d}
}

func (c MovementCommand) String() string {
	if c.Kind == CommandMove {
		return "move " + c.Direction.String()
	}
	return "stop"
}

// Translator reduces a tick's input events to at most one MovementCommand.
type Translator struct{}

// Translate returns the command of the last relevant event. A non-repeat
// key-down of an arrow key means Move in that direction; a key-up of any
// arrow key means Stop, whichever other arrows are still held. ok is false
// if no event in the tick was relevant.
func (Translator) Translate(events []InputEvent) (cmd MovementCommand, ok bool) {
	for _, ev := range events {
		if ev.Repeat {
			continue
		}
		d, isArrow := ev.Key.Direction()
		if !isArrow {
			continue
		}
		switch ev.Kind {
		case EventKeyDown:
			cmd, ok = Move(d), true
		case EventKeyUp:
			cmd, ok = Stop(), true
		}
	}
	return cmd, ok
}

// WantsQuit reports whether the events ask the driver to stop.
func WantsQuit(events []InputEvent) bool {
	for _, ev := range events {
		if ev.Kind == EventQuit || (ev.Kind == EventKeyDown && ev.Key == KeyEscape) {
			return true
		}
	}
	return false
}

// LastResize returns the most recent resize event of the tick, if any.
func LastResize(events []InputEvent) (width, height int, ok bool) {
	for _, ev := range events {
		if ev.Kind == EventResize {
			width, height, ok = ev.Width, ev.Height, true
		}
	}
	return width, height, ok
}

// InputSource yields the raw events that arrived since the previous poll.
type InputSource interface {
	Poll() []InputEvent
}

// ScriptedSource replays a fixed list of per-tick events. When the script
// runs out it either starts over (Loop) or reports a quit event.
type ScriptedSource struct {
	Ticks [][]InputEvent
	Loop  bool
	next  int
}

func (s *ScriptedSource) Poll() []InputEvent {
	if s.next >= len(s.Ticks) {
		if !s.Loop || len(s.Ticks) == 0 {
			return []InputEvent{{Kind: EventQuit}}
		}
		s.next = 0
	}
	events := s.Ticks[s.next]
	s.next++
	return events
}

func (e InputEvent) String() string {
	switch e.Kind {
	case EventKeyDown:
		return fmt.Sprintf("keydown(%d,repeat=%t)", e.Key, e.Repeat)
	case EventKeyUp:
		return fmt.Sprintf("keyup(%d)", e.Key)
	case EventResize:
		return fmt.Sprintf("resize(%dx%d)", e.Width, e.Height)
	}
	return "quit"
}
