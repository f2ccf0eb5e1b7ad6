package walker

import "github.com/plus3/walker/ecs"

// ApplyCommand updates a velocity for one command. Stop keeps the direction.
func ApplyCommand(v *Velocity, cmd MovementCommand, speed int) {
	switch cmd.Kind {
	case CommandMove:
		v.Speed = speed
		v.Direction = cmd.Direction
	case CommandStop:
		v.Speed = 0
	}
}

// Integrate returns the position after one tick at velocity v.
func Integrate(p Position, v Velocity) Position {
	return p.Offset(v.Direction.Offset(v.Speed))
}

// Animate advances the animation one tick for velocity v and returns the
// sprite to show. A still entity shows frame 0 of the direction it faces; a
// moving one steps to the next frame, wrapping at the sequence length.
func Animate(a *MovementAnimation, v Velocity) Sprite {
	seq := a.Sequence(v.Direction)
	if !v.Moving() {
		a.Frame = 0
	} else {
		n := len(seq)
		a.Frame = ((a.Frame+1)%n + n) % n
	}
	return seq[a.Frame]
}

// VelocitySystem applies the tick's movement command to every keyboard
// controlled entity. The command is handed over with Submit before the
// tick runs and is consumed by Execute; a tick without a submitted command
// leaves velocities alone.
type VelocitySystem struct {
	Entities ecs.Query[struct {
		*Velocity
		*KeyboardControlled `ecs:"read"`
	}]

	Speed   int
	pending *MovementCommand
}

// Submit hands the system the command for the next tick.
func (s *VelocitySystem) Submit(cmd MovementCommand) {
	s.pending = &cmd
}

// Pending returns the command waiting for the next tick, if any.
func (s *VelocitySystem) Pending() (MovementCommand, bool) {
	if s.pending == nil {
		return MovementCommand{}, false
	}
	return *s.pending, true
}

func (s *VelocitySystem) Execute(frame *ecs.UpdateFrame) {
	cmd := s.pending
	s.pending = nil
	if cmd == nil {
		return
	}
	for item := range s.Entities.Values() {
		ApplyCommand(item.Velocity, *cmd, s.Speed)
	}
}

// PhysicsSystem moves every entity by its velocity.
type PhysicsSystem struct {
	Entities ecs.Query[struct {
		*Position
		*Velocity `ecs:"read"`
	}]
}

func (s *PhysicsSystem) Execute(frame *ecs.UpdateFrame) {
	for item := range s.Entities.Values() {
		*item.Position = Integrate(*item.Position, *item.Velocity)
	}
}

// AnimationSystem selects each entity's sprite from its walk animation.
type AnimationSystem struct {
	Entities ecs.Query[struct {
		*Velocity `ecs:"read"`
		*MovementAnimation
		*Sprite
	}]
}

func (s *AnimationSystem) Execute(frame *ecs.UpdateFrame) {
	for item := range s.Entities.Values() {
		*item.Sprite = Animate(item.MovementAnimation, *item.Velocity)
	}
}
