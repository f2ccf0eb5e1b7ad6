package walker

import (
	"fmt"

	"github.com/plus3/walker/ecs"
)

// NewRegistry registers every walker component type.
func NewRegistry() *ecs.ComponentRegistry {
	registry := ecs.NewComponentRegistry()
	ecs.RegisterComponent[Position](registry)
	ecs.RegisterComponent[Velocity](registry)
	ecs.RegisterComponent[Sprite](registry)
	ecs.RegisterComponent[MovementAnimation](registry)
	ecs.RegisterComponent[KeyboardControlled](registry)
	return registry
}

// PlayerBundle returns the components of a player standing at origin and
// facing right. The animation and sprite are checked against the sheets, so
// a bad layout fails here rather than during a tick.
func PlayerBundle(cfg Config, origin Position, sheets []SheetBounds) ([]any, error) {
	anim, err := NewMovementAnimation(cfg.PlayerSheet, cfg.FirstFrame, cfg.FramesPerDirection, sheets)
	if err != nil {
		return nil, fmt.Errorf("player animation: %w", err)
	}
	return BundleFromAnimation(origin, Right, anim, sheets, true)
}

// BundleFromAnimation validates a prepared animation and returns the
// components of an idle entity using it. keyboard adds the
// KeyboardControlled marker.
func BundleFromAnimation(origin Position, facing Direction, anim MovementAnimation, sheets []SheetBounds, keyboard bool) ([]any, error) {
	anim.Frame = 0
	if err := anim.Validate(sheets); err != nil {
		return nil, err
	}
	if !facing.Valid() {
		return nil, fmt.Errorf("%w: facing %s", ErrInvalidVelocity, facing)
	}
	bundle := []any{
		origin,
		Velocity{Speed: 0, Direction: facing},
		anim.Sequence(facing)[0],
		anim,
	}
	if keyboard {
		bundle = append(bundle, KeyboardControlled{})
	}
	return bundle, nil
}
