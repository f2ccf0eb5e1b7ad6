package walker

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/plus3/walker/ecs"
)

// Renderer draws a tick's snapshot.
type Renderer interface {
	Render(Snapshot) error
}

// RendererFunc adapts a function to Renderer.
type RendererFunc func(Snapshot) error

func (f RendererFunc) Render(s Snapshot) error {
	return f(s)
}

type Options struct {
	// Logger traces command changes and bootstrap. Nil disables logging.
	Logger *log.Logger
	// Parallel runs physics and animation on separate goroutines.
	Parallel bool
	// Register adds component types for extra systems, such as debug
	// panels, before the storage is created.
	Register func(*ecs.ComponentRegistry)
}

// Simulation owns the world and drives its ticks.
type Simulation struct {
	cfg       Config
	sheets    []SheetBounds
	storage   *ecs.Storage
	scheduler *ecs.Scheduler

	translator Translator
	velocity   *VelocitySystem
	physics    *PhysicsSystem
	animation  *AnimationSystem

	player   *ecs.EntityRef
	snapshot *ecs.View[snapshotRow]
	last     Snapshot
	logger   *log.Logger
}

// New builds the world and spawns the player at the origin.
func New(cfg Config, sheets []SheetBounds, opts Options) (*Simulation, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	bundle, err := PlayerBundle(cfg, Position{}, sheets)
	if err != nil {
		return nil, err
	}

	registry := NewRegistry()
	if opts.Register != nil {
		opts.Register(registry)
	}
	storage := ecs.NewStorage(registry)
	var schedOpts []ecs.SchedulerOption
	if opts.Parallel {
		schedOpts = append(schedOpts, ecs.WithParallelStages())
	}

	s := &Simulation{
		cfg:       cfg,
		sheets:    sheets,
		storage:   storage,
		scheduler: ecs.NewScheduler(storage, schedOpts...),
		velocity:  &VelocitySystem{Speed: cfg.Speed},
		physics:   &PhysicsSystem{},
		animation: &AnimationSystem{},
		snapshot:  ecs.NewView[snapshotRow](storage),
		logger:    opts.Logger,
	}
	s.scheduler.Register(s.velocity)
	s.scheduler.Register(s.physics, ecs.After(s.velocity))
	s.scheduler.Register(s.animation, ecs.After(s.velocity))

	id := storage.Spawn(bundle...)
	s.player = storage.CreateEntityRef(id)
	s.last = Snapshot{Entries: collectSnapshot(s.snapshot, storage, 1)}
	s.logf("spawned player %s at %s, stages %v", id, Position{}, s.scheduler.Stages())
	return s, nil
}

func (s *Simulation) logf(format string, args ...any) {
	if s.logger != nil {
		s.logger.Printf(format, args...)
	}
}

func (s *Simulation) Config() Config { return s.cfg }
func (s *Simulation) Sheets() []SheetBounds { return s.sheets }
func (s *Simulation) Storage() *ecs.Storage { return s.storage }
func (s *Simulation) Scheduler() *ecs.Scheduler { return s.scheduler }
func (s *Simulation) PlayerRef() *ecs.EntityRef { return s.player }
func (s *Simulation) Velocity() *VelocitySystem { return s.velocity }
func (s *Simulation) Physics() *PhysicsSystem { return s.physics }
func (s *Simulation) Animation() *AnimationSystem { return s.animation }

// Player returns the current id of the player entity.
func (s *Simulation) Player() ecs.EntityId {
	id, _ := s.storage.ResolveEntityRef(s.player)
	return id
}

// Spawn adds an entity between ticks after checking its components with
// ValidateComponent. Use frame.Commands from inside a system instead.
func (s *Simulation) Spawn(components ...any) (ecs.EntityId, error) {
	for _, c := range components {
		if err := s.ValidateComponent(c); err != nil {
			return 0, fmt.Errorf("spawn %T: %w", c, err)
		}
	}
	return s.storage.Spawn(components...), nil
}

// ValidateComponent checks a walker component, given by value or pointer,
// against the simulation's sheets. Other types are accepted as they are.
func (s *Simulation) ValidateComponent(c any) error {
	switch c := c.(type) {
	case Velocity:
		return c.Validate()
	case *Velocity:
		return c.Validate()
	case Sprite:
		return c.Validate(s.sheets)
	case *Sprite:
		return c.Validate(s.sheets)
	case MovementAnimation:
		return c.Validate(s.sheets)
	case *MovementAnimation:
		return c.Validate(s.sheets)
	}
	return nil
}

// Tick runs one simulation step: translate the events, run the stages,
// commit structural changes, and return the resulting snapshot.
func (s *Simulation) Tick(events []InputEvent) Snapshot {
	cmd, ok := s.translator.Translate(events)
	if ok {
		s.velocity.Submit(cmd)
		s.logf("tick %d: %s", s.scheduler.Ticks()+1, cmd)
	}

	s.scheduler.Once(1 / float64(s.cfg.TickRate))

	s.last = Snapshot{
		Tick:      s.scheduler.Ticks(),
		Command:   cmd,
		Commanded: ok,
		Entries:   collectSnapshot(s.snapshot, s.storage, len(s.last.Entries)),
	}
	return s.last
}

// Snapshot returns the snapshot of the last tick.
func (s *Simulation) Snapshot() Snapshot {
	return s.last
}

// Run loops poll, tick, render, wait until the source asks to quit, the
// context is cancelled, or rendering fails.
func (s *Simulation) Run(ctx context.Context, source InputSource, renderer Renderer, clock Clock) error {
	for {
		if ctx.Err() != nil {
			return nil
		}

		events := source.Poll()
		if WantsQuit(events) {
			s.logf("quit requested after tick %d", s.scheduler.Ticks())
			return nil
		}

		snap := s.Tick(events)
		if err := renderer.Render(snap); err != nil {
			return fmt.Errorf("render tick %d: %w", snap.Tick, err)
		}

		if err := clock.Wait(ctx); err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil
			}
			return err
		}
	}
}
