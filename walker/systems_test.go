package walker_test

import (
	"testing"

	"github.com/plus3/walker/ecs"
	"github.com/plus3/walker/walker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyCommand(t *testing.T) {
	v := walker.Velocity{Direction: walker.Right}

	walker.ApplyCommand(&v, walker.Move(walker.Up), 20)
	assert.Equal(t, walker.Velocity{Speed: 20, Direction: walker.Up}, v)

	walker.ApplyCommand(&v, walker.Stop(), 20)
	assert.Equal(t, walker.Velocity{Speed: 0, Direction: walker.Up}, v)

	walker.ApplyCommand(&v, walker.Stop(), 20)
	assert.Equal(t, walker.Velocity{Speed: 0, Direction: walker.Up}, v)
}

type world struct {
	storage   *ecs.Storage
	scheduler *ecs.Scheduler
	velocity  *walker.VelocitySystem
}

func newWorld() *world {
	storage := ecs.NewStorage(walker.NewRegistry())
	w := &world{
		storage:   storage,
		scheduler: ecs.NewScheduler(storage),
		velocity:  &walker.VelocitySystem{Speed: walker.PlayerMovementSpeed},
	}
	w.scheduler.Register(w.velocity)
	w.scheduler.Register(&walker.PhysicsSystem{}, ecs.After(w.velocity))
	w.scheduler.Register(&walker.AnimationSystem{}, ecs.After(w.velocity))
	return w
}

func TestVelocitySystemConsumesCommand(t *testing.T) {
	w := newWorld()
	id := w.storage.Spawn(walker.Velocity{Direction: walker.Right}, walker.KeyboardControlled{})

	w.velocity.Submit(walker.Move(walker.Down))
	cmd, ok := w.velocity.Pending()
	require.True(t, ok)
	assert.Equal(t, walker.Move(walker.Down), cmd)

	w.scheduler.Once(0.05)
	_, ok = w.velocity.Pending()
	assert.False(t, ok)
	assert.Equal(t, walker.Velocity{Speed: 20, Direction: walker.Down}, *ecs.ReadComponent[walker.Velocity](w.storage, id))

	w.scheduler.Once(0.05)
	assert.Equal(t, walker.Velocity{Speed: 20, Direction: walker.Down}, *ecs.ReadComponent[walker.Velocity](w.storage, id))
}

func TestSystemsJoinMixedPopulation(t *testing.T) {
	w := newWorld()
	anim := newTestAnimation(t)

	player := w.storage.Spawn(
		walker.Position{}, walker.Velocity{Direction: walker.Right},
		anim.Sequence(walker.Right)[0], anim, walker.KeyboardControlled{},
	)
	// moves but has no animation
	drifter := w.storage.Spawn(walker.Position{X: 100}, walker.Velocity{Speed: 5, Direction: walker.Up})
	// animated but not controlled and without a position
	puppet := w.storage.Spawn(walker.Velocity{Speed: 1, Direction: walker.Left}, anim.Sequence(walker.Left)[0], anim)
	// static scenery
	rock := w.storage.Spawn(walker.Position{X: 7, Y: 7}, anim.Sequence(walker.Down)[0])
	// controlled but missing a velocity
	ghost := w.storage.Spawn(walker.Position{}, walker.KeyboardControlled{})

	w.velocity.Submit(walker.Move(walker.Left))
	w.scheduler.Once(0.05)

	read := func(id ecs.EntityId) (*walker.Position, *walker.Velocity, *walker.MovementAnimation) {
		return ecs.ReadComponent[walker.Position](w.storage, id),
			ecs.ReadComponent[walker.Velocity](w.storage, id),
			ecs.ReadComponent[walker.MovementAnimation](w.storage, id)
	}

	pos, vel, a := read(player)
	assert.Equal(t, walker.Position{X: -20}, *pos)
	assert.Equal(t, walker.Velocity{Speed: 20, Direction: walker.Left}, *vel)
	assert.Equal(t, 1, a.Frame)

	pos, vel, a = read(drifter)
	assert.Equal(t, walker.Position{X: 100, Y: -5}, *pos)
	assert.Equal(t, walker.Velocity{Speed: 5, Direction: walker.Up}, *vel)
	assert.Nil(t, a)

	pos, vel, a = read(puppet)
	assert.Nil(t, pos)
	assert.Equal(t, walker.Velocity{Speed: 1, Direction: walker.Left}, *vel)
	assert.Equal(t, 1, a.Frame)
	assert.Equal(t, anim.Sequence(walker.Left)[1], *ecs.ReadComponent[walker.Sprite](w.storage, puppet))

	pos, _, _ = read(rock)
	assert.Equal(t, walker.Position{X: 7, Y: 7}, *pos)
	assert.Equal(t, anim.Sequence(walker.Down)[0], *ecs.ReadComponent[walker.Sprite](w.storage, rock))

	assert.Equal(t, walker.Position{}, *ecs.ReadComponent[walker.Position](w.storage, ghost))
}

func TestStageLayout(t *testing.T) {
	w := newWorld()
	assert.Equal(t, [][]string{
		{"VelocitySystem"},
		{"PhysicsSystem", "AnimationSystem"},
	}, w.scheduler.Stages())

	assert.ElementsMatch(t, []ecs.Access{
		ecs.Write[walker.Velocity](),
		ecs.Read[walker.KeyboardControlled](),
	}, w.scheduler.Access(w.velocity))
}
