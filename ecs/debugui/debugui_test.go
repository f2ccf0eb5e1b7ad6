package debugui_test

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/plus3/walker/ecs"
	"github.com/plus3/walker/ecs/debugui"
	"github.com/plus3/walker/walker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type Position struct {
	X, Y int
}

type Body struct {
	Pos    Position
	Solid  bool
	Mass   uint8
	Label  string
	Frames []int
	hidden int
}

func newStorage() *ecs.Storage {
	registry := ecs.NewComponentRegistry()
	ecs.RegisterComponent[Position](registry)
	ecs.RegisterComponent[Body](registry)
	debugui.RegisterComponents(registry)
	return ecs.NewStorage(registry)
}

func TestCollectEntityRows(t *testing.T) {
	storage := newStorage()
	a := storage.Spawn(Position{X: 1})
	b := storage.Spawn(Position{X: 2}, Body{Label: "crate"})
	c := storage.Spawn(Position{X: 3})

	rows := debugui.CollectEntityRows(storage)
	require.Len(t, rows, 3)
	assert.Equal(t, []ecs.EntityId{a, c, b}, []ecs.EntityId{rows[0].ID, rows[1].ID, rows[2].ID})
	assert.Equal(t, []string{"debugui_test.Position"}, rows[0].Components)
	assert.Equal(t, b.ArchetypeId(), rows[2].Archetype)
	assert.Len(t, rows[2].Components, 2)
}

func TestFilterRows(t *testing.T) {
	storage := newStorage()
	storage.Spawn(Position{})
	body := storage.Spawn(Body{})
	rows := debugui.CollectEntityRows(storage)

	assert.Equal(t, rows, debugui.FilterRows(rows, ""))

	filtered := debugui.FilterRows(rows, "BODY")
	require.Len(t, filtered, 1)
	assert.Equal(t, body, filtered[0].ID)

	filtered = debugui.FilterRows(rows, body.String())
	require.Len(t, filtered, 1)
	assert.Equal(t, body, filtered[0].ID)

	assert.Empty(t, debugui.FilterRows(rows, "nothing"))
}

func TestInspect(t *testing.T) {
	storage := newStorage()
	id := storage.Spawn(Body{Pos: Position{X: 4, Y: -2}, Solid: true, Mass: 9, Label: "crate", Frames: []int{1, 2}})

	views := debugui.Inspect(storage, id)
	require.Len(t, views, 1)
	assert.Equal(t, reflect.TypeFor[Body](), views[0].Type)

	byName := map[string]debugui.FieldValue{}
	for _, f := range views[0].Fields {
		byName[f.Name] = f
	}
	require.Len(t, byName, 6)
	assert.NotContains(t, byName, "hidden")

	assert.Equal(t, int64(4), byName["Pos.X"].Number)
	assert.Equal(t, []int{0, 0}, byName["Pos.X"].Path)
	assert.Equal(t, int64(-2), byName["Pos.Y"].Number)
	assert.Equal(t, int64(1), byName["Solid"].Number)
	assert.Equal(t, "true", byName["Solid"].Text)
	assert.Equal(t, int64(9), byName["Mass"].Number)
	assert.True(t, byName["Mass"].Editable)
	assert.Equal(t, "crate", byName["Label"].Text)
	assert.False(t, byName["Label"].Editable)
	assert.Equal(t, "[2 items]", byName["Frames"].Text)

	storage.Delete(id)
	assert.Nil(t, debugui.Inspect(storage, id))
}

func TestSetField(t *testing.T) {
	storage := newStorage()
	id := storage.Spawn(Body{Mass: 1})
	bodyType := reflect.TypeFor[Body]()

	assert.True(t, debugui.SetField(storage, id, bodyType, []int{0, 1}, 12))
	assert.True(t, debugui.SetField(storage, id, bodyType, []int{1}, 1))
	assert.True(t, debugui.SetField(storage, id, bodyType, []int{2}, 200))

	body := ecs.ReadComponent[Body](storage, id)
	assert.Equal(t, 12, body.Pos.Y)
	assert.True(t, body.Solid)
	assert.Equal(t, uint8(200), body.Mass)

	t.Run("rejected", func(t *testing.T) {
		assert.False(t, debugui.SetField(storage, id, bodyType, []int{2}, 300), "overflow")
		assert.False(t, debugui.SetField(storage, id, bodyType, []int{2}, -1), "negative uint")
		assert.False(t, debugui.SetField(storage, id, bodyType, []int{3}, 1), "string field")
		assert.False(t, debugui.SetField(storage, id, bodyType, []int{5}, 1), "unexported field")
		assert.False(t, debugui.SetField(storage, id, bodyType, []int{9}, 1), "no such field")
		assert.False(t, debugui.SetField(storage, id, bodyType, nil, 1), "empty path")
		assert.False(t, debugui.SetField(storage, id, reflect.TypeFor[Position](), []int{0}, 1), "missing component")
	})
	assert.Equal(t, uint8(200), body.Mass)
}

type Gauge struct {
	Level int
	Max   int
}

var errGauge = errors.New("level above max")

func (g Gauge) Validate() error {
	if g.Level > g.Max {
		return errGauge
	}
	return nil
}

func TestSetFieldValidates(t *testing.T) {
	registry := ecs.NewComponentRegistry()
	ecs.RegisterComponent[Gauge](registry)
	ecs.RegisterComponent[Position](registry)
	storage := ecs.NewStorage(registry)
	gaugeType := reflect.TypeFor[Gauge]()

	id := storage.Spawn(Gauge{Level: 1, Max: 5}, Position{})
	assert.True(t, debugui.SetField(storage, id, gaugeType, []int{0}, 5))
	assert.False(t, debugui.SetField(storage, id, gaugeType, []int{0}, 6))
	assert.False(t, debugui.SetField(storage, id, gaugeType, []int{1}, 4))
	assert.Equal(t, Gauge{Level: 5, Max: 5}, *ecs.ReadComponent[Gauge](storage, id))

	t.Run("singleton", func(t *testing.T) {
		var seen []any
		ecs.NewSingleton(storage, debugui.EditValidator{Validate: func(c any) error {
			seen = append(seen, c)
			if p, ok := c.(*Position); ok && p.X < 0 {
				return errors.New("negative x")
			}
			return nil
		}})

		posType := reflect.TypeFor[Position]()
		assert.False(t, debugui.SetField(storage, id, posType, []int{0}, -3))
		assert.True(t, debugui.SetField(storage, id, posType, []int{0}, 3))
		assert.Equal(t, Position{X: 3}, *ecs.ReadComponent[Position](storage, id))
		require.Len(t, seen, 2)
		assert.Equal(t, &Position{X: -3}, seen[0])
	})
}

func TestSetFieldKeepsWalkerComponentsValid(t *testing.T) {
	sim, err := walker.New(walker.DefaultConfig(), []walker.SheetBounds{walker.ReferenceSheet}, walker.Options{})
	require.NoError(t, err)
	storage := sim.Storage()
	ecs.NewSingleton(storage, debugui.EditValidator{Validate: sim.ValidateComponent})

	sim.Tick([]walker.InputEvent{walker.KeyDown(walker.KeyArrowLeft)})
	id := sim.Player()
	velocityType := reflect.TypeFor[walker.Velocity]()
	animationType := reflect.TypeFor[walker.MovementAnimation]()
	spriteType := reflect.TypeFor[walker.Sprite]()

	assert.False(t, debugui.SetField(storage, id, velocityType, []int{1}, 9), "direction")
	assert.False(t, debugui.SetField(storage, id, velocityType, []int{0}, -20), "speed")
	assert.False(t, debugui.SetField(storage, id, animationType, []int{0}, -5), "frame")
	assert.False(t, debugui.SetField(storage, id, spriteType, []int{1, 0}, 70), "region")
	assert.True(t, debugui.SetField(storage, id, velocityType, []int{0}, 5))

	var snap walker.Snapshot
	require.NotPanics(t, func() { snap = sim.Tick(nil) })
	assert.Equal(t, walker.Velocity{Speed: 5, Direction: walker.Left}, *ecs.ReadComponent[walker.Velocity](storage, id))
	entry, ok := snap.Find(id)
	require.True(t, ok)
	assert.Equal(t, walker.Position{X: -25}, entry.Position)
}

func TestSelectionFollowsEntity(t *testing.T) {
	storage := newStorage()
	selection := &debugui.Selection{}
	_, ok := selection.Resolve(storage)
	assert.False(t, ok)

	storage.Spawn(Position{X: 1})
	id := storage.Spawn(Position{X: 2})
	selection.Select(storage, id)

	moved := storage.AddComponent(id, Body{Label: "crate"})
	require.NotEqual(t, id, moved)
	got, ok := selection.Resolve(storage)
	require.True(t, ok)
	assert.Equal(t, moved, got)
	assert.Equal(t, Position{X: 2}, *ecs.ReadComponent[Position](storage, got))
	assert.Len(t, debugui.Inspect(storage, got), 2)

	storage.Delete(moved)
	storage.Compact()
	_, ok = selection.Resolve(storage)
	assert.False(t, ok)
}

func TestFrameHistory(t *testing.T) {
	h := debugui.NewFrameHistory(3)
	assert.Empty(t, h.Samples())
	assert.Zero(t, h.Average())

	h.Push(10 * time.Millisecond)
	h.Push(20 * time.Millisecond)
	assert.Equal(t, []float32{10, 20}, h.Samples())
	assert.InDelta(t, 15, h.Average(), 0.001)

	h.Push(30 * time.Millisecond)
	h.Push(40 * time.Millisecond)
	assert.Equal(t, []float32{20, 30, 40}, h.Samples())
	assert.InDelta(t, 30, h.Average(), 0.001)
}

func TestSpawnPanels(t *testing.T) {
	storage := newStorage()
	scheduler := ecs.NewScheduler(storage)
	debugui.SpawnPanels(storage, scheduler)

	var selection *debugui.Selection
	assert.True(t, storage.ReadSingleton(&selection))
	var input *debugui.ImguiInputState
	assert.True(t, storage.ReadSingleton(&input))

	items := ecs.NewQuery[struct{ *debugui.ImguiItem }](storage)
	items.Execute()
	assert.Equal(t, 3, items.Len())
}

func TestReflectionCache(t *testing.T) {
	type linked struct {
		Next  *Position
		Count int
		name  string
	}
	var rc debugui.ReflectionCache

	fields := rc.Fields(reflect.TypeFor[linked]())
	require.Len(t, fields, 2)
	assert.Equal(t, "Next", fields[0].Name)
	assert.True(t, fields[0].IsPointer)
	assert.Equal(t, reflect.Struct, fields[0].Kind())
	assert.Equal(t, 1, fields[1].Index)
	assert.Equal(t, reflect.Int, fields[1].Kind())

	assert.Equal(t, fields, rc.Fields(reflect.TypeFor[linked]()))
	assert.Nil(t, rc.Fields(reflect.TypeFor[int]()))
}
