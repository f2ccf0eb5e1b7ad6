package ecs_test

import (
	"fmt"
	"reflect"
	"runtime"
	"testing"

	"github.com/plus3/walker/ecs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEntityIdEncoding(t *testing.T) {
	tests := []struct {
		archetypeId uint32
		index       uint32
	}{
		{0, 0},
		{0xFFFFFFFF, 0xFFFFFFFF},
		{1, 0},
		{0, 1},
		{0x12345678, 0x9ABCDEF0},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("archetype=%d,index=%d", tt.archetypeId, tt.index), func(t *testing.T) {
			id := ecs.NewEntityId(tt.archetypeId, tt.index)
			assert.Equal(t, tt.archetypeId, id.ArchetypeId())
			assert.Equal(t, tt.index, id.Index())
		})
	}
}

func TestSpawnAndGetComponent(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())

	id := storage.Spawn(&Position{X: 3, Y: 4}, Name{Value: "walker"})
	require.True(t, storage.Alive(id))

	pos := ecs.ReadComponent[Position](storage, id)
	require.NotNil(t, pos)
	assert.Equal(t, Position{X: 3, Y: 4}, *pos)

	name := ecs.ReadComponent[Name](storage, id)
	require.NotNil(t, name)
	assert.Equal(t, "walker", name.Value)

	assert.Nil(t, ecs.ReadComponent[Velocity](storage, id))
	assert.False(t, storage.HasComponent(id, reflect.TypeFor[Velocity]()))
}

func TestSpawnUnregisteredComponentPanics(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	assert.PanicsWithValue(t, "component type ecs_test.Unregistered not registered", func() {
		storage.Spawn(Position{}, Unregistered{})
	})
}

func TestSpawnWithoutComponentsPanics(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	assert.Panics(t, func() { storage.Spawn() })
}

func TestDeleteEntity(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())

	id := storage.Spawn(Position{X: 1, Y: 1}, Health{Current: 10, Max: 10})
	storage.Delete(id)

	assert.False(t, storage.Alive(id))
	assert.Nil(t, ecs.ReadComponent[Position](storage, id))
	assert.False(t, storage.HasComponent(id, reflect.TypeFor[Position]()))
}

func TestSameArchetypeDistinctSlots(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())

	a := storage.Spawn(Position{X: 1}, Velocity{DX: 1})
	b := storage.Spawn(Position{X: 2}, Velocity{DX: 2})

	assert.Equal(t, a.ArchetypeId(), b.ArchetypeId())
	assert.NotEqual(t, a.Index(), b.Index())
	assert.Equal(t, 2, ecs.ReadComponent[Position](storage, b).X)
}

func TestDeletedSlotIsReused(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())

	a := storage.Spawn(Position{X: 1})
	storage.Spawn(Position{X: 2})
	storage.Delete(a)
	c := storage.Spawn(Position{X: 3})

	assert.Equal(t, a, c)
	assert.Equal(t, 3, ecs.ReadComponent[Position](storage, c).X)
}

func TestComponentPointersSurviveGrowth(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())

	first := storage.Spawn(Position{X: 7})
	pos := ecs.ReadComponent[Position](storage, first)

	for i := 0; i < 500; i++ {
		storage.Spawn(Position{X: i})
	}

	pos.X = 42
	assert.Equal(t, 42, ecs.ReadComponent[Position](storage, first).X)
}

func TestAddAndRemoveComponent(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())

	id := storage.Spawn(Position{X: 5, Y: 6})
	moved := storage.AddComponent(id, Velocity{DX: 1, DY: 2})

	assert.NotEqual(t, id.ArchetypeId(), moved.ArchetypeId())
	assert.False(t, storage.Alive(id))
	assert.Equal(t, Position{X: 5, Y: 6}, *ecs.ReadComponent[Position](storage, moved))
	assert.Equal(t, Velocity{DX: 1, DY: 2}, *ecs.ReadComponent[Velocity](storage, moved))

	back := storage.RemoveComponent(moved, reflect.TypeFor[Velocity]())
	assert.Equal(t, id.ArchetypeId(), back.ArchetypeId())
	assert.Nil(t, ecs.ReadComponent[Velocity](storage, back))
	assert.Equal(t, Position{X: 5, Y: 6}, *ecs.ReadComponent[Position](storage, back))
}

func TestAddExistingComponentReplacesValue(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())

	id := storage.Spawn(Position{X: 1})
	same := storage.AddComponent(id, Position{X: 9})

	assert.Equal(t, id, same)
	assert.Equal(t, 9, ecs.ReadComponent[Position](storage, id).X)
}

func TestRemoveLastComponentDeletes(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())

	id := storage.Spawn(Position{X: 1})
	ref := storage.CreateEntityRef(id)

	assert.Equal(t, ecs.EntityId(0), storage.RemoveComponent(id, reflect.TypeFor[Position]()))
	assert.False(t, storage.Alive(id))
	_, ok := storage.ResolveEntityRef(ref)
	assert.False(t, ok)
}

func TestEntityRefFollowsMoves(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())

	id := storage.Spawn(Position{X: 1})
	ref := storage.CreateEntityRef(id)
	require.NotNil(t, ref)
	assert.Same(t, ref, storage.CreateEntityRef(id))

	moved := storage.AddComponent(id, Velocity{DX: 3})
	resolved, ok := storage.ResolveEntityRef(ref)
	require.True(t, ok)
	assert.Equal(t, moved, resolved)

	storage.Delete(moved)
	_, ok = storage.ResolveEntityRef(ref)
	assert.False(t, ok)
	runtime.KeepAlive(ref)
}

func TestEntityRefInvalidate(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())

	ref := storage.CreateEntityRef(storage.Spawn(Position{}))
	assert.True(t, storage.InvalidateEntityRef(ref))
	assert.False(t, storage.InvalidateEntityRef(ref))
	assert.Nil(t, storage.CreateEntityRef(ecs.NewEntityId(1, 1)))
}

func TestCompactKeepsRefs(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())

	ids := make([]ecs.EntityId, 10)
	for i := range ids {
		ids[i] = storage.Spawn(Position{X: i})
	}
	keep := storage.CreateEntityRef(ids[9])
	for _, id := range ids[:9] {
		storage.Delete(id)
	}

	storage.Compact()

	id, ok := storage.ResolveEntityRef(keep)
	require.True(t, ok)
	assert.Equal(t, uint32(0), id.Index())
	assert.Equal(t, 9, ecs.ReadComponent[Position](storage, id).X)
}

func TestArchetypesInCreationOrder(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())

	storage.Spawn(Position{})
	storage.Spawn(Position{}, Velocity{})
	storage.Spawn(Name{})

	archetypes := storage.Archetypes()
	require.Len(t, archetypes, 3)
	assert.Same(t, storage.GetArchetype(Position{}), archetypes[0])
	assert.Same(t, storage.GetArchetype(Velocity{}, Position{}), archetypes[1])
	assert.Same(t, storage.GetArchetypeByTypes([]reflect.Type{reflect.TypeFor[Name]()}), archetypes[2])
}

func TestStorageStats(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())

	stats := storage.CollectStats()
	assert.Equal(t, 0, stats.ArchetypeCount)
	assert.Equal(t, 0, stats.TotalEntityCount)

	storage.Spawn(Position{}, Name{})
	storage.Spawn(Position{}, Name{})
	storage.Spawn(Score(1), Name{})
	ecs.NewSingleton[Health](storage, Health{Current: 1})

	stats = storage.CollectStats()
	assert.Equal(t, 2, stats.ArchetypeCount)
	assert.Equal(t, 3, stats.TotalEntityCount)
	assert.Equal(t, 1, stats.SingletonCount)
	assert.Equal(t, []string{"ecs_test.Health"}, stats.SingletonTypes)
	require.Len(t, stats.ArchetypeBreakdown, 2)
	assert.Equal(t, 2, stats.ArchetypeBreakdown[0].EntityCount)
	assert.Equal(t, 1, stats.ArchetypeBreakdown[1].EntityCount)
}
