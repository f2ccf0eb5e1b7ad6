package ecs_test

import (
	"testing"

	"github.com/plus3/walker/ecs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueryPanicsBeforeExecute(t *testing.T) {
	query := ecs.NewQuery[struct{ *Position }](ecs.NewStorage(newTestRegistry()))

	assert.PanicsWithValue(t, "Query.Iter() called before Query.Execute()", func() {
		for range query.Iter() {
		}
	})
	assert.PanicsWithValue(t, "Query.Values() called before Query.Execute()", func() {
		for range query.Values() {
		}
	})
}

func TestQuerySnapshotsOnExecute(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	storage.Spawn(Position{X: 1})

	query := ecs.NewQuery[struct{ *Position }](storage)
	query.Execute()
	assert.Equal(t, 1, query.Len())

	storage.Spawn(Position{X: 2})
	storage.Spawn(Position{X: 3}, Name{})
	assert.Equal(t, 1, query.Len())

	query.Execute()
	require.Equal(t, 3, query.Len())

	var xs []int
	for _, row := range query.Iter() {
		xs = append(xs, row.Position.X)
	}
	assert.Equal(t, []int{1, 2, 3}, xs)
}

func TestQueryRowsPointIntoStorage(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	id := storage.Spawn(Position{X: 1}, Velocity{DX: 5})

	query := ecs.NewQuery[struct {
		*Position
		*Velocity `ecs:"read"`
	}](storage)
	query.Execute()

	for row := range query.Values() {
		row.Position.X += row.Velocity.DX
	}
	assert.Equal(t, 6, ecs.ReadComponent[Position](storage, id).X)
}

func TestQueryDropsDeletedEntities(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	a := storage.Spawn(Position{X: 1})
	b := storage.Spawn(Position{X: 2})

	query := ecs.NewQuery[struct {
		Id ecs.EntityId
		*Position
	}](storage)
	query.Execute()
	assert.Equal(t, 2, query.Len())

	storage.Delete(a)
	query.Execute()
	require.Equal(t, 1, query.Len())
	for id, row := range query.Iter() {
		assert.Equal(t, b, id)
		assert.Equal(t, b, row.Id)
	}
}

func TestQueryAccessWithoutStorage(t *testing.T) {
	var query ecs.Query[struct {
		Position *Position `ecs:"read"`
		Frame    *Frame
	}]
	assert.Equal(t, []ecs.Access{ecs.Read[Position](), ecs.Write[Frame]()}, query.Access())
}
