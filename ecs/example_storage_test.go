package ecs_test

import (
	"fmt"
	"reflect"

	"github.com/plus3/walker/ecs"
)

// ExampleStorage shows the basic entity lifecycle. Components are stored by
// archetype; entities with the same component types share one.
func ExampleStorage() {
	storage := ecs.NewStorage(newTestRegistry())

	player := storage.Spawn(
		Position{X: 10, Y: 20},
		Velocity{DX: 1},
		Health{Current: 100, Max: 100},
	)

	pos := ecs.ReadComponent[Position](storage, player)
	fmt.Printf("spawned at (%d, %d)\n", pos.X, pos.Y)

	pos.X = 15
	fmt.Printf("moved to (%d, %d)\n", ecs.ReadComponent[Position](storage, player).X, pos.Y)

	storage.Delete(player)
	fmt.Println("alive:", storage.Alive(player))

	// Output:
	// spawned at (10, 20)
	// moved to (15, 20)
	// alive: false
}

// ExampleStorage_AddComponent shows that changing an entity's component set
// moves it to another archetype and gives it a new id. An EntityRef follows
// the entity across the move.
func ExampleStorage_AddComponent() {
	storage := ecs.NewStorage(newTestRegistry())

	id := storage.Spawn(Position{X: 1})
	ref := storage.CreateEntityRef(id)

	moved := storage.AddComponent(id, Velocity{DX: 2})
	current, _ := storage.ResolveEntityRef(ref)
	fmt.Println("same id:", moved == id, "ref follows:", current == moved)

	moved = storage.RemoveComponent(moved, reflect.TypeFor[Velocity]())
	fmt.Println("has velocity:", storage.HasComponent(moved, reflect.TypeFor[Velocity]()))

	for _, a := range storage.CollectStats().ArchetypeBreakdown {
		fmt.Println(a.ComponentTypes, a.EntityCount)
	}

	// Output:
	// same id: false ref follows: true
	// has velocity: false
	// [ecs_test.Position] 1
	// [ecs_test.Position ecs_test.Velocity] 0
}

// ExampleStorage_Borrow shows the single-writer rule. Any number of readers
// may hold a component type at once, but a writer excludes everyone else.
func ExampleStorage_Borrow() {
	storage := ecs.NewStorage(newTestRegistry())

	r1 := storage.Borrow(ecs.Read[Position]())
	r2 := storage.Borrow(ecs.Read[Position]())
	fmt.Println("two readers ok")

	func() {
		defer func() { fmt.Println("writer rejected:", recover() != nil) }()
		storage.Borrow(ecs.Write[Position]())
	}()

	r1()
	r2()
	release := storage.Borrow(ecs.Write[Position]())
	fmt.Println("writer ok after release")
	release()

	// Output:
	// two readers ok
	// writer rejected: true
	// writer ok after release
}
