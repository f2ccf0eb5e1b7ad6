package ecs

import (
	"reflect"
	"sync"
)

// Commands buffers structural changes requested while systems run. The
// Scheduler flushes the buffer after the last stage of a tick, so no system
// ever observes a half-applied change. Commands is safe for use by systems
// that run concurrently within a stage.
type Commands struct {
	mu      sync.Mutex
	spawns  [][]any
	deletes []EntityId
	adds    []addComponentCommand
	removes []removeComponentCommand
	defers  []func()
}

func newCommands() *Commands {
	return &Commands{}
}

type addComponentCommand struct {
	entity    EntityId
	component any
}

type removeComponentCommand struct {
	entity   EntityId
	compType reflect.Type
}

// Defer queues fn to run after all structural changes have been applied.
func (c *Commands) Defer(fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.defers = append(c.defers, fn)
}

func (c *Commands) Spawn(components ...any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.spawns = append(c.spawns, components)
}

func (c *Commands) Delete(entity EntityId) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.deletes = append(c.deletes, entity)
}

func (c *Commands) AddComponent(entity EntityId, component any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.adds = append(c.adds, addComponentCommand{entity: entity, component: component})
}

func (c *Commands) RemoveComponent(entity EntityId, compType reflect.Type) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.removes = append(c.removes, removeComponentCommand{entity: entity, compType: compType})
}

// Pending reports the number of queued operations.
func (c *Commands) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.spawns) + len(c.deletes) + len(c.adds) + len(c.removes) + len(c.defers)
}

// Flush applies the buffer to storage in the order deletes, removes, adds,
// spawns, defers. Commands queued by deferred functions land in the next
// flush. Later operations on an entity follow it
// across the archetype moves caused by earlier ones; operations on a deleted
// entity are dropped.
func (c *Commands) Flush(storage *Storage) {
	c.mu.Lock()
	spawns, deletes, adds, removes, defers := c.spawns, c.deletes, c.adds, c.removes, c.defers
	c.spawns, c.deletes, c.adds, c.removes, c.defers = nil, nil, nil, nil, nil
	c.mu.Unlock()

	// ids in the buffer are the ones systems saw; current tracks where each
	// of them lives after earlier operations in this flush.
	current := make(map[EntityId]EntityId)
	resolve := func(id EntityId) EntityId {
		if cur, ok := current[id]; ok {
			return cur
		}
		return id
	}

	for _, id := range deletes {
		storage.Delete(id)
		current[id] = 0
	}

	for _, cmd := range removes {
		if id := resolve(cmd.entity); id != 0 {
			current[cmd.entity] = storage.RemoveComponent(id, cmd.compType)
		}
	}

	for _, cmd := range adds {
		if id := resolve(cmd.entity); id != 0 {
			current[cmd.entity] = storage.AddComponent(id, cmd.component)
		}
	}

	for _, components := range spawns {
		storage.Spawn(components...)
	}

	for _, fn := range defers {
		fn()
	}
}
