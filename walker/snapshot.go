package walker

import "github.com/plus3/walker/ecs"

// Snapshot is what a Renderer sees of one tick. It is a copy: nothing the
// renderer does to it reaches the simulation, and later ticks do not
// change it.
type Snapshot struct {
	Tick      uint64
	Command   MovementCommand
	Commanded bool
	Entries   []SnapshotEntry
}

type SnapshotEntry struct {
	Entity   ecs.EntityId
	Position Position
	Sprite   Sprite
	State    AnimationState
}

type snapshotRow struct {
	Entity   ecs.EntityId
	Position *Position `ecs:"read"`
	Sprite   *Sprite   `ecs:"read"`
	Velocity *Velocity `ecs:"optional,read"`
}

// Find returns the entry for an entity.
func (s Snapshot) Find(id ecs.EntityId) (SnapshotEntry, bool) {
	for _, e := range s.Entries {
		if e.Entity == id {
			return e, true
		}
	}
	return SnapshotEntry{}, false
}

func collectSnapshot(view *ecs.View[snapshotRow], storage *ecs.Storage, sizeHint int) []SnapshotEntry {
	release := storage.Borrow(view.Access()...)
	defer release()

	entries := make([]SnapshotEntry, 0, sizeHint)
	for row := range view.Values() {
		entry := SnapshotEntry{
			Entity:   row.Entity,
			Position: *row.Position,
			Sprite:   *row.Sprite,
		}
		if row.Velocity != nil {
			entry.State = StateOf(*row.Velocity)
		}
		entries = append(entries, entry)
	}
	return entries
}
