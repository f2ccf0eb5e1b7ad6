package ecs

import (
	"iter"
	"unsafe"
)

// Query is a View that snapshots its matching entities once per tick. Use
// it as a field of a System: the Scheduler binds it on Register and
// executes it right before the system runs, so Iter always reflects the
// storage as it was when the system started.
type Query[T any] struct {
	view             *View[T]
	storage          *Storage
	cachedArchetypes []*Archetype
	archetypeCount   int

	entities   []EntityId
	components []T
	valid      bool
}

func NewQuery[T any](storage *Storage) *Query[T] {
	q := &Query[T]{}
	q.Init(storage)
	return q
}

// Init binds the query to a storage and drops any cached state.
func (q *Query[T]) Init(storage *Storage) {
	q.view = NewView[T](storage)
	q.storage = storage
	q.cachedArchetypes = nil
	q.archetypeCount = -1
	q.valid = false
}

// Access returns the accesses declared by the query's view.
func (q *Query[T]) Access() []Access {
	if q.view == nil {
		return NewView[T](nil).Access()
	}
	return q.view.Access()
}

func (q *Query[T]) refreshArchetypes() {
	if len(q.storage.order) == q.archetypeCount {
		return
	}
	q.cachedArchetypes = q.cachedArchetypes[:0]
	for _, a := range q.storage.order {
		if q.view.matchesArchetype(a) {
			q.cachedArchetypes = append(q.cachedArchetypes, a)
		}
	}
	q.archetypeCount = len(q.storage.order)
}

// Execute rebuilds the cached entity list.
func (q *Query[T]) Execute() {
	q.refreshArchetypes()
	q.entities = q.entities[:0]
	q.components = q.components[:0]

	for _, a := range q.cachedArchetypes {
		if len(a.columns) == 0 {
			continue
		}
		indices := q.view.columnIndices(a)
		var item T
		dst := unsafe.Pointer(&item)
		for slot := range a.columns[0].Iter() {
			if !q.view.populate(dst, a, slot, indices) {
				continue
			}
			q.entities = append(q.entities, NewEntityId(a.id, uint32(slot)))
			q.components = append(q.components, item)
		}
	}
	q.valid = true
}

// Len returns the number of entities matched by the last Execute.
func (q *Query[T]) Len() int {
	return len(q.entities)
}

// Iter panics if Execute has not been called.
func (q *Query[T]) Iter() iter.Seq2[EntityId, T] {
	if !q.valid {
		panic("Query.Iter() called before Query.Execute()")
	}
	return func(yield func(EntityId, T) bool) {
		for i := range q.entities {
			if !yield(q.entities[i], q.components[i]) {
				return
			}
		}
	}
}

// Values panics if Execute has not been called.
func (q *Query[T]) Values() iter.Seq[T] {
	if !q.valid {
		panic("Query.Values() called before Query.Execute()")
	}
	return func(yield func(T) bool) {
		for i := range q.components {
			if !yield(q.components[i]) {
				return
			}
		}
	}
}
