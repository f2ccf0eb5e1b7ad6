package ecs

import (
	"reflect"
	"slices"
	"sort"
	"weak"

	"github.com/kamstrup/intmap"
)

type byTypeName []reflect.Type

func (a byTypeName) Len() int           { return len(a) }
func (a byTypeName) Swap(i, j int)      { a[i], a[j] = a[j], a[i] }
func (a byTypeName) Less(i, j int) bool { return a[i].String() < a[j].String() }

func sortTypes(types []reflect.Type) {
	sort.Sort(byTypeName(types))
}

// Archetype holds every entity that carries exactly one particular set of
// component types. Each type has its own column; an entity's slot is the
// same in every column.
type Archetype struct {
	id      uint32
	types   []reflect.Type
	columns []column
	refs    *intmap.Map[EntityId, weak.Pointer[EntityRef]]
}

// NewArchetype creates an archetype for the sorted component types. It
// panics if any type is missing from the registry.
func NewArchetype(id uint32, types []reflect.Type, registry *ComponentRegistry) *Archetype {
	a := &Archetype{
		id:      id,
		types:   types,
		columns: make([]column, len(types)),
		refs:    intmap.New[EntityId, weak.Pointer[EntityRef]](16),
	}
	for i, t := range types {
		a.columns[i] = registry.mustFactory(t)()
	}
	return a
}

func (a *Archetype) columnIndex(t reflect.Type) int {
	return slices.Index(a.types, t)
}

// Spawn appends one entity and returns its slot.
func (a *Archetype) Spawn(components []any) uint32 {
	slot := -1
	for _, comp := range components {
		if idx := a.columnIndex(componentType(comp)); idx >= 0 {
			slot = a.columns[idx].Append(comp)
		}
	}
	return uint32(slot)
}

// GetComponent returns a pointer to the component, or nil.
func (a *Archetype) GetComponent(slot uint32, t reflect.Type) any {
	idx := a.columnIndex(t)
	if idx < 0 {
		return nil
	}
	return a.columns[idx].Get(int(slot))
}

// Delete empties the slot in every column and invalidates any EntityRef
// pointing at it. Other slots are not moved.
func (a *Archetype) Delete(slot uint32) {
	id := NewEntityId(a.id, slot)
	if wp, ok := a.refs.Get(id); ok {
		if ref := wp.Value(); ref != nil {
			ref.Id = 0
			ref.Archetype = nil
		}
		a.refs.Del(id)
	}
	for _, c := range a.columns {
		c.Delete(int(slot))
	}
}

// Contains reports whether the slot holds a live entity.
func (a *Archetype) Contains(slot uint32) bool {
	return len(a.columns) > 0 && a.columns[0].Has(int(slot))
}

func (a *Archetype) HasComponent(t reflect.Type) bool {
	return a.columnIndex(t) >= 0
}

func (a *Archetype) ID() uint32 {
	return a.id
}

// Types returns the sorted component types of the archetype.
func (a *Archetype) Types() []reflect.Type {
	return a.types
}

// Len returns the number of live entities.
func (a *Archetype) Len() int {
	if len(a.columns) == 0 {
		return 0
	}
	return a.columns[0].Len()
}

// Compact removes empty slots. Live EntityRefs are rewritten to the new ids;
// raw EntityIds into this archetype held elsewhere become stale.
func (a *Archetype) Compact() {
	if len(a.columns) == 0 {
		return
	}
	moved := a.columns[0].Compact()
	for _, c := range a.columns[1:] {
		c.Compact()
	}

	refs := intmap.New[EntityId, weak.Pointer[EntityRef]](a.refs.Len())
	for oldSlot, newSlot := range moved {
		wp, ok := a.refs.Get(NewEntityId(a.id, uint32(oldSlot)))
		if !ok {
			continue
		}
		if ref := wp.Value(); ref != nil {
			newId := NewEntityId(a.id, uint32(newSlot))
			ref.Id = newId
			refs.Put(newId, wp)
		}
	}
	a.refs = refs
}

// Iter yields the ids of live entities in slot order.
func (a *Archetype) Iter() func(yield func(EntityId) bool) {
	return func(yield func(EntityId) bool) {
		if len(a.columns) == 0 {
			return
		}
		for slot := range a.columns[0].Iter() {
			if !yield(NewEntityId(a.id, uint32(slot))) {
				return
			}
		}
	}
}
