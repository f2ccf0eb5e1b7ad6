package ecs

import (
	"reflect"
	"unsafe"
	"weak"
)

// Storage owns all component data of a world.
type Storage struct {
	archetypes map[uint32]*Archetype
	order      []*Archetype
	registry   *ComponentRegistry
	singletons map[reflect.Type]*singletonEntry
	borrows    *borrowTable
}

func NewStorage(registry *ComponentRegistry) *Storage {
	return &Storage{
		archetypes: make(map[uint32]*Archetype),
		registry:   registry,
		singletons: make(map[reflect.Type]*singletonEntry),
		borrows:    newBorrowTable(),
	}
}

// Registry returns the component registry the storage was built with.
func (s *Storage) Registry() *ComponentRegistry {
	return s.registry
}

// Archetypes returns every archetype in creation order.
func (s *Storage) Archetypes() []*Archetype {
	return s.order
}

func (s *Storage) archetypeFor(types []reflect.Type) *Archetype {
	id := hashTypesToUint32(types)
	if a, ok := s.archetypes[id]; ok {
		return a
	}
	a := NewArchetype(id, types, s.registry)
	s.archetypes[id] = a
	s.order = append(s.order, a)
	return a
}

func (s *Storage) CreateEntityRef(id EntityId) *EntityRef {
	archetype := s.archetypes[id.ArchetypeId()]
	if archetype == nil || !archetype.Contains(id.Index()) {
		return nil
	}

	if wp, ok := archetype.refs.Get(id); ok {
		if ref := wp.Value(); ref != nil {
			return ref
		}
		archetype.refs.Del(id)
	}

	ref := &EntityRef{Id: id, Archetype: archetype}
	archetype.refs.Put(id, weak.Make(ref))
	return ref
}

// ResolveEntityRef returns the current id of the referenced entity.
func (s *Storage) ResolveEntityRef(ref *EntityRef) (EntityId, bool) {
	if ref == nil || ref.Id == 0 {
		return 0, false
	}
	return ref.Id, true
}

func (s *Storage) InvalidateEntityRef(ref *EntityRef) bool {
	if ref == nil || ref.Id == 0 {
		return false
	}
	if archetype := s.archetypes[ref.Id.ArchetypeId()]; archetype != nil {
		archetype.refs.Del(ref.Id)
	}
	ref.Id = 0
	ref.Archetype = nil
	return true
}

// GetArchetype returns the archetype holding exactly the given component
// values' types, or nil.
func (s *Storage) GetArchetype(components ...any) *Archetype {
	return s.archetypes[hashTypesToUint32(extractComponentTypes(components))]
}

func (s *Storage) GetArchetypeByTypes(types []reflect.Type) *Archetype {
	sorted := append([]reflect.Type(nil), types...)
	sortTypes(sorted)
	return s.archetypes[hashTypesToUint32(sorted)]
}

// Spawn creates an entity from component values (or pointers to them).
func (s *Storage) Spawn(components ...any) EntityId {
	if len(components) == 0 {
		panic("cannot spawn entity without components")
	}
	archetype := s.archetypeFor(extractComponentTypes(components))
	return NewEntityId(archetype.id, archetype.Spawn(components))
}

// Delete removes the entity and all of its components.
func (s *Storage) Delete(id EntityId) {
	if archetype, ok := s.archetypes[id.ArchetypeId()]; ok {
		archetype.Delete(id.Index())
	}
}

// Alive reports whether the id refers to a live entity.
func (s *Storage) Alive(id EntityId) bool {
	archetype, ok := s.archetypes[id.ArchetypeId()]
	return ok && archetype.Contains(id.Index())
}

// move re-homes the entity into the archetype for newTypes, taking component
// values from the old archetype except where extra supplies one.
func (s *Storage) move(id EntityId, newTypes []reflect.Type, extra any) EntityId {
	old := s.archetypes[id.ArchetypeId()]
	var extraType reflect.Type
	if extra != nil {
		extraType = componentType(extra)
	}

	components := make([]any, 0, len(newTypes))
	for _, t := range newTypes {
		if t == extraType {
			components = append(components, extra)
			continue
		}
		components = append(components, old.GetComponent(id.Index(), t))
	}

	wp, hasRef := old.refs.Get(id)
	if hasRef {
		old.refs.Del(id)
	}

	var newId EntityId
	var target *Archetype
	if len(newTypes) > 0 {
		target = s.archetypeFor(newTypes)
		newId = NewEntityId(target.id, target.Spawn(components))
	}
	old.Delete(id.Index())

	if hasRef {
		if ref := wp.Value(); ref != nil {
			ref.Id, ref.Archetype = newId, target
			if target != nil {
				target.refs.Put(newId, wp)
			}
		}
	}
	return newId
}

// AddComponent attaches (or replaces) a component and returns the entity's
// new id.
func (s *Storage) AddComponent(id EntityId, component any) EntityId {
	if !s.Alive(id) {
		return 0
	}
	old := s.archetypes[id.ArchetypeId()]
	t := componentType(component)
	if old.HasComponent(t) {
		reflect.ValueOf(old.GetComponent(id.Index(), t)).Elem().Set(reflect.Indirect(reflect.ValueOf(component)))
		return id
	}

	newTypes := append(append([]reflect.Type(nil), old.types...), t)
	sortTypes(newTypes)
	return s.move(id, newTypes, component)
}

// RemoveComponent detaches a component and returns the entity's new id, or
// zero if the entity had no components left and was deleted.
func (s *Storage) RemoveComponent(id EntityId, compType reflect.Type) EntityId {
	if !s.Alive(id) {
		return 0
	}
	old := s.archetypes[id.ArchetypeId()]
	if !old.HasComponent(compType) {
		return id
	}

	newTypes := make([]reflect.Type, 0, len(old.types)-1)
	for _, t := range old.types {
		if t != compType {
			newTypes = append(newTypes, t)
		}
	}
	return s.move(id, newTypes, nil)
}

func (s *Storage) GetComponent(id EntityId, compType reflect.Type) any {
	archetype, ok := s.archetypes[id.ArchetypeId()]
	if !ok {
		return nil
	}
	return archetype.GetComponent(id.Index(), compType)
}

func (s *Storage) HasComponent(id EntityId, compType reflect.Type) bool {
	archetype, ok := s.archetypes[id.ArchetypeId()]
	return ok && archetype.Contains(id.Index()) && archetype.HasComponent(compType)
}

// Compact compacts every archetype. Only EntityRefs survive compaction;
// raw ids must be re-resolved.
func (s *Storage) Compact() {
	for _, a := range s.order {
		a.Compact()
	}
}

func componentType(component any) reflect.Type {
	t := reflect.TypeOf(component)
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t
}

// extractComponentTypes returns the sorted component types of the values.
func extractComponentTypes(components []any) []reflect.Type {
	types := make([]reflect.Type, 0, len(components))
	for _, comp := range components {
		t := componentType(comp)
		switch t.Kind() {
		case reflect.Ptr, reflect.Map, reflect.Chan, reflect.Func:
			panic("components cannot be pointers, maps, channels, or functions")
		}
		types = append(types, t)
	}
	sortTypes(types)
	return types
}

// iface mirrors the runtime layout of an interface value.
type iface struct {
	typ  unsafe.Pointer
	data unsafe.Pointer
}

// hashTypesToUint32 is FNV-1a over the runtime type pointers.
func hashTypesToUint32(types []reflect.Type) uint32 {
	var h uint32 = 2166136261
	const prime uint32 = 16777619

	for _, t := range types {
		ptr := uintptr((*iface)(unsafe.Pointer(&t)).data)
		val := uint32(ptr)
		if unsafe.Sizeof(uintptr(0)) == 8 {
			val ^= uint32(uint64(ptr) >> 32)
		}
		h ^= val
		h *= prime
	}
	return h
}

type ComponentReader interface {
	GetComponent(EntityId, reflect.Type) any
}

// ReadComponent returns the entity's T, or nil if it has none.
func ReadComponent[T any](reader ComponentReader, entityId EntityId) *T {
	c, _ := reader.GetComponent(entityId, reflect.TypeFor[T]()).(*T)
	return c
}
