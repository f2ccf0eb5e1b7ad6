package ecs

import (
	"iter"
	"reflect"
	"strings"
	"unsafe"
)

var entityIdType = reflect.TypeFor[EntityId]()

type viewField struct {
	typ      reflect.Type
	offset   uintptr
	optional bool
	mode     AccessMode
}

// View joins component types by entity. T is a struct whose fields are
// pointers to component types, embedded or named:
//
//	ecs.View[struct {
//		ecs.EntityId
//		*Position
//		*Velocity `ecs:"read"`
//		Name *Name `ecs:"optional,read"`
//	}]
//
// Embedded pointer fields are always required. Named fields may be tagged
// "optional". Any pointer field may be tagged "read" to declare shared read
// access; untagged fields declare write access. A field of type EntityId
// receives the id of the entity.
type View[T any] struct {
	storage     *Storage
	fields      []viewField
	entityField int
	hasEntityId bool
}

// NewView builds a view over storage. It panics if T is malformed or names
// an unregistered component type.
func NewView[T any](storage *Storage) *View[T] {
	structType := reflect.TypeFor[T]()
	if structType.Kind() != reflect.Struct {
		panic("View type parameter must be a struct")
	}

	v := &View[T]{storage: storage}
	for i := 0; i < structType.NumField(); i++ {
		field := structType.Field(i)

		if field.Type == entityIdType {
			v.entityField = int(field.Offset)
			v.hasEntityId = true
			continue
		}
		if field.Type.Kind() != reflect.Ptr {
			panic("View struct fields must be pointer types")
		}

		vf := viewField{
			typ:    field.Type.Elem(),
			offset: field.Offset,
			mode:   AccessWrite,
		}
		if tag := field.Tag.Get("ecs"); tag != "" {
			for opt := range strings.SplitSeq(tag, ",") {
				switch opt {
				case "optional":
					if field.Anonymous {
						panic("embedded view field " + vf.typ.String() + " cannot be optional")
					}
					vf.optional = true
				case "read":
					vf.mode = AccessRead
				default:
					panic("invalid ecs tag value: \"" + opt + "\" (expected \"optional\" or \"read\")")
				}
			}
		}
		if storage != nil && !storage.registry.Registered(vf.typ) {
			panic("component type " + vf.typ.String() + " not registered")
		}
		v.fields = append(v.fields, vf)
	}
	return v
}

// Access returns the component accesses declared by the view's fields.
func (v *View[T]) Access() []Access {
	out := make([]Access, len(v.fields))
	for i, f := range v.fields {
		out[i] = Access{Type: f.typ, Mode: f.mode}
	}
	return out
}

func (v *View[T]) matchesArchetype(archetype *Archetype) bool {
	for _, f := range v.fields {
		if !f.optional && !archetype.HasComponent(f.typ) {
			return false
		}
	}
	return true
}

func (v *View[T]) columnIndices(archetype *Archetype) []int {
	indices := make([]int, len(v.fields))
	for i, f := range v.fields {
		indices[i] = archetype.columnIndex(f.typ)
	}
	return indices
}

// populate writes component pointers for the slot into the struct at dst.
func (v *View[T]) populate(dst unsafe.Pointer, archetype *Archetype, slot int, indices []int) bool {
	if v.hasEntityId {
		*(*EntityId)(unsafe.Add(dst, v.entityField)) = NewEntityId(archetype.id, uint32(slot))
	}
	for i, idx := range indices {
		fieldPtr := (*unsafe.Pointer)(unsafe.Add(dst, v.fields[i].offset))

		var component any
		if idx >= 0 {
			component = archetype.columns[idx].Get(slot)
		}
		if component == nil {
			if !v.fields[i].optional {
				return false
			}
			*fieldPtr = nil
			continue
		}
		*fieldPtr = (*iface)(unsafe.Pointer(&component)).data
	}
	return true
}

// Fill populates *ptr for the entity. It returns false if the entity is
// missing a required component.
func (v *View[T]) Fill(id EntityId, ptr *T) bool {
	archetype, ok := v.storage.archetypes[id.ArchetypeId()]
	if !ok || !archetype.Contains(id.Index()) {
		return false
	}
	if !v.matchesArchetype(archetype) {
		return false
	}
	return v.populate(unsafe.Pointer(ptr), archetype, int(id.Index()), v.columnIndices(archetype))
}

// Get returns the populated struct for the entity, or nil.
func (v *View[T]) Get(id EntityId) *T {
	var result T
	if !v.Fill(id, &result) {
		return nil
	}
	return &result
}

func (v *View[T]) GetRef(ref *EntityRef) *T {
	id, ok := v.storage.ResolveEntityRef(ref)
	if !ok {
		return nil
	}
	return v.Get(id)
}

func (v *View[T]) iterArchetype(archetype *Archetype, yield func(EntityId, T) bool) bool {
	if len(archetype.columns) == 0 {
		return true
	}
	indices := v.columnIndices(archetype)

	var result T
	dst := unsafe.Pointer(&result)
	for slot := range archetype.columns[0].Iter() {
		if !v.populate(dst, archetype, slot, indices) {
			continue
		}
		if !yield(NewEntityId(archetype.id, uint32(slot)), result) {
			return false
		}
	}
	return true
}

// Iter yields every matching entity. Archetypes are visited in creation
// order and entities in slot order, so repeated iteration over an unchanged
// storage yields the same sequence.
func (v *View[T]) Iter() iter.Seq2[EntityId, T] {
	return func(yield func(EntityId, T) bool) {
		for _, archetype := range v.storage.order {
			if !v.matchesArchetype(archetype) {
				continue
			}
			if !v.iterArchetype(archetype, yield) {
				return
			}
		}
	}
}

func (v *View[T]) Values() iter.Seq[T] {
	return func(yield func(T) bool) {
		for _, value := range v.Iter() {
			if !yield(value) {
				return
			}
		}
	}
}

// Spawn creates an entity from the non-nil component pointers in data.
func (v *View[T]) Spawn(data T) EntityId {
	src := unsafe.Pointer(&data)

	components := make([]any, 0, len(v.fields))
	for _, f := range v.fields {
		ptr := *(*unsafe.Pointer)(unsafe.Add(src, f.offset))
		if ptr == nil {
			if !f.optional {
				panic("required component is nil in View.Spawn")
			}
			continue
		}
		components = append(components, reflect.NewAt(f.typ, ptr).Elem().Interface())
	}
	return v.storage.Spawn(components...)
}
