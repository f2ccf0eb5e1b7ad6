package ecs

import "fmt"

// EntityId is an opaque entity handle. The upper 32 bits hold the archetype
// id and the lower 32 bits the slot inside that archetype.
type EntityId uint64

func NewEntityId(archetypeId uint32, index uint32) EntityId {
	return EntityId(uint64(archetypeId)<<32 | uint64(index))
}

func (e EntityId) ArchetypeId() uint32 {
	return uint32(e >> 32)
}

func (e EntityId) Index() uint32 {
	return uint32(e & 0xFFFFFFFF)
}

func (e EntityId) String() string {
	return fmt.Sprintf("%08x:%d", e.ArchetypeId(), e.Index())
}

// EntityRef follows an entity across archetype moves and compaction.
// Id is zero once the entity has been deleted.
type EntityRef struct {
	Id        EntityId
	Archetype *Archetype
}
