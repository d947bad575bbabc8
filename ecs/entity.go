package ecs

// EntityId packs the archetype an entity lives in (upper 32 bits) together
// with its slot inside that archetype (lower 32 bits). The zero id is never
// handed out for a live entity.
type EntityId uint64

// NewEntityId builds an EntityId from an archetype id and slot index.
func NewEntityId(archetypeId uint32, index uint32) EntityId {
	return EntityId(uint64(archetypeId)<<32 | uint64(index))
}

// ArchetypeId returns the archetype half of the id.
func (e EntityId) ArchetypeId() uint32 {
	return uint32(e >> 32)
}

// Index returns the slot half of the id.
func (e EntityId) Index() uint32 {
	return uint32(e & 0xFFFFFFFF)
}

// EntityRef follows an entity across archetype moves. Storage rewrites Id
// whenever a component is inserted or removed, and zeroes it on delete.
// Holders keep the ref alive; storage only tracks it weakly.
type EntityRef struct {
	Id        EntityId
	Archetype *Archetype
}

// Valid reports whether the referenced entity still exists.
func (r *EntityRef) Valid() bool {
	return r != nil && r.Id != 0
}
