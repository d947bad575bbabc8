package ecs

import (
	"cmp"
	"iter"
	"reflect"
	"slices"
	"weak"

	"github.com/kamstrup/intmap"
)

// sortTypes orders component types by name so the same set always hashes to
// the same archetype id.
func sortTypes(types []reflect.Type) {
	slices.SortFunc(types, func(a, b reflect.Type) int {
		return cmp.Compare(a.String(), b.String())
	})
}

// Archetype holds every entity that has exactly the same set of component
// types. Columns are index-aligned: slot i of every column belongs to the
// same entity.
type Archetype struct {
	id      uint32
	types   []reflect.Type
	columns []componentColumn
	refs    *intmap.Map[EntityId, weak.Pointer[EntityRef]]
}

// NewArchetype builds an archetype for the given sorted component types.
// It panics if a type is missing from the registry.
func NewArchetype(id uint32, types []reflect.Type, registry *ComponentRegistry) *Archetype {
	a := &Archetype{
		id:      id,
		types:   types,
		columns: make([]componentColumn, len(types)),
		refs:    intmap.New[EntityId, weak.Pointer[EntityRef]](16),
	}

	for idx, typ := range types {
		factory := registry.factory(typ)
		if factory == nil {
			panic("component type " + typ.String() + " not registered")
		}
		a.columns[idx] = factory()
	}

	return a
}

func (a *Archetype) columnIndex(compType reflect.Type) int {
	return slices.Index(a.types, compType)
}

// Spawn appends one entity's components and returns its slot.
func (a *Archetype) Spawn(components []any) uint32 {
	var slot int
	for _, comp := range components {
		idx := a.columnIndex(componentType(comp))
		if idx >= 0 {
			slot = a.columns[idx].Append(comp)
		}
	}
	return uint32(slot)
}

// GetComponent returns a pointer to the component of compType at slot, or nil.
func (a *Archetype) GetComponent(slot uint32, compType reflect.Type) any {
	idx := a.columnIndex(compType)
	if idx < 0 {
		return nil
	}
	return a.columns[idx].Get(int(slot))
}

// ReplaceComponent overwrites an existing component value in place.
func (a *Archetype) ReplaceComponent(slot uint32, component any) bool {
	idx := a.columnIndex(componentType(component))
	if idx < 0 {
		return false
	}
	return a.columns[idx].Replace(int(slot), component)
}

// Delete frees a slot and invalidates any ref pointing at it.
func (a *Archetype) Delete(slot uint32) {
	id := NewEntityId(a.id, slot)
	if weakPtr, ok := a.refs.Get(id); ok {
		if ref := weakPtr.Value(); ref != nil {
			ref.Id = 0
			ref.Archetype = nil
		}
		a.refs.Del(id)
	}

	for _, col := range a.columns {
		col.Delete(int(slot))
	}
}

// HasComponent reports whether the archetype carries compType.
func (a *Archetype) HasComponent(compType reflect.Type) bool {
	return a.columnIndex(compType) >= 0
}

// ID returns the archetype id.
func (a *Archetype) ID() uint32 {
	return a.id
}

// Types returns the sorted component types.
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

// Iter yields the id of every live entity.
func (a *Archetype) Iter() iter.Seq[EntityId] {
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

// moveRef re-points a tracked ref from oldId in a to newId in dst.
func (a *Archetype) moveRef(oldId EntityId, dst *Archetype, newId EntityId) {
	weakPtr, ok := a.refs.Get(oldId)
	if !ok {
		return
	}
	a.refs.Del(oldId)
	if ref := weakPtr.Value(); ref != nil {
		ref.Id = newId
		ref.Archetype = dst
		dst.refs.Put(newId, weakPtr)
	}
}
