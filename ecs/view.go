package ecs

import (
	"iter"
	"reflect"
	"unsafe"
)

var entityIdType = reflect.TypeFor[EntityId]()

// View reads entities through a struct of component pointers. T must be a
// struct whose fields are pointers to component types; a field tagged
// `ecs:"optional"` may be nil, and a field of type EntityId receives the
// entity's id.
//
//	type shipView struct {
//		ecs.EntityId
//		*Transform
//		*Velocity `ecs:"optional"`
//	}
type View[T any] struct {
	storage     *Storage
	types       []reflect.Type
	optional    []bool
	fieldOffset []uintptr
	idOffset    uintptr
	hasId       bool
}

// NewView inspects T and panics if it is not a valid view struct.
func NewView[T any](storage *Storage) *View[T] {
	structType := reflect.TypeFor[T]()
	if structType.Kind() != reflect.Struct {
		panic("View type parameter must be a struct")
	}

	v := &View[T]{storage: storage}

	for i := 0; i < structType.NumField(); i++ {
		field := structType.Field(i)

		if field.Type == entityIdType {
			v.idOffset = field.Offset
			v.hasId = true
			continue
		}

		if field.Type.Kind() != reflect.Ptr {
			panic("View struct fields must be pointer types")
		}

		isOptional := false
		if tag := field.Tag.Get("ecs"); tag != "" {
			if tag != "optional" || field.Anonymous {
				panic("invalid ecs tag value: \"" + tag + "\" (only \"optional\" on named fields is supported)")
			}
			isOptional = true
		}

		v.types = append(v.types, field.Type.Elem())
		v.optional = append(v.optional, isOptional)
		v.fieldOffset = append(v.fieldOffset, field.Offset)
	}

	return v
}

// Fill populates *ptr for id. It returns false when a required component is
// missing.
func (v *View[T]) Fill(id EntityId, ptr *T) bool {
	archetype, ok := v.storage.archetypes[id.ArchetypeId()]
	if !ok {
		return false
	}
	return v.populate(unsafe.Pointer(ptr), archetype, int(id.Index()), v.columnIndices(archetype), id)
}

// Get returns the populated view for id, or nil.
func (v *View[T]) Get(id EntityId) *T {
	var result T
	if !v.Fill(id, &result) {
		return nil
	}
	return &result
}

// GetRef returns the populated view for the entity behind ref, or nil.
func (v *View[T]) GetRef(ref *EntityRef) *T {
	id, ok := v.storage.ResolveEntityRef(ref)
	if !ok {
		return nil
	}
	return v.Get(id)
}

func (v *View[T]) matchesArchetype(archetype *Archetype) bool {
	for i, typ := range v.types {
		if !v.optional[i] && !archetype.HasComponent(typ) {
			return false
		}
	}
	return true
}

func (v *View[T]) columnIndices(archetype *Archetype) []int {
	indices := make([]int, len(v.types))
	for i, typ := range v.types {
		indices[i] = archetype.columnIndex(typ)
	}
	return indices
}

func (v *View[T]) populate(resultPtr unsafe.Pointer, archetype *Archetype, slot int, indices []int, id EntityId) bool {
	if v.hasId {
		*(*EntityId)(unsafe.Add(resultPtr, v.idOffset)) = id
	}

	for i, colIdx := range indices {
		fieldPtr := (*unsafe.Pointer)(unsafe.Add(resultPtr, v.fieldOffset[i]))

		var component any
		if colIdx >= 0 {
			component = archetype.columns[colIdx].Get(slot)
		}

		if component == nil {
			if !v.optional[i] {
				return false
			}
			*fieldPtr = nil
			continue
		}

		*fieldPtr = (*iface)(unsafe.Pointer(&component)).data
	}
	return true
}

// iterArchetype yields every entity of one archetype that fills the view.
func (v *View[T]) iterArchetype(archetype *Archetype) iter.Seq2[EntityId, T] {
	return func(yield func(EntityId, T) bool) {
		if len(archetype.columns) == 0 {
			return
		}

		indices := v.columnIndices(archetype)
		var result T
		resultPtr := unsafe.Pointer(&result)

		for slot := range archetype.columns[0].Iter() {
			id := NewEntityId(archetype.id, uint32(slot))
			if !v.populate(resultPtr, archetype, slot, indices, id) {
				continue
			}
			if !yield(id, result) {
				return
			}
		}
	}
}

// Iter yields every matching entity. Order across archetypes is unspecified.
func (v *View[T]) Iter() iter.Seq2[EntityId, T] {
	return func(yield func(EntityId, T) bool) {
		for _, archetype := range v.storage.archetypes {
			if !v.matchesArchetype(archetype) {
				continue
			}
			for id, item := range v.iterArchetype(archetype) {
				if !yield(id, item) {
					return
				}
			}
		}
	}
}

// Values yields only the view structs.
func (v *View[T]) Values() iter.Seq[T] {
	return func(yield func(T) bool) {
		for _, item := range v.Iter() {
			if !yield(item) {
				return
			}
		}
	}
}

// Count returns the number of matching entities.
func (v *View[T]) Count() int {
	n := 0
	for range v.Iter() {
		n++
	}
	return n
}

// Spawn creates an entity from the non-nil component pointers in data.
// A nil required field panics.
func (v *View[T]) Spawn(data T) EntityId {
	return v.storage.Spawn(v.components(&data)...)
}

// Components returns copies of the components set in data, ready to be passed
// to Storage.Spawn or Commands.Spawn.
func (v *View[T]) Components(data T) []any {
	return v.components(&data)
}

func (v *View[T]) components(data *T) []any {
	structPtr := unsafe.Pointer(data)

	components := make([]any, 0, len(v.types))
	for i, typ := range v.types {
		componentPtr := *(*unsafe.Pointer)(unsafe.Add(structPtr, v.fieldOffset[i]))
		if componentPtr == nil {
			if !v.optional[i] {
				panic("required component " + typ.String() + " is nil in View.Spawn")
			}
			continue
		}
		components = append(components, reflect.NewAt(typ, componentPtr).Elem().Interface())
	}

	if len(components) == 0 {
		panic("cannot spawn entity without components")
	}
	return components
}
