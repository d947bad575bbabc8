package ecs

import (
	"iter"
	"reflect"
	"unsafe"
)

// iface mirrors the runtime layout of an interface value so component
// pointers can be pulled out of an `any` without reflection.
type iface struct {
	typ  unsafe.Pointer
	data unsafe.Pointer
}

// componentColumn is the type-erased column an archetype keeps per component.
type componentColumn interface {
	Append(item any) int
	Replace(index int, item any) bool
	Delete(index int)
	Get(index int) any
	Has(index int) bool
	Len() int
	Iter() iter.Seq[int]
}

// ComponentRegistry maps component types to column factories. Every type
// spawned into a Storage has to be registered first.
type ComponentRegistry struct {
	factories map[reflect.Type]func() componentColumn
}

// NewComponentRegistry returns an empty registry.
func NewComponentRegistry() *ComponentRegistry {
	return &ComponentRegistry{
		factories: make(map[reflect.Type]func() componentColumn),
	}
}

// RegisterComponent makes T usable as a component in storages built from r.
func RegisterComponent[T any](r *ComponentRegistry) {
	r.factories[reflect.TypeFor[T]()] = func() componentColumn {
		return &column[T]{}
	}
}

// Registered reports whether t has a factory.
func (r *ComponentRegistry) Registered(t reflect.Type) bool {
	_, ok := r.factories[t]
	return ok
}

func (r *ComponentRegistry) factory(t reflect.Type) func() componentColumn {
	return r.factories[t]
}

const columnBlockSize = 64

// column stores values of T in fixed-size blocks so that pointers handed to
// systems stay valid while the column grows.
type column[T any] struct {
	blocks    []*[columnBlockSize]T
	filled    []*[columnBlockSize]bool
	freeSlots []int
	nextIndex int
	live      int
}

func unwrap[T any](item any) (T, bool) {
	if ptr, ok := item.(*T); ok {
		return *ptr, true
	}
	val, ok := item.(T)
	return val, ok
}

func (c *column[T]) slot(index int) (block, offset int, ok bool) {
	if index < 0 {
		return 0, 0, false
	}
	block, offset = index/columnBlockSize, index%columnBlockSize
	return block, offset, block < len(c.blocks)
}

func (c *column[T]) Append(item any) int {
	value, ok := unwrap[T](item)
	if !ok {
		return -1
	}

	var index int
	if n := len(c.freeSlots); n > 0 {
		index = c.freeSlots[n-1]
		c.freeSlots = c.freeSlots[:n-1]
	} else {
		index = c.nextIndex
		c.nextIndex++
		if index/columnBlockSize >= len(c.blocks) {
			c.blocks = append(c.blocks, new([columnBlockSize]T))
			c.filled = append(c.filled, new([columnBlockSize]bool))
		}
	}

	block, offset, _ := c.slot(index)
	c.blocks[block][offset] = value
	c.filled[block][offset] = true
	c.live++
	return index
}

func (c *column[T]) Replace(index int, item any) bool {
	value, ok := unwrap[T](item)
	if !ok || !c.Has(index) {
		return false
	}
	block, offset, _ := c.slot(index)
	c.blocks[block][offset] = value
	return true
}

func (c *column[T]) Get(index int) any {
	block, offset, ok := c.slot(index)
	if !ok || !c.filled[block][offset] {
		return nil
	}
	return &c.blocks[block][offset]
}

func (c *column[T]) Delete(index int) {
	block, offset, ok := c.slot(index)
	if !ok || !c.filled[block][offset] {
		return
	}
	var zero T
	c.blocks[block][offset] = zero
	c.filled[block][offset] = false
	c.freeSlots = append(c.freeSlots, index)
	c.live--
}

func (c *column[T]) Has(index int) bool {
	block, offset, ok := c.slot(index)
	return ok && c.filled[block][offset]
}

func (c *column[T]) Len() int {
	return c.live
}

func (c *column[T]) Iter() iter.Seq[int] {
	return func(yield func(int) bool) {
		for i := 0; i < c.nextIndex; i++ {
			block, offset, _ := c.slot(i)
			if c.filled[block][offset] && !yield(i) {
				return
			}
		}
	}
}
