package ecs

import "reflect"

// Commands buffers structural changes made while systems run. The Scheduler
// flushes the buffer once all systems of a frame have executed.
type Commands struct {
	spawns  []spawnCommand
	deletes []EntityId
	inserts []insertCommand
	adds    []addComponentCommand
	removes []removeComponentCommand
	defers  []func()
}

func newCommands() *Commands {
	return &Commands{}
}

type spawnCommand struct {
	components []any
	onSpawn    func(EntityId)
}

type insertCommand struct {
	ref       *EntityRef
	component any
}

type addComponentCommand struct {
	entity    EntityId
	component any
}

type removeComponentCommand struct {
	entity   EntityId
	compType reflect.Type
}

// Defer queues fn to run after every other command of the flush.
func (c *Commands) Defer(fn func()) {
	c.defers = append(c.defers, fn)
}

// Spawn queues an entity spawn.
func (c *Commands) Spawn(components ...any) {
	c.spawns = append(c.spawns, spawnCommand{components: components})
}

// SpawnThen queues an entity spawn and calls fn with the new id.
func (c *Commands) SpawnThen(fn func(EntityId), components ...any) {
	c.spawns = append(c.spawns, spawnCommand{components: components, onSpawn: fn})
}

// Delete queues an entity deletion.
func (c *Commands) Delete(entity EntityId) {
	c.deletes = append(c.deletes, entity)
}

// Insert queues an add-or-replace of component on the entity behind ref.
// The ref is resolved at flush time so earlier moves in the same flush are
// honoured. Later inserts of the same type win.
func (c *Commands) Insert(ref *EntityRef, component any) {
	c.inserts = append(c.inserts, insertCommand{ref: ref, component: component})
}

// AddComponent queues a component addition.
func (c *Commands) AddComponent(entity EntityId, component any) {
	c.adds = append(c.adds, addComponentCommand{entity: entity, component: component})
}

// RemoveComponent queues a component removal.
func (c *Commands) RemoveComponent(entity EntityId, compType reflect.Type) {
	c.removes = append(c.removes, removeComponentCommand{entity: entity, compType: compType})
}

// Pending reports the number of queued operations.
func (c *Commands) Pending() int {
	return len(c.spawns) + len(c.deletes) + len(c.inserts) + len(c.adds) + len(c.removes) + len(c.defers)
}

// Flush applies queued operations to storage in the order deletes, removes,
// adds, inserts, spawns, defers, then resets the buffer.
func (c *Commands) Flush(storage *Storage) {
	deleted := make(map[EntityId]bool, len(c.deletes))

	for _, id := range c.deletes {
		storage.Delete(id)
		deleted[id] = true
	}

	for _, cmd := range c.removes {
		if !deleted[cmd.entity] {
			storage.RemoveComponent(cmd.entity, cmd.compType)
		}
	}

	for _, cmd := range c.adds {
		if !deleted[cmd.entity] {
			storage.AddComponent(cmd.entity, cmd.component)
		}
	}

	for _, cmd := range c.inserts {
		if id, ok := storage.ResolveEntityRef(cmd.ref); ok {
			storage.Insert(id, cmd.component)
		}
	}

	for _, cmd := range c.spawns {
		id := storage.Spawn(cmd.components...)
		if cmd.onSpawn != nil {
			cmd.onSpawn(id)
		}
	}

	for _, fn := range c.defers {
		fn()
	}

	c.spawns = c.spawns[:0]
	c.deletes = c.deletes[:0]
	c.inserts = c.inserts[:0]
	c.adds = c.adds[:0]
	c.removes = c.removes[:0]
	c.defers = c.defers[:0]
}
