package ecs_test

import (
	"testing"

	"github.com/plus3/starship/ecs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type movingView struct {
	ecs.EntityId
	*Position
	*Velocity
	Name *Name `ecs:"optional"`
}

func TestViewGet(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	id := storage.Spawn(Position{X: 1, Y: 2}, Velocity{DX: 3})

	view := ecs.NewView[movingView](storage)

	item := view.Get(id)
	require.NotNil(t, item)
	assert.Equal(t, id, item.EntityId)
	assert.Equal(t, float32(1), item.Position.X)
	assert.Equal(t, float32(3), item.Velocity.DX)
	assert.Nil(t, item.Name)

	item.Position.X = 10
	assert.Equal(t, float32(10), ecs.ReadComponent[Position](storage, id).X, "view fields alias storage")
}

func TestViewMissingRequiredComponent(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	id := storage.Spawn(Position{X: 5})

	view := ecs.NewView[movingView](storage)
	assert.Nil(t, view.Get(id))
}

func TestViewIterFiltersArchetypes(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	storage.Spawn(Position{X: 1}, Velocity{})
	storage.Spawn(Position{X: 2}, Velocity{}, Name{Value: "named"})
	storage.Spawn(Position{X: 3})

	view := ecs.NewView[movingView](storage)
	assert.Equal(t, 2, view.Count())

	named := 0
	for _, item := range view.Iter() {
		if item.Name != nil {
			named++
			assert.Equal(t, "named", item.Name.Value)
		}
	}
	assert.Equal(t, 1, named)
}

func TestViewSpawn(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	view := ecs.NewView[movingView](storage)

	id := view.Spawn(movingView{
		Position: &Position{X: -480},
		Velocity: &Velocity{},
	})

	item := view.Get(id)
	require.NotNil(t, item)
	assert.Equal(t, float32(-480), item.Position.X)
	assert.Nil(t, item.Name)

	assert.Panics(t, func() { view.Spawn(movingView{Position: &Position{}}) })
}

func TestViewGetRef(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	id := storage.Spawn(Position{X: 1})
	ref := storage.CreateEntityRef(id)

	view := ecs.NewView[struct{ *Position }](storage)

	storage.Insert(id, Velocity{DX: 9})
	item := view.GetRef(ref)
	require.NotNil(t, item, "ref follows the entity into its new archetype")
	assert.Equal(t, float32(1), item.Position.X)

	storage.Delete(ref.Id)
	assert.Nil(t, view.GetRef(ref))
}

func TestInvalidViewsPanic(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	assert.Panics(t, func() { ecs.NewView[int](storage) })
	assert.Panics(t, func() { ecs.NewView[struct{ Position }](storage) })
	assert.Panics(t, func() {
		ecs.NewView[struct {
			P *Position `ecs:"maybe"`
		}](storage)
	})
}
