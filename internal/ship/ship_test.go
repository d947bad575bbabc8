package ship_test

import (
	"testing"
	"testing/fstest"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/plus3/starship/assets"
	"github.com/plus3/starship/ecs"
	"github.com/plus3/starship/internal/asset"
	"github.com/plus3/starship/internal/config"
	"github.com/plus3/starship/internal/input"
	"github.com/plus3/starship/internal/physics"
	"github.com/plus3/starship/internal/render"
	"github.com/plus3/starship/internal/ship"
	"github.com/plus3/starship/internal/transform"
)

func newStorage() *ecs.Storage {
	registry := ecs.NewComponentRegistry()
	render.RegisterComponents(registry)
	physics.RegisterComponents(registry)
	ship.RegisterComponents(registry)

	storage := ecs.NewStorage(registry)
	ecs.NewSingleton[input.Keys](storage)
	ecs.NewSingleton[ship.Player](storage)
	ecs.NewSingleton[render.Materials](storage)
	return storage
}

type shipView struct {
	ecs.EntityId
	*ship.PlayerShip
	*transform.Transform
	Velocity *physics.Velocity `ecs:"optional"`
}

func TestSteer(t *testing.T) {
	speed := ship.DefaultPlayerShip().Speed
	up := mgl64.Vec3{0, 128, 0}
	down := mgl64.Vec3{0, -128, 0}

	tests := map[string]struct {
		keys   input.KeySet
		stop   bool
		want   mgl64.Vec3
		issued bool
	}{
		"up arrow":          {keys: input.NewKeySet(input.KeyArrowUp), want: up, issued: true},
		"w":                 {keys: input.NewKeySet(input.KeyW), want: up, issued: true},
		"down arrow":        {keys: input.NewKeySet(input.KeyArrowDown), want: down, issued: true},
		"s":                 {keys: input.NewKeySet(input.KeyS), want: down, issued: true},
		"both, up wins":     {keys: input.NewKeySet(input.KeyW, input.KeyS), want: up, issued: true},
		"arrows, up wins":   {keys: input.NewKeySet(input.KeyArrowDown, input.KeyArrowUp), want: up, issued: true},
		"nothing":           {},
		"unrelated key":     {keys: input.NewKeySet(input.KeyA, input.KeySpace)},
		"nothing, stopping": {stop: true, want: mgl64.Vec3{}, issued: true},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			keys := &input.Keys{}
			keys.Set(tt.keys)

			got, issued := ship.Steer(keys, speed, tt.stop)
			assert.Equal(t, tt.issued, issued)
			if tt.issued {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestSteerUsesOnlySpeedY(t *testing.T) {
	keys := &input.Keys{}
	keys.Set(input.NewKeySet(input.KeyS))

	got, ok := ship.Steer(keys, mgl64.Vec3{7, 64, 9}, false)
	require.True(t, ok)
	assert.Equal(t, mgl64.Vec3{0, -64, 0}, got)
}

func TestNewBundle(t *testing.T) {
	b := ship.NewBundle(config.Default().Ship, render.MaterialHandle(1))

	assert.Equal(t, ship.DefaultPlayerShip(), *b.PlayerShip)
	assert.Equal(t, mgl64.Vec3{-480, 0, 0}, b.Transform.Translation)
	assert.Equal(t, physics.Dynamic, b.RigidBody.Type)
	assert.Equal(t, physics.Capsule(18, 8), *b.CollisionShape)
	assert.Equal(t, 1.0, b.PhysicMaterial.Friction)
	assert.Equal(t, 10.0, b.PhysicMaterial.Density)
	assert.False(t, b.RotationConstraints.AllowRotation)
	assert.Equal(t, ship.LayerPlayer, b.CollisionLayers.Groups)
	assert.Equal(t, ship.LayerWorld, b.CollisionLayers.Masks)
	assert.False(t, b.CollisionLayers.Masks.Has(ship.LayerEnemies))
}

func TestStartupSpawnsCameraAndOneShip(t *testing.T) {
	storage := newStorage()
	scheduler := ecs.NewScheduler(storage)
	scheduler.RegisterStartup(&ship.SetupSystem{})
	scheduler.RegisterStartup(&ship.SpawnSystem{
		Assets: asset.NewServer(assets.FS, zaptest.NewLogger(t)),
		Config: config.Default().Ship,
		Log:    zaptest.NewLogger(t),
	})
	scheduler.Startup()
	scheduler.Startup()

	assert.Equal(t, 1, ecs.NewView[render.CameraBundle](storage).Count())

	ships := ecs.NewView[shipView](storage)
	require.Equal(t, 1, ships.Count())

	var player *ship.Player
	require.True(t, storage.ReadSingleton(&player))
	id, ok := player.Entity()
	require.True(t, ok)

	s := ships.Get(id)
	require.NotNil(t, s)
	assert.Equal(t, mgl64.Vec3{-480, 0, 0}, s.Translation)
	assert.Equal(t, mgl64.Vec3{0, 128, 0}, s.Speed)
	assert.Nil(t, s.Velocity)

	var materials *render.Materials
	require.True(t, storage.ReadSingleton(&materials))
	assert.Equal(t, 1, materials.Len())
}

func TestSpawnPanicsOnMissingTexture(t *testing.T) {
	storage := newStorage()
	scheduler := ecs.NewScheduler(storage)
	scheduler.RegisterStartup(&ship.SpawnSystem{
		Assets: asset.NewServer(fstest.MapFS{}, nil),
		Config: config.Default().Ship,
	})

	assert.PanicsWithError(t, "spawn ship: asset not found: ship.png", func() {
		scheduler.Startup()
	})
}

type keysFunc func(frame uint64) input.KeySet

func (f keysFunc) Poll(frame uint64) input.KeySet { return f(frame) }

func TestControlSystemInsertsVelocity(t *testing.T) {
	storage := newStorage()
	ships := ecs.NewView[ship.Bundle](storage)
	id := ships.Spawn(ship.NewBundle(config.Default().Ship, 0))

	var player *ship.Player
	require.True(t, storage.ReadSingleton(&player))
	player.Ref = storage.CreateEntityRef(id)

	held := input.KeySet(0)
	scheduler := ecs.NewScheduler(storage)
	scheduler.Register(&input.CaptureSystem{Source: keysFunc(func(uint64) input.KeySet { return held })})
	scheduler.Register(&ship.ControlSystem{Log: zaptest.NewLogger(t)})

	velocity := func() *physics.Velocity {
		return ecs.ReadComponent[physics.Velocity](storage, player.Ref.Id)
	}

	scheduler.Once(1.0 / 60.0)
	assert.Nil(t, velocity(), "no key, no command")

	held = input.NewKeySet(input.KeyW)
	scheduler.Once(1.0 / 60.0)
	require.NotNil(t, velocity())
	assert.Equal(t, mgl64.Vec3{0, 128, 0}, velocity().Linear)

	// no physics here, so a released key must leave the last command in place
	held = 0
	scheduler.Once(1.0 / 60.0)
	assert.Equal(t, mgl64.Vec3{0, 128, 0}, velocity().Linear)

	held = input.NewKeySet(input.KeyS)
	scheduler.Once(1.0 / 60.0)
	assert.Equal(t, mgl64.Vec3{0, -128, 0}, velocity().Linear)

	held = input.NewKeySet(input.KeyArrowUp, input.KeyArrowDown)
	scheduler.Once(1.0 / 60.0)
	assert.Equal(t, mgl64.Vec3{0, 128, 0}, velocity().Linear)
}

func TestControlSystemStopOnRelease(t *testing.T) {
	storage := newStorage()
	id := ecs.NewView[ship.Bundle](storage).Spawn(ship.NewBundle(config.Default().Ship, 0))

	var player *ship.Player
	require.True(t, storage.ReadSingleton(&player))
	player.Ref = storage.CreateEntityRef(id)

	script, err := input.ParseScript("Up:1,-:1")
	require.NoError(t, err)

	scheduler := ecs.NewScheduler(storage)
	scheduler.Register(&input.CaptureSystem{Source: script})
	scheduler.Register(&ship.ControlSystem{StopOnRelease: true})

	scheduler.Once(1.0 / 60.0)
	assert.Equal(t, mgl64.Vec3{0, 128, 0}, ecs.ReadComponent[physics.Velocity](storage, player.Ref.Id).Linear)

	scheduler.Once(1.0 / 60.0)
	assert.Equal(t, mgl64.Vec3{}, ecs.ReadComponent[physics.Velocity](storage, player.Ref.Id).Linear)
}

func TestControlSystemBeforeSpawnIsNoop(t *testing.T) {
	storage := newStorage()
	scheduler := ecs.NewScheduler(storage)
	scheduler.Register(&input.CaptureSystem{Source: input.NewKeySet(input.KeyW)})
	scheduler.Register(&ship.ControlSystem{})

	assert.NotPanics(t, func() { scheduler.Once(1.0 / 60.0) })
}
