package ship

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"go.uber.org/zap"

	"github.com/plus3/starship/ecs"
	"github.com/plus3/starship/internal/asset"
	"github.com/plus3/starship/internal/config"
	"github.com/plus3/starship/internal/input"
	"github.com/plus3/starship/internal/logging"
	"github.com/plus3/starship/internal/physics"
	"github.com/plus3/starship/internal/render"
)

// SetupSystem spawns the 2D camera at the origin.
type SetupSystem struct{}

func (s *SetupSystem) Execute(frame *ecs.UpdateFrame) {
	cameras := ecs.NewView[render.CameraBundle](frame.Storage)
	frame.Commands.Spawn(cameras.Components(render.NewCameraBundle())...)
}

// SpawnSystem loads the ship texture and spawns the ship. A texture that
// cannot be loaded is fatal.
type SpawnSystem struct {
	Assets *asset.Server
	Config config.Ship
	Log    *zap.Logger

	Materials ecs.Singleton[render.Materials]
	Player    ecs.Singleton[Player]
}

func (s *SpawnSystem) Execute(frame *ecs.UpdateFrame) {
	texture, err := s.Assets.Load(s.Config.Texture)
	if err != nil {
		panic(fmt.Errorf("spawn ship: %w", err))
	}
	material := s.Materials.Get().Add(render.TextureMaterial(texture))

	player := s.Player.Get()
	if player == nil {
		panic("spawn ship: Player singleton is missing")
	}

	ships := ecs.NewView[Bundle](frame.Storage)
	log := logging.OrNop(s.Log)
	frame.Commands.SpawnThen(func(id ecs.EntityId) {
		player.Ref = frame.Storage.CreateEntityRef(id)
		log.Info("ship spawned",
			zap.Uint64("entity", uint64(id)),
			zap.Float64s("position", s.Config.Position[:]))
	}, ships.Components(NewBundle(s.Config, material))...)
}

// Steer returns the velocity for the held keys. The up keys win when both
// directions are held. With no direction held it returns false, or a zero
// velocity when stopOnRelease is set.
func Steer(keys *input.Keys, speed mgl64.Vec3, stopOnRelease bool) (mgl64.Vec3, bool) {
	switch {
	case keys.AnyPressed(input.KeyArrowUp, input.KeyW):
		return mgl64.Vec3{0, speed.Y(), 0}, true
	case keys.AnyPressed(input.KeyArrowDown, input.KeyS):
		return mgl64.Vec3{0, -speed.Y(), 0}, true
	case stopOnRelease:
		return mgl64.Vec3{}, true
	}
	return mgl64.Vec3{}, false
}

// ControlSystem sets the ship's velocity from the keyboard every frame. When
// no direction is held it leaves the velocity alone unless StopOnRelease is
// set.
type ControlSystem struct {
	Log           *zap.Logger
	StopOnRelease bool

	Keys   ecs.Singleton[input.Keys]
	Player ecs.Singleton[Player]
}

func (s *ControlSystem) Execute(frame *ecs.UpdateFrame) {
	keys := s.Keys.Get()
	player := s.Player.Get()
	if keys == nil || player == nil {
		return
	}

	id, ok := player.Entity()
	if !ok {
		return
	}
	ship := ecs.ReadComponent[PlayerShip](frame.Storage, id)
	if ship == nil {
		return
	}

	velocity, ok := Steer(keys, ship.Speed, s.StopOnRelease)
	if !ok {
		return
	}

	logging.OrNop(s.Log).Debug("key pressed",
		zap.Stringer("keys", keys.Current),
		zap.Float64("vy", velocity.Y()))
	frame.Commands.Insert(player.Ref, physics.LinearVelocity(velocity))
}
