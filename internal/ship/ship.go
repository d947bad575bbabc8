// Package ship spawns the camera and the player ship, and steers the ship
// from the keyboard.
package ship

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/plus3/starship/ecs"
	"github.com/plus3/starship/internal/config"
	"github.com/plus3/starship/internal/physics"
	"github.com/plus3/starship/internal/render"
	"github.com/plus3/starship/internal/transform"
)

// Collision layers.
const (
	LayerWorld physics.Layer = 1 << iota
	LayerPlayer
	LayerEnemies
)

// PlayerShip marks the controllable ship. Speed is the velocity applied while
// the up key is held; the down key applies its negated y.
type PlayerShip struct {
	Speed mgl64.Vec3
}

func DefaultPlayerShip() PlayerShip {
	return PlayerShip{Speed: mgl64.Vec3{0, 128, 0}}
}

// Player holds the reference to the one ship entity. It is a singleton set
// when the ship is spawned.
type Player struct {
	Ref *ecs.EntityRef
}

// Entity returns the ship's id, or false before it has been spawned.
func (p *Player) Entity() (ecs.EntityId, bool) {
	if p == nil || !p.Ref.Valid() {
		return 0, false
	}
	return p.Ref.Id, true
}

// Bundle is the component set of the ship entity.
type Bundle struct {
	*PlayerShip
	*transform.Transform
	*render.Sprite
	*physics.RigidBody
	*physics.CollisionShape
	*physics.PhysicMaterial
	*physics.RotationConstraints
	*physics.CollisionLayers
}

// NewBundle builds the ship's components from cfg, drawn with material.
func NewBundle(cfg config.Ship, material render.MaterialHandle) Bundle {
	ship := PlayerShip{Speed: mgl64.Vec3(cfg.Speed)}
	tr := transform.FromTranslation(mgl64.Vec3(cfg.Position))
	sprite := render.Sprite{Material: material}
	body := physics.RigidBody{Type: physics.Dynamic}
	shape := physics.Capsule(cfg.Radius, cfg.HalfSegment)
	mat := physics.PhysicMaterial{Friction: cfg.Friction, Density: cfg.Density}
	rotation := physics.LockRotation()
	layers := physics.NoLayers().WithGroup(LayerPlayer).WithMask(LayerWorld)

	return Bundle{
		PlayerShip:          &ship,
		Transform:           &tr,
		Sprite:              &sprite,
		RigidBody:           &body,
		CollisionShape:      &shape,
		PhysicMaterial:      &mat,
		RotationConstraints: &rotation,
		CollisionLayers:     &layers,
	}
}

func RegisterComponents(registry *ecs.ComponentRegistry) {
	ecs.RegisterComponent[PlayerShip](registry)
}
