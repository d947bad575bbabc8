package physics

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/jakecoffman/cp"
	"go.uber.org/zap"

	"github.com/plus3/starship/ecs"
	"github.com/plus3/starship/internal/logging"
	"github.com/plus3/starship/internal/transform"
)

// RegisterComponents registers every physics component type.
func RegisterComponents(registry *ecs.ComponentRegistry) {
	ecs.RegisterComponent[RigidBody](registry)
	ecs.RegisterComponent[CollisionShape](registry)
	ecs.RegisterComponent[PhysicMaterial](registry)
	ecs.RegisterComponent[RotationConstraints](registry)
	ecs.RegisterComponent[CollisionLayers](registry)
	ecs.RegisterComponent[Velocity](registry)
	ecs.RegisterComponent[Body](registry)
}

type pendingBody struct {
	ecs.EntityId
	*transform.Transform
	*RigidBody
	*CollisionShape
	Material *PhysicMaterial      `ecs:"optional"`
	Rotation *RotationConstraints `ecs:"optional"`
	Layers   *CollisionLayers     `ecs:"optional"`
	Body     *Body                `ecs:"optional"`
}

// BodySystem creates a simulated body for every entity that declares one
// and does not have a Body yet. The Body component lands at the end of the
// frame.
type BodySystem struct {
	Log      *zap.Logger
	Entities ecs.Query[pendingBody]
	World    ecs.Singleton[World]
}

func (s *BodySystem) Execute(frame *ecs.UpdateFrame) {
	world := s.World.Get()
	if world == nil {
		return
	}

	for item := range s.Entities.Values() {
		if item.Body != nil {
			continue
		}

		material := DefaultMaterial()
		if item.Material != nil {
			material = *item.Material
		}
		rotation := RotationConstraints{AllowRotation: true}
		if item.Rotation != nil {
			rotation = *item.Rotation
		}

		body := world.Spawn(*item.Transform, *item.RigidBody, *item.CollisionShape, material, rotation, item.Layers)
		frame.Commands.Insert(frame.Storage.CreateEntityRef(item.EntityId), body)

		logging.OrNop(s.Log).Debug("body created",
			zap.Uint64("entity", uint64(item.EntityId)),
			zap.Stringer("type", item.RigidBody.Type),
			zap.Float64("mass", body.Mass()))
	}
}

type simulated struct {
	*transform.Transform
	*Body
	Velocity *Velocity `ecs:"optional"`
}

// StepSystem pushes Velocity into bodies, advances the world by the frame's
// delta time and copies positions, angles and velocities back.
type StepSystem struct {
	Entities ecs.Query[simulated]
	World    ecs.Singleton[World]
}

func (s *StepSystem) Execute(frame *ecs.UpdateFrame) {
	world := s.World.Get()
	if world == nil {
		return
	}

	for item := range s.Entities.Values() {
		if item.Velocity == nil {
			continue
		}
		b := item.Body.body
		b.SetVelocityVector(cp.Vector{X: item.Velocity.Linear.X(), Y: item.Velocity.Linear.Y()})
		b.SetAngularVelocity(item.Velocity.Angular)
	}

	world.Step(frame.DeltaTime)

	for item := range s.Entities.Values() {
		b := item.Body.body
		p := b.Position()
		item.Transform.Translation = mgl64.Vec3{p.X, p.Y, item.Transform.Translation.Z()}
		item.Transform.Rotation = b.Angle()

		if item.Velocity != nil {
			v := b.Velocity()
			item.Velocity.Linear = mgl64.Vec3{v.X, v.Y, 0}
			item.Velocity.Angular = b.AngularVelocity()
		}
	}
}
