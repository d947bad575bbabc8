// Package physics binds ECS components to a Chipmunk2D space. Entities
// declare RigidBody, CollisionShape and friends; BodySystem creates the
// simulated bodies and StepSystem integrates them each frame.
package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/jakecoffman/cp"

	"github.com/plus3/starship/internal/transform"
)

// World owns the simulation space. It is stored as a singleton.
type World struct {
	space  *cp.Space
	bodies int
}

// NewWorld creates a space with the given gravity. The prototype runs with
// zero gravity.
func NewWorld(gravity mgl64.Vec2) World {
	space := cp.NewSpace()
	space.SetGravity(cp.Vector{X: gravity.X(), Y: gravity.Y()})
	return World{space: space}
}

// Step advances the simulation by dt seconds. Non-positive dt is ignored.
func (w *World) Step(dt float64) {
	if dt <= 0 {
		return
	}
	w.space.Step(dt)
}

// Bodies returns the number of bodies created through this world.
func (w *World) Bodies() int {
	return w.bodies
}

// Spawn creates the simulated body and collider for one entity.
func (w *World) Spawn(tr transform.Transform, rb RigidBody, shape CollisionShape, material PhysicMaterial, rotation RotationConstraints, layers *CollisionLayers) Body {
	var body *cp.Body
	switch rb.Type {
	case Static:
		body = cp.NewStaticBody()
	case Kinematic:
		body = cp.NewKinematicBody()
	default:
		body = cp.NewBody(0, 0)
	}
	body.SetPosition(cp.Vector{X: tr.Translation.X(), Y: tr.Translation.Y()})
	body.SetAngle(tr.Rotation)
	w.space.AddBody(body)

	var s *cp.Shape
	switch shape.Kind {
	case ShapeCapsule:
		a := cp.Vector{X: 0, Y: -shape.HalfSegment}
		b := cp.Vector{X: 0, Y: shape.HalfSegment}
		s = cp.NewSegment(body, a, b, shape.Radius)
	default:
		s = cp.NewCircle(body, shape.Radius, cp.Vector{})
	}
	w.space.AddShape(s)

	s.SetFriction(material.Friction)
	s.SetElasticity(material.Restitution)
	if rb.Type == Dynamic {
		s.SetDensity(material.Density)
		if !rotation.AllowRotation {
			body.SetMoment(math.Inf(1))
		}
	}

	if layers != nil {
		s.SetFilter(layers.filter())
	}

	w.bodies++
	return Body{body: body, shape: s}
}
