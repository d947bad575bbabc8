package physics

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/jakecoffman/cp"
)

// BodyType says how the simulation moves a body.
type BodyType uint8

const (
	// Dynamic bodies are moved by forces, collisions and Velocity.
	Dynamic BodyType = iota
	// Static bodies never move.
	Static
	// Kinematic bodies move only by Velocity and ignore collisions' push.
	Kinematic
)

func (t BodyType) String() string {
	switch t {
	case Dynamic:
		return "dynamic"
	case Static:
		return "static"
	case Kinematic:
		return "kinematic"
	default:
		return "unknown"
	}
}

// RigidBody marks an entity for simulation.
type RigidBody struct {
	Type BodyType
}

// ShapeKind selects the collider geometry.
type ShapeKind uint8

const (
	ShapeSphere ShapeKind = iota
	ShapeCapsule
)

// CollisionShape is the collider attached to a RigidBody. A capsule is a
// segment along the local y axis from -HalfSegment to +HalfSegment swept by
// Radius.
type CollisionShape struct {
	Kind        ShapeKind
	Radius      float64
	HalfSegment float64
}

func Sphere(radius float64) CollisionShape {
	return CollisionShape{Kind: ShapeSphere, Radius: radius}
}

func Capsule(radius, halfSegment float64) CollisionShape {
	return CollisionShape{Kind: ShapeCapsule, Radius: radius, HalfSegment: halfSegment}
}

// PhysicMaterial sets surface and mass properties. Density is mass per unit
// of area.
type PhysicMaterial struct {
	Friction    float64
	Density     float64
	Restitution float64
}

// DefaultMaterial matches the engine's defaults.
func DefaultMaterial() PhysicMaterial {
	return PhysicMaterial{Friction: 0.5, Density: 1.0}
}

// RotationConstraints controls whether the body may spin.
type RotationConstraints struct {
	AllowRotation bool
}

// LockRotation forbids any rotation.
func LockRotation() RotationConstraints {
	return RotationConstraints{AllowRotation: false}
}

// Layer is a bit set of collision groups. Games name their own bits.
type Layer uint32

// AllLayers has every bit set.
const AllLayers = ^Layer(0)

func (l Layer) Has(other Layer) bool {
	return l&other == other
}

// CollisionLayers decides which pairs may collide: two shapes touch only if
// each one's Groups intersect the other's Masks.
type CollisionLayers struct {
	Groups Layer
	Masks  Layer
}

// NoLayers belongs to no group and collides with nothing.
func NoLayers() CollisionLayers {
	return CollisionLayers{}
}

// WithGroup adds l to the groups the entity belongs to.
func (c CollisionLayers) WithGroup(l Layer) CollisionLayers {
	c.Groups |= l
	return c
}

// WithMask adds l to the groups the entity collides with.
func (c CollisionLayers) WithMask(l Layer) CollisionLayers {
	c.Masks |= l
	return c
}

// Interacts reports whether c and other can collide.
func (c CollisionLayers) Interacts(other CollisionLayers) bool {
	return c.Groups&other.Masks != 0 && other.Groups&c.Masks != 0
}

func (c CollisionLayers) filter() cp.ShapeFilter {
	return cp.ShapeFilter{Group: cp.NO_GROUP, Categories: uint(c.Groups), Mask: uint(c.Masks)}
}

// Velocity is both a command and a readout: the step system pushes it into
// the body before integrating and writes the body's velocity back after.
type Velocity struct {
	Linear  mgl64.Vec3
	Angular float64
}

// LinearVelocity returns a Velocity with only a linear part.
func LinearVelocity(v mgl64.Vec3) Velocity {
	return Velocity{Linear: v}
}

// Body links an entity to its simulated body. BodySystem attaches it.
type Body struct {
	body  *cp.Body
	shape *cp.Shape
}

// Position returns the simulated position.
func (b *Body) Position() mgl64.Vec2 {
	p := b.body.Position()
	return mgl64.Vec2{p.X, p.Y}
}

// Mass returns the simulated mass.
func (b *Body) Mass() float64 {
	return b.body.Mass()
}

// Moment returns the moment of inertia; +Inf for rotation-locked bodies.
func (b *Body) Moment() float64 {
	return b.body.Moment()
}

// Friction returns the collider's friction.
func (b *Body) Friction() float64 {
	return b.shape.Friction()
}

// Filter returns the collider's groups and masks.
func (b *Body) Filter() CollisionLayers {
	f := b.shape.Filter
	return CollisionLayers{Groups: Layer(f.Categories), Masks: Layer(f.Mask)}
}
