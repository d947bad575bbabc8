// Package transform holds the placement component shared by physics and
// rendering. World space is y-up with the origin at the centre of the view.
package transform

import "github.com/go-gl/mathgl/mgl64"

// Transform places an entity in world space. Rotation is in radians about
// the z axis; Translation.Z orders sprites (higher draws later).
type Transform struct {
	Translation mgl64.Vec3
	Rotation    float64
	Scale       mgl64.Vec2
}

// FromTranslation returns an unrotated, unscaled transform at v.
func FromTranslation(v mgl64.Vec3) Transform {
	return Transform{
		Translation: v,
		Scale:       mgl64.Vec2{1, 1},
	}
}

// Identity is FromTranslation at the origin.
func Identity() Transform {
	return FromTranslation(mgl64.Vec3{})
}
