// Package render draws sprites through an orthographic 2D camera. World
// space is y-up with the origin at the centre of the screen.
package render

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/plus3/starship/ecs"
	"github.com/plus3/starship/internal/asset"
	"github.com/plus3/starship/internal/transform"
)

// Camera is an orthographic 2D camera. Scale is screen pixels per world unit.
type Camera struct {
	Scale  float64
	Active bool
}

// Camera2D returns the default camera: unit scale, active.
func Camera2D() Camera {
	return Camera{Scale: 1, Active: true}
}

// CameraBundle is the component set of a camera entity.
type CameraBundle struct {
	*Camera
	*transform.Transform
}

// NewCameraBundle returns a default camera placed at the world origin.
func NewCameraBundle() CameraBundle {
	cam := Camera2D()
	tr := transform.Identity()
	return CameraBundle{Camera: &cam, Transform: &tr}
}

// MaterialHandle refers to an entry of the Materials singleton. The zero
// handle is never valid.
type MaterialHandle uint32

// Material is a texture with a colour multiplier.
type Material struct {
	Texture asset.Handle
	Tint    color.Color
}

// TextureMaterial returns an untinted material for texture.
func TextureMaterial(texture asset.Handle) Material {
	return Material{Texture: texture, Tint: color.White}
}

// Materials stores materials by handle.
type Materials struct {
	items []Material
}

// Add stores m and returns its handle.
func (m *Materials) Add(mat Material) MaterialHandle {
	m.items = append(m.items, mat)
	return MaterialHandle(len(m.items))
}

// Get returns the material behind h.
func (m *Materials) Get(h MaterialHandle) (Material, bool) {
	if h == 0 || int(h) > len(m.items) {
		return Material{}, false
	}
	return m.items[h-1], true
}

func (m *Materials) Len() int {
	return len(m.items)
}

// Sprite draws its material's texture centred on the entity's Transform.
type Sprite struct {
	Material MaterialHandle
}

// Screen is the target image for the current draw pass.
type Screen struct {
	Image *ebiten.Image
}

func RegisterComponents(registry *ecs.ComponentRegistry) {
	ecs.RegisterComponent[Camera](registry)
	ecs.RegisterComponent[Sprite](registry)
	ecs.RegisterComponent[transform.Transform](registry)
}
