package render

import (
	"cmp"
	"image"
	"image/color"
	"slices"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/hajimehoshi/ebiten/v2"
	"go.uber.org/zap"

	"github.com/plus3/starship/ecs"
	"github.com/plus3/starship/internal/asset"
	"github.com/plus3/starship/internal/logging"
	"github.com/plus3/starship/internal/transform"
)

// ClearColor is the background of every frame.
var ClearColor = color.RGBA{102, 102, 102, 255}

// View is where a camera looks and how large the target is.
type View struct {
	Center mgl64.Vec2
	Scale  float64
	Width  int
	Height int
}

// WorldToScreen maps a world point to screen pixels. The camera centre
// lands on the middle of the target and world y grows upwards.
func (v View) WorldToScreen(p mgl64.Vec2) mgl64.Vec2 {
	return mgl64.Vec2{
		float64(v.Width)/2 + (p.X()-v.Center.X())*v.Scale,
		float64(v.Height)/2 - (p.Y()-v.Center.Y())*v.Scale,
	}
}

// SpriteGeoM returns the transform that draws a w×h image centred on tr.
func (v View) SpriteGeoM(tr transform.Transform, w, h int) ebiten.GeoM {
	var g ebiten.GeoM
	g.Translate(-float64(w)/2, -float64(h)/2)

	sx, sy := tr.Scale.X(), tr.Scale.Y()
	if sx == 0 && sy == 0 {
		sx, sy = 1, 1
	}
	g.Scale(sx*v.Scale, sy*v.Scale)
	// screen y points down, so a counter-clockwise world angle turns clockwise
	g.Rotate(-tr.Rotation)

	p := v.WorldToScreen(tr.Translation.Vec2())
	g.Translate(p.X(), p.Y())
	return g
}

type cameraView struct {
	*Camera
	*transform.Transform
}

type spriteView struct {
	*Sprite
	*transform.Transform
}

// DrawSystem clears the Screen singleton and draws every sprite through the
// first active camera, lowest Translation.Z first.
type DrawSystem struct {
	Assets *asset.Server
	Log    *zap.Logger

	Cameras   ecs.Query[cameraView]
	Sprites   ecs.Query[spriteView]
	Materials ecs.Singleton[Materials]
	Screen    ecs.Singleton[Screen]

	textures map[asset.Handle]*ebiten.Image
	order    []spriteView
}

func (s *DrawSystem) Execute(frame *ecs.UpdateFrame) {
	screen := s.Screen.Get()
	if screen == nil || screen.Image == nil {
		return
	}
	target := screen.Image
	target.Fill(ClearColor)

	view, ok := s.view(target)
	if !ok {
		return
	}

	materials := s.Materials.Get()
	if materials == nil {
		return
	}

	s.order = s.order[:0]
	for item := range s.Sprites.Values() {
		s.order = append(s.order, item)
	}
	slices.SortStableFunc(s.order, func(a, b spriteView) int {
		return cmp.Compare(a.Translation.Z(), b.Translation.Z())
	})

	for _, item := range s.order {
		mat, ok := materials.Get(item.Sprite.Material)
		if !ok {
			continue
		}
		img := s.texture(mat.Texture)
		if img == nil {
			continue
		}

		opts := &ebiten.DrawImageOptions{}
		opts.GeoM = view.SpriteGeoM(*item.Transform, img.Bounds().Dx(), img.Bounds().Dy())
		if mat.Tint != nil {
			opts.ColorScale.ScaleWithColor(mat.Tint)
		}
		opts.Filter = ebiten.FilterLinear
		target.DrawImage(img, opts)
	}
}

func (s *DrawSystem) view(target *ebiten.Image) (View, bool) {
	for cam := range s.Cameras.Values() {
		if !cam.Active {
			continue
		}
		scale := cam.Camera.Scale
		if scale == 0 {
			scale = 1
		}
		return View{
			Center: cam.Translation.Vec2(),
			Scale:  scale,
			Width:  target.Bounds().Dx(),
			Height: target.Bounds().Dy(),
		}, true
	}
	return View{}, false
}

// texture uploads the decoded asset on first use. Missing textures are
// remembered so the warning is logged once.
func (s *DrawSystem) texture(h asset.Handle) *ebiten.Image {
	if img, ok := s.textures[h]; ok {
		return img
	}
	if s.textures == nil {
		s.textures = make(map[asset.Handle]*ebiten.Image)
	}

	var src image.Image
	if s.Assets != nil {
		src = s.Assets.Image(h)
	}
	if src == nil {
		logging.OrNop(s.Log).Warn("missing texture", zap.Uint32("handle", uint32(h)))
		s.textures[h] = nil
		return nil
	}

	img := ebiten.NewImageFromImage(src)
	s.textures[h] = img
	return img
}
