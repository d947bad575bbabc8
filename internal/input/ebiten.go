package input

import "github.com/hajimehoshi/ebiten/v2"

var ebitenKeys = [keyCount]ebiten.Key{
	KeyArrowUp:    ebiten.KeyArrowUp,
	KeyArrowDown:  ebiten.KeyArrowDown,
	KeyArrowLeft:  ebiten.KeyArrowLeft,
	KeyArrowRight: ebiten.KeyArrowRight,
	KeyW:          ebiten.KeyW,
	KeyA:          ebiten.KeyA,
	KeyS:          ebiten.KeyS,
	KeyD:          ebiten.KeyD,
	KeySpace:      ebiten.KeySpace,
	KeyEscape:     ebiten.KeyEscape,
}

// EbitenSource reads the live keyboard through Ebitengine. It is only
// meaningful while ebiten.RunGame is running.
type EbitenSource struct{}

func (EbitenSource) Poll(uint64) KeySet {
	var set KeySet
	for k, code := range ebitenKeys {
		if ebiten.IsKeyPressed(code) {
			set = set.With(Key(k))
		}
	}
	return set
}

// EbitenKey returns the Ebitengine key code for k.
func EbitenKey(k Key) ebiten.Key {
	return ebitenKeys[k]
}
