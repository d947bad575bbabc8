// Package input tracks keyboard state as an ECS singleton. Sources are
// polled once per frame by CaptureSystem; gameplay systems only read Keys.
package input

import (
	"strings"

	"github.com/plus3/starship/ecs"
)

// Key is a keyboard key the game cares about.
type Key uint8

const (
	KeyArrowUp Key = iota
	KeyArrowDown
	KeyArrowLeft
	KeyArrowRight
	KeyW
	KeyA
	KeyS
	KeyD
	KeySpace
	KeyEscape

	keyCount
)

var keyNames = [keyCount]string{
	KeyArrowUp:    "Up",
	KeyArrowDown:  "Down",
	KeyArrowLeft:  "Left",
	KeyArrowRight: "Right",
	KeyW:          "W",
	KeyA:          "A",
	KeyS:          "S",
	KeyD:          "D",
	KeySpace:      "Space",
	KeyEscape:     "Escape",
}

// AllKeys lists every Key in declaration order.
func AllKeys() []Key {
	keys := make([]Key, keyCount)
	for i := range keys {
		keys[i] = Key(i)
	}
	return keys
}

func (k Key) String() string {
	if k < keyCount {
		return keyNames[k]
	}
	return "Key(?)"
}

// ParseKey accepts the names printed by Key.String, case-insensitively.
func ParseKey(name string) (Key, bool) {
	for i, n := range keyNames {
		if strings.EqualFold(n, name) {
			return Key(i), true
		}
	}
	return 0, false
}

// KeySet is a bit set of keys.
type KeySet uint32

// NewKeySet returns the set holding keys.
func NewKeySet(keys ...Key) KeySet {
	var s KeySet
	for _, k := range keys {
		s = s.With(k)
	}
	return s
}

func (s KeySet) With(k Key) KeySet {
	return s | 1<<k
}

func (s KeySet) Has(k Key) bool {
	return s&(1<<k) != 0
}

// Poll lets a fixed set act as a Source.
func (s KeySet) Poll(uint64) KeySet {
	return s
}

func (s KeySet) String() string {
	if s == 0 {
		return "-"
	}
	var names []string
	for _, k := range AllKeys() {
		if s.Has(k) {
			names = append(names, k.String())
		}
	}
	return strings.Join(names, "+")
}

// Source reports which keys are held on a given update frame.
type Source interface {
	Poll(frame uint64) KeySet
}

// Keys is the per-frame keyboard snapshot, stored as a singleton.
type Keys struct {
	Current  KeySet
	Previous KeySet
}

// Pressed reports whether k is held this frame.
func (k *Keys) Pressed(key Key) bool {
	return k.Current.Has(key)
}

// AnyPressed reports whether any of keys is held this frame.
func (k *Keys) AnyPressed(keys ...Key) bool {
	for _, key := range keys {
		if k.Current.Has(key) {
			return true
		}
	}
	return false
}

// JustPressed reports whether k went down this frame.
func (k *Keys) JustPressed(key Key) bool {
	return k.Current.Has(key) && !k.Previous.Has(key)
}

// JustReleased reports whether k went up this frame.
func (k *Keys) JustReleased(key Key) bool {
	return !k.Current.Has(key) && k.Previous.Has(key)
}

// Set replaces the snapshot, shifting the old one into Previous.
func (k *Keys) Set(current KeySet) {
	k.Previous = k.Current
	k.Current = current
}

// CaptureSystem polls Source into the Keys singleton at the start of every
// frame. It must be registered before systems that read Keys.
type CaptureSystem struct {
	Source Source
	Keys   ecs.Singleton[Keys]
}

func (s *CaptureSystem) Execute(frame *ecs.UpdateFrame) {
	keys := s.Keys.Get()
	if keys == nil {
		return
	}

	var current KeySet
	if s.Source != nil {
		current = s.Source.Poll(frame.Frame)
	}
	keys.Set(current)
}
