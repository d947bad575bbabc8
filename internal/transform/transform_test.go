package transform_test

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/plus3/starship/internal/transform"
	"github.com/stretchr/testify/assert"
)

func TestFromTranslation(t *testing.T) {
	tr := transform.FromTranslation(mgl64.Vec3{-480, 0, 0})
	assert.Equal(t, mgl64.Vec3{-480, 0, 0}, tr.Translation)
	assert.Equal(t, mgl64.Vec2{1, 1}, tr.Scale)
	assert.Zero(t, tr.Rotation)

	assert.Equal(t, mgl64.Vec3{}, transform.Identity().Translation)
}
