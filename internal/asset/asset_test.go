package asset_test

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"
	"testing/fstest"

	"github.com/plus3/starship/assets"
	"github.com/plus3/starship/internal/asset"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	img.Set(0, 0, color.White)
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestLoadCachesByName(t *testing.T) {
	fsys := fstest.MapFS{
		"ship.png":  {Data: pngBytes(t, 4, 2)},
		"enemy.png": {Data: pngBytes(t, 1, 1)},
	}
	server := asset.NewServer(fsys, zaptest.NewLogger(t))

	h1, err := server.Load("ship.png")
	require.NoError(t, err)
	h2, err := server.Load("ship.png")
	require.NoError(t, err)
	h3, err := server.Load("enemy.png")
	require.NoError(t, err)

	assert.Equal(t, h1, h2)
	assert.NotEqual(t, h1, h3)
	assert.Equal(t, 2, server.Len())
	assert.Equal(t, "ship.png", server.Name(h1))
	assert.Equal(t, 4, server.Image(h1).Bounds().Dx())
	assert.Nil(t, server.Image(0))
	assert.Nil(t, server.Image(99))
}

func TestLoadErrors(t *testing.T) {
	server := asset.NewServer(fstest.MapFS{
		"broken.png": {Data: []byte("not a png")},
	}, nil)

	_, err := server.Load("ship.png")
	assert.ErrorIs(t, err, asset.ErrNotFound)

	_, err = server.Load("broken.png")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, asset.ErrNotFound)

	assert.Panics(t, func() { server.MustLoad("ship.png") })
}

func TestBundledShipTexture(t *testing.T) {
	server := asset.NewServer(assets.FS, nil)

	h, err := server.Load("ship.png")
	require.NoError(t, err)
	bounds := server.Image(h).Bounds()
	assert.Equal(t, 48, bounds.Dx())
	assert.Equal(t, 40, bounds.Dy())
}
