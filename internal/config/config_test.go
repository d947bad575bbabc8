package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/plus3/starship/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultMatchesPrototype(t *testing.T) {
	cfg := config.Default()

	assert.Equal(t, [3]float64{-480, 0, 0}, cfg.Ship.Position)
	assert.Equal(t, [3]float64{0, 128, 0}, cfg.Ship.Speed)
	assert.Equal(t, 18.0, cfg.Ship.Radius)
	assert.Equal(t, 8.0, cfg.Ship.HalfSegment)
	assert.Equal(t, 1.0, cfg.Ship.Friction)
	assert.Equal(t, 10.0, cfg.Ship.Density)
	assert.Equal(t, "ship.png", cfg.Ship.Texture)
	assert.False(t, cfg.Ship.StopOnRelease)
	assert.NoError(t, cfg.Validate())
}

func TestDecodeOverridesSubset(t *testing.T) {
	cfg, err := config.Decode(strings.NewReader(`
window:
  title: test
ship:
  speed: [0, 256, 0]
  stop_on_release: true
debug: true
`))
	require.NoError(t, err)

	assert.Equal(t, "test", cfg.Window.Title)
	assert.Equal(t, 1280, cfg.Window.Width)
	assert.Equal(t, [3]float64{0, 256, 0}, cfg.Ship.Speed)
	assert.True(t, cfg.Ship.StopOnRelease)
	assert.True(t, cfg.Debug)
	assert.Equal(t, 18.0, cfg.Ship.Radius)
}

func TestDecodeEmptyIsDefault(t *testing.T) {
	cfg, err := config.Decode(strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)
}

func TestDecodeRejects(t *testing.T) {
	tests := map[string]string{
		"unknown field": "ship:\n  colour: red\n",
		"zero tps":      "window:\n  tps: 0\n",
		"bad radius":    "ship:\n  radius: -1\n",
		"bad encoding":  "log:\n  encoding: xml\n",
		"no texture":    "ship:\n  texture: \"\"\n",
	}

	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := config.Decode(strings.NewReader(doc))
			assert.Error(t, err)
		})
	}

	_, err := config.Decode(strings.NewReader("window:\n  width: 0\n"))
	assert.ErrorIs(t, err, config.ErrInvalid)
}

func TestLoad(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)

	path := filepath.Join(t.TempDir(), "starship.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log:\n  level: debug\n"), 0o644))

	cfg, err = config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Log.Level)

	_, err = config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
