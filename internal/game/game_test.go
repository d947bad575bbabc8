package game_test

import (
	"testing"
	"testing/fstest"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/plus3/starship/ecs"
	"github.com/plus3/starship/internal/config"
	"github.com/plus3/starship/internal/game"
	"github.com/plus3/starship/internal/input"
	"github.com/plus3/starship/internal/physics"
	"github.com/plus3/starship/internal/render"
	"github.com/plus3/starship/internal/ship"
)

func newApp(t *testing.T, script string, mutate ...func(*config.Config)) *game.App {
	t.Helper()
	source, err := input.ParseScript(script)
	require.NoError(t, err)

	cfg := config.Default()
	for _, fn := range mutate {
		fn(&cfg)
	}
	return game.New(game.Options{
		Config: cfg,
		Log:    zaptest.NewLogger(t),
		Input:  source,
	})
}

func TestStartupSpawnsOneShipAndCamera(t *testing.T) {
	app := newApp(t, "")
	_, ok := app.Ship()
	assert.False(t, ok, "nothing spawns before the first frame")

	app.Step()

	state, ok := app.Ship()
	require.True(t, ok)
	assert.Equal(t, mgl64.Vec3{-480, 0, 0}, state.Position)
	assert.Equal(t, mgl64.Vec3{0, 128, 0}, state.Speed)
	assert.Equal(t, mgl64.Vec3{}, state.Velocity)

	ships := ecs.NewView[struct{ *ship.PlayerShip }](app.Storage)
	assert.Equal(t, 1, ships.Count())
	assert.Equal(t, 1, ecs.NewView[render.CameraBundle](app.Storage).Count())

	for range 10 {
		app.Step()
	}
	assert.Equal(t, 1, ships.Count())
}

func TestShipBodyMatchesPrototype(t *testing.T) {
	app := newApp(t, "")
	app.Step()

	body := ecs.ReadComponent[physics.Body](app.Storage, app.PlayerRef().Id)
	require.NotNil(t, body)
	assert.Equal(t, 1.0, body.Friction())
	assert.Equal(t, ship.LayerPlayer, body.Filter().Groups)
	assert.Equal(t, ship.LayerWorld, body.Filter().Masks)
}

func TestPressReleasePress(t *testing.T) {
	app := newApp(t, "W:1,-:1,S:1")
	dt := 1.0 / 60.0

	app.Step()
	state, _ := app.Ship()
	assert.Equal(t, mgl64.Vec3{0, 128, 0}, state.Velocity)

	app.Step()
	state, _ = app.Ship()
	assert.Equal(t, mgl64.Vec3{0, 128, 0}, state.Velocity, "release keeps the last velocity")
	assert.InDelta(t, 128*dt, state.Position.Y(), 1e-9)

	app.Step()
	state, _ = app.Ship()
	assert.Equal(t, mgl64.Vec3{0, -128, 0}, state.Velocity)
	assert.InDelta(t, 2*128*dt, state.Position.Y(), 1e-9)

	app.Step()
	state, _ = app.Ship()
	assert.InDelta(t, 128*dt, state.Position.Y(), 1e-9)
	assert.InDelta(t, -480, state.Position.X(), 1e-9)
}

func TestDriftWhileIdle(t *testing.T) {
	app := newApp(t, "Up:1,-:60")
	for range 61 {
		app.Step()
	}

	state, _ := app.Ship()
	assert.Equal(t, mgl64.Vec3{0, 128, 0}, state.Velocity)
	assert.InDelta(t, 128, state.Position.Y(), 1e-6)
}

func TestStopOnRelease(t *testing.T) {
	app := newApp(t, "Up:1,-:60", func(cfg *config.Config) {
		cfg.Ship.StopOnRelease = true
	})
	for range 61 {
		app.Step()
	}

	state, _ := app.Ship()
	assert.Equal(t, mgl64.Vec3{}, state.Velocity)
	assert.InDelta(t, 128.0/60.0, state.Position.Y(), 1e-9, "only the frame after the press moves")
}

func TestBothKeysUpWins(t *testing.T) {
	app := newApp(t, "W+S:1")
	app.Step()

	state, _ := app.Ship()
	assert.Equal(t, mgl64.Vec3{0, 128, 0}, state.Velocity)
}

func TestEscapeTerminates(t *testing.T) {
	app := newApp(t, "-:2,Escape:1")
	require.NoError(t, app.Update())
	require.NoError(t, app.Update())
	assert.ErrorIs(t, app.Update(), ebiten.Termination)
}

func TestMissingTexturePanics(t *testing.T) {
	app := game.New(game.Options{
		Config: config.Default(),
		Assets: fstest.MapFS{},
		Input:  input.NewKeySet(),
	})
	assert.Panics(t, app.Step)
}

func TestLayout(t *testing.T) {
	app := newApp(t, "")
	w, h := app.Layout(800, 600)
	assert.Equal(t, 800, w)
	assert.Equal(t, 600, h)
}
