// Package game wires the ECS storage, the startup and update systems and the
// draw pass into an ebiten.Game.
package game

import (
	"io/fs"
	"os"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/hajimehoshi/ebiten/v2"
	"go.uber.org/zap"

	"github.com/plus3/starship/assets"
	"github.com/plus3/starship/ecs"
	"github.com/plus3/starship/internal/asset"
	"github.com/plus3/starship/internal/config"
	"github.com/plus3/starship/internal/input"
	"github.com/plus3/starship/internal/logging"
	"github.com/plus3/starship/internal/physics"
	"github.com/plus3/starship/internal/render"
	"github.com/plus3/starship/internal/ship"
	"github.com/plus3/starship/internal/transform"
)

// Overlay draws on top of the game, e.g. the debug UI. BeginFrame and
// EndFrame bracket each update.
type Overlay interface {
	BeginFrame()
	EndFrame()
	Draw(screen *ebiten.Image)
	Layout(outsideWidth, outsideHeight int)
}

type Options struct {
	Config config.Config
	Log    *zap.Logger

	// Assets overrides the asset file system. When nil, Config.Assets.Dir is
	// used if set, otherwise the bundled assets.
	Assets fs.FS

	// Input defaults to the ebiten keyboard.
	Input input.Source
}

// App is the running game. It implements ebiten.Game.
type App struct {
	Config    config.Config
	Log       *zap.Logger
	Storage   *ecs.Storage
	Assets    *asset.Server
	Scheduler *ecs.Scheduler
	Renderer  *ecs.Scheduler
	Overlay   Overlay

	keys   *ecs.Singleton[input.Keys]
	player *ecs.Singleton[ship.Player]
	screen *ecs.Singleton[render.Screen]
}

func NewRegistry() *ecs.ComponentRegistry {
	registry := ecs.NewComponentRegistry()
	render.RegisterComponents(registry)
	physics.RegisterComponents(registry)
	ship.RegisterComponents(registry)
	return registry
}

// New builds the storage and schedulers. Startup systems run on the first
// Step.
func New(opts Options) *App {
	cfg := opts.Config
	log := logging.OrNop(opts.Log)

	fsys := opts.Assets
	if fsys == nil {
		if cfg.Assets.Dir != "" {
			fsys = os.DirFS(cfg.Assets.Dir)
		} else {
			fsys = assets.FS
		}
	}

	source := opts.Input
	if source == nil {
		source = input.EbitenSource{}
	}

	storage := ecs.NewStorage(NewRegistry())
	app := &App{
		Config:  cfg,
		Log:     log,
		Storage: storage,
		Assets:  asset.NewServer(fsys, log),

		keys:   ecs.NewSingleton[input.Keys](storage),
		player: ecs.NewSingleton[ship.Player](storage),
		screen: ecs.NewSingleton[render.Screen](storage),
	}
	ecs.NewSingleton[render.Materials](storage)
	ecs.NewSingleton[physics.World](storage, physics.NewWorld(mgl64.Vec2{}))

	scheduler := ecs.NewScheduler(storage)
	scheduler.RegisterStartup(&ship.SetupSystem{})
	scheduler.RegisterStartup(&ship.SpawnSystem{
		Assets: app.Assets,
		Config: cfg.Ship,
		Log:    log.Named("ship"),
	})
	scheduler.Register(&input.CaptureSystem{Source: source})
	scheduler.Register(&ship.ControlSystem{
		Log:           log.Named("control"),
		StopOnRelease: cfg.Ship.StopOnRelease,
	})
	scheduler.Register(&physics.BodySystem{Log: log.Named("physics")})
	scheduler.Register(&physics.StepSystem{})
	app.Scheduler = scheduler

	renderer := ecs.NewScheduler(storage)
	renderer.Register(&render.DrawSystem{Assets: app.Assets, Log: log.Named("render")})
	app.Renderer = renderer

	return app
}

// Step runs one update frame of 1/TPS seconds.
func (a *App) Step() {
	a.Scheduler.Once(1.0 / float64(a.Config.Window.TPS))
}

// ShipState is a snapshot of the player ship.
type ShipState struct {
	Entity   ecs.EntityId
	Position mgl64.Vec3
	Velocity mgl64.Vec3
	Speed    mgl64.Vec3
}

// Ship returns the ship's current state, or false before it has spawned.
func (a *App) Ship() (ShipState, bool) {
	id, ok := a.player.Get().Entity()
	if !ok {
		return ShipState{}, false
	}

	state := ShipState{Entity: id}
	if tr := ecs.ReadComponent[transform.Transform](a.Storage, id); tr != nil {
		state.Position = tr.Translation
	}
	if v := ecs.ReadComponent[physics.Velocity](a.Storage, id); v != nil {
		state.Velocity = v.Linear
	}
	if s := ecs.ReadComponent[ship.PlayerShip](a.Storage, id); s != nil {
		state.Speed = s.Speed
	}
	return state, true
}

// PlayerRef returns the ship reference, nil before it has spawned.
func (a *App) PlayerRef() *ecs.EntityRef {
	return a.player.Get().Ref
}

func (a *App) Update() error {
	if a.Overlay != nil {
		a.Overlay.BeginFrame()
	}

	a.Step()

	if a.Overlay != nil {
		a.Overlay.EndFrame()
	}

	if a.keys.Get().JustPressed(input.KeyEscape) {
		a.Log.Info("quit requested")
		return ebiten.Termination
	}
	return nil
}

func (a *App) Draw(screen *ebiten.Image) {
	a.screen.Get().Image = screen
	a.Renderer.Once(0)
	a.screen.Get().Image = nil

	if a.Overlay != nil {
		a.Overlay.Draw(screen)
	}
}

func (a *App) Layout(outsideWidth, outsideHeight int) (int, int) {
	if a.Overlay != nil {
		a.Overlay.Layout(outsideWidth, outsideHeight)
	}
	return outsideWidth, outsideHeight
}
