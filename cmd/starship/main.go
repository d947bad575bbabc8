// Command starship opens the game window.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"go.uber.org/zap"

	"github.com/plus3/starship/ecs"
	"github.com/plus3/starship/ecs/debugui"
	debugui_ebiten "github.com/plus3/starship/ecs/debugui/ebiten"
	"github.com/plus3/starship/internal/config"
	"github.com/plus3/starship/internal/game"
	"github.com/plus3/starship/internal/input"
	"github.com/plus3/starship/internal/logging"
)

func main() {
	configPath := flag.String("config", "", "Path to a YAML config file.")
	debug := flag.Bool("debug", false, "Show the debug UI.")
	logLevel := flag.String("log-level", "", "Overrides the configured log level.")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if *logLevel != "" {
		cfg.Log.Level = *logLevel
	}
	cfg.Debug = cfg.Debug || *debug

	log, err := logging.New(cfg.Log)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer log.Sync()

	var backend *debugui_ebiten.ImguiBackend
	if cfg.Debug {
		backend = debugui_ebiten.NewImguiBackend(cfg.Window.Title, cfg.Window.Width, cfg.Window.Height)
	} else {
		ebiten.SetWindowSize(cfg.Window.Width, cfg.Window.Height)
		ebiten.SetWindowTitle(cfg.Window.Title)
	}
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(cfg.Window.TPS)

	keyboard := &guardedKeyboard{}
	app := game.New(game.Options{
		Config: cfg,
		Log:    log,
		Input:  keyboard,
	})

	if backend != nil {
		debugui.Install(app.Storage, app.Scheduler, debugui.Options{
			Scheduler: app.Scheduler,
			Focus:     app.PlayerRef,
		})
		keyboard.imgui = ecs.NewSingleton[debugui.ImguiInputState](app.Storage)
		app.Overlay = backend
	}

	log.Info("starting",
		zap.String("title", cfg.Window.Title),
		zap.Int("tps", cfg.Window.TPS),
		zap.Bool("debug", cfg.Debug))

	if err := ebiten.RunGame(app); err != nil {
		panic(err)
	}
}

// guardedKeyboard reads the keyboard unless the debug UI has focus.
type guardedKeyboard struct {
	input.EbitenSource
	imgui *ecs.Singleton[debugui.ImguiInputState]
}

func (k *guardedKeyboard) Poll(frame uint64) input.KeySet {
	if k.imgui != nil && k.imgui.Get().WantCaptureKeyboard {
		return 0
	}
	return k.EbitenSource.Poll(frame)
}
