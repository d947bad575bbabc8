package ebiten_test

import (
	"github.com/hajimehoshi/ebiten/v2"

	"github.com/plus3/starship/ecs/debugui"
	debugui_ebiten "github.com/plus3/starship/ecs/debugui/ebiten"
	"github.com/plus3/starship/internal/config"
	"github.com/plus3/starship/internal/game"
)

func Example() {
	cfg := config.Default()

	// The backend creates the window, so it must exist before the game runs.
	backend := debugui_ebiten.NewImguiBackend(cfg.Window.Title, cfg.Window.Width, cfg.Window.Height)

	app := game.New(game.Options{Config: cfg})
	debugui.Install(app.Storage, app.Scheduler, debugui.Options{
		Scheduler: app.Scheduler,
		Focus:     app.PlayerRef,
	})
	app.Overlay = backend

	if err := ebiten.RunGame(app); err != nil {
		panic(err)
	}
}
