package debugui

import "github.com/plus3/starship/ecs"

// Options selects what the debug windows show.
type Options struct {
	// Scheduler, when set, adds per-system timings to the performance window.
	Scheduler *ecs.Scheduler

	// Focus returns the entity the inspector follows until the user picks
	// another one in the entity list.
	Focus func() *ecs.EntityRef
}

func RegisterComponents(registry *ecs.ComponentRegistry) {
	ecs.RegisterComponent[ImguiItem](registry)
}

// Install spawns the debug windows into storage and registers ImguiSystem on
// scheduler. The windows render at the end of every frame.
func Install(storage *ecs.Storage, scheduler *ecs.Scheduler, opts Options) {
	RegisterComponents(storage.Registry())
	ecs.NewSingleton[ImguiInputState](storage)

	entities := NewEntityListComponent(100)
	inspector := NewInspectorComponent()
	perf := NewPerformanceStatsComponent(120)
	timer := NewFrameTimer()

	storage.Spawn(ImguiItem{Render: func() {
		perf.Render(storage, opts.Scheduler, timer.GetDeltaTime())
	}})
	storage.Spawn(ImguiItem{Render: func() {
		entities.Render(storage)
	}})
	storage.Spawn(ImguiItem{Render: func() {
		id := entities.Selected()
		if id == 0 && opts.Focus != nil {
			if ref := opts.Focus(); ref.Valid() {
				id = ref.Id
			}
		}
		inspector.Render(storage, id)
	}})

	scheduler.Register(&ImguiSystem{})
}
