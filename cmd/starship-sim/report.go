package main

import (
	"fmt"
	"io"
	"runtime"
	"text/template"
	"time"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/plus3/starship/ecs"
	"github.com/plus3/starship/internal/game"
)

type Report struct {
	// Configuration
	Script   string
	Frames   uint64
	TPS      int
	Realtime bool

	// Results
	Ship           game.ShipState
	Storage        ecs.StorageStats
	Systems        []ecs.SystemStats
	TotalTime      time.Duration
	FrameTime      Stats
	GCPauseMetrics bool
	MemStatsStart  runtime.MemStats
	MemStatsEnd    runtime.MemStats
}

type Stats struct {
	Min     time.Duration
	Max     time.Duration
	Avg     time.Duration
	Samples []time.Duration
}

func (s *Stats) Finalize() {
	if len(s.Samples) == 0 {
		return
	}

	var total time.Duration
	s.Min = s.Samples[0]
	s.Max = s.Samples[0]

	for _, sample := range s.Samples {
		s.Min = min(s.Min, sample)
		s.Max = max(s.Max, sample)
		total += sample
	}
	s.Avg = total / time.Duration(len(s.Samples))
}

const reportTemplate = `
# Starship Simulation Report

## Run
- **Script:** {{if .Script}}{{.Script}}{{else}}(none){{end}}
- **Frames:** {{.Frames}} at {{.TPS}} TPS{{if .Realtime}} (realtime){{end}}
- **Simulated Time:** {{simtime .Frames .TPS}}

## Ship
- **Entity:** {{.Ship.Entity}}
- **Position:** {{vec .Ship.Position}}
- **Velocity:** {{vec .Ship.Velocity}}
- **Speed:** {{vec .Ship.Speed}}

## World
- **Entities:** {{.Storage.TotalEntityCount}}
- **Archetypes:** {{.Storage.ArchetypeCount}}
- **Singletons:** {{.Storage.SingletonCount}}

## Frame Time
- **Total:** {{.TotalTime}}
- **Avg:** {{.FrameTime.Avg}}
- **Min:** {{.FrameTime.Min}}
- **Max:** {{.FrameTime.Max}}

## Systems
{{range .Systems}}- {{.Name}} ({{.Stage}}): {{.ExecutionCount}} runs, avg {{.AvgDuration}}, max {{.MaxDuration}}
{{end}}
## Memory Usage (Raw Bytes)
- Heap Alloc:     {{.MemStatsStart.HeapAlloc}} (start) -> {{.MemStatsEnd.HeapAlloc}} (end) -> delta: {{bsub .MemStatsEnd.HeapAlloc .MemStatsStart.HeapAlloc}}
- Total Alloc:    {{.MemStatsStart.TotalAlloc}} (start) -> {{.MemStatsEnd.TotalAlloc}} (end) -> delta: {{bsub .MemStatsEnd.TotalAlloc .MemStatsStart.TotalAlloc}}
- Num GC:         {{.MemStatsStart.NumGC}} (start) -> {{.MemStatsEnd.NumGC}} (end) -> delta: {{usub .MemStatsEnd.NumGC .MemStatsStart.NumGC}}
{{if .GCPauseMetrics}}
## GC Pause Durations
- **Total GC Pause:** {{.MemStatsEnd.PauseTotalNs | ns}}
{{end}}`

var reportFuncs = template.FuncMap{
	"vec": func(v mgl64.Vec3) string {
		return fmt.Sprintf("(%.2f, %.2f, %.2f)", v[0], v[1], v[2])
	},
	"simtime": func(frames uint64, tps int) string {
		if tps <= 0 {
			return "n/a"
		}
		return (time.Duration(frames) * time.Second / time.Duration(tps)).String()
	},
	"bsub": func(a, b uint64) int64 {
		return int64(a) - int64(b)
	},
	"usub": func(a, b uint32) uint32 {
		return a - b
	},
	"ns": func(ns uint64) string {
		return time.Duration(ns).String()
	},
}

func (r *Report) Generate(w io.Writer) error {
	tmpl, err := template.New("report").Funcs(reportFuncs).Parse(reportTemplate)
	if err != nil {
		return fmt.Errorf("parse report template: %w", err)
	}
	return tmpl.Execute(w, r)
}
