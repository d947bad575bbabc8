// Command starship-sim runs the game without a window, feeding it a scripted
// key sequence, and prints a report of where the ship ended up.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"runtime"
	"time"

	"go.uber.org/zap"

	"github.com/plus3/starship/ecs"
	"github.com/plus3/starship/internal/config"
	"github.com/plus3/starship/internal/game"
	"github.com/plus3/starship/internal/input"
	"github.com/plus3/starship/internal/logging"
)

func main() {
	configPath := flag.String("config", "", "Path to a YAML config file.")
	scriptText := flag.String("script", "W:60,-:30,S:60", "Key script: KEYS:FRAMES steps separated by commas, '-' for no keys.")
	frames := flag.Uint64("frames", 0, "Number of frames to simulate. 0 runs until the script ends.")
	realtime := flag.Bool("realtime", false, "Pace frames at the configured TPS instead of running flat out.")
	logLevel := flag.String("log-level", "", "Overrides the configured log level.")
	gcPauseMetrics := flag.Bool("gc-pause-metrics", false, "Include GC pause metrics in the report.")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if *logLevel != "" {
		cfg.Log.Level = *logLevel
	}

	log, err := logging.New(cfg.Log)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer log.Sync()

	script, err := input.ParseScript(*scriptText)
	if err != nil {
		log.Fatal("parse script", zap.Error(err))
	}

	report, err := simulate(cfg, log, script, *frames, *realtime)
	if err != nil {
		log.Fatal("simulate", zap.Error(err))
	}
	report.GCPauseMetrics = *gcPauseMetrics

	if err := report.Generate(os.Stdout); err != nil {
		log.Fatal("generate report", zap.Error(err))
	}
}

func simulate(cfg config.Config, log *zap.Logger, script *input.Script, frames uint64, realtime bool) (*Report, error) {
	log = logging.OrNop(log)
	if frames == 0 {
		frames = script.Len()
	}
	if frames == 0 {
		return nil, fmt.Errorf("nothing to simulate: empty script and no -frames")
	}

	app := game.New(game.Options{
		Config: cfg,
		Log:    log,
		Input:  script,
	})

	report := &Report{
		Script:   script.String(),
		Frames:   frames,
		TPS:      cfg.Window.TPS,
		Realtime: realtime,
		FrameTime: Stats{
			Samples: make([]time.Duration, 0, frames),
		},
	}
	runtime.ReadMemStats(&report.MemStatsStart)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	startTime := time.Now()
	lastFrame := startTime
	app.Scheduler.OnFrameEnd(func(frame *ecs.UpdateFrame) {
		now := time.Now()
		report.FrameTime.Samples = append(report.FrameTime.Samples, now.Sub(lastFrame))
		lastFrame = now
		if frame.Frame >= frames {
			cancel()
		}
	})

	log.Info("simulating",
		zap.Uint64("frames", frames),
		zap.Stringer("script", script),
		zap.Bool("realtime", realtime))

	if realtime {
		app.Scheduler.Run(ctx, time.Second/time.Duration(cfg.Window.TPS))
	} else {
		for ctx.Err() == nil {
			app.Step()
		}
	}

	report.TotalTime = time.Since(startTime)
	report.FrameTime.Finalize()
	runtime.ReadMemStats(&report.MemStatsEnd)

	ship, ok := app.Ship()
	if !ok {
		return nil, fmt.Errorf("ship was never spawned")
	}
	report.Ship = ship
	report.Storage = app.Storage.CollectStats()
	report.Systems = app.Scheduler.GetStats().Systems

	log.Info("simulation finished",
		zap.Duration("elapsed", report.TotalTime),
		zap.Float64("y", ship.Position.Y()))
	return report, nil
}
