package ecs

import (
	"context"
	"reflect"
	"time"
)

// Stage says when a system runs.
type Stage int

const (
	// StageStartup systems run once, before the first update frame.
	StageStartup Stage = iota
	// StageUpdate systems run every frame.
	StageUpdate
)

func (s Stage) String() string {
	switch s {
	case StageStartup:
		return "startup"
	case StageUpdate:
		return "update"
	default:
		return "unknown"
	}
}

// SchedulerStats provides statistics about scheduler execution.
type SchedulerStats struct {
	SystemCount     int
	TotalExecutions int64
	Frames          uint64
	Systems         []SystemStats
}

// SystemStats provides execution statistics for a single system.
type SystemStats struct {
	Name           string
	Stage          Stage
	ExecutionCount int64
	MinDuration    time.Duration
	MaxDuration    time.Duration
	AvgDuration    time.Duration
	LastDuration   time.Duration
	TotalDuration  time.Duration
}

// storageBinder is implemented by Query and Singleton fields.
type storageBinder interface {
	Init(storage *Storage)
}

// frameRefresher is implemented by Query fields.
type frameRefresher interface {
	Execute()
}

type registeredSystem struct {
	system  System
	stage   Stage
	queries []frameRefresher
	stats   SystemStats
}

// Scheduler runs startup systems once and update systems every frame, in
// registration order, flushing buffered commands at the end of each stage.
type Scheduler struct {
	storage   *Storage
	systems   []*registeredSystem
	started   bool
	frames    uint64
	afterStep []func(frame *UpdateFrame)
}

// NewScheduler creates a scheduler for storage.
func NewScheduler(storage *Storage) *Scheduler {
	return &Scheduler{storage: storage}
}

// Register adds an update system and wires its Query and Singleton fields.
func (s *Scheduler) Register(system System) {
	s.add(system, StageUpdate)
}

// RegisterStartup adds a system that runs once before the first frame.
func (s *Scheduler) RegisterStartup(system System) {
	s.add(system, StageStartup)
}

// OnFrameEnd registers fn to run after each update frame has been flushed.
func (s *Scheduler) OnFrameEnd(fn func(frame *UpdateFrame)) {
	s.afterStep = append(s.afterStep, fn)
}

func (s *Scheduler) add(system System, stage Stage) {
	systemType := reflect.TypeOf(system)
	if systemType.Kind() == reflect.Ptr {
		systemType = systemType.Elem()
	}

	s.systems = append(s.systems, &registeredSystem{
		system:  system,
		stage:   stage,
		queries: s.bindFields(system),
		stats: SystemStats{
			Name:        systemType.Name(),
			Stage:       stage,
			MinDuration: time.Duration(1<<63 - 1),
		},
	})
}

// bindFields initializes every exported Query/Singleton field of system and
// returns the queries that need a per-frame refresh.
func (s *Scheduler) bindFields(system System) []frameRefresher {
	value := reflect.ValueOf(system)
	if value.Kind() == reflect.Ptr {
		value = value.Elem()
	}
	if value.Kind() != reflect.Struct {
		return nil
	}

	var queries []frameRefresher
	for i := 0; i < value.NumField(); i++ {
		field := value.Field(i)
		if !field.CanSet() || field.Kind() != reflect.Struct {
			continue
		}

		binder, ok := field.Addr().Interface().(storageBinder)
		if !ok {
			continue
		}
		binder.Init(s.storage)

		if q, ok := binder.(frameRefresher); ok {
			queries = append(queries, q)
		}
	}
	return queries
}

func (s *Scheduler) runStage(stage Stage, frame *UpdateFrame) {
	for _, rs := range s.systems {
		if rs.stage != stage {
			continue
		}

		for _, q := range rs.queries {
			q.Execute()
		}

		start := time.Now()
		rs.system.Execute(frame)
		rs.stats.record(time.Since(start))
	}
	frame.Commands.Flush(s.storage)
}

// Startup runs the startup stage. Later calls do nothing.
func (s *Scheduler) Startup() {
	if s.started {
		return
	}
	s.started = true
	s.runStage(StageStartup, newUpdateFrame(0, 0, s.storage))
}

// Started reports whether the startup stage has run.
func (s *Scheduler) Started() bool {
	return s.started
}

// Once runs a single update frame of length dt seconds, running the startup
// stage first if it has not run yet.
func (s *Scheduler) Once(dt float64) {
	s.Startup()

	s.frames++
	frame := newUpdateFrame(dt, s.frames, s.storage)
	s.runStage(StageUpdate, frame)

	for _, fn := range s.afterStep {
		fn(frame)
	}
}

// Run executes frames at the given interval until ctx is cancelled.
func (s *Scheduler) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	lastTime := time.Now()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			dt := now.Sub(lastTime).Seconds()
			lastTime = now
			s.Once(dt)
		}
	}
}

// Frames returns the number of update frames run so far.
func (s *Scheduler) Frames() uint64 {
	return s.frames
}

func (st *SystemStats) record(d time.Duration) {
	st.ExecutionCount++
	st.LastDuration = d
	st.TotalDuration += d
	if d < st.MinDuration {
		st.MinDuration = d
	}
	if d > st.MaxDuration {
		st.MaxDuration = d
	}
}

// GetStats returns a copy of the per-system statistics.
func (s *Scheduler) GetStats() *SchedulerStats {
	stats := &SchedulerStats{
		SystemCount: len(s.systems),
		Frames:      s.frames,
		Systems:     make([]SystemStats, len(s.systems)),
	}

	for i, rs := range s.systems {
		st := rs.stats
		if st.ExecutionCount > 0 {
			st.AvgDuration = st.TotalDuration / time.Duration(st.ExecutionCount)
		} else {
			st.MinDuration = 0
		}
		stats.Systems[i] = st
		stats.TotalExecutions += st.ExecutionCount
	}

	return stats
}
