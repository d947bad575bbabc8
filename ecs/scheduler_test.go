package ecs_test

import (
	"context"
	"testing"
	"time"

	"github.com/plus3/starship/ecs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type MovementSystem struct {
	Entities ecs.Query[struct {
		*Position
		*Velocity
	}]
	ExecuteCount int
}

func (s *MovementSystem) Execute(frame *ecs.UpdateFrame) {
	s.ExecuteCount++
	for item := range s.Entities.Values() {
		item.Position.X += item.Velocity.DX * float32(frame.DeltaTime)
		item.Position.Y += item.Velocity.DY * float32(frame.DeltaTime)
	}
}

type seedSystem struct {
	Count ecs.Singleton[Score]
	runs  int
}

func (s *seedSystem) Execute(frame *ecs.UpdateFrame) {
	s.runs++
	*s.Count.Get() += 1
	frame.Commands.Spawn(Position{}, Velocity{DX: 1, DY: 2})
}

func TestSchedulerStartupRunsOnceBeforeUpdates(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	ecs.NewSingleton[Score](storage)
	scheduler := ecs.NewScheduler(storage)

	seed := &seedSystem{}
	movement := &MovementSystem{}
	scheduler.Register(movement)
	scheduler.RegisterStartup(seed)

	assert.False(t, scheduler.Started())

	scheduler.Once(1.0)
	scheduler.Once(1.0)

	assert.True(t, scheduler.Started())
	assert.Equal(t, 1, seed.runs)
	assert.Equal(t, 2, movement.ExecuteCount)
	assert.Equal(t, uint64(2), scheduler.Frames())

	var score *Score
	require.True(t, storage.ReadSingleton(&score))
	assert.Equal(t, Score(1), *score)

	for item := range ecs.NewView[struct{ *Position }](storage).Values() {
		assert.Equal(t, float32(2), item.Position.X, "startup spawn is visible to the first frame")
		assert.Equal(t, float32(4), item.Position.Y)
	}
}

type countingSystem struct {
	Positions ecs.Query[struct{ *Position }]
	counts    []int
}

func (s *countingSystem) Execute(frame *ecs.UpdateFrame) {
	s.counts = append(s.counts, s.Positions.Len())
	frame.Commands.Spawn(Position{})
}

func TestSchedulerQueryRefreshesEachFrame(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	scheduler := ecs.NewScheduler(storage)

	counter := &countingSystem{}
	scheduler.Register(counter)

	scheduler.Once(0)
	scheduler.Once(0)
	scheduler.Once(0)

	assert.Equal(t, []int{0, 1, 2}, counter.counts)
}

func TestQueryIterBeforeExecutePanics(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	query := ecs.NewQuery[struct{ *Position }](storage)
	assert.Panics(t, func() { query.Iter() })
	assert.Panics(t, func() { query.Values() })
}

type sleepySystem struct {
	sleep time.Duration
}

func (s *sleepySystem) Execute(frame *ecs.UpdateFrame) {
	time.Sleep(s.sleep)
}

func TestSchedulerStats(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	scheduler := ecs.NewScheduler(storage)

	stats := scheduler.GetStats()
	assert.Zero(t, stats.SystemCount)

	scheduler.RegisterStartup(&sleepySystem{sleep: time.Millisecond})
	scheduler.Register(&sleepySystem{sleep: time.Millisecond})

	scheduler.Once(0.016)
	scheduler.Once(0.016)
	scheduler.Once(0.016)

	stats = scheduler.GetStats()
	assert.Equal(t, 2, stats.SystemCount)
	assert.Equal(t, int64(4), stats.TotalExecutions)
	assert.Equal(t, uint64(3), stats.Frames)

	startup, update := stats.Systems[0], stats.Systems[1]
	assert.Equal(t, "sleepySystem", startup.Name)
	assert.Equal(t, ecs.StageStartup, startup.Stage)
	assert.Equal(t, int64(1), startup.ExecutionCount)
	assert.Equal(t, ecs.StageUpdate, update.Stage)
	assert.Equal(t, int64(3), update.ExecutionCount)

	assert.NotZero(t, update.MinDuration)
	assert.LessOrEqual(t, update.MinDuration, update.AvgDuration)
	assert.LessOrEqual(t, update.AvgDuration, update.MaxDuration)
}

func TestSchedulerRunStopsOnCancel(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	scheduler := ecs.NewScheduler(storage)

	frames := 0
	scheduler.Register(ecs.SystemFunc(func(*ecs.UpdateFrame) { frames++ }))

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	scheduler.Run(ctx, time.Millisecond)

	assert.Positive(t, frames)
	assert.Equal(t, uint64(frames), scheduler.Frames())
}

func TestSchedulerOnFrameEnd(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	scheduler := ecs.NewScheduler(storage)
	scheduler.Register(ecs.SystemFunc(func(frame *ecs.UpdateFrame) {
		frame.Commands.Spawn(Position{})
	}))

	var visible []int
	scheduler.OnFrameEnd(func(frame *ecs.UpdateFrame) {
		visible = append(visible, ecs.NewView[struct{ *Position }](frame.Storage).Count())
	})

	scheduler.Once(0)
	scheduler.Once(0)
	assert.Equal(t, []int{1, 2}, visible)
}
