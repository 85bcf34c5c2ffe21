package scheduler

import (
	"context"
	"sync/atomic"
	"testing"
	"time"
)

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal("condition not met in time")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestPeriodicTask_RunsImmediatelyThenOnInterval(t *testing.T) {
	var runs atomic.Int32
	task := NewPeriodicTask("test", 20*time.Millisecond, func(ctx context.Context) {
		runs.Add(1)
	})

	task.Start(context.Background())
	defer task.Stop()

	waitFor(t, func() bool { return runs.Load() >= 1 })
	waitFor(t, func() bool { return runs.Load() >= 3 })
}

func TestPeriodicTask_StopPreventsFurtherRuns(t *testing.T) {
	var runs atomic.Int32
	task := NewPeriodicTask("test", 10*time.Millisecond, func(ctx context.Context) {
		runs.Add(1)
	})

	task.Start(context.Background())
	waitFor(t, func() bool { return runs.Load() >= 2 })
	task.Stop()

	after := runs.Load()
	time.Sleep(50 * time.Millisecond)
	if runs.Load() != after {
		t.Errorf("task ran after Stop: %d -> %d", after, runs.Load())
	}
}

func TestPeriodicTask_StopWaitsForRun(t *testing.T) {
	started := make(chan struct{})
	var finished atomic.Bool
	task := NewPeriodicTask("test", time.Hour, func(ctx context.Context) {
		close(started)
		<-ctx.Done()
		time.Sleep(10 * time.Millisecond)
		finished.Store(true)
	})

	task.Start(context.Background())
	<-started
	task.Stop()

	if !finished.Load() {
		t.Error("Stop returned before the run finished")
	}
}

func TestPeriodicTask_Trigger(t *testing.T) {
	var runs atomic.Int32
	task := NewPeriodicTask("test", time.Hour, func(ctx context.Context) {
		runs.Add(1)
	})

	task.Start(context.Background())
	defer task.Stop()
	waitFor(t, func() bool { return runs.Load() == 1 })

	task.Trigger()
	waitFor(t, func() bool { return runs.Load() == 2 })
}

func TestPeriodicTask_PanicDoesNotKillLoop(t *testing.T) {
	var runs atomic.Int32
	task := NewPeriodicTask("test", 10*time.Millisecond, func(ctx context.Context) {
		if runs.Add(1) == 1 {
			panic("boom")
		}
	})

	task.Start(context.Background())
	defer task.Stop()

	waitFor(t, func() bool { return runs.Load() >= 2 })
}

func TestPeriodicTask_StartTwiceIsNoop(t *testing.T) {
	var runs atomic.Int32
	task := NewPeriodicTask("test", time.Hour, func(ctx context.Context) { runs.Add(1) })

	task.Start(context.Background())
	task.Start(context.Background())
	defer task.Stop()

	waitFor(t, func() bool { return runs.Load() == 1 })
	time.Sleep(20 * time.Millisecond)
	if runs.Load() != 1 {
		t.Errorf("runs = %d, want 1", runs.Load())
	}
}
