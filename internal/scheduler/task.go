package scheduler

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// PeriodicTask runs a function once on Start and then on every interval
// until Stop. Runs never overlap: ticks that arrive while a run is in
// progress are dropped by the underlying ticker.
type PeriodicTask struct {
	name     string
	interval time.Duration
	run      func(ctx context.Context)

	mu      sync.Mutex
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	trigger chan struct{}
}

// NewPeriodicTask creates a stopped task.
func NewPeriodicTask(name string, interval time.Duration, run func(ctx context.Context)) *PeriodicTask {
	return &PeriodicTask{
		name:     name,
		interval: interval,
		run:      run,
		trigger:  make(chan struct{}, 1),
	}
}

// Start launches the loop. The first run happens immediately. Calling Start
// on a running task is a no-op.
func (t *PeriodicTask) Start(ctx context.Context) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.cancel != nil {
		return
	}

	ctx, t.cancel = context.WithCancel(ctx)
	t.wg.Add(1)
	go t.loop(ctx)
}

// Trigger requests an extra run as soon as the current one finishes.
// Multiple pending triggers collapse into one.
func (t *PeriodicTask) Trigger() {
	select {
	case t.trigger <- struct{}{}:
	default:
	}
}

// Stop cancels the loop and waits for an in-progress run to return.
// After Stop returns no further runs happen.
func (t *PeriodicTask) Stop() {
	t.mu.Lock()
	cancel := t.cancel
	t.cancel = nil
	t.mu.Unlock()

	if cancel != nil {
		cancel()
		t.wg.Wait()
	}
}

func (t *PeriodicTask) loop(ctx context.Context) {
	defer t.wg.Done()

	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	t.safeRun(ctx)

	for {
		select {
		case <-ctx.Done():
			slog.Debug("Periodic task stopped", slog.String("task", t.name))
			return
		case <-ticker.C:
		case <-t.trigger:
		}

		// Stop may race with a tick; prefer stopping.
		if ctx.Err() != nil {
			return
		}
		t.safeRun(ctx)
	}
}

func (t *PeriodicTask) safeRun(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("Periodic task panic recovered",
				slog.String("task", t.name),
				slog.Any("panic", r))
		}
	}()
	t.run(ctx)
}
