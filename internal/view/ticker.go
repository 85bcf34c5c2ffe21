package view

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"crypto_dash/internal/domain"
	"crypto_dash/internal/gateway"
	"crypto_dash/internal/scheduler"
)

// TickerError is shown when the ticker has nothing to display.
const TickerError = "Failed to fetch ticker data"

// TickerConfig controls the footer ticker poll.
type TickerConfig struct {
	Query        gateway.MarketsQuery
	PollInterval time.Duration
}

// DefaultTickerConfig returns the 15 highest-volume assets, refreshed every minute.
func DefaultTickerConfig() TickerConfig {
	return TickerConfig{
		Query: gateway.MarketsQuery{
			Currency: "usd",
			Order:    "volume_desc",
			PerPage:  15,
		},
		PollInterval: 60 * time.Second,
	}
}

// Ticker polls a volume-sorted asset list for the scrolling footer and
// owns the footer clock. It is independent of the dashboard.
type Ticker struct {
	src   MarketSource
	cfg   TickerConfig
	state *store[[]domain.TickerEntry]
	task  *scheduler.PeriodicTask
	clock *Clock
	now   func() time.Time
}

// NewTicker creates a stopped ticker.
func NewTicker(src MarketSource, cfg TickerConfig) *Ticker {
	t := &Ticker{
		src:   src,
		cfg:   cfg,
		state: newStore[[]domain.TickerEntry](),
		clock: NewClock(time.Second),
		now:   time.Now,
	}
	t.task = scheduler.NewPeriodicTask("ticker", cfg.PollInterval, t.Refresh)
	return t
}

// Start begins polling and the clock.
func (t *Ticker) Start(ctx context.Context) {
	t.clock.Start(ctx)
	t.task.Start(ctx)
}

// Stop halts both the poll and the clock.
func (t *Ticker) Stop() {
	t.task.Stop()
	t.clock.Stop()
}

// Clock returns the footer clock.
func (t *Ticker) Clock() *Clock { return t.clock }

// Snapshot returns the current entries. After a failed poll the previous
// entries stay visible and Error carries the failure.
func (t *Ticker) Snapshot() Snapshot[[]domain.TickerEntry] { return t.state.get() }

// Refresh performs one poll.
func (t *Ticker) Refresh(ctx context.Context) {
	res := t.src.ListTopAssets(ctx, t.cfg.Query)
	if ctx.Err() != nil {
		return
	}

	if !res.OK() {
		slog.Warn("Ticker refresh failed", slog.Any("error", res.Err()))
		t.state.fail(TickerError)
		return
	}

	assets := res.Value()
	entries := make([]domain.TickerEntry, 0, len(assets))
	for _, a := range assets {
		entries = append(entries, domain.NewTickerEntry(a))
	}
	t.state.succeed(entries, t.now())
}

// Clock publishes the wall time once per tick for the footer display.
type Clock struct {
	mu      sync.RWMutex
	current time.Time
	now     func() time.Time
	task    *scheduler.PeriodicTask

	subMu sync.Mutex
	subs  []chan time.Time
}

// NewClock creates a stopped clock ticking every interval.
func NewClock(interval time.Duration) *Clock {
	c := &Clock{now: time.Now}
	c.current = c.now()
	c.task = scheduler.NewPeriodicTask("clock", interval, c.tick)
	return c
}

// Start begins ticking.
func (c *Clock) Start(ctx context.Context) { c.task.Start(ctx) }

// Stop halts the clock and closes subscriber channels.
func (c *Clock) Stop() {
	c.task.Stop()

	c.subMu.Lock()
	for _, ch := range c.subs {
		close(ch)
	}
	c.subs = nil
	c.subMu.Unlock()
}

// Now returns the time of the last tick.
func (c *Clock) Now() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.current
}

// Subscribe returns a channel receiving each tick. Slow readers miss ticks
// rather than block the clock. The channel closes on Stop.
func (c *Clock) Subscribe() <-chan time.Time {
	ch := make(chan time.Time, 1)
	c.subMu.Lock()
	c.subs = append(c.subs, ch)
	c.subMu.Unlock()
	return ch
}

func (c *Clock) tick(ctx context.Context) {
	t := c.now()

	c.mu.Lock()
	c.current = t
	c.mu.Unlock()

	c.subMu.Lock()
	defer c.subMu.Unlock()
	for _, ch := range c.subs {
		select {
		case ch <- t:
		default:
		}
	}
}
