package view

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"crypto_dash/internal/domain"
	"crypto_dash/internal/gateway"
	"crypto_dash/internal/infra"
	"crypto_dash/internal/scheduler"

	"golang.org/x/sync/errgroup"
)

// DashboardError is shown when either dashboard fetch fails.
const DashboardError = "Unable to load cryptocurrency data. Please try again later."

// DashboardData is the populated dashboard: asset grid plus overview tiles.
type DashboardData struct {
	Assets []domain.AssetSummary `json:"assets"`
	Stats  domain.MarketStats    `json:"stats"`
}

// DashboardConfig controls what the dashboard polls and how often.
type DashboardConfig struct {
	Query        gateway.MarketsQuery
	PollInterval time.Duration
}

// DefaultDashboardConfig returns the top 12 assets by market cap with
// sparklines, refreshed every minute.
func DefaultDashboardConfig() DashboardConfig {
	return DashboardConfig{
		Query: gateway.MarketsQuery{
			Currency:  "usd",
			Order:     "market_cap_desc",
			PerPage:   12,
			Page:      1,
			Sparkline: true,
		},
		PollInterval: 60 * time.Second,
	}
}

// Dashboard polls the asset list and global stats together.
type Dashboard struct {
	src   MarketSource
	cfg   DashboardConfig
	state *store[DashboardData]
	task  *scheduler.PeriodicTask
	now   func() time.Time

	manual atomic.Bool // next refresh was requested by Retry
}

// NewDashboard creates a stopped dashboard in the loading phase.
func NewDashboard(src MarketSource, cfg DashboardConfig) *Dashboard {
	d := &Dashboard{
		src:   src,
		cfg:   cfg,
		state: newStore[DashboardData](),
		now:   time.Now,
	}
	d.task = scheduler.NewPeriodicTask("dashboard", cfg.PollInterval, d.Refresh)
	return d
}

// Start fetches immediately and then every PollInterval.
func (d *Dashboard) Start(ctx context.Context) { d.task.Start(ctx) }

// Stop cancels polling; an in-flight fetch is discarded.
func (d *Dashboard) Stop() { d.task.Stop() }

// Retry requests an immediate refetch (the error placeholder's action).
// The refetch goes out even when the circuit breaker is open.
func (d *Dashboard) Retry() {
	d.manual.Store(true)
	d.task.Trigger()
}

// Snapshot returns the current state.
func (d *Dashboard) Snapshot() Snapshot[DashboardData] { return d.state.get() }

// Refresh performs one fetch cycle. Both requests run in parallel; the
// first failure cancels the other.
func (d *Dashboard) Refresh(ctx context.Context) {
	if d.manual.Swap(false) {
		ctx = infra.WithBreakerBypass(ctx)
	}
	d.state.begin()

	var (
		assets []domain.AssetSummary
		stats  *domain.MarketStats
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		assets, err = d.src.ListTopAssets(gctx, d.cfg.Query).Unwrap()
		return err
	})
	g.Go(func() error {
		var err error
		stats, err = d.src.GlobalStats(gctx).Unwrap()
		return err
	})

	err := g.Wait()
	if ctx.Err() != nil {
		// Torn down mid-fetch: leave state alone.
		return
	}
	if err != nil {
		slog.Warn("Dashboard refresh failed", slog.Any("error", err))
		d.state.fail(DashboardError)
		return
	}

	d.state.succeed(DashboardData{Assets: assets, Stats: *stats}, d.now())
}
