package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"crypto_dash/internal/gateway"
	"crypto_dash/internal/infra"
	"crypto_dash/internal/infra/httpclient"
	"crypto_dash/internal/view"
)

// apiKeyHeader carries the CoinGecko demo key when one is configured.
const apiKeyHeader = "x-cg-demo-api-key"

// Bootstrap orchestrates the application startup sequence
type Bootstrap struct {
	Config  *infra.Config
	Client  *httpclient.Client
	Breaker *infra.CircuitBreaker
	Gateway *gateway.Gateway

	Dashboard *view.Dashboard
	Ticker    *view.Ticker
}

// NewBootstrap creates a new Bootstrap instance
func NewBootstrap() *Bootstrap {
	return &Bootstrap{}
}

// Initialize loads configuration from the resolved path and builds every
// component. It does not start any timers.
func (b *Bootstrap) Initialize() error {
	cfg, err := infra.LoadConfig(infra.ResolveConfigPath())
	if err != nil {
		return err
	}
	return b.InitializeWith(cfg)
}

// InitializeWith builds the components from an already loaded config.
func (b *Bootstrap) InitializeWith(cfg *infra.Config, opts ...httpclient.Option) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	b.Config = cfg

	// 1. Logger
	slog.SetDefault(infra.NewLogger(cfg))
	slog.Info("🚀 Bootstrapping Crypto Dash...", slog.String("version", cfg.App.Version))

	// 2. HTTP client with retry policy and guards
	clientOpts := []httpclient.Option{httpclient.WithTimeout(cfg.Timeout())}
	if cfg.API.APIKey != "" {
		clientOpts = append(clientOpts, httpclient.WithHeader(apiKeyHeader, cfg.API.APIKey))
	}
	if cfg.API.RateLimit.PerMinute > 0 {
		rl := infra.NewRateLimiterPerMinute(cfg.API.RateLimit.Burst, cfg.API.RateLimit.PerMinute)
		clientOpts = append(clientOpts, httpclient.WithRateLimiter(rl))
	}
	if cfg.API.CircuitBreaker.Enabled {
		b.Breaker = infra.NewCircuitBreaker(infra.CircuitBreakerConfig{
			Name:             "coingecko",
			FailureThreshold: cfg.API.CircuitBreaker.FailureThreshold,
			SuccessThreshold: cfg.API.CircuitBreaker.SuccessThreshold,
			Cooldown:         time.Duration(cfg.API.CircuitBreaker.CooldownSec) * time.Second,
		})
		clientOpts = append(clientOpts, httpclient.WithCircuitBreaker(b.Breaker))
	}
	clientOpts = append(clientOpts, opts...)

	client, err := httpclient.New(cfg.API.BaseURL, clientOpts...)
	if err != nil {
		return fmt.Errorf("failed to create API client: %w", err)
	}
	b.Client = client
	slog.Info("✅ API client ready", slog.String("base_url", cfg.API.BaseURL))

	// 3. Gateway and views
	b.Gateway = gateway.New(client)

	dashCfg := view.DefaultDashboardConfig()
	dashCfg.Query.Currency = cfg.Dashboard.Currency
	dashCfg.Query.Order = cfg.Dashboard.Order
	dashCfg.Query.PerPage = cfg.Dashboard.PerPage
	dashCfg.PollInterval = seconds(cfg.Dashboard.PollIntervalSec)
	b.Dashboard = view.NewDashboard(b.Gateway, dashCfg)

	tickerCfg := view.DefaultTickerConfig()
	tickerCfg.Query.Currency = cfg.Dashboard.Currency
	tickerCfg.Query.Order = cfg.Ticker.Order
	tickerCfg.Query.PerPage = cfg.Ticker.PerPage
	tickerCfg.PollInterval = seconds(cfg.Ticker.PollIntervalSec)
	b.Ticker = view.NewTicker(b.Gateway, tickerCfg)

	return nil
}

// NewAssetDetail returns a detail view over the shared gateway.
func (b *Bootstrap) NewAssetDetail() *view.AssetDetail {
	return view.NewAssetDetail(b.Gateway)
}

// Start launches the dashboard and ticker polls.
func (b *Bootstrap) Start(ctx context.Context) {
	b.Dashboard.Start(ctx)
	b.Ticker.Start(ctx)
	slog.Info("✅ Dashboard and ticker polling started")
}

// Stop halts every poll and waits for in-flight refreshes.
func (b *Bootstrap) Stop() {
	b.Dashboard.Stop()
	b.Ticker.Stop()
}

func seconds(n int) time.Duration {
	return time.Duration(n) * time.Second
}
