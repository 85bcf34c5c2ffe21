package view

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"crypto_dash/internal/domain"
	"crypto_dash/internal/gateway"
	"crypto_dash/internal/infra"

	"github.com/shopspring/decimal"
)

var errUpstream = errors.New("upstream unavailable")

// fakeSource is a scriptable MarketSource. Hooks run before the canned
// answer and may block on the context to simulate slow responses.
type fakeSource struct {
	mu sync.Mutex

	assets    []domain.AssetSummary
	assetsErr error
	stats     *domain.MarketStats
	statsErr  error
	detailErr error
	historyFn func(ctx context.Context, id string, days int) ([]domain.PricePoint, error)

	lastQuery   gateway.MarketsQuery
	listCalls   atomic.Int32
	detailCalls atomic.Int32
	bypassed    atomic.Int32 // calls marked to skip the circuit breaker
}

func newFakeSource() *fakeSource {
	return &fakeSource{
		assets: []domain.AssetSummary{
			{ID: "bitcoin", Symbol: "btc", Name: "Bitcoin", CurrentPrice: decimal.NewFromInt(67000), PriceChangePercentage24h: 1.2},
			{ID: "ethereum", Symbol: "eth", Name: "Ethereum", CurrentPrice: decimal.NewFromInt(3500), PriceChangePercentage24h: -0.4},
		},
		stats: &domain.MarketStats{
			TotalMarketCap:               decimal.NewFromInt(2_400_000_000_000),
			TotalVolume:                  decimal.NewFromInt(95_000_000_000),
			MarketCapChangePercentage24h: 0.5,
		},
	}
}

func (f *fakeSource) setAssetsErr(err error) {
	f.mu.Lock()
	f.assetsErr = err
	f.mu.Unlock()
}

func (f *fakeSource) ListTopAssets(ctx context.Context, q gateway.MarketsQuery) gateway.Result[[]domain.AssetSummary] {
	f.listCalls.Add(1)
	if infra.BreakerBypassed(ctx) {
		f.bypassed.Add(1)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastQuery = q
	if f.assetsErr != nil {
		return gateway.Failure(f.assetsErr, []domain.AssetSummary{})
	}
	return gateway.Success(f.assets)
}

func (f *fakeSource) GlobalStats(ctx context.Context) gateway.Result[*domain.MarketStats] {
	f.mu.Lock()
	err := f.statsErr
	f.mu.Unlock()
	if err != nil {
		return gateway.Failure[*domain.MarketStats](err, nil)
	}
	return gateway.Success(f.stats)
}

func (f *fakeSource) AssetDetail(ctx context.Context, id string) gateway.Result[*domain.AssetDetail] {
	f.detailCalls.Add(1)
	if infra.BreakerBypassed(ctx) {
		f.bypassed.Add(1)
	}
	f.mu.Lock()
	err := f.detailErr
	f.mu.Unlock()
	if err != nil {
		return gateway.Failure[*domain.AssetDetail](err, nil)
	}
	return gateway.Success(&domain.AssetDetail{ID: id, Symbol: id[:3], Name: id})
}

func (f *fakeSource) PriceHistory(ctx context.Context, id string, days int) gateway.Result[[]domain.PricePoint] {
	f.mu.Lock()
	fn := f.historyFn
	f.mu.Unlock()
	if fn != nil {
		points, err := fn(ctx, id, days)
		if err != nil {
			return gateway.Failure[[]domain.PricePoint](err, nil)
		}
		return gateway.Success(points)
	}
	return gateway.Success(historyOf(days))
}

// historyOf returns a series whose length encodes the requested window.
func historyOf(days int) []domain.PricePoint {
	points := make([]domain.PricePoint, days)
	for i := range points {
		points[i] = domain.PricePoint{Price: decimal.NewFromInt(int64(i))}
	}
	return points
}
