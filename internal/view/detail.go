package view

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"crypto_dash/internal/domain"
	"crypto_dash/internal/infra"

	"golang.org/x/sync/errgroup"
)

// DetailError is shown when the asset or its history cannot be loaded.
const DetailError = "Unable to load asset data. Please try again later."

// DetailData is a loaded asset page.
type DetailData struct {
	Asset     *domain.AssetDetail `json:"asset"`
	History   []domain.PricePoint `json:"history"`
	Timeframe domain.Timeframe    `json:"timeframe"`
}

// AssetDetail loads one asset and its price history. It reloads when the
// asset or the timeframe changes and never polls.
//
// Every load takes a sequence number and cancels the load before it, so a
// slow response for an old timeframe can never overwrite a newer one.
type AssetDetail struct {
	src   MarketSource
	state *store[DetailData]
	now   func() time.Time

	mu     sync.Mutex
	id     string
	tf     domain.Timeframe
	seq    uint64
	cancel context.CancelFunc
	closed bool
}

// NewAssetDetail creates an idle detail view on the default timeframe.
func NewAssetDetail(src MarketSource) *AssetDetail {
	return &AssetDetail{
		src:   src,
		state: newStore[DetailData](),
		now:   time.Now,
		tf:    domain.DefaultTimeframe,
	}
}

// Open selects the asset and loads it. It returns once the load finished
// or was superseded.
func (v *AssetDetail) Open(ctx context.Context, id string) {
	v.mu.Lock()
	v.id = id
	v.closed = false
	v.mu.Unlock()

	v.load(ctx)
}

// SetTimeframe switches the chart window and reloads.
func (v *AssetDetail) SetTimeframe(ctx context.Context, tf domain.Timeframe) error {
	if tf.Days() == 0 {
		return fmt.Errorf("unknown timeframe %q", tf)
	}

	v.mu.Lock()
	v.tf = tf
	v.mu.Unlock()

	v.load(ctx)
	return nil
}

// Retry reloads the current asset and timeframe, bypassing an open
// circuit breaker.
func (v *AssetDetail) Retry(ctx context.Context) { v.load(infra.WithBreakerBypass(ctx)) }

// Close abandons any in-flight load; later responses are dropped.
func (v *AssetDetail) Close() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.abandon()
}

// Reset closes the view and clears it to a fresh Loading page on the
// default timeframe, as if newly created.
func (v *AssetDetail) Reset() {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.abandon()
	v.id = ""
	v.tf = domain.DefaultTimeframe
	v.state.reset()
}

// abandon must be called with mu held.
func (v *AssetDetail) abandon() {
	v.closed = true
	v.seq++
	if v.cancel != nil {
		v.cancel()
		v.cancel = nil
	}
}

// Selection returns the asset id and timeframe currently selected.
func (v *AssetDetail) Selection() (string, domain.Timeframe) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.id, v.tf
}

// Snapshot returns the current state.
func (v *AssetDetail) Snapshot() Snapshot[DetailData] { return v.state.get() }

func (v *AssetDetail) load(ctx context.Context) {
	v.mu.Lock()
	if v.closed || v.id == "" {
		v.mu.Unlock()
		return
	}
	if v.cancel != nil {
		v.cancel()
	}
	v.seq++
	seq := v.seq
	id, tf := v.id, v.tf
	lctx, cancel := context.WithCancel(ctx)
	v.cancel = cancel
	v.state.begin()
	v.mu.Unlock()

	defer cancel()

	var (
		asset   *domain.AssetDetail
		history []domain.PricePoint
	)

	g, gctx := errgroup.WithContext(lctx)
	g.Go(func() error {
		var err error
		asset, err = v.src.AssetDetail(gctx, id).Unwrap()
		return err
	})
	g.Go(func() error {
		var err error
		history, err = v.src.PriceHistory(gctx, id, tf.Days()).Unwrap()
		return err
	})
	err := g.Wait()

	v.mu.Lock()
	defer v.mu.Unlock()

	if seq != v.seq {
		slog.Debug("Discarding stale asset response",
			slog.String("id", id),
			slog.String("timeframe", string(tf)))
		return
	}
	v.cancel = nil

	if err != nil {
		if ctx.Err() != nil {
			return
		}
		slog.Warn("Asset detail load failed", slog.String("id", id), slog.Any("error", err))
		v.state.fail(DetailError)
		return
	}

	v.state.succeed(DetailData{Asset: asset, History: history, Timeframe: tf}, v.now())
}
