package view

import (
	"context"
	"sync"
	"time"

	"crypto_dash/internal/domain"
	"crypto_dash/internal/gateway"
)

// MarketSource is the subset of the gateway the views read from.
type MarketSource interface {
	ListTopAssets(ctx context.Context, q gateway.MarketsQuery) gateway.Result[[]domain.AssetSummary]
	GlobalStats(ctx context.Context) gateway.Result[*domain.MarketStats]
	AssetDetail(ctx context.Context, id string) gateway.Result[*domain.AssetDetail]
	PriceHistory(ctx context.Context, id string, days int) gateway.Result[[]domain.PricePoint]
}

// Phase selects which of the three mutually exclusive renderings applies.
type Phase int

const (
	PhaseLoading Phase = iota
	PhaseError
	PhaseReady
)

func (p Phase) String() string {
	switch p {
	case PhaseLoading:
		return "loading"
	case PhaseError:
		return "error"
	case PhaseReady:
		return "ready"
	default:
		return "unknown"
	}
}

// Snapshot is a copy of a view's state at one instant.
type Snapshot[T any] struct {
	Loading   bool      `json:"loading"`
	Error     string    `json:"error,omitempty"`
	Data      T         `json:"data"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Phase derives the rendering phase; loading wins over a stale error.
func (s Snapshot[T]) Phase() Phase {
	switch {
	case s.Loading:
		return PhaseLoading
	case s.Error != "":
		return PhaseError
	default:
		return PhaseReady
	}
}

// store guards a Snapshot; data is replaced wholesale, never edited.
type store[T any] struct {
	mu   sync.RWMutex
	snap Snapshot[T]
}

func newStore[T any]() *store[T] {
	return &store[T]{snap: Snapshot[T]{Loading: true}}
}

func (s *store[T]) begin() {
	s.mu.Lock()
	s.snap.Loading = true
	s.snap.Error = ""
	s.mu.Unlock()
}

// reset drops any data, leaving a fresh Loading snapshot.
func (s *store[T]) reset() {
	s.mu.Lock()
	s.snap = Snapshot[T]{Loading: true}
	s.mu.Unlock()
}

func (s *store[T]) fail(msg string) {
	s.mu.Lock()
	s.snap.Loading = false
	s.snap.Error = msg
	s.mu.Unlock()
}

func (s *store[T]) succeed(data T, at time.Time) {
	s.mu.Lock()
	s.snap = Snapshot[T]{Data: data, UpdatedAt: at}
	s.mu.Unlock()
}

func (s *store[T]) get() Snapshot[T] {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap
}
