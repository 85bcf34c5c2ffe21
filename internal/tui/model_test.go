package tui

import (
	"context"
	"strings"
	"testing"
	"time"

	"crypto_dash/internal/domain"
	"crypto_dash/internal/gateway"
	"crypto_dash/internal/view"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/shopspring/decimal"
)

type stubSource struct{ fail bool }

func (s stubSource) ListTopAssets(ctx context.Context, q gateway.MarketsQuery) gateway.Result[[]domain.AssetSummary] {
	if s.fail {
		return gateway.Failure(context.DeadlineExceeded, []domain.AssetSummary{})
	}
	assets := []domain.AssetSummary{
		{ID: "bitcoin", Symbol: "btc", Name: "Bitcoin", CurrentPrice: decimal.NewFromInt(67000), PriceChangePercentage24h: 2},
		{ID: "ethereum", Symbol: "eth", Name: "Ethereum", CurrentPrice: decimal.NewFromInt(3500), PriceChangePercentage24h: -1},
		{ID: "solana", Symbol: "sol", Name: "Solana", CurrentPrice: decimal.NewFromInt(150)},
	}
	return gateway.Success(assets)
}

func (s stubSource) GlobalStats(ctx context.Context) gateway.Result[*domain.MarketStats] {
	return gateway.Success(&domain.MarketStats{TotalMarketCap: decimal.NewFromInt(2_000_000_000_000)})
}

func (s stubSource) AssetDetail(ctx context.Context, id string) gateway.Result[*domain.AssetDetail] {
	return gateway.Success(&domain.AssetDetail{ID: id, Symbol: id[:3], Name: strings.ToUpper(id[:1]) + id[1:]})
}

func (s stubSource) PriceHistory(ctx context.Context, id string, days int) gateway.Result[[]domain.PricePoint] {
	points := make([]domain.PricePoint, days+1)
	for i := range points {
		points[i] = domain.PricePoint{Price: decimal.NewFromInt(int64(i))}
	}
	return gateway.Success(points)
}

func newModel(t *testing.T, src stubSource) Model {
	t.Helper()
	dash := view.NewDashboard(src, view.DefaultDashboardConfig())
	dash.Refresh(context.Background())
	tk := view.NewTicker(src, view.DefaultTickerConfig())
	tk.Refresh(context.Background())
	m := New(context.Background(), dash, tk, view.NewAssetDetail(src), "dark")
	m.width = 3 * (cardWidth + 4)
	return m
}

func press(t *testing.T, m Model, key string) (Model, tea.Cmd) {
	t.Helper()
	var msg tea.KeyMsg
	switch key {
	case "enter":
		msg = tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		msg = tea.KeyMsg{Type: tea.KeyEsc}
	case "right":
		msg = tea.KeyMsg{Type: tea.KeyRight}
	case "down":
		msg = tea.KeyMsg{Type: tea.KeyDown}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
	}
	next, cmd := m.Update(msg)
	return next.(Model), cmd
}

func TestCursorMovement(t *testing.T) {
	m := newModel(t, stubSource{})

	m, _ = press(t, m, "right")
	if m.cursor != 1 {
		t.Errorf("cursor = %d, want 1", m.cursor)
	}
	m, _ = press(t, m, "right")
	m, _ = press(t, m, "right")
	if m.cursor != 2 {
		t.Errorf("cursor should stop at last asset, got %d", m.cursor)
	}
	m, _ = press(t, m, "down")
	if m.cursor != 2 {
		t.Errorf("cursor = %d after down on last row", m.cursor)
	}
}

func TestOpenDetailAndTimeframe(t *testing.T) {
	m := newModel(t, stubSource{})
	m, _ = press(t, m, "right")

	m, cmd := press(t, m, "enter")
	if m.screen != screenDetail || cmd == nil {
		t.Fatal("enter should open the detail screen with a load command")
	}
	cmd()

	if id, _ := m.detail.Selection(); id != "ethereum" {
		t.Errorf("opened %q", id)
	}
	if out := m.View(); !strings.Contains(out, "Ethereum") || !strings.Contains(out, "7D") {
		t.Errorf("detail view missing content:\n%s", out)
	}

	m, cmd = press(t, m, "4")
	cmd()
	if _, tf := m.detail.Selection(); tf != domain.Timeframe1y {
		t.Errorf("timeframe = %s", tf)
	}
	if n := len(m.detail.Snapshot().Data.History); n != 366 {
		t.Errorf("history = %d points", n)
	}

	m, _ = press(t, m, "esc")
	if m.screen != screenDashboard {
		t.Error("esc should return to the dashboard")
	}
}

func TestDashboardView(t *testing.T) {
	m := newModel(t, stubSource{})
	out := m.View()
	for _, want := range []string{"Bitcoin", "$67,000.00", "$2.00T", "BTC $67,000.00 +2.00%"} {
		if !strings.Contains(out, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestErrorView(t *testing.T) {
	m := newModel(t, stubSource{fail: true})
	out := m.View()
	if !strings.Contains(out, view.DashboardError) || !strings.Contains(out, "Press r to try again") {
		t.Errorf("error placeholder missing:\n%s", out)
	}
	if !strings.Contains(out, view.TickerError) {
		t.Error("ticker error missing from footer")
	}
}

func TestThemeToggle(t *testing.T) {
	m := newModel(t, stubSource{})
	m, _ = press(t, m, "t")
	if m.theme != "light" {
		t.Errorf("theme = %q", m.theme)
	}
	m, _ = press(t, m, "t")
	if m.theme != "dark" {
		t.Errorf("theme = %q", m.theme)
	}
}

func TestTickAdvancesMarquee(t *testing.T) {
	m := newModel(t, stubSource{})
	at := time.Date(2024, 3, 31, 14, 5, 9, 0, time.UTC)
	next, cmd := m.Update(tickMsg(at))
	if next.(Model).offset != 1 || cmd == nil {
		t.Error("tick should advance the marquee and schedule the next tick")
	}
	if !next.(Model).now.Equal(at) {
		t.Errorf("now = %s, want %s", next.(Model).now, at)
	}
}

func TestTicksFollowClock(t *testing.T) {
	m := newModel(t, stubSource{})
	clock := m.ticker.Clock()
	clock.Start(context.Background())

	if _, ok := m.Init()().(tickMsg); !ok {
		t.Fatal("expected a tick from the clock")
	}

	clock.Stop()
	cmd := waitTick(m.ticks)
	msg := cmd()
	if _, ok := msg.(tickMsg); ok {
		// one tick may still be buffered
		msg = cmd()
	}
	if msg != nil {
		t.Errorf("stopped clock should end the tick loop, got %v", msg)
	}
}

func TestReopenDetailStartsFresh(t *testing.T) {
	m := newModel(t, stubSource{})

	m, cmd := press(t, m, "enter")
	cmd()
	m, cmd = press(t, m, "4")
	cmd()
	m, _ = press(t, m, "esc")
	m, _ = press(t, m, "right")

	m, cmd = press(t, m, "enter")
	if snap := m.detail.Snapshot(); snap.Phase() != view.PhaseLoading || snap.Data.Asset != nil {
		t.Errorf("previous asset visible before the load: phase %s", snap.Phase())
	}
	if _, tf := m.detail.Selection(); tf != domain.DefaultTimeframe {
		t.Errorf("timeframe = %s, want %s", tf, domain.DefaultTimeframe)
	}
	if out := m.View(); !strings.Contains(out, "Loading asset...") {
		t.Errorf("expected loading placeholder:\n%s", out)
	}

	cmd()
	if n := len(m.detail.Snapshot().Data.History); n != domain.DefaultTimeframe.Days()+1 {
		t.Errorf("history = %d points", n)
	}
}

func TestMarquee(t *testing.T) {
	tests := []struct {
		s      string
		offset int
		width  int
		want   string
	}{
		{"abc", 5, 10, "abc"},
		{"abcdef", 0, 3, "abc"},
		{"abcdef", 4, 3, "efa"},
		{"abcdef", 10, 3, "efa"},
		{"abcdef", 0, 0, ""},
	}
	for _, tt := range tests {
		if got := marquee(tt.s, tt.offset, tt.width); got != tt.want {
			t.Errorf("marquee(%q, %d, %d) = %q, want %q", tt.s, tt.offset, tt.width, got, tt.want)
		}
	}
}

func TestBarChart(t *testing.T) {
	got := barChart([]float64{0, 1, 2}, 3)
	want := "  █\n ██\n███"
	if got != want {
		t.Errorf("barChart =\n%s\nwant\n%s", got, want)
	}
	if barChart(nil, 3) != "" {
		t.Error("empty input should draw nothing")
	}
}
