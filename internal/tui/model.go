// Package tui is the terminal front end: the asset grid, a detail screen
// with timeframe switching, and a footer with the ticker marquee and clock.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"crypto_dash/internal/domain"
	"crypto_dash/internal/render"
	"crypto_dash/internal/view"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	cardWidth      = 26
	sparkWidth     = 22
	chartRows      = 8
	defaultWidth   = 80
	marqueeDivider = "  |  "
)

type screen int

const (
	screenDashboard screen = iota
	screenDetail
)

type tickMsg time.Time

type detailLoadedMsg struct{}

// waitTick delivers the next clock tick. A closed channel means the clock
// stopped, and nothing further is scheduled.
func waitTick(ticks <-chan time.Time) tea.Cmd {
	return func() tea.Msg {
		t, ok := <-ticks
		if !ok {
			return nil
		}
		return tickMsg(t)
	}
}

// Model is the Bubble Tea model. The views run on their own timers; the
// model re-reads their snapshots on every tick of the ticker's clock.
type Model struct {
	ctx       context.Context
	dashboard *view.Dashboard
	ticker    *view.Ticker
	detail    *view.AssetDetail
	ticks     <-chan time.Time

	screen  screen
	cursor  int
	width   int
	height  int
	offset  int
	theme   string
	palette palette
	now     time.Time
}

// New builds a model over running views. ctx bounds detail loads.
func New(ctx context.Context, dashboard *view.Dashboard, ticker *view.Ticker, detail *view.AssetDetail, theme string) Model {
	return Model{
		ctx:       ctx,
		dashboard: dashboard,
		ticker:    ticker,
		detail:    detail,
		ticks:     ticker.Clock().Subscribe(),
		width:     defaultWidth,
		theme:     theme,
		palette:   newPalette(theme),
		now:       ticker.Clock().Now(),
	}
}

func (m Model) Init() tea.Cmd {
	return waitTick(m.ticks)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil

	case tickMsg:
		m.now = time.Time(msg)
		m.offset++
		return m, waitTick(m.ticks)

	case detailLoadedMsg:
		return m, nil
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "t":
		if m.theme == "light" {
			m.theme = "dark"
		} else {
			m.theme = "light"
		}
		m.palette = newPalette(m.theme)
		return m, nil
	}

	if m.screen == screenDetail {
		return m.detailKey(msg)
	}
	return m.dashboardKey(msg)
}

func (m Model) dashboardKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	assets := m.dashboard.Snapshot().Data.Assets
	cols := m.columns()

	switch msg.String() {
	case "left", "h":
		m.cursor--
	case "right", "l":
		m.cursor++
	case "up", "k":
		m.cursor -= cols
	case "down", "j":
		m.cursor += cols
	case "r":
		m.dashboard.Retry()
		return m, nil
	case "enter":
		if m.cursor >= 0 && m.cursor < len(assets) {
			m.detail.Reset()
			m.screen = screenDetail
			id := assets[m.cursor].ID
			return m, m.loadCmd(func(ctx context.Context) { m.detail.Open(ctx, id) })
		}
		return m, nil
	default:
		return m, nil
	}

	m.cursor = clamp(m.cursor, 0, len(assets)-1)
	return m, nil
}

func (m Model) detailKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	switch key {
	case "esc", "backspace":
		m.detail.Close()
		m.screen = screenDashboard
		return m, nil
	case "r":
		return m, m.loadCmd(m.detail.Retry)
	case "1", "2", "3", "4":
		tf := domain.Timeframes[key[0]-'1']
		return m, m.loadCmd(func(ctx context.Context) {
			_ = m.detail.SetTimeframe(ctx, tf)
		})
	}
	return m, nil
}

// loadCmd runs a blocking detail load off the UI goroutine.
func (m Model) loadCmd(load func(ctx context.Context)) tea.Cmd {
	ctx := m.ctx
	return func() tea.Msg {
		load(ctx)
		return detailLoadedMsg{}
	}
}

func (m Model) View() string {
	var body string
	if m.screen == screenDetail {
		body = m.detailView()
	} else {
		body = m.dashboardView()
	}
	return m.headerView() + "\n" + body + "\n" + m.footerView()
}

func (m Model) headerView() string {
	help := " ←↑↓→ move  enter open  r retry  t theme  q quit"
	if m.screen == screenDetail {
		help = " 1-4 timeframe  r retry  esc back  t theme  q quit"
	}
	return m.palette.header.Render(padOrTrunc(" Crypto Dashboard "+help, m.width))
}

func (m Model) dashboardView() string {
	snap := m.dashboard.Snapshot()
	switch snap.Phase() {
	case view.PhaseLoading:
		return m.palette.dim.Render("Loading market data...")
	case view.PhaseError:
		return m.palette.loss.Render(snap.Error) + "\n" + m.palette.dim.Render("Press r to try again.")
	}

	p := m.palette
	stats := snap.Data.Stats
	overview := fmt.Sprintf("Market Cap %s %s   24h Volume %s   updated %s",
		p.title.Render(render.Compact(stats.TotalMarketCap)),
		p.change(stats.MarketCapChangePercentage24h).Render(render.Percent(stats.MarketCapChangePercentage24h)),
		p.title.Render(render.Compact(stats.TotalVolume)),
		render.Updated(snap.UpdatedAt))

	cols := m.columns()
	var rows []string
	var row []string
	for i, a := range snap.Data.Assets {
		row = append(row, m.card(a, i == m.cursor))
		if len(row) == cols {
			rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, row...))
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, row...))
	}

	return overview + "\n" + lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (m Model) card(a domain.AssetSummary, selected bool) string {
	p := m.palette
	style := p.card
	if selected {
		style = p.active
	}
	change := p.change(a.PriceChangePercentage24h)
	lines := []string{
		p.title.Render(a.Name) + " " + p.dim.Render(strings.ToUpper(a.Symbol)),
		render.Price(a.CurrentPrice) + " " + change.Render(render.Percent(a.PriceChangePercentage24h)),
		p.dim.Render("MCap " + render.Compact(a.MarketCap)),
		change.Render(render.Sparkline(a.Sparkline.Price, sparkWidth)),
	}
	return style.Render(strings.Join(lines, "\n"))
}

func (m Model) detailView() string {
	p := m.palette
	snap := m.detail.Snapshot()
	_, selected := m.detail.Selection()

	var tabs []string
	for i, tf := range domain.Timeframes {
		label := fmt.Sprintf("%d %s", i+1, tf.Label())
		if tf == selected {
			tabs = append(tabs, p.tfOn.Render(label))
		} else {
			tabs = append(tabs, p.tf.Render(label))
		}
	}
	tabBar := lipgloss.JoinHorizontal(lipgloss.Top, tabs...)

	switch snap.Phase() {
	case view.PhaseLoading:
		return tabBar + "\n" + p.dim.Render("Loading asset...")
	case view.PhaseError:
		return tabBar + "\n" + p.loss.Render(snap.Error) + "\n" + p.dim.Render("Press r to try again.")
	}

	a := snap.Data.Asset
	md := a.MarketData
	change := p.change(md.PriceChangePercentage24h)
	chartWidth := clamp(m.width-4, 10, 200)
	prices := render.Prices(snap.Data.History)

	lines := []string{
		p.title.Render(a.Name) + " " + p.dim.Render(strings.ToUpper(a.Symbol)),
		"Price " + p.title.Render(render.Price(md.CurrentPrice.USD())) +
			"   Market Cap " + render.Money(md.MarketCap.USD()) +
			"   24h " + change.Render(render.Percent(md.PriceChangePercentage24h)),
		tabBar,
		p.chart.Render(barChart(render.Downsample(prices, chartWidth), chartRows)),
		p.dim.Render(render.Span(snap.Data.History, snap.Data.Timeframe)),
		"",
		"Volume " + render.Money(md.TotalVolume.USD()) +
			"   ATH " + render.Price(md.ATH.USD()) +
			"   ATL " + render.Price(md.ATL.USD()),
		"Circulating " + render.Integer(md.CirculatingSupply) + " " + strings.ToUpper(a.Symbol) +
			"   Total " + render.Supply(md.TotalSupply, a.Symbol),
	}
	if desc := a.DescriptionEN(); desc != "" {
		lines = append(lines, "", p.dim.Width(chartWidth).Render(truncateRunes(desc, 600)))
	}
	return strings.Join(lines, "\n")
}

func (m Model) footerView() string {
	snap := m.ticker.Snapshot()
	left := " " + render.Date(m.now) + "  " + render.Clock(m.now) + " "

	var tape string
	switch {
	case len(snap.Data) > 0:
		parts := make([]string, len(snap.Data))
		for i, e := range snap.Data {
			parts[i] = fmt.Sprintf("%s %s %s", e.Symbol, render.Price(e.Price), render.Percent(e.Change))
		}
		tape = strings.Join(parts, marqueeDivider) + marqueeDivider
	case snap.Error != "":
		tape = snap.Error
	default:
		tape = "Loading ticker..."
	}

	width := m.width - lipgloss.Width(left)
	line := left + marquee(tape, m.offset, width)
	if snap.Error != "" && len(snap.Data) > 0 {
		line = left + marquee(tape, m.offset, width-lipgloss.Width(snap.Error)-1) + " " + snap.Error
	}
	return m.palette.footer.Render(padOrTrunc(line, m.width))
}

func (m Model) columns() int {
	return max(1, m.width/(cardWidth+4))
}

// marquee returns a width-wide window into s, rotated left by offset.
// Text that already fits is returned unchanged.
func marquee(s string, offset, width int) string {
	r := []rune(s)
	if width <= 0 {
		return ""
	}
	if len(r) <= width {
		return s
	}
	start := offset % len(r)
	out := make([]rune, width)
	for i := range out {
		out[i] = r[(start+i)%len(r)]
	}
	return string(out)
}

// barChart draws values as rows of block columns, tallest at the top.
func barChart(values []float64, rows int) string {
	if len(values) == 0 || rows <= 0 {
		return ""
	}
	lo, hi := values[0], values[0]
	for _, v := range values {
		lo, hi = min(lo, v), max(hi, v)
	}

	heights := make([]int, len(values))
	for i, v := range values {
		heights[i] = rows
		if hi > lo {
			heights[i] = 1 + int((v-lo)/(hi-lo)*float64(rows-1)+0.5)
		}
	}

	var b strings.Builder
	for row := rows; row >= 1; row-- {
		for _, h := range heights {
			if h >= row {
				b.WriteRune('█')
			} else {
				b.WriteRune(' ')
			}
		}
		if row > 1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func padOrTrunc(s string, width int) string {
	w := lipgloss.Width(s)
	if w >= width {
		return truncateRunes(s, width)
	}
	return s + strings.Repeat(" ", width-w)
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

func clamp(v, lo, hi int) int {
	if hi < lo {
		return lo
	}
	return min(max(v, lo), hi)
}
