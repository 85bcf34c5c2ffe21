package tui

import "github.com/charmbracelet/lipgloss"

type palette struct {
	header lipgloss.Style
	footer lipgloss.Style
	card   lipgloss.Style
	active lipgloss.Style
	title  lipgloss.Style
	dim    lipgloss.Style
	gain   lipgloss.Style
	loss   lipgloss.Style
	chart  lipgloss.Style
	tf     lipgloss.Style
	tfOn   lipgloss.Style
}

func newPalette(theme string) palette {
	fg, bg, border := lipgloss.Color("15"), lipgloss.Color("4"), lipgloss.Color("240")
	barBG, dimFG := lipgloss.Color("8"), lipgloss.Color("245")
	if theme == "light" {
		fg, bg, border = lipgloss.Color("0"), lipgloss.Color("153"), lipgloss.Color("250")
		barBG, dimFG = lipgloss.Color("254"), lipgloss.Color("242")
	}

	card := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Padding(0, 1).
		Width(cardWidth)

	return palette{
		header: lipgloss.NewStyle().Bold(true).Foreground(fg).Background(bg),
		footer: lipgloss.NewStyle().Foreground(fg).Background(barBG),
		card:   card,
		active: card.BorderForeground(lipgloss.Color("12")),
		title:  lipgloss.NewStyle().Bold(true),
		dim:    lipgloss.NewStyle().Foreground(dimFG),
		gain:   lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		loss:   lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
		chart:  lipgloss.NewStyle().Foreground(lipgloss.Color("63")),
		tf:     lipgloss.NewStyle().Padding(0, 1),
		tfOn:   lipgloss.NewStyle().Padding(0, 1).Bold(true).Foreground(lipgloss.Color("15")).Background(lipgloss.Color("63")),
	}
}

func (p palette) change(pct float64) lipgloss.Style {
	if pct >= 0 {
		return p.gain
	}
	return p.loss
}
