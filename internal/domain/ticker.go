package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// TickerEntry is one item of the scrolling footer ticker.
type TickerEntry struct {
	ID     string          `json:"id"`
	Symbol string          `json:"symbol"` // upper-cased
	Change float64         `json:"change"` // 24h %, 0 when unknown
	Price  decimal.Decimal `json:"price"`  // 0 when unknown
}

// NewTickerEntry formats a market row for the ticker.
func NewTickerEntry(a AssetSummary) TickerEntry {
	return TickerEntry{
		ID:     a.ID,
		Symbol: strings.ToUpper(a.Symbol),
		Change: a.PriceChangePercentage24h,
		Price:  a.CurrentPrice,
	}
}

// ChangeDirection returns "positive", "negative", or "neutral"
func (t TickerEntry) ChangeDirection() string {
	switch {
	case t.Change > 0:
		return "positive"
	case t.Change < 0:
		return "negative"
	default:
		return "neutral"
	}
}
