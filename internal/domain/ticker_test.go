package domain

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestNewTickerEntry(t *testing.T) {
	e := NewTickerEntry(AssetSummary{
		ID:                       "solana",
		Symbol:                   "sol",
		CurrentPrice:             decimal.RequireFromString("142.17"),
		PriceChangePercentage24h: 3.2,
	})

	if e.Symbol != "SOL" {
		t.Errorf("symbol = %s, want SOL", e.Symbol)
	}
	if e.ChangeDirection() != "positive" {
		t.Errorf("direction = %s", e.ChangeDirection())
	}
}

func TestTickerEntry_ChangeDirection(t *testing.T) {
	tests := map[float64]string{1.5: "positive", -0.01: "negative", 0: "neutral"}
	for change, want := range tests {
		if got := (TickerEntry{Change: change}).ChangeDirection(); got != want {
			t.Errorf("change %v: got %s, want %s", change, got, want)
		}
	}
}
