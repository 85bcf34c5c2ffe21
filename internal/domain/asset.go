package domain

import (
	"github.com/shopspring/decimal"
)

// AssetSummary is one row of GET /coins/markets.
// Identity key is ID; a fresh slice replaces the previous one on every poll.
type AssetSummary struct {
	ID                       string          `json:"id"`
	Symbol                   string          `json:"symbol"`
	Name                     string          `json:"name"`
	Image                    string          `json:"image,omitempty"`
	CurrentPrice             decimal.Decimal `json:"current_price"`
	MarketCap                decimal.Decimal `json:"market_cap"`
	TotalVolume              decimal.Decimal `json:"total_volume"`
	PriceChangePercentage24h float64         `json:"price_change_percentage_24h"`
	Sparkline                Sparkline       `json:"sparkline_in_7d"`
}

// Sparkline holds the recent price sequence (7 days, hourly) when requested.
type Sparkline struct {
	Price []float64 `json:"price"`
}

// IsPositive reports whether the 24h change is zero or up.
func (a AssetSummary) IsPositive() bool {
	return a.PriceChangePercentage24h >= 0
}

// CurrencyMap is a per-currency value object such as {"usd": 123.4}.
type CurrencyMap map[string]decimal.Decimal

// USD returns the usd entry, zero when absent.
func (m CurrencyMap) USD() decimal.Decimal {
	return m["usd"]
}

// AssetDetail is GET /coins/{id}: the summary fields plus description,
// all-time extremes and supply figures under market_data.
type AssetDetail struct {
	ID          string            `json:"id"`
	Symbol      string            `json:"symbol"`
	Name        string            `json:"name"`
	Description map[string]string `json:"description"`
	MarketData  DetailMarketData  `json:"market_data"`
}

// DetailMarketData mirrors the nested market_data object.
type DetailMarketData struct {
	CurrentPrice             CurrencyMap      `json:"current_price"`
	MarketCap                CurrencyMap      `json:"market_cap"`
	TotalVolume              CurrencyMap      `json:"total_volume"`
	ATH                      CurrencyMap      `json:"ath"`
	ATL                      CurrencyMap      `json:"atl"`
	CirculatingSupply        decimal.Decimal  `json:"circulating_supply"`
	TotalSupply              *decimal.Decimal `json:"total_supply"` // nil means unlimited
	PriceChangePercentage24h float64          `json:"price_change_percentage_24h"`
	Sparkline                Sparkline        `json:"sparkline_7d"`
}

// DescriptionEN returns the English description text.
func (d *AssetDetail) DescriptionEN() string {
	return d.Description["en"]
}
