package domain

import "github.com/shopspring/decimal"

// MarketStats is the aggregate market summary from GET /global (usd).
type MarketStats struct {
	TotalMarketCap               decimal.Decimal `json:"total_market_cap"`
	TotalVolume                  decimal.Decimal `json:"total_volume"`
	MarketCapChangePercentage24h float64         `json:"market_cap_change_percentage_24h"`
}
