package domain

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// PricePoint is one sample of a historical price series.
type PricePoint struct {
	Time  time.Time       `json:"time"`
	Price decimal.Decimal `json:"price"`
}

// ParsePriceSeries converts the [[timestamp_ms, price], ...] tuples returned
// by the market_chart endpoint. json.Number keeps the upstream precision.
// Samples with a null timestamp or price are skipped.
func ParsePriceSeries(raw [][]json.Number) ([]PricePoint, error) {
	points := make([]PricePoint, 0, len(raw))
	for i, tuple := range raw {
		if tuple == nil || (len(tuple) == 2 && (tuple[0] == "" || tuple[1] == "")) {
			continue
		}
		if len(tuple) != 2 {
			return nil, fmt.Errorf("price point %d: expected 2 elements, got %d", i, len(tuple))
		}

		ms, err := tuple[0].Float64()
		if err != nil {
			return nil, fmt.Errorf("price point %d: bad timestamp %q: %w", i, tuple[0], err)
		}
		price, err := decimal.NewFromString(tuple[1].String())
		if err != nil {
			return nil, fmt.Errorf("price point %d: bad price %q: %w", i, tuple[1], err)
		}

		points = append(points, PricePoint{
			Time:  time.UnixMilli(int64(ms)).UTC(),
			Price: price,
		})
	}
	return points, nil
}
