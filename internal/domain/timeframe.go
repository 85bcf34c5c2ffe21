package domain

import "fmt"

// Timeframe is the user-selected chart window on the asset page.
type Timeframe string

const (
	Timeframe24h Timeframe = "24h"
	Timeframe7d  Timeframe = "7d"
	Timeframe30d Timeframe = "30d"
	Timeframe1y  Timeframe = "1y"

	DefaultTimeframe = Timeframe7d
)

// Timeframes lists the selectable windows in display order.
var Timeframes = []Timeframe{Timeframe24h, Timeframe7d, Timeframe30d, Timeframe1y}

// Days returns the lookback window passed to the history endpoint.
func (t Timeframe) Days() int {
	switch t {
	case Timeframe24h:
		return 1
	case Timeframe7d:
		return 7
	case Timeframe30d:
		return 30
	case Timeframe1y:
		return 365
	default:
		return 0
	}
}

// Label is the button caption ("24H", "7D", ...).
func (t Timeframe) Label() string {
	switch t {
	case Timeframe24h:
		return "24H"
	case Timeframe7d:
		return "7D"
	case Timeframe30d:
		return "30D"
	case Timeframe1y:
		return "1Y"
	default:
		return string(t)
	}
}

// IsIntraday reports whether chart axes should show times rather than dates.
func (t Timeframe) IsIntraday() bool {
	return t == Timeframe24h
}

// ParseTimeframe validates a token; the empty string selects DefaultTimeframe.
func ParseTimeframe(s string) (Timeframe, error) {
	if s == "" {
		return DefaultTimeframe, nil
	}
	t := Timeframe(s)
	if t.Days() == 0 {
		return "", fmt.Errorf("unknown timeframe %q", s)
	}
	return t, nil
}
