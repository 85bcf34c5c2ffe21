// Package render turns view data into display strings shared by the web
// and terminal front ends.
package render

import (
	"fmt"
	"strings"
	"time"

	"crypto_dash/internal/domain"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

// Colors of the up/down indicators.
const (
	ColorUp   = "#10B981"
	ColorDown = "#EF4444"
	ColorLine = "#6366F1"
)

// Price formats a usd price. Sub-dollar prices keep up to six decimals so
// small-cap assets do not collapse to $0.00.
func Price(d decimal.Decimal) string {
	if d.Abs().LessThan(decimal.NewFromInt(1)) && !d.IsZero() {
		s := d.Round(6).String()
		if i := strings.IndexByte(s, '.'); i < 0 || len(s)-i-1 < 2 {
			s = d.StringFixed(2)
		}
		return "$" + s
	}
	f, _ := d.Round(2).Float64()
	return "$" + humanize.FormatFloat("#,###.##", f)
}

// Money formats a whole-dollar amount with thousands separators.
func Money(d decimal.Decimal) string {
	return "$" + Integer(d)
}

// Integer formats d rounded to a whole number with thousands separators.
func Integer(d decimal.Decimal) string {
	return humanize.BigComma(d.Round(0).BigInt())
}

// Compact formats large amounts as $2.41T, $95.30B, $12.00M.
func Compact(d decimal.Decimal) string {
	f, _ := d.Float64()
	value, prefix := humanize.ComputeSI(f)
	switch prefix {
	case "":
		return "$" + humanize.FormatFloat("#,###.##", f)
	case "k":
		prefix = "K"
	case "G":
		prefix = "B"
	}
	return fmt.Sprintf("$%.2f%s", value, prefix)
}

// Percent formats a change with an explicit sign: +1.23%, -0.40%.
func Percent(p float64) string {
	if p >= 0 {
		return fmt.Sprintf("+%.2f%%", p)
	}
	return fmt.Sprintf("%.2f%%", p)
}

// ChangeColor picks the indicator color for a change.
func ChangeColor(p float64) string {
	if p >= 0 {
		return ColorUp
	}
	return ColorDown
}

// Supply formats a token supply followed by the upper-cased symbol. A nil
// supply renders as Unlimited.
func Supply(d *decimal.Decimal, symbol string) string {
	amount := "Unlimited"
	if d != nil {
		amount = Integer(*d)
	}
	return amount + " " + strings.ToUpper(symbol)
}

// Date formats the footer date, e.g. Friday, March 1, 2024.
func Date(t time.Time) string { return t.Format("Monday, January 2, 2006") }

// Clock formats the footer time, e.g. 14:05:09.
func Clock(t time.Time) string { return t.Format("15:04:05") }

// Span describes the time range a chart covers: clock times for intraday
// windows, calendar dates otherwise. Empty when there are no points.
func Span(points []domain.PricePoint, tf domain.Timeframe) string {
	if len(points) == 0 {
		return ""
	}
	layout := "Jan 2, 2006"
	if tf.IsIntraday() {
		layout = "15:04"
	}
	return points[0].Time.Format(layout) + " to " + points[len(points)-1].Time.Format(layout)
}

// Updated describes when data was last refreshed.
func Updated(t time.Time) string {
	if t.IsZero() {
		return "never"
	}
	return humanize.Time(t)
}
