package render

import (
	"fmt"
	"math"
	"strings"

	"crypto_dash/internal/domain"
)

var blocks = []rune("▁▂▃▄▅▆▇█")

// Sparkline draws values as a row of block characters at most width wide.
func Sparkline(values []float64, width int) string {
	values = Downsample(values, width)
	if len(values) == 0 {
		return ""
	}

	lo, hi := bounds(values)
	var b strings.Builder
	for _, v := range values {
		idx := 0
		if hi > lo {
			idx = int(math.Round((v - lo) / (hi - lo) * float64(len(blocks)-1)))
		}
		b.WriteRune(blocks[idx])
	}
	return b.String()
}

// Downsample keeps at most n evenly spaced values, always including the
// last one. n <= 0 keeps everything.
func Downsample(values []float64, n int) []float64 {
	if n <= 0 || len(values) <= n {
		return values
	}
	if n == 1 {
		return values[len(values)-1:]
	}
	out := make([]float64, n)
	step := float64(len(values)-1) / float64(n-1)
	for i := range out {
		out[i] = values[int(math.Round(float64(i)*step))]
	}
	return out
}

// Prices extracts the price column of a history series.
func Prices(points []domain.PricePoint) []float64 {
	out := make([]float64, len(points))
	for i, p := range points {
		out[i], _ = p.Price.Float64()
	}
	return out
}

// Chart is a line chart scaled into a width x height box, y growing down.
type Chart struct {
	Width, Height float64
	Points        string // SVG polyline points
	Area          string // SVG path closing the line to the bottom edge
	Min, Max      float64
}

// NewChart scales values into the box. Empty input yields an empty chart.
func NewChart(values []float64, width, height float64) Chart {
	c := Chart{Width: width, Height: height}
	if len(values) == 0 {
		return c
	}
	c.Min, c.Max = bounds(values)

	xs := make([]float64, len(values))
	ys := make([]float64, len(values))
	for i, v := range values {
		if len(values) > 1 {
			xs[i] = float64(i) / float64(len(values)-1) * width
		}
		ys[i] = height / 2
		if c.Max > c.Min {
			ys[i] = height - (v-c.Min)/(c.Max-c.Min)*height
		}
	}

	var pts, area strings.Builder
	fmt.Fprintf(&area, "M%.1f,%.1f", xs[0], height)
	for i := range values {
		if i > 0 {
			pts.WriteByte(' ')
		}
		fmt.Fprintf(&pts, "%.1f,%.1f", xs[i], ys[i])
		fmt.Fprintf(&area, " L%.1f,%.1f", xs[i], ys[i])
	}
	fmt.Fprintf(&area, " L%.1f,%.1f Z", xs[len(xs)-1], height)

	c.Points = pts.String()
	c.Area = area.String()
	return c
}

func bounds(values []float64) (lo, hi float64) {
	lo, hi = values[0], values[0]
	for _, v := range values[1:] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	return lo, hi
}
