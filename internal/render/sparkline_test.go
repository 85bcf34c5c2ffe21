package render

import (
	"strings"
	"testing"
	"time"

	"crypto_dash/internal/domain"

	"github.com/shopspring/decimal"
)

func TestSparkline(t *testing.T) {
	got := Sparkline([]float64{1, 2, 3, 4, 5, 6, 7, 8}, 0)
	if got != "▁▂▃▄▅▆▇█" {
		t.Errorf("Sparkline = %q", got)
	}

	if flat := Sparkline([]float64{5, 5, 5}, 0); flat != "▁▁▁" {
		t.Errorf("flat series = %q", flat)
	}
	if Sparkline(nil, 10) != "" {
		t.Error("empty series should render empty")
	}

	long := make([]float64, 168)
	for i := range long {
		long[i] = float64(i)
	}
	if n := len([]rune(Sparkline(long, 20))); n != 20 {
		t.Errorf("width = %d, want 20", n)
	}
}

func TestDownsample(t *testing.T) {
	in := []float64{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10}

	got := Downsample(in, 3)
	if len(got) != 3 || got[0] != 0 || got[1] != 5 || got[2] != 10 {
		t.Errorf("Downsample = %v", got)
	}
	if got := Downsample(in, 1); len(got) != 1 || got[0] != 10 {
		t.Errorf("Downsample(1) = %v", got)
	}
	if got := Downsample(in, 50); len(got) != len(in) {
		t.Errorf("short input was resampled: %v", got)
	}
}

func TestPrices(t *testing.T) {
	points := []domain.PricePoint{
		{Time: time.Unix(0, 0), Price: decimal.RequireFromString("1.5")},
		{Time: time.Unix(60, 0), Price: decimal.RequireFromString("2.25")},
	}
	got := Prices(points)
	if len(got) != 2 || got[0] != 1.5 || got[1] != 2.25 {
		t.Errorf("Prices = %v", got)
	}
}

func TestNewChart(t *testing.T) {
	c := NewChart([]float64{10, 20, 15}, 200, 100)

	if c.Points != "0.0,100.0 100.0,0.0 200.0,50.0" {
		t.Errorf("Points = %q", c.Points)
	}
	if !strings.HasPrefix(c.Area, "M0.0,100.0 L0.0,100.0") || !strings.HasSuffix(c.Area, "L200.0,100.0 Z") {
		t.Errorf("Area = %q", c.Area)
	}
	if c.Min != 10 || c.Max != 20 {
		t.Errorf("bounds = %v..%v", c.Min, c.Max)
	}

	if empty := NewChart(nil, 200, 100); empty.Points != "" || empty.Area != "" {
		t.Errorf("empty chart = %+v", empty)
	}

	flat := NewChart([]float64{3, 3}, 10, 10)
	if flat.Points != "0.0,5.0 10.0,5.0" {
		t.Errorf("flat Points = %q", flat.Points)
	}
}
