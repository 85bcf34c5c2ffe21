package domain

import (
	"encoding/json"
	"testing"
	"time"
)

func TestParsePriceSeries(t *testing.T) {
	var body struct {
		Prices [][]json.Number `json:"prices"`
	}
	raw := `{"prices":[[1711843200000,69702.3087473573],[1711846800000,69890.12]]}`
	if err := json.Unmarshal([]byte(raw), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}

	points, err := ParsePriceSeries(body.Prices)
	if err != nil {
		t.Fatalf("ParsePriceSeries: %v", err)
	}

	if len(points) != 2 {
		t.Fatalf("len = %d, want 2", len(points))
	}
	want := time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC)
	if !points[0].Time.Equal(want) {
		t.Errorf("time = %s, want %s", points[0].Time, want)
	}
	if points[0].Price.String() != "69702.3087473573" {
		t.Errorf("price precision lost: %s", points[0].Price)
	}
}

func TestParsePriceSeries_Malformed(t *testing.T) {
	tests := map[string][][]json.Number{
		"short tuple": {{"1711843200000"}},
		"bad price":   {{"1711843200000", "abc"}},
		"bad time":    {{"x", "1"}},
	}
	for name, raw := range tests {
		if _, err := ParsePriceSeries(raw); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}
}

func TestParsePriceSeries_SkipsNulls(t *testing.T) {
	var body struct {
		Prices [][]json.Number `json:"prices"`
	}
	raw := `{"prices":[[1711843200000,null],[1711846800000,69890.12],null,[null,1]]}`
	if err := json.Unmarshal([]byte(raw), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}

	points, err := ParsePriceSeries(body.Prices)
	if err != nil {
		t.Fatalf("ParsePriceSeries: %v", err)
	}
	if len(points) != 1 {
		t.Fatalf("len = %d, want 1", len(points))
	}
	if points[0].Price.String() != "69890.12" {
		t.Errorf("price = %s", points[0].Price)
	}
}

func TestParsePriceSeries_Empty(t *testing.T) {
	points, err := ParsePriceSeries(nil)
	if err != nil || points == nil || len(points) != 0 {
		t.Errorf("expected empty non-nil slice, got %v, %v", points, err)
	}
}
