package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"strings"

	"crypto_dash/internal/domain"
)

// Fetcher is the HTTP layer the gateway sits on; *httpclient.Client
// satisfies it.
type Fetcher interface {
	GetJSON(ctx context.Context, path string, params url.Values, out any) error
}

// MarketsQuery selects a page of /coins/markets.
type MarketsQuery struct {
	Currency  string // default "usd"
	Order     string // default "market_cap_desc"
	PerPage   int    // default 15
	Page      int    // omitted when zero
	Sparkline bool
}

func (q MarketsQuery) params() url.Values {
	if q.Currency == "" {
		q.Currency = "usd"
	}
	if q.Order == "" {
		q.Order = "market_cap_desc"
	}
	if q.PerPage <= 0 {
		q.PerPage = 15
	}

	v := url.Values{}
	v.Set("vs_currency", q.Currency)
	v.Set("order", q.Order)
	v.Set("per_page", strconv.Itoa(q.PerPage))
	if q.Page > 0 {
		v.Set("page", strconv.Itoa(q.Page))
	}
	v.Set("sparkline", strconv.FormatBool(q.Sparkline))
	return v
}

// globalResponse is the wrapped /global payload.
type globalResponse struct {
	Data struct {
		TotalMarketCap                  domain.CurrencyMap `json:"total_market_cap"`
		TotalVolume                     domain.CurrencyMap `json:"total_volume"`
		MarketCapChangePercentage24hUSD float64            `json:"market_cap_change_percentage_24h_usd"`
	} `json:"data"`
}

type marketChartResponse struct {
	Prices [][]json.Number `json:"prices"`
}

// Gateway exposes the typed market-data reads. Failures never escape as
// errors: each is logged and returned inside a Result.
type Gateway struct {
	http Fetcher
}

// New creates a gateway over f.
func New(f Fetcher) *Gateway {
	return &Gateway{http: f}
}

// ListTopAssets fetches one page of asset summaries.
// On failure Value() is an empty, non-nil slice.
func (g *Gateway) ListTopAssets(ctx context.Context, q MarketsQuery) Result[[]domain.AssetSummary] {
	var assets []domain.AssetSummary
	if err := g.http.GetJSON(ctx, "/coins/markets", q.params(), &assets); err != nil {
		logFailure("market data", err)
		return Failure(err, []domain.AssetSummary{})
	}
	if assets == nil {
		assets = []domain.AssetSummary{}
	}
	return Success(assets)
}

// GlobalStats fetches aggregate market statistics in usd.
// On failure Value() is nil.
func (g *Gateway) GlobalStats(ctx context.Context) Result[*domain.MarketStats] {
	var resp globalResponse
	if err := g.http.GetJSON(ctx, "/global", nil, &resp); err != nil {
		logFailure("global data", err)
		return Failure[*domain.MarketStats](err, nil)
	}

	return Success(&domain.MarketStats{
		TotalMarketCap:               resp.Data.TotalMarketCap.USD(),
		TotalVolume:                  resp.Data.TotalVolume.USD(),
		MarketCapChangePercentage24h: resp.Data.MarketCapChangePercentage24hUSD,
	})
}

// AssetDetail fetches one asset with description and supply data.
// On failure Value() is nil.
func (g *Gateway) AssetDetail(ctx context.Context, id string) Result[*domain.AssetDetail] {
	if err := validID(id); err != nil {
		logFailure("coin data", err)
		return Failure[*domain.AssetDetail](err, nil)
	}

	params := url.Values{}
	params.Set("localization", "false")
	params.Set("tickers", "false")
	params.Set("sparkline", "true")

	var detail domain.AssetDetail
	if err := g.http.GetJSON(ctx, "/coins/"+id, params, &detail); err != nil {
		logFailure("coin data", err, slog.String("id", id))
		return Failure[*domain.AssetDetail](err, nil)
	}
	return Success(&detail)
}

// PriceHistory fetches the usd price series of id over the last days days.
// On failure Value() is nil.
func (g *Gateway) PriceHistory(ctx context.Context, id string, days int) Result[[]domain.PricePoint] {
	if err := validID(id); err != nil {
		logFailure("market chart", err)
		return Failure[[]domain.PricePoint](err, nil)
	}
	if days <= 0 {
		err := fmt.Errorf("lookback window must be positive, got %d days", days)
		logFailure("market chart", err, slog.String("id", id))
		return Failure[[]domain.PricePoint](err, nil)
	}

	params := url.Values{}
	params.Set("vs_currency", "usd")
	params.Set("days", strconv.Itoa(days))

	var resp marketChartResponse
	if err := g.http.GetJSON(ctx, "/coins/"+id+"/market_chart", params, &resp); err != nil {
		logFailure("market chart", err, slog.String("id", id), slog.Int("days", days))
		return Failure[[]domain.PricePoint](err, nil)
	}

	points, err := domain.ParsePriceSeries(resp.Prices)
	if err != nil {
		logFailure("market chart", err, slog.String("id", id))
		return Failure[[]domain.PricePoint](err, nil)
	}
	return Success(points)
}

// ErrInvalidID is returned for ids that cannot name an asset.
var ErrInvalidID = errors.New("invalid asset id")

func validID(id string) error {
	if id == "" || strings.ContainsAny(id, "/?#") {
		return fmt.Errorf("%w: %q", ErrInvalidID, id)
	}
	return nil
}

func logFailure(what string, err error, attrs ...any) {
	args := append([]any{slog.Any("error", err)}, attrs...)
	slog.Error("Failed to fetch "+what, args...)
}
