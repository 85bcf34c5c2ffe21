package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"crypto_dash/internal/app"
	"crypto_dash/internal/domain"
	"crypto_dash/internal/gateway"
	"crypto_dash/internal/infra"
	"crypto_dash/internal/render"
)

func main() {
	asset := flag.String("asset", "bitcoin", "asset id for the detail and history fetch")
	tf := flag.String("tf", string(domain.DefaultTimeframe), "history timeframe: 24h, 7d, 30d, 1y")
	flag.Parse()

	timeframe, err := domain.ParseTimeframe(*tf)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(2)
	}

	cfg, err := infra.LoadConfig(infra.ResolveConfigPath())
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	cfg.Logging.Level = "warn"

	bootstrap := app.NewBootstrap()
	if err := bootstrap.InitializeWith(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	gw := bootstrap.Gateway

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	fmt.Println("=== Crypto Dash Market Fetcher ===")
	fmt.Println()

	failed := false

	// 1. Global stats
	if stats, err := gw.GlobalStats(ctx).Unwrap(); err != nil {
		fmt.Printf("❌ Global stats: %v\n", err)
		failed = true
	} else {
		fmt.Printf("🌐 Market Cap %s (%s)   24h Volume %s\n",
			render.Compact(stats.TotalMarketCap),
			render.Percent(stats.MarketCapChangePercentage24h),
			render.Compact(stats.TotalVolume))
	}
	fmt.Println()

	// 2. Top assets
	assets, err := gw.ListTopAssets(ctx, gateway.MarketsQuery{PerPage: 10, Sparkline: true}).Unwrap()
	if err != nil {
		fmt.Printf("❌ Top assets: %v\n", err)
		failed = true
	}
	for i, a := range assets {
		fmt.Printf("%2d. %-6s %-14s %8s  %s\n",
			i+1,
			strings.ToUpper(a.Symbol),
			render.Price(a.CurrentPrice),
			render.Percent(a.PriceChangePercentage24h),
			render.Sparkline(a.Sparkline.Price, 24))
	}
	fmt.Println()

	// 3. Detail and history
	if d, err := gw.AssetDetail(ctx, *asset).Unwrap(); err != nil {
		fmt.Printf("❌ Asset %s: %v\n", *asset, err)
		failed = true
	} else {
		md := d.MarketData
		fmt.Printf("📊 %s (%s)\n", d.Name, strings.ToUpper(d.Symbol))
		fmt.Printf("   Price:       %s\n", render.Price(md.CurrentPrice.USD()))
		fmt.Printf("   ATH / ATL:   %s / %s\n", render.Price(md.ATH.USD()), render.Price(md.ATL.USD()))
		fmt.Printf("   Total Supply: %s\n", render.Supply(md.TotalSupply, d.Symbol))
	}

	if points, err := gw.PriceHistory(ctx, *asset, timeframe.Days()).Unwrap(); err != nil {
		fmt.Printf("❌ History %s: %v\n", timeframe.Label(), err)
		failed = true
	} else {
		fmt.Printf("   %s history: %d points  %s\n", timeframe.Label(), len(points),
			render.Sparkline(render.Prices(points), 40))
	}
	fmt.Println()

	if failed {
		fmt.Println("⚠️  Some requests failed after retries")
		os.Exit(1)
	}
	fmt.Println("✅ All endpoints answered")
}
