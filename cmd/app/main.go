package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"crypto_dash/internal/app"
	"crypto_dash/internal/infra"
	"crypto_dash/internal/web"

	_ "net/http/pprof" // For pprof profiling
)

func main() {
	// 1. System Bootstrapping
	bootstrap := app.NewBootstrap()
	if err := bootstrap.Initialize(); err != nil {
		slog.Error("❌ Bootstrapping failed", slog.Any("error", err))
		os.Exit(1)
	}
	cfg := bootstrap.Config
	infra.PrintBanner(os.Stdout, cfg, "web http://"+cfg.Server.Listen)

	// 2. Pprof Server (localhost only)
	if cfg.Server.PprofListen != "" {
		go func() {
			slog.Info("🕵️ Pprof server started", slog.String("addr", cfg.Server.PprofListen))
			if err := http.ListenAndServe(cfg.Server.PprofListen, nil); err != nil {
				slog.Error("Pprof server failed", slog.Any("error", err))
			}
		}()
	}

	// 3. Graceful Shutdown Context
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 4. Polling views
	bootstrap.Start(ctx)
	defer bootstrap.Stop()

	// 5. Web Server
	srv, err := web.NewServer(slog.Default(), bootstrap.Gateway, bootstrap.Dashboard, bootstrap.Ticker, web.Options{
		DefaultTheme: cfg.UI.Theme,
		CORSOrigins:  cfg.Server.CORSOrigins,
	})
	if err != nil {
		slog.Error("❌ Failed to build web server", slog.Any("error", err))
		os.Exit(1)
	}

	slog.InfoContext(ctx, "✨ Crypto Dash fully operational. Press Ctrl+C to exit.")

	if err := srv.ListenAndServe(ctx, cfg.Server.Listen); err != nil {
		slog.Error("❌ Web server failed", slog.Any("error", err))
		bootstrap.Stop()
		os.Exit(1)
	}

	slog.Info("👋 Shutting down gracefully...")
}
