package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"crypto_dash/internal/app"
	"crypto_dash/internal/infra"
	"crypto_dash/internal/tui"

	tea "github.com/charmbracelet/bubbletea"
)

func main() {
	cfg, err := infra.LoadConfig(infra.ResolveConfigPath())
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	// The terminal is owned by the UI, so logs go to a file.
	logPath := filepath.Join(os.TempDir(), infra.AppName+"-ticker.log")
	logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	defer logFile.Close()
	cfg.Logging.Output = logFile

	bootstrap := app.NewBootstrap()
	if err := bootstrap.InitializeWith(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	bootstrap.Start(ctx)
	defer bootstrap.Stop()

	detail := bootstrap.NewAssetDetail()
	defer detail.Close()

	p := tea.NewProgram(
		tui.New(ctx, bootstrap.Dashboard, bootstrap.Ticker, detail, cfg.UI.Theme),
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)

	if _, err := p.Run(); err != nil && ctx.Err() == nil {
		slog.Error("Terminal UI failed", slog.Any("error", err))
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
