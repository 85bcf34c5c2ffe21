package infra

import (
	"fmt"
	"io"
)

// ANSI Color Codes
const (
	ColorReset  = "\033[0m"
	ColorYellow = "\033[33m"
	ColorCyan   = "\033[36m"
)

// PrintBanner displays the startup banner with the upstream and listen address.
func PrintBanner(w io.Writer, cfg *Config, surface string) {
	color := ColorCyan
	if cfg.API.APIKey == "" {
		// Keyless public API: tight rate limits apply
		color = ColorYellow
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s###########################################################%s\n", color, ColorReset)
	fmt.Fprintf(w, "%s#               📈 %-38s #%s\n", color, cfg.App.Name, ColorReset)
	fmt.Fprintf(w, "%s#   SURFACE: %-44s #%s\n", color, surface, ColorReset)
	fmt.Fprintf(w, "%s#   API:     %-44s #%s\n", color, truncate(cfg.API.BaseURL, 44), ColorReset)
	fmt.Fprintf(w, "%s#   VERSION: %-44s #%s\n", color, cfg.App.Version, ColorReset)
	if cfg.API.APIKey == "" {
		fmt.Fprintf(w, "%s#   ⚠️  No API key: public rate limits apply             #%s\n", ColorYellow, ColorReset)
	}
	fmt.Fprintf(w, "%s###########################################################%s\n", color, ColorReset)
	fmt.Fprintln(w)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
