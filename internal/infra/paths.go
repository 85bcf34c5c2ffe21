package infra

import (
	"os"
	"path/filepath"
)

const (
	AppName = "crypto-dash"
)

// ResolveConfigPath attempts to find the config.yaml.
// Priority: 1. ./configs, 2. OS config dir.
// The default path is returned when neither exists; LoadConfig then falls
// back to built-in defaults.
func ResolveConfigPath() string {
	defaultPath := filepath.Join("configs", "config.yaml")

	if _, err := os.Stat(defaultPath); err == nil {
		return defaultPath
	}

	configRoot, err := os.UserConfigDir()
	if err == nil {
		osPath := filepath.Join(configRoot, AppName, "config.yaml")
		if _, err := os.Stat(osPath); err == nil {
			return osPath
		}
	}

	return defaultPath
}
