package config

import (
	"os"
	"path/filepath"
)

// ZeonPath returns the root directory for Zeon data.
// It uses $ZEON_PATH if set, otherwise defaults to ~/.zeon.
func ZeonPath() string {
	if v := os.Getenv("ZEON_PATH"); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".zeon")
	}
	return filepath.Join(home, ".zeon")
}

// ConfigPath returns the path to the Zeon config file.
func ConfigPath() string {
	return filepath.Join(ZeonPath(), "config.jsonc")
}

// DotenvPath returns the path to the Zeon .env file.
func DotenvPath() string {
	return filepath.Join(ZeonPath(), ".env")
}
