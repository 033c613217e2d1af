package util

import (
	"fmt"
	"os"
	"path/filepath"
)

const appDir = "crodash"

// GetXDGDataDir returns the XDG data directory for crodash.
// It respects XDG_DATA_HOME if set, otherwise falls back to ~/.local/share/crodash
func GetXDGDataDir() (string, error) {
	if dataHome := os.Getenv("XDG_DATA_HOME"); dataHome != "" {
		return filepath.Join(dataHome, appDir), nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	return filepath.Join(homeDir, ".local", "share", appDir), nil
}

// DataFile resolves name inside the data directory, creating the directory
// when needed.
func DataFile(name string) (string, error) {
	dir, err := GetXDGDataDir()
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", fmt.Errorf("failed to create data directory: %w", err)
	}
	return filepath.Join(dir, name), nil
}
