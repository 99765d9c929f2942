package util

import (
	"fmt"
	"os"
	"path/filepath"
)

// DataDir returns the XDG data directory for prolific.
// It respects XDG_DATA_HOME if set, otherwise falls back to
// ~/.local/share/prolific
func DataDir() (string, error) {
	if dataHome := os.Getenv("XDG_DATA_HOME"); dataHome != "" {
		return filepath.Join(dataHome, "prolific"), nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	return filepath.Join(homeDir, ".local", "share", "prolific"), nil
}
