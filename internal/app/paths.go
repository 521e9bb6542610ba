package app

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

const (
	appDirName      = ".importspectre"
	overridesDBName = "overrides.db"
	markerFileName  = "first_run_completed"
)

// DataDir returns the per-user directory holding persisted state.
func DataDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(homeDir, appDirName), nil
}

// OverridesDBPath returns the fixed location of the name override database.
func OverridesDBPath() (string, error) {
	dir, err := DataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, overridesDBName), nil
}

// IsFirstRun checks if this is the first time the application is run.
// It returns true if the marker file does not exist, and creates the marker file.
// It returns false if the marker file already exists.
func IsFirstRun() bool {
	dataDir, err := DataDir()
	if err != nil {
		slog.Error("failed to get app data directory", slog.String("error", err.Error()))
		return false
	}
	return isFirstRunIn(dataDir)
}

func isFirstRunIn(dataDir string) bool {
	markerFilePath := filepath.Join(dataDir, markerFileName)

	if _, err := os.Stat(markerFilePath); os.IsNotExist(err) {
		if err := os.MkdirAll(dataDir, 0755); err != nil {
			slog.Error("failed to create app data directory", slog.String("path", dataDir), slog.String("error", err.Error()))
			return false
		}
		f, err := os.Create(markerFilePath)
		if err != nil {
			slog.Error("failed to create first run marker file", slog.String("path", markerFilePath), slog.String("error", err.Error()))
			return false
		}
		_ = f.Close()
		slog.Debug("first run detected and marker created", slog.String("path", markerFilePath))
		return true
	} else if err != nil {
		slog.Error("failed to check first run marker file", slog.String("path", markerFilePath), slog.String("error", err.Error()))
		return false
	}

	slog.Debug("marker file exists, not first run", slog.String("path", markerFilePath))
	return false
}
