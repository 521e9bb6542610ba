package main

import (
	"fmt"
	"log/slog"

	"github.com/ppiankov/importspectre/internal/overrides"
	"github.com/ppiankov/importspectre/internal/reporter"
	"github.com/ppiankov/importspectre/pkg/config"
)

// runViews exports the override table and/or the ignore list instead of analyzing.
func runViews(cfg *config.Config) error {
	if cfg.ViewOverrides {
		if err := viewOverrides(cfg); err != nil {
			return err
		}
	}
	if cfg.ViewIgnores {
		path, err := reporter.ExportIgnores(cfg.OutputDir, cfg.IgnorePackages)
		if err != nil {
			return fmt.Errorf("failed to export ignore list: %w", err)
		}
		fmt.Printf("✓ Exported %d ignored packages to %s\n", len(cfg.IgnorePackages), path)
	}
	return nil
}

func viewOverrides(cfg *config.Config) error {
	store, err := overrides.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("failed to open override database: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			slog.Error("failed to close override database", slog.String("error", err.Error()))
		}
	}()

	all, err := store.All()
	if err != nil {
		return fmt.Errorf("failed to read name overrides: %w", err)
	}
	path, err := reporter.ExportOverrides(cfg.OutputDir, all)
	if err != nil {
		return fmt.Errorf("failed to export name overrides: %w", err)
	}
	fmt.Printf("✓ Exported %d name overrides to %s\n", len(all), path)
	return nil
}
