package reporter

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/ppiankov/importspectre/internal/models"
	"github.com/ppiankov/importspectre/pkg/config"
)

// WriteJSON writes the report to import_report.json and returns its path
func WriteJSON(report *models.Report, cfg *config.Config) (string, error) {
	if err := ensureOutputDir(cfg.OutputDir); err != nil {
		return "", err
	}

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal report to JSON: %w", err)
	}

	outputPath := filepath.Join(cfg.OutputDir, JSONFileName)
	if err := os.WriteFile(outputPath, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", JSONFileName, err)
	}

	slog.Debug("JSON report written", slog.String("path", outputPath))
	return outputPath, nil
}

// NewReport assembles the JSON representation of a finished run.
func NewReport(result *models.AnalysisResult, meta models.Metadata, version string) *models.Report {
	packages := make([]models.PackageRecord, 0, len(result.Packages))
	for _, pkg := range result.Packages {
		packages = append(packages, *pkg)
	}
	notFound := result.NotFound
	if notFound == nil {
		notFound = []models.NotFoundEntry{}
	}
	files := result.Files
	if files == nil {
		files = []models.FileImports{}
	}

	meta.ImportsFound = result.ImportCount()
	meta.UniquePackages = len(packages)

	return &models.Report{
		Tool:      "importspectre",
		Version:   version,
		Timestamp: meta.GeneratedAt.UTC().Format(time.RFC3339),
		Metadata:  meta,
		Packages:  packages,
		Files:     files,
		NotFound:  notFound,
	}
}
