// Package analyzer runs the scan, classify and enrich pipeline over a collected file set.
package analyzer

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ppiankov/importspectre/internal/classifier"
	"github.com/ppiankov/importspectre/internal/extractor"
	"github.com/ppiankov/importspectre/internal/models"
	"github.com/ppiankov/importspectre/pkg/config"
)

// Enricher defines the methods needed from the advisory client
type Enricher interface {
	Lookup(ctx context.Context, packageName string) (*models.HealthInfo, error)
	NotFound() []models.NotFoundEntry
}

// Analyzer turns a file set into an AnalysisResult
type Analyzer struct {
	classifier *classifier.Classifier
	enricher   Enricher
	extract    func(path string) ([]models.ImportStatement, error)

	files    []models.FileImports
	packages map[string]*models.PackageRecord
	order    []string // first-seen order of package names
}

// New creates a new analyzer instance
func New(cfg *config.Config, enricher Enricher) *Analyzer {
	return &Analyzer{
		classifier: classifier.New(cfg),
		enricher:   enricher,
		extract:    extractor.ProcessFile,
		packages:   make(map[string]*models.PackageRecord),
	}
}

// Analyze extracts every file's imports, then classifies and enriches each unique package.
// All files are processed before the first advisory lookup.
func (a *Analyzer) Analyze(ctx context.Context, files *models.FileSet) (*models.AnalysisResult, error) {
	slog.Debug("starting analysis", slog.Int("files", files.Total()))

	// 1. Extract imports, sources first, then notebooks
	if err := a.scanFiles(ctx, files.PythonFiles); err != nil {
		return nil, fmt.Errorf("failed to scan python files: %w", err)
	}
	if err := a.scanFiles(ctx, files.Notebooks); err != nil {
		return nil, fmt.Errorf("failed to scan notebooks: %w", err)
	}

	// 2. Classify and enrich in discovery order
	if err := a.enrichPackages(ctx); err != nil {
		return nil, fmt.Errorf("failed to enrich packages: %w", err)
	}

	result := &models.AnalysisResult{
		Files:    a.files,
		Packages: a.sortedPackages(),
	}
	if a.enricher != nil {
		result.NotFound = a.enricher.NotFound()
	}

	slog.Debug("analysis complete",
		slog.Int("files_with_imports", len(result.Files)),
		slog.Int("imports", result.ImportCount()),
		slog.Int("packages", len(result.Packages)),
		slog.Int("not_found", len(result.NotFound)),
	)

	return result, nil
}
