package reporter

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/ppiankov/importspectre/internal/models"
	"github.com/ppiankov/importspectre/pkg/config"
)

// Report file names, fixed so downstream tooling can find them
const (
	LogFileName       = "import_log.txt"
	SummaryFileName   = "import_summary.csv"
	NotFoundFileName  = "snyk_not_found_packages.csv"
	JSONFileName      = "import_report.json"
	OverridesFileName = "snyk_name_overrides.csv"
	IgnoresFileName   = "snyk_ignores.csv"
)

// Paths lists the files written by one Generate call
type Paths struct {
	Log      string
	Summary  string
	NotFound string
	JSON     string // empty unless JSON output is enabled
}

// Reporter interface for generating reports
type Reporter interface {
	Generate(result *models.AnalysisResult, report *models.Report) (Paths, error)
}

// reporter implements the Reporter interface
type reporter struct {
	config *config.Config
}

// New creates a new reporter instance
func New(cfg *config.Config) Reporter {
	return &reporter{
		config: cfg,
	}
}

// Generate writes the detailed log, the summary CSV and the not-found CSV.
// Existing files are overwritten. The JSON report is written only when enabled
// and report is non-nil.
func (r *reporter) Generate(result *models.AnalysisResult, report *models.Report) (Paths, error) {
	if result == nil {
		return Paths{}, fmt.Errorf("analysis result is nil")
	}
	if err := ensureOutputDir(r.config.OutputDir); err != nil {
		return Paths{}, err
	}

	paths := Paths{
		Log:      filepath.Join(r.config.OutputDir, LogFileName),
		Summary:  filepath.Join(r.config.OutputDir, SummaryFileName),
		NotFound: filepath.Join(r.config.OutputDir, NotFoundFileName),
	}

	if err := writeFile(paths.Log, func(f *os.File) error { return WriteLog(f, result) }); err != nil {
		return Paths{}, err
	}
	if err := writeFile(paths.Summary, func(f *os.File) error { return WriteSummary(f, result.Packages) }); err != nil {
		return Paths{}, err
	}
	if err := writeFile(paths.NotFound, func(f *os.File) error { return WriteNotFound(f, result.NotFound) }); err != nil {
		return Paths{}, err
	}

	if r.config.WriteJSON && report != nil {
		jsonPath, err := WriteJSON(report, r.config)
		if err != nil {
			return Paths{}, err
		}
		paths.JSON = jsonPath
	}

	slog.Info("reports written",
		slog.String("log", paths.Log),
		slog.String("summary", paths.Summary),
		slog.String("not_found", paths.NotFound),
	)

	return paths, nil
}

func ensureOutputDir(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	return nil
}

// writeFile truncates path and hands the open file to render.
func writeFile(path string, render func(f *os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", filepath.Base(path), err)
	}
	if err := render(f); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to write %s: %w", filepath.Base(path), err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", filepath.Base(path), err)
	}
	return nil
}
