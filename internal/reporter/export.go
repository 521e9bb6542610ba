package reporter

import (
	"os"
	"path/filepath"

	"github.com/ppiankov/importspectre/internal/models"
)

// ExportOverrides writes snyk_name_overrides.csv to dir and returns its path.
func ExportOverrides(dir string, overrides []models.NameOverride) (string, error) {
	if err := ensureOutputDir(dir); err != nil {
		return "", err
	}
	path := filepath.Join(dir, OverridesFileName)
	if err := writeFile(path, func(f *os.File) error { return WriteOverrides(f, overrides) }); err != nil {
		return "", err
	}
	return path, nil
}

// ExportIgnores writes snyk_ignores.csv to dir and returns its path.
func ExportIgnores(dir string, packages []string) (string, error) {
	if err := ensureOutputDir(dir); err != nil {
		return "", err
	}
	path := filepath.Join(dir, IgnoresFileName)
	if err := writeFile(path, func(f *os.File) error { return WriteIgnores(f, packages) }); err != nil {
		return "", err
	}
	return path, nil
}
