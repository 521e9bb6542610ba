// Package collector enumerates the Python sources and notebooks under a root directory.
package collector

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/ppiankov/importspectre/internal/models"
	"github.com/ppiankov/importspectre/pkg/config"
)

const (
	pythonExt   = ".py"
	notebookExt = ".ipynb"
)

// ErrInvalidDirectory is returned when the scan root is missing or not a directory.
var ErrInvalidDirectory = errors.New("not a valid directory")

// Collector interface for collecting files to scan
type Collector interface {
	Collect(ctx context.Context) (*models.FileSet, error)
}

// collector implements the Collector interface
type collector struct {
	config *config.Config
}

// New creates a new collector instance
func New(cfg *config.Config) Collector {
	return &collector{config: cfg}
}

// Collect walks the configured directory and returns .py and .ipynb files in walk order.
func (c *collector) Collect(ctx context.Context) (*models.FileSet, error) {
	root, err := resolveRoot(c.config.Directory)
	if err != nil {
		return nil, err
	}
	slog.Info("resolved scan root", slog.String("path", root))

	files := &models.FileSet{Root: root}

	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if walkErr != nil {
			if path == root {
				return walkErr
			}
			slog.Warn("skipping unreadable path", slog.String("path", path), slog.String("error", walkErr.Error()))
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if d.IsDir() {
			if path != root && c.config.IsDirExcluded(d.Name()) {
				files.Excluded = append(files.Excluded, path)
				return filepath.SkipDir
			}
			return nil
		}

		switch {
		case strings.HasSuffix(d.Name(), pythonExt):
			files.PythonFiles = append(files.PythonFiles, path)
		case strings.HasSuffix(d.Name(), notebookExt):
			files.Notebooks = append(files.Notebooks, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk %s: %w", root, err)
	}

	for _, dir := range files.Excluded {
		slog.Info("excluding directory", slog.String("path", dir))
	}
	slog.Info("collected files",
		slog.Int("python_files", len(files.PythonFiles)),
		slog.Int("notebooks", len(files.Notebooks)),
	)

	return files, nil
}

func resolveRoot(dir string) (string, error) {
	trimmed := strings.TrimSpace(dir)
	if trimmed == "" {
		return "", fmt.Errorf("directory is required: %w", ErrInvalidDirectory)
	}

	root, err := filepath.Abs(trimmed)
	if err != nil {
		return "", fmt.Errorf("the provided path %q is %w: %v", dir, ErrInvalidDirectory, err)
	}

	info, err := os.Stat(root)
	if err != nil || !info.IsDir() {
		return "", fmt.Errorf("the provided path %q is %w", dir, ErrInvalidDirectory)
	}

	return root, nil
}
