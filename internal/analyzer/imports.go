package analyzer

import (
	"context"
	"log/slog"

	"github.com/ppiankov/importspectre/internal/models"
)

// scanFiles extracts imports from each file and updates package counts.
// A file that cannot be read or parsed is logged and contributes nothing.
func (a *Analyzer) scanFiles(ctx context.Context, paths []string) error {
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return err
		}

		imports, err := a.extract(path)
		if err != nil {
			slog.Error("failed to process file", slog.String("file", path), slog.String("error", err.Error()))
			continue
		}
		if len(imports) == 0 {
			continue
		}

		a.files = append(a.files, models.FileImports{Path: path, Imports: imports})
		for _, imp := range imports {
			a.count(imp.Package)
		}
	}
	return nil
}

func (a *Analyzer) count(name string) {
	pkg, exists := a.packages[name]
	if !exists {
		pkg = &models.PackageRecord{Name: name}
		a.packages[name] = pkg
		a.order = append(a.order, name)
	}
	pkg.Count++
}
