package analyzer

import (
	"context"
	"log/slog"
	"sort"

	"github.com/ppiankov/importspectre/internal/models"
)

// enrichPackages classifies every unique package once and looks up third-party ones.
func (a *Analyzer) enrichPackages(ctx context.Context) error {
	for _, name := range a.order {
		pkg := a.packages[name]
		pkg.Classification = a.classifier.Classify(name)

		switch pkg.Classification {
		case models.ClassLocal, models.ClassStdlib:
			pkg.Health = models.SentinelHealth(name, pkg.Classification)
		case models.ClassIgnored:
			slog.Debug("skipping ignored package", slog.String("package", name))
		case models.ClassThirdParty:
			if a.enricher == nil {
				continue
			}
			info, err := a.enricher.Lookup(ctx, name)
			if err != nil {
				return err
			}
			pkg.Health = info
		}
	}
	return nil
}

// sortedPackages orders packages by descending count, ties in first-seen order.
func (a *Analyzer) sortedPackages() []*models.PackageRecord {
	out := make([]*models.PackageRecord, 0, len(a.order))
	for _, name := range a.order {
		out = append(out, a.packages[name])
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Count > out[j].Count
	})
	return out
}
