package reporter

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/ppiankov/importspectre/internal/models"
)

var (
	summaryHeader   = []string{"package", "count", "snyk_package_name", "snyk_version", "snyk_health_score"}
	notFoundHeader  = []string{"name", "snyk_url"}
	overridesHeader = []string{"package_name", "snyk_name"}
	ignoresHeader   = []string{"package"}
)

// WriteSummary writes one row per package in the given order.
func WriteSummary(w io.Writer, packages []*models.PackageRecord) error {
	rows := make([][]string, 0, len(packages))
	for _, pkg := range packages {
		name, version, score := models.NotAvailable, models.NotAvailable, models.NotAvailable
		if pkg.Health != nil {
			name, version, score = pkg.Health.PackageName, pkg.Health.Version, pkg.Health.HealthScore
		}
		rows = append(rows, []string{pkg.Name, strconv.Itoa(pkg.Count), name, version, score})
	}
	return writeCSV(w, summaryHeader, rows)
}

// WriteNotFound writes the packages whose advisory lookup failed.
func WriteNotFound(w io.Writer, entries []models.NotFoundEntry) error {
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{e.Name, e.URL})
	}
	return writeCSV(w, notFoundHeader, rows)
}

// WriteOverrides writes the persisted name overrides.
func WriteOverrides(w io.Writer, overrides []models.NameOverride) error {
	rows := make([][]string, 0, len(overrides))
	for _, o := range overrides {
		rows = append(rows, []string{o.PackageName, o.SnykName})
	}
	return writeCSV(w, overridesHeader, rows)
}

// WriteIgnores writes the configured ignore list.
func WriteIgnores(w io.Writer, packages []string) error {
	rows := make([][]string, 0, len(packages))
	for _, p := range packages {
		rows = append(rows, []string{p})
	}
	return writeCSV(w, ignoresHeader, rows)
}

func writeCSV(w io.Writer, header []string, rows [][]string) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return err
	}
	if err := cw.WriteAll(rows); err != nil {
		return err
	}
	return cw.Error()
}
