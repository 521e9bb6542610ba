package reporter

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/ppiankov/importspectre/internal/models"
)

const logTitle = "IMPORT ANALYSIS DETAILED LOG"

// WriteLog renders the per-file detailed log.
func WriteLog(w io.Writer, result *models.AnalysisResult) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, "%s\n", logTitle)
	fmt.Fprintf(bw, "%s\n\n", strings.Repeat("=", 25))

	for _, file := range result.Files {
		header := "File: " + file.Path
		fmt.Fprintf(bw, "%s\n", header)
		fmt.Fprintf(bw, "%s\n", strings.Repeat("-", len(header)))

		for _, imp := range file.Imports {
			fmt.Fprintf(bw, "  Import: %s\n", imp.Raw)
			fmt.Fprintf(bw, "  Package: %s\n", imp.Package)

			if info := result.Health(imp.Package); info != nil {
				fmt.Fprintf(bw, "  Snyk Package Name: %s\n", info.PackageName)
				fmt.Fprintf(bw, "  Snyk Version: %s\n", info.Version)
				fmt.Fprintf(bw, "  Snyk Health Score: %s\n", info.HealthScore)
			} else {
				fmt.Fprintf(bw, "  Snyk Data: Not Available\n")
			}
			fmt.Fprintln(bw)
		}
		fmt.Fprintln(bw)
	}

	return bw.Flush()
}
