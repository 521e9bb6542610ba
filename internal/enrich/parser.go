package enrich

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/ppiankov/importspectre/internal/models"
)

// Selectors for the scoped-style attributes the advisory page renders on the fields we read.
const (
	nameSelector    = "h1[data-v-c3c1b2fe]"
	versionSelector = "span[data-v-c3c1b2fe]"
	scoreSelector   = "div.number[data-v-3f4fee08][data-v-77223d2e] span[data-v-3f4fee08][data-v-77223d2e]"
)

// ErrUnexpectedMarkup means the page carries neither a package name nor a version.
var ErrUnexpectedMarkup = errors.New("unexpected advisory page markup")

// ParseAdvisoryPage extracts the display name, version and health score from an advisory page.
// Missing fields are reported as N/A; a page with neither name nor version is rejected.
func ParseAdvisoryPage(r io.Reader) (*models.HealthInfo, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parse advisory html: %w", err)
	}

	name := doc.Find(nameSelector).First()
	version := doc.Find(versionSelector).First()
	if name.Length() == 0 && version.Length() == 0 {
		return nil, ErrUnexpectedMarkup
	}

	info := &models.HealthInfo{
		PackageName: orNotAvailable(strings.TrimSpace(name.Text())),
		Version:     orNotAvailable(strings.TrimPrefix(strings.TrimSpace(version.Text()), "v")),
		HealthScore: models.NotAvailable,
	}

	if text := strings.TrimSpace(doc.Find(scoreSelector).First().Text()); text != "" {
		score, _, _ := strings.Cut(text, "/")
		info.HealthScore = orNotAvailable(strings.TrimSpace(score))
	}

	return info, nil
}

func orNotAvailable(value string) string {
	if value == "" {
		return models.NotAvailable
	}
	return value
}
