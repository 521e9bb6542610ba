package models

import "time"

// Classification describes where a top-level package comes from
type Classification string

const (
	ClassLocal      Classification = "local"
	ClassStdlib     Classification = "stdlib"
	ClassIgnored    Classification = "ignored"
	ClassThirdParty Classification = "third_party"
)

// NotAvailable is written for any health field that could not be resolved
const NotAvailable = "N/A"

// ImportStatement is one import line (or a joined multi-line group) and its top-level package
type ImportStatement struct {
	Raw     string `json:"statement"`
	Package string `json:"package"`
}

// FileImports holds the imports found in a single scanned file
type FileImports struct {
	Path    string            `json:"path"`
	Imports []ImportStatement `json:"imports"`
}

// FileSet is the output of the file collector
type FileSet struct {
	Root        string
	PythonFiles []string
	Notebooks   []string
	Excluded    []string // excluded directories, for logging
}

// Total returns the number of files to scan
func (fs *FileSet) Total() int {
	if fs == nil {
		return 0
	}
	return len(fs.PythonFiles) + len(fs.Notebooks)
}

// HealthInfo is the advisory data for a package, or a local/stdlib sentinel
type HealthInfo struct {
	PackageName string `json:"package_name"`
	Version     string `json:"version"`
	HealthScore string `json:"health_score"`
}

// SentinelHealth returns the placeholder health info for packages that are never looked up
func SentinelHealth(name string, class Classification) *HealthInfo {
	return &HealthInfo{
		PackageName: name,
		Version:     NotAvailable,
		HealthScore: string(class),
	}
}

// PackageRecord aggregates every occurrence of a top-level package in one run
type PackageRecord struct {
	Name           string         `json:"package"`
	Count          int            `json:"count"`
	Classification Classification `json:"classification"`
	Health         *HealthInfo    `json:"health,omitempty"`
}

// NameOverride maps an imported package name to the name the advisory site knows it by
type NameOverride struct {
	PackageName string    `json:"package_name"`
	SnykName    string    `json:"snyk_name"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NotFoundEntry is a package whose advisory lookup failed in this run
type NotFoundEntry struct {
	Name string `json:"name"`
	URL  string `json:"snyk_url"`
}

// AnalysisResult is the aggregate of one analysis run
type AnalysisResult struct {
	Files    []FileImports    // files with at least one import, in scan order
	Packages []*PackageRecord // descending count, ties in first-seen order
	NotFound []NotFoundEntry
}

// Package returns the record for name, or nil
func (r *AnalysisResult) Package(name string) *PackageRecord {
	if r == nil {
		return nil
	}
	for _, pkg := range r.Packages {
		if pkg.Name == name {
			return pkg
		}
	}
	return nil
}

// Health returns the health info recorded for name, or nil
func (r *AnalysisResult) Health(name string) *HealthInfo {
	if pkg := r.Package(name); pkg != nil {
		return pkg.Health
	}
	return nil
}

// ImportCount returns the total number of import statements across all files
func (r *AnalysisResult) ImportCount() int {
	if r == nil {
		return 0
	}
	total := 0
	for _, f := range r.Files {
		total += len(f.Imports)
	}
	return total
}
