package models

import "time"

// Report is the JSON representation of an analysis run
type Report struct {
	Tool      string          `json:"tool"`
	Version   string          `json:"version"`
	Timestamp string          `json:"timestamp"`
	Metadata  Metadata        `json:"metadata"`
	Packages  []PackageRecord `json:"packages"`
	Files     []FileImports   `json:"files"`
	NotFound  []NotFoundEntry `json:"not_found"`
}

// Metadata contains report generation info
type Metadata struct {
	GeneratedAt      time.Time `json:"generated_at"`
	Root             string    `json:"root"`
	PythonVersion    string    `json:"python_version"`
	PythonFiles      int       `json:"python_files"`
	Notebooks        int       `json:"notebooks"`
	ImportsFound     int       `json:"imports_found"`
	UniquePackages   int       `json:"unique_packages"`
	AnalysisDuration string    `json:"analysis_duration"`
}
