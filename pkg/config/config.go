package config

import "time"

// Config holds all runtime configuration
type Config struct {
	// Scan settings
	Directory   string
	ExcludeDirs []string

	// Classification settings
	LocalPackageRule string
	PythonVersion    string
	IgnorePackages   []string

	// Advisory lookup settings
	AdvisorURL     string
	RequestTimeout time.Duration
	MinDelay       time.Duration
	MaxDelay       time.Duration
	RateLimit      int
	DBPath         string

	// Output settings
	OutputDir string
	WriteJSON bool

	// Operational flags
	ConfigPath    string
	ViewOverrides bool
	ViewIgnores   bool
	Verbose       bool
}

const (
	// DefaultAdvisorURL is the advisory page prefix; the package name is appended.
	DefaultAdvisorURL = "https://snyk.io/advisor/python/"
	// DefaultLocalPackageRule marks imports of the project's own code.
	DefaultLocalPackageRule = "src."
	// DefaultPythonVersion selects the standard library list.
	DefaultPythonVersion = "3.12"
	// DefaultExcludeDir is the conventional virtual environment directory.
	DefaultExcludeDir = ".venv"
)

// DefaultConfig returns sensible defaults
func DefaultConfig() *Config {
	return &Config{
		ExcludeDirs:      []string{DefaultExcludeDir},
		LocalPackageRule: DefaultLocalPackageRule,
		PythonVersion:    DefaultPythonVersion,
		IgnorePackages:   []string{},
		AdvisorURL:       DefaultAdvisorURL,
		RequestTimeout:   10 * time.Second,
		MinDelay:         200 * time.Millisecond,
		MaxDelay:         600 * time.Millisecond,
		RateLimit:        5,
		OutputDir:        ".",
		WriteJSON:        false,
		Verbose:          false,
	}
}

// ApplyFile overlays values from a config file. Empty values keep the current setting.
func (c *Config) ApplyFile(fc *FileConfig) {
	if c == nil || fc == nil {
		return
	}
	if fc.LocalPackageRule != "" {
		c.LocalPackageRule = fc.LocalPackageRule
	}
	if fc.PythonVersion != "" {
		c.PythonVersion = fc.PythonVersion
	}
	if fc.AdvisorURL != "" {
		c.AdvisorURL = fc.AdvisorURL
	}
	if len(fc.ExcludeDirs) > 0 {
		c.ExcludeDirs = append([]string{}, fc.ExcludeDirs...)
	}
	if len(fc.SnykIgnores.Packages) > 0 {
		c.IgnorePackages = append([]string{}, fc.SnykIgnores.Packages...)
	}
	c.Normalize()
}
