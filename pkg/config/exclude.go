package config

import (
	"path"
	"strings"
)

// Normalize trims config patterns and removes empty values.
func (c *Config) Normalize() {
	if c == nil {
		return
	}
	c.ExcludeDirs = normalizeList(c.ExcludeDirs)
	c.IgnorePackages = normalizeList(c.IgnorePackages)
	c.LocalPackageRule = strings.TrimSpace(c.LocalPackageRule)
	c.PythonVersion = strings.TrimSpace(c.PythonVersion)
	c.AdvisorURL = strings.TrimSpace(c.AdvisorURL)
}

// IsDirExcluded reports whether a directory name matches an exclude pattern.
// Directory names are compared case-sensitively.
func (c *Config) IsDirExcluded(name string) bool {
	if c == nil || len(c.ExcludeDirs) == 0 {
		return false
	}
	value := strings.TrimSpace(name)
	if value == "" {
		return false
	}
	for _, pattern := range c.ExcludeDirs {
		if patternMatches(pattern, value) {
			return true
		}
	}
	return false
}

// IsPackageIgnored reports whether a top-level package is on the ignore list.
func (c *Config) IsPackageIgnored(name string) bool {
	if c == nil || len(c.IgnorePackages) == 0 {
		return false
	}
	value := normalizePattern(name)
	if value == "" {
		return false
	}
	for _, pattern := range c.IgnorePackages {
		if patternMatches(normalizePattern(pattern), value) {
			return true
		}
	}
	return false
}

// SplitList splits a comma-separated flag value into trimmed, non-empty items.
func SplitList(value string) []string {
	return normalizeList(strings.Split(value, ","))
}

func normalizePattern(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

func patternMatches(pattern, value string) bool {
	if pattern == "" || value == "" {
		return false
	}

	// Invalid glob patterns are treated as exact matches.
	matched, err := path.Match(pattern, value)
	if err == nil {
		return matched
	}
	return pattern == value
}
