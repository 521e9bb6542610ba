package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

const (
	// DefaultConfigFile is the config filename looked up in the working directory.
	DefaultConfigFile = "config.toml"
	// DefaultConfigFileTOML is the per-user config filename.
	DefaultConfigFileTOML = ".importspectre.toml"
	// DefaultConfigFileYAML is a YAML alternative to the per-user config file.
	DefaultConfigFileYAML = ".importspectre.yaml"
)

// FileConfig represents values loaded from a config file.
type FileConfig struct {
	LocalPackageRule string        `yaml:"local_package_rule" toml:"local_package_rule"`
	PythonVersion    string        `yaml:"python_version" toml:"python_version"`
	AdvisorURL       string        `yaml:"advisor_url" toml:"advisor_url"`
	ExcludeDirs      []string      `yaml:"exclude" toml:"exclude"`
	SnykIgnores      IgnoreSection `yaml:"snyk_ignores" toml:"snyk_ignores"`
}

// IgnoreSection lists packages that are never sent to the advisory site.
type IgnoreSection struct {
	Packages []string `yaml:"packages" toml:"packages"`
}

// Normalize trims and removes empty items from list fields.
func (fc *FileConfig) Normalize() {
	if fc == nil {
		return
	}

	fc.LocalPackageRule = strings.TrimSpace(fc.LocalPackageRule)
	fc.PythonVersion = strings.TrimSpace(fc.PythonVersion)
	fc.AdvisorURL = strings.TrimSpace(fc.AdvisorURL)
	fc.ExcludeDirs = normalizeList(fc.ExcludeDirs)
	fc.SnykIgnores.Packages = normalizeList(fc.SnykIgnores.Packages)
}

// AutoLoadFile discovers and loads the first available config file.
func AutoLoadFile() (*FileConfig, string, error) {
	candidates := []string{
		DefaultConfigFile,
		DefaultConfigFileTOML,
		DefaultConfigFileYAML,
	}

	if homeDir, err := os.UserHomeDir(); err == nil && strings.TrimSpace(homeDir) != "" {
		candidates = append(candidates,
			filepath.Join(homeDir, DefaultConfigFileTOML),
			filepath.Join(homeDir, DefaultConfigFileYAML),
		)
	}

	return LoadFirstExistingFile(candidates)
}

// LoadFirstExistingFile loads the first config file that exists in paths.
func LoadFirstExistingFile(paths []string) (*FileConfig, string, error) {
	for _, path := range paths {
		candidate := strings.TrimSpace(path)
		if candidate == "" {
			continue
		}

		info, err := os.Stat(candidate)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return nil, "", fmt.Errorf("failed to access config file %q: %w", candidate, err)
		}
		if info.IsDir() {
			return nil, "", fmt.Errorf("config path %q is a directory, expected a file", candidate)
		}

		cfg, err := LoadFile(candidate)
		if err != nil {
			return nil, "", err
		}
		return cfg, candidate, nil
	}

	return nil, "", nil
}

// LoadFile loads config values from a specific file path.
// Files ending in .yaml or .yml are parsed as YAML, everything else as TOML.
func LoadFile(path string) (*FileConfig, error) {
	filename := strings.TrimSpace(path)
	if filename == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %q: %w", filename, err)
	}

	cfg := &FileConfig{}
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, cfg)
	default:
		err = toml.Unmarshal(data, cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file %q: %w", filename, err)
	}

	cfg.Normalize()
	return cfg, nil
}

func normalizeList(values []string) []string {
	if len(values) == 0 {
		return []string{}
	}

	normalized := make([]string, 0, len(values))
	for _, value := range values {
		trimmed := strings.TrimSpace(value)
		if trimmed == "" {
			continue
		}
		normalized = append(normalized, trimmed)
	}
	return normalized
}
