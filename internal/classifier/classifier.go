// Package classifier decides whether a top-level package is local, standard library or third-party.
package classifier

import (
	"log/slog"
	"strings"

	"github.com/ppiankov/importspectre/internal/models"
	"github.com/ppiankov/importspectre/pkg/config"
)

// Classifier classifies package names; results are memoised per name.
type Classifier struct {
	config    *config.Config
	localRule string
	stdlib    map[string]struct{}
	memo      map[string]models.Classification
}

// New creates a classifier for the configured local rule and Python version.
// An unknown Python version is logged once and every name is treated as not stdlib.
func New(cfg *config.Config) *Classifier {
	stdlib, ok := StdlibModules(cfg.PythonVersion)
	if !ok {
		slog.Warn("no stdlib list for python version, assuming nothing is stdlib",
			slog.String("python_version", cfg.PythonVersion),
			slog.String("supported", strings.Join(SupportedVersions(), ",")),
		)
	}

	return &Classifier{
		config:    cfg,
		localRule: cfg.LocalPackageRule,
		stdlib:    stdlib,
		memo:      make(map[string]models.Classification),
	}
}

// Classify returns the classification of a package name.
func (c *Classifier) Classify(name string) models.Classification {
	if class, ok := c.memo[name]; ok {
		return class
	}

	var class models.Classification
	switch {
	case c.IsLocal(name):
		class = models.ClassLocal
	case c.IsStdlib(name):
		class = models.ClassStdlib
	case c.config.IsPackageIgnored(name):
		class = models.ClassIgnored
	default:
		class = models.ClassThirdParty
	}

	c.memo[name] = class
	return class
}

// IsLocal reports whether name matches the local package rule.
// Top-level names never contain a dot, so "src" matches the rule "src." too.
func (c *Classifier) IsLocal(name string) bool {
	if c.localRule == "" || name == "" {
		return false
	}
	return strings.HasPrefix(name, c.localRule) || strings.HasPrefix(name+".", c.localRule)
}

// IsStdlib reports whether name is a standard library module for the configured version.
func (c *Classifier) IsStdlib(name string) bool {
	_, ok := c.stdlib[name]
	return ok
}
