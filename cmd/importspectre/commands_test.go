package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ppiankov/importspectre/internal/collector"
	"github.com/ppiankov/importspectre/internal/overrides"
	"github.com/ppiankov/importspectre/pkg/config"
)

// isolate points HOME and the working directory at fresh temp dirs.
func isolate(t *testing.T) string {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	workDir := t.TempDir()
	t.Chdir(workDir)
	return workDir
}

func TestNewAnalyzeCmdPreRunValidation(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		flags    map[string]string
		wantErr  string
		wantCode int
	}{
		{
			name: "valid_defaults",
			args: []string{"proj"},
		},
		{
			name:     "missing_directory",
			wantErr:  "directory argument is required",
			wantCode: ExitInvalidArg,
		},
		{
			name:  "view_overrides_needs_no_directory",
			flags: map[string]string{"view-overrides": "true"},
		},
		{
			name:  "view_ignores_needs_no_directory",
			flags: map[string]string{"view-ignores": "true"},
		},
		{
			name:     "invalid_request_timeout",
			args:     []string{"proj"},
			flags:    map[string]string{"request-timeout": "soon"},
			wantErr:  "invalid --request-timeout duration",
			wantCode: ExitInvalidArg,
		},
		{
			name:     "invalid_min_delay",
			args:     []string{"proj"},
			flags:    map[string]string{"min-delay": "bad"},
			wantErr:  "invalid --min-delay duration",
			wantCode: ExitInvalidArg,
		},
		{
			name:     "min_delay_above_max",
			args:     []string{"proj"},
			flags:    map[string]string{"min-delay": "2s", "max-delay": "1s"},
			wantErr:  "--min-delay must be <= --max-delay",
			wantCode: ExitInvalidArg,
		},
		{
			name:     "negative_rate_limit",
			args:     []string{"proj"},
			flags:    map[string]string{"rate-limit": "-1"},
			wantErr:  "invalid --rate-limit",
			wantCode: ExitInvalidArg,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			isolate(t)
			cmd := NewAnalyzeCmd()
			for name, value := range tc.flags {
				if err := cmd.Flags().Set(name, value); err != nil {
					t.Fatalf("failed to set %s flag: %v", name, err)
				}
			}

			err := cmd.PreRunE(cmd, tc.args)
			if tc.wantErr == "" {
				if err != nil {
					t.Fatalf("expected no error, got %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tc.wantErr) {
				t.Fatalf("expected error containing %q, got %v", tc.wantErr, err)
			}
			if code := classifyError(err); code != tc.wantCode {
				t.Fatalf("expected exit code %d, got %d", tc.wantCode, code)
			}
		})
	}
}

func TestPreRunParsesFlags(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Chdir(t.TempDir())

	cfg := config.DefaultConfig()
	cmd := newAnalyzeCmd(cfg)
	flags := map[string]string{
		"exclude":         ".venv, build ,node_*",
		"python-version":  "3.9",
		"request-timeout": "30s",
		"min-delay":       "0ms",
		"max-delay":       "1s",
		"json":            "true",
		"output":          "reports",
	}
	for name, value := range flags {
		if err := cmd.Flags().Set(name, value); err != nil {
			t.Fatalf("failed to set %s flag: %v", name, err)
		}
	}

	if err := cmd.PreRunE(cmd, []string{"proj"}); err != nil {
		t.Fatalf("PreRunE failed: %v", err)
	}

	if cfg.Directory != "proj" {
		t.Fatalf("expected directory proj, got %q", cfg.Directory)
	}
	if strings.Join(cfg.ExcludeDirs, "|") != ".venv|build|node_*" {
		t.Fatalf("unexpected exclude dirs %v", cfg.ExcludeDirs)
	}
	if cfg.PythonVersion != "3.9" {
		t.Fatalf("expected python version 3.9, got %q", cfg.PythonVersion)
	}
	if cfg.RequestTimeout != 30*time.Second || cfg.MinDelay != 0 || cfg.MaxDelay != time.Second {
		t.Fatalf("unexpected durations: timeout=%s min=%s max=%s", cfg.RequestTimeout, cfg.MinDelay, cfg.MaxDelay)
	}
	if !cfg.WriteJSON || cfg.OutputDir != "reports" {
		t.Fatalf("unexpected output settings: json=%v dir=%q", cfg.WriteJSON, cfg.OutputDir)
	}
	if cfg.DBPath != filepath.Join(home, ".importspectre", "overrides.db") {
		t.Fatalf("unexpected default db path %q", cfg.DBPath)
	}
}

func TestNewAnalyzeCmdAutoLoadsConfigFile(t *testing.T) {
	workDir := isolate(t)

	configContent := "local_package_rule = \"app.\"\npython_version = \"3.10\"\n\n[snyk_ignores]\npackages = [\"corp_sdk\"]\n"
	if err := os.WriteFile(filepath.Join(workDir, "config.toml"), []byte(configContent), 0o644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	cfg := config.DefaultConfig()
	cmd := newAnalyzeCmd(cfg)
	if err := cmd.PreRunE(cmd, []string{"proj"}); err != nil {
		t.Fatalf("PreRunE failed: %v", err)
	}
	if cfg.LocalPackageRule != "app." || cfg.PythonVersion != "3.10" {
		t.Fatalf("config file not applied: rule=%q version=%q", cfg.LocalPackageRule, cfg.PythonVersion)
	}
	if len(cfg.IgnorePackages) != 1 || cfg.IgnorePackages[0] != "corp_sdk" {
		t.Fatalf("unexpected ignore list %v", cfg.IgnorePackages)
	}
}

func TestNewAnalyzeCmdConfigFlagLoadsCustomPath(t *testing.T) {
	isolate(t)
	customPath := filepath.Join(t.TempDir(), "custom-config.yaml")
	configContent := "advisor_url: http://advisor.local/python/\nexclude:\n  - dist\n"
	if err := os.WriteFile(customPath, []byte(configContent), 0o644); err != nil {
		t.Fatalf("failed to write custom config file: %v", err)
	}

	cfg := config.DefaultConfig()
	cmd := newAnalyzeCmd(cfg)
	if err := cmd.Flags().Set("config", customPath); err != nil {
		t.Fatalf("failed to set config flag: %v", err)
	}
	if err := cmd.PreRunE(cmd, []string{"proj"}); err != nil {
		t.Fatalf("expected --config path to load successfully, got %v", err)
	}
	if cfg.AdvisorURL != "http://advisor.local/python/" {
		t.Fatalf("unexpected advisor url %q", cfg.AdvisorURL)
	}
	if len(cfg.ExcludeDirs) != 1 || cfg.ExcludeDirs[0] != "dist" {
		t.Fatalf("unexpected exclude dirs %v", cfg.ExcludeDirs)
	}
}

func TestNewAnalyzeCmdFlagsOverrideConfigFileValues(t *testing.T) {
	workDir := isolate(t)

	configContent := "python_version = \"3.8\"\nadvisor_url = \"http://from-config/\"\nexclude = [\"dist\"]\n"
	if err := os.WriteFile(filepath.Join(workDir, "config.toml"), []byte(configContent), 0o644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	cfg := config.DefaultConfig()
	cmd := newAnalyzeCmd(cfg)
	for name, value := range map[string]string{
		"python-version": "3.13",
		"advisor-url":    "http://from-cli/",
		"exclude":        "build",
	} {
		if err := cmd.Flags().Set(name, value); err != nil {
			t.Fatalf("failed to set %s flag: %v", name, err)
		}
	}

	if err := cmd.PreRunE(cmd, []string{"proj"}); err != nil {
		t.Fatalf("PreRunE failed: %v", err)
	}
	if cfg.PythonVersion != "3.13" || cfg.AdvisorURL != "http://from-cli/" {
		t.Fatalf("flags did not override config: version=%q url=%q", cfg.PythonVersion, cfg.AdvisorURL)
	}
	if len(cfg.ExcludeDirs) != 1 || cfg.ExcludeDirs[0] != "build" {
		t.Fatalf("unexpected exclude dirs %v", cfg.ExcludeDirs)
	}
}

func TestBrokenConfigFileFallsBackToDefaults(t *testing.T) {
	workDir := isolate(t)
	if err := os.WriteFile(filepath.Join(workDir, "config.toml"), []byte("python_version = [unterminated"), 0o644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	cfg := config.DefaultConfig()
	cmd := newAnalyzeCmd(cfg)
	if err := cmd.PreRunE(cmd, []string{"proj"}); err != nil {
		t.Fatalf("expected broken config to be ignored, got %v", err)
	}
	if cfg.PythonVersion != config.DefaultPythonVersion {
		t.Fatalf("expected default python version, got %q", cfg.PythonVersion)
	}
}

func TestNormalizeArgs(t *testing.T) {
	got := normalizeArgs([]string{"-vo", "-o", "out", "-vi", "-v", "proj"})
	want := []string{"--view-overrides", "-o", "out", "--view-ignores", "-v", "proj"}
	if strings.Join(got, " ") != strings.Join(want, " ") {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestClassifyError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "nil", err: nil, want: ExitSuccess},
		{name: "invalid_directory", err: fmt.Errorf("failed to collect files: %w", collector.ErrInvalidDirectory), want: ExitNotFound},
		{name: "not_exist", err: os.ErrNotExist, want: ExitNotFound},
		{name: "network", err: errors.New("dial tcp: connection refused"), want: ExitNetwork},
		{name: "invalid_arg", err: errors.New("invalid --min-delay duration"), want: ExitInvalidArg},
		{name: "too_many_args", err: errors.New("accepts at most 1 arg(s), received 2"), want: ExitInvalidArg},
		{name: "internal", err: errors.New("database is locked"), want: ExitInternal},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := classifyError(tc.err); got != tc.want {
				t.Fatalf("expected %d, got %d", tc.want, got)
			}
		})
	}
}

func TestRunAnalyzeFailsOnMissingDirectory(t *testing.T) {
	isolate(t)
	cfg := config.DefaultConfig()
	cfg.Directory = filepath.Join(t.TempDir(), "missing")
	cfg.DBPath = filepath.Join(t.TempDir(), "overrides.db")

	err := runAnalyze(context.Background(), cfg)
	if !errors.Is(err, collector.ErrInvalidDirectory) {
		t.Fatalf("expected invalid directory error, got %v", err)
	}
	if _, statErr := os.Stat(cfg.DBPath); !os.IsNotExist(statErr) {
		t.Fatalf("expected database not to be created, stat err=%v", statErr)
	}
}

const advisoryPage = `<html><body>
<h1 data-v-c3c1b2fe>%s</h1>
<span data-v-c3c1b2fe>v%s</span>
<div class="number" data-v-3f4fee08 data-v-77223d2e><span data-v-3f4fee08 data-v-77223d2e>%s/100</span></div>
</body></html>`

func TestRunAnalyzeEndToEnd(t *testing.T) {
	isolate(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch strings.TrimPrefix(r.URL.Path, "/python/") {
		case "requests":
			fmt.Fprintf(w, advisoryPage, "requests", "2.32.3", "91")
		case "python-dateutil":
			fmt.Fprintf(w, advisoryPage, "python-dateutil", "2.9.0", "88")
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	srcDir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(srcDir, ".venv"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	files := map[string]string{
		"app.py":          "import os\nimport requests\nimport python_dateutil\nfrom src.core import run\n",
		"more.py":         "import requests\nimport missingpkg\n",
		".venv/vendor.py": "import shouldnotappear\n",
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(srcDir, name), []byte(content), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}

	cfg := config.DefaultConfig()
	cfg.Directory = srcDir
	cfg.AdvisorURL = server.URL + "/python/"
	cfg.MinDelay = 0
	cfg.MaxDelay = 0
	cfg.RateLimit = 0
	cfg.OutputDir = t.TempDir()
	cfg.DBPath = filepath.Join(t.TempDir(), "overrides.db")
	cfg.WriteJSON = true

	if err := runAnalyze(context.Background(), cfg); err != nil {
		t.Fatalf("runAnalyze failed: %v", err)
	}

	summary, err := os.ReadFile(filepath.Join(cfg.OutputDir, "import_summary.csv"))
	if err != nil {
		t.Fatalf("read summary: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(summary)), "\n")
	if len(lines) != 6 {
		t.Fatalf("expected header and 5 rows, got:\n%s", summary)
	}
	if lines[1] != "requests,2,requests,2.32.3,91" {
		t.Fatalf("expected requests first, got %q", lines[1])
	}
	if strings.Contains(string(summary), "shouldnotappear") {
		t.Fatalf("excluded directory was scanned:\n%s", summary)
	}
	if !strings.Contains(string(summary), "python_dateutil,1,python-dateutil,2.9.0,88") {
		t.Fatalf("expected swapped-name lookup in summary:\n%s", summary)
	}

	notFound, err := os.ReadFile(filepath.Join(cfg.OutputDir, "snyk_not_found_packages.csv"))
	if err != nil {
		t.Fatalf("read not-found csv: %v", err)
	}
	if !strings.Contains(string(notFound), "missingpkg,"+server.URL+"/python/missingpkg") {
		t.Fatalf("unexpected not-found csv:\n%s", notFound)
	}

	if _, err := os.Stat(filepath.Join(cfg.OutputDir, "import_report.json")); err != nil {
		t.Fatalf("expected JSON report: %v", err)
	}

	store, err := overrides.Open(cfg.DBPath)
	if err != nil {
		t.Fatalf("reopen store: %v", err)
	}
	defer store.Close()
	name, ok, err := store.Lookup("python_dateutil")
	if err != nil || !ok || name != "python-dateutil" {
		t.Fatalf("expected persisted override, got %q ok=%v err=%v", name, ok, err)
	}
}

func TestRunViewsExportsCSVs(t *testing.T) {
	isolate(t)

	cfg := config.DefaultConfig()
	cfg.OutputDir = t.TempDir()
	cfg.DBPath = filepath.Join(t.TempDir(), "overrides.db")
	cfg.IgnorePackages = []string{"corp_sdk"}
	cfg.ViewOverrides = true
	cfg.ViewIgnores = true

	store, err := overrides.Open(cfg.DBPath)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	if err := store.Upsert("typing_extensions", "typing-extensions"); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	if err := runViews(cfg); err != nil {
		t.Fatalf("runViews failed: %v", err)
	}

	overridesCSV, err := os.ReadFile(filepath.Join(cfg.OutputDir, "snyk_name_overrides.csv"))
	if err != nil {
		t.Fatalf("read overrides export: %v", err)
	}
	if string(overridesCSV) != "package_name,snyk_name\ntyping_extensions,typing-extensions\n" {
		t.Fatalf("unexpected overrides export:\n%s", overridesCSV)
	}

	ignoresCSV, err := os.ReadFile(filepath.Join(cfg.OutputDir, "snyk_ignores.csv"))
	if err != nil {
		t.Fatalf("read ignores export: %v", err)
	}
	if string(ignoresCSV) != "package\ncorp_sdk\n" {
		t.Fatalf("unexpected ignores export:\n%s", ignoresCSV)
	}
}

func TestVersionCommand(t *testing.T) {
	root := NewRootCmd()
	var out strings.Builder
	root.SetOut(&out)
	root.SetArgs([]string{"version"})

	if err := root.Execute(); err != nil {
		t.Fatalf("version command failed: %v", err)
	}
	if !strings.Contains(out.String(), version) || !strings.Contains(out.String(), "platform:") {
		t.Fatalf("unexpected version output %q", out.String())
	}
}
