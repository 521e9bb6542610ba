package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/ppiankov/importspectre/internal/analyzer"
	"github.com/ppiankov/importspectre/internal/app"
	"github.com/ppiankov/importspectre/internal/collector"
	"github.com/ppiankov/importspectre/internal/enrich"
	"github.com/ppiankov/importspectre/internal/models"
	"github.com/ppiankov/importspectre/internal/overrides"
	"github.com/ppiankov/importspectre/internal/reporter"
	"github.com/ppiankov/importspectre/pkg/config"
	"github.com/spf13/cobra"
)

// analyzeOptions holds raw flag values that need parsing or must take
// precedence over the config file.
type analyzeOptions struct {
	exclude        string
	pythonVersion  string
	advisorURL     string
	requestTimeout string
	minDelay       string
	maxDelay       string
}

// NewAnalyzeCmd creates the analysis command used as the CLI root
func NewAnalyzeCmd() *cobra.Command {
	return newAnalyzeCmd(config.DefaultConfig())
}

func newAnalyzeCmd(cfg *config.Config) *cobra.Command {
	opts := &analyzeOptions{}

	cmd := &cobra.Command{
		Use:   "importspectre <directory>",
		Short: "Python import analyzer",
		Long: `ImportSpectre scans a directory of Python sources and Jupyter notebooks,
counts the top-level packages they import, and looks up the health of
third-party packages on the package advisor site.

Reports are written to the output directory:
  import_log.txt               per-file detail
  import_summary.csv           one row per package, most imported first
  snyk_not_found_packages.csv  packages the advisor could not resolve`,
		Args: cobra.MaximumNArgs(1),
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return prepareConfig(cmd, cfg, opts, args)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg.Verbose = verbose
			if cfg.ViewOverrides || cfg.ViewIgnores {
				return runViews(cfg)
			}
			return runAnalyze(cmd.Context(), cfg)
		},
	}

	cmd.Flags().StringVarP(&cfg.OutputDir, "output", "o", ".", "Output directory for reports")
	cmd.Flags().StringVarP(&opts.exclude, "exclude", "e", "", "Comma-separated directory names or globs to exclude (default: .venv)")
	cmd.Flags().StringVarP(&cfg.ConfigPath, "config", "c", "", "Path to the configuration file (default: "+config.DefaultConfigFile+")")
	cmd.Flags().BoolVar(&cfg.ViewOverrides, "view-overrides", false, "Export the persisted name overrides to CSV instead of analyzing (alias: -vo)")
	cmd.Flags().BoolVar(&cfg.ViewIgnores, "view-ignores", false, "Export the configured ignore list to CSV instead of analyzing (alias: -vi)")

	cmd.Flags().StringVar(&opts.pythonVersion, "python-version", "", "Python version for the standard library list (default: "+config.DefaultPythonVersion+")")
	cmd.Flags().StringVar(&opts.advisorURL, "advisor-url", "", "Advisory page URL prefix")
	cmd.Flags().StringVar(&opts.requestTimeout, "request-timeout", "10s", "Per-request timeout (e.g., 10s, 1m)")
	cmd.Flags().StringVar(&opts.minDelay, "min-delay", "200ms", "Minimum delay between advisory requests")
	cmd.Flags().StringVar(&opts.maxDelay, "max-delay", "600ms", "Maximum delay between advisory requests")
	cmd.Flags().IntVar(&cfg.RateLimit, "rate-limit", cfg.RateLimit, "Advisory requests per second (0 disables the limiter)")
	cmd.Flags().StringVar(&cfg.DBPath, "db", "", "Name override database path (default: ~/.importspectre/overrides.db)")
	cmd.Flags().BoolVar(&cfg.WriteJSON, "json", false, "Also write import_report.json")

	return cmd
}

// prepareConfig layers defaults, the config file and explicit flags, in that order.
func prepareConfig(cmd *cobra.Command, cfg *config.Config, opts *analyzeOptions, args []string) error {
	if len(args) == 1 {
		cfg.Directory = args[0]
	}
	if cfg.Directory == "" && !cfg.ViewOverrides && !cfg.ViewIgnores {
		return fmt.Errorf("directory argument is required")
	}

	applyConfigFile(cfg)

	if cmd.Flags().Changed("exclude") {
		cfg.ExcludeDirs = config.SplitList(opts.exclude)
	}
	if cmd.Flags().Changed("python-version") {
		cfg.PythonVersion = opts.pythonVersion
	}
	if cmd.Flags().Changed("advisor-url") {
		cfg.AdvisorURL = opts.advisorURL
	}

	var err error
	if cfg.RequestTimeout, err = config.ParseDuration(opts.requestTimeout); err != nil {
		return fmt.Errorf("invalid --request-timeout duration: %w", err)
	}
	if cfg.MinDelay, err = config.ParseDuration(opts.minDelay); err != nil {
		return fmt.Errorf("invalid --min-delay duration: %w", err)
	}
	if cfg.MaxDelay, err = config.ParseDuration(opts.maxDelay); err != nil {
		return fmt.Errorf("invalid --max-delay duration: %w", err)
	}
	if cfg.MinDelay > cfg.MaxDelay {
		return fmt.Errorf("invalid delays: --min-delay must be <= --max-delay")
	}
	if cfg.RateLimit < 0 {
		return fmt.Errorf("invalid --rate-limit: must be >= 0")
	}

	if cfg.DBPath == "" {
		if cfg.DBPath, err = app.OverridesDBPath(); err != nil {
			return fmt.Errorf("failed to resolve override database path: %w", err)
		}
	}

	cfg.Normalize()
	return nil
}

// applyConfigFile overlays the config file onto cfg. A missing or broken
// file is logged and the defaults stay in place.
func applyConfigFile(cfg *config.Config) {
	var (
		fc     *config.FileConfig
		source string
		err    error
	)
	if cfg.ConfigPath != "" {
		fc, err = config.LoadFile(cfg.ConfigPath)
		source = cfg.ConfigPath
	} else {
		fc, source, err = config.AutoLoadFile()
	}

	if err != nil {
		slog.Warn("failed to load config file, using defaults", slog.String("error", err.Error()))
		return
	}
	if fc == nil {
		slog.Debug("no config file found, using defaults")
		return
	}

	cfg.ApplyFile(fc)
	slog.Debug("loaded config file", slog.String("path", source))
}

// runAnalyze executes the analysis workflow
func runAnalyze(ctx context.Context, cfg *config.Config) error {
	startTime := time.Now()
	if ctx == nil {
		ctx = context.Background()
	}

	slog.Debug("starting importspectre analysis",
		slog.String("directory", cfg.Directory),
		slog.Any("exclude", cfg.ExcludeDirs),
		slog.String("python_version", cfg.PythonVersion),
		slog.String("db", cfg.DBPath),
	)

	// 1. Collect files
	fmt.Println("📂 Collecting Python files...")
	files, err := collector.New(cfg).Collect(ctx)
	if err != nil {
		return fmt.Errorf("failed to collect files: %w", err)
	}
	fmt.Printf("✓ Found %d Python files and %d notebooks\n", len(files.PythonFiles), len(files.Notebooks))

	// 2. Open the override table, closed on every exit path
	if app.IsFirstRun() {
		fmt.Printf("ℹ️  Name overrides are stored in %s\n", cfg.DBPath)
	}
	store, err := overrides.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("failed to open override database: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			slog.Error("failed to close override database", slog.String("error", err.Error()))
		}
	}()

	// 3. Extract, classify and enrich
	fmt.Println("🔍 Analyzing imports...")
	client := enrich.NewClient(cfg, store, enrich.WithUserAgent("importspectre/"+version))
	result, err := analyzer.New(cfg, client).Analyze(ctx, files)
	if err != nil {
		return fmt.Errorf("failed to analyze imports: %w", err)
	}
	slog.Debug("advisory lookups complete", slog.Int("cached_packages", client.CacheSize()))
	fmt.Printf("✓ Found %d imports of %d packages in %d files\n",
		result.ImportCount(), len(result.Packages), len(result.Files))
	if len(result.NotFound) > 0 {
		fmt.Printf("⚠️  %d packages not found on the advisor\n", len(result.NotFound))
	}

	// 4. Write reports
	fmt.Println("📝 Writing reports...")
	var report *models.Report
	if cfg.WriteJSON {
		report = reporter.NewReport(result, models.Metadata{
			GeneratedAt:      time.Now(),
			Root:             files.Root,
			PythonVersion:    cfg.PythonVersion,
			PythonFiles:      len(files.PythonFiles),
			Notebooks:        len(files.Notebooks),
			AnalysisDuration: time.Since(startTime).Round(time.Millisecond).String(),
		}, version)
	}
	paths, err := reporter.New(cfg).Generate(result, report)
	if err != nil {
		return fmt.Errorf("failed to generate reports: %w", err)
	}
	fmt.Printf("✓ Detailed log: %s\n", paths.Log)
	fmt.Printf("✓ Summary CSV: %s\n", paths.Summary)
	fmt.Printf("✓ Not found CSV: %s\n", paths.NotFound)
	if paths.JSON != "" {
		fmt.Printf("✓ JSON report: %s\n", paths.JSON)
	}

	fmt.Printf("\n✅ Analysis complete in %s!\n", time.Since(startTime).Round(time.Second))
	return nil
}
