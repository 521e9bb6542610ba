package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/ppiankov/importspectre/internal/collector"
	"github.com/ppiankov/importspectre/internal/logging"
	"github.com/spf13/cobra"
)

var (
	version = "0.1.0"
	verbose bool
)

// Exit codes for structured error reporting.
const (
	ExitSuccess    = 0
	ExitInternal   = 1
	ExitInvalidArg = 2
	ExitNotFound   = 3
	ExitNetwork    = 5
)

// shorthandAliases maps the two-letter view flags onto their long forms.
// pflag only supports single-letter shorthands.
var shorthandAliases = map[string]string{
	"-vo": "--view-overrides",
	"-vi": "--view-ignores",
}

func main() {
	logging.Init(false)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	root := NewRootCmd()
	root.SetArgs(normalizeArgs(os.Args[1:]))

	if err := root.ExecuteContext(ctx); err != nil {
		slog.Error("command failed", slog.String("error", err.Error()))
		stop()
		os.Exit(classifyError(err))
	}
}

// NewRootCmd creates the importspectre command tree
func NewRootCmd() *cobra.Command {
	root := NewAnalyzeCmd()
	root.PersistentFlags().BoolVar(&verbose, "verbose", false, "Verbose logging")
	root.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		logging.Init(verbose)
	}
	root.SilenceUsage = true
	root.SilenceErrors = true

	root.AddCommand(NewVersionCmd())
	return root
}

func normalizeArgs(args []string) []string {
	out := make([]string, 0, len(args))
	for _, arg := range args {
		if long, ok := shorthandAliases[arg]; ok {
			out = append(out, long)
			continue
		}
		out = append(out, arg)
	}
	return out
}

func classifyError(err error) int {
	if err == nil {
		return ExitSuccess
	}

	if errors.Is(err, collector.ErrInvalidDirectory) || os.IsNotExist(err) {
		return ExitNotFound
	}

	msg := strings.ToLower(err.Error())

	if strings.Contains(msg, "not a directory") ||
		strings.Contains(msg, "does not exist") ||
		strings.Contains(msg, "no such file") {
		return ExitNotFound
	}

	if strings.Contains(msg, "dial") ||
		strings.Contains(msg, "connection refused") ||
		strings.Contains(msg, "i/o timeout") ||
		strings.Contains(msg, "network is unreachable") {
		return ExitNetwork
	}

	if strings.Contains(msg, "required") ||
		strings.Contains(msg, "invalid") ||
		strings.Contains(msg, "must be") ||
		strings.Contains(msg, "accepts at most") ||
		strings.Contains(msg, "unknown flag") {
		return ExitInvalidArg
	}

	return ExitInternal
}
