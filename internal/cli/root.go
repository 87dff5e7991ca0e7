// Package cli provides the gapcheck command-line interface.
//
// The command tree is built with Cobra: the root command carries the
// shared flags (GAP roots, package directory and name, verbose mode) and
// the subcommands do the work: "check" walks the full release test matrix
// and "coverage" produces annotated code coverage for a single test file.
//
// Key types:
//   - [App]: Shared dependencies injected into every command
//   - [ExitError]: Exit-code carrier for fatal conditions
//
// Commands never call os.Exit; fatal conditions surface as [ExitError]
// and main performs the single exit.
package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"gapcheck/internal/config"
	"gapcheck/internal/output"
)

// App holds the dependencies shared by all commands.
type App struct {
	// Config is the loaded configuration; flags override its fields.
	Config *config.Config

	// Printer is the styled output sink for the whole run.
	Printer *output.Printer
}

// ExecuteResult is the outcome of running the command tree.
type ExecuteResult struct {
	// ExitCode is the process exit code. 0 on success.
	ExitCode int

	// Err is the error that produced a non-zero code, if any.
	Err error
}

// Execute loads configuration, runs the command tree with os.Args, and
// returns the process exit code.
func Execute(ctx context.Context) int {
	cfg, err := config.NewLoader().Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "gapcheck: %v\n", err)
		return 1
	}

	app := &App{Config: cfg, Printer: output.NewPrinter()}
	res := RunWithConfig(ctx, app, os.Args[1:])
	if res.Err != nil {
		if _, ok := IsExitError(res.Err); !ok {
			// Usage and flag errors; fatal run conditions were already
			// reported through the printer.
			fmt.Fprintf(os.Stderr, "gapcheck: %v\n", res.Err)
		}
	}
	return res.ExitCode
}

// RunWithConfig runs the command tree with explicit dependencies and
// arguments. Split out from [Execute] so tests can drive the CLI with a
// buffer-backed printer and fabricated configs.
func RunWithConfig(ctx context.Context, app *App, args []string) ExecuteResult {
	root := NewRootCommand(app)
	root.SetArgs(args)

	if err := root.ExecuteContext(ctx); err != nil {
		if code, ok := IsExitError(err); ok {
			return ExecuteResult{ExitCode: code, Err: err}
		}
		return ExecuteResult{ExitCode: 1, Err: err}
	}
	return ExecuteResult{}
}

// NewRootCommand builds the root command with shared flags and all
// subcommands attached.
func NewRootCommand(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:   "gapcheck",
		Short: "Release checker for GAP packages",
		Long: `gapcheck drives a GAP session through the full release test matrix for a
package: metadata validation, load modes, optional dependencies in compiled
and uncompiled states, documentation, and every test suite. Failures are
detected by scanning each session's transcript.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := root.PersistentFlags()
	flags.StringArrayVar(&app.Config.GAP.Roots, "gap-root", app.Config.GAP.Roots, "GAP root directory (repeatable)")
	flags.StringVar(&app.Config.Package.Dir, "pkg-dir", app.Config.Package.Dir, "package directory (default: <gap-root>/pkg)")
	flags.StringVar(&app.Config.Package.Name, "pkg-name", app.Config.Package.Name, "name of the package under test")
	flags.BoolVar(&app.Config.Verbose, "verbose", app.Config.Verbose, "echo command scripts and keep GAP output verbose")

	root.AddCommand(newCheckCommand(app))
	root.AddCommand(newCoverageCommand(app))
	return root
}

// expandUser replaces a leading ~ with the user's home directory.
func expandUser(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(strings.TrimPrefix(path, "~"), "/"))
		}
	}
	return path
}

// requireDir resolves path and verifies it is an existing directory,
// returning the expanded path. what names the directory in the error.
func requireDir(path, what string) (string, error) {
	expanded := expandUser(path)
	info, err := os.Stat(expanded)
	if err != nil || !info.IsDir() {
		return "", fmt.Errorf("can't find the %s directory %s", what, expanded)
	}
	return expanded, nil
}
