package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"gapcheck/internal/classify"
	"gapcheck/internal/gapexec"
	"gapcheck/internal/output"
	"gapcheck/internal/session"
)

func newCoverageCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "coverage <test-file>",
		Short: "Produce annotated code coverage for one test file",
		Long: `Run a single test file under GAP's line-by-line profiler and write
annotated code coverage files to a temporary directory. The first
configured GAP root is used.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCoverage(cmd, app, args[0])
		},
	}
}

func runCoverage(cmd *cobra.Command, app *App, testFile string) error {
	cfg := app.Config
	printer := app.Printer

	targets, err := resolveTargets(cfg)
	if err != nil {
		printer.Printf(output.LevelFailure, "error: %v", err)
		return NewExitError(1)
	}
	t := targets[0]

	outDir, err := os.MkdirTemp("", "gapcheck-coverage-")
	if err != nil {
		printer.Printf(output.LevelFailure, "error: creating output directory: %v", err)
		return NewExitError(1)
	}
	printer.Printf(output.LevelInfo, "using output directory: %s", outDir)

	profile := filepath.Join(outDir, "profile.gz")
	srcDir := filepath.Join(t.pkgDir, cfg.Package.Name, "gap")

	inv := gapexec.New(t.gapRoot, cfg.GAP, cfg.Verbose)
	markers := classify.DefaultMarkers(cfg.Package.Name)
	runner := session.NewRunner(inv, markers, printer, outDir, cfg.Verbose, session.NewStepCounter())

	step := session.Step{
		Description:   "Profiling " + filepath.Base(testFile),
		StopOnFailure: true,
		Statements: []string{
			fmt.Sprintf("ProfileLineByLine(%q);", profile),
			fmt.Sprintf("LoadPackage(%q, false);", cfg.Package.Name),
			fmt.Sprintf("Test(%q);", testFile),
			"UnprofileLineByLine();",
			`LoadPackage("profiling", false);`,
			fmt.Sprintf("x := ReadLineByLineProfile(%q);", profile),
			fmt.Sprintf("OutputAnnotatedCodeCoverageFiles(x, %q, %q);", srcDir, outDir),
		},
	}

	if err := runner.Run(cmd.Context(), step); err != nil {
		if !errors.Is(err, session.ErrInterrupted) {
			printer.Printf(output.LevelFailure, "error: %v", err)
		}
		return NewExitError(1)
	}

	printer.Printf(output.LevelSuccess, "annotated coverage written to %s", outDir)
	return nil
}
