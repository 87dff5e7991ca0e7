package cli

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"gapcheck/internal/buildctl"
	"gapcheck/internal/classify"
	"gapcheck/internal/config"
	"gapcheck/internal/gapexec"
	"gapcheck/internal/matrix"
	"gapcheck/internal/output"
	"gapcheck/internal/session"
)

// rootTarget is one validated GAP installation to test: the root itself
// and the package directory used with it.
type rootTarget struct {
	gapRoot string
	pkgDir  string
}

func newCheckCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Run the full release test matrix",
		Long: `Run the full release test matrix against every configured GAP root.
The run stops at the first fatal failure; transcripts of a failed run are
retained for inspection.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, app)
		},
	}
}

// resolveTargets validates every configured directory before any step
// runs. Missing or non-existent directories are fatal here, not later.
func resolveTargets(cfg *config.Config) ([]rootTarget, error) {
	if len(cfg.GAP.Roots) == 0 {
		return nil, errors.New("no GAP root directory configured")
	}

	targets := make([]rootTarget, 0, len(cfg.GAP.Roots))
	for _, root := range cfg.GAP.Roots {
		gapRoot, err := requireDir(root, "GAP root")
		if err != nil {
			return nil, err
		}

		pkgDir := cfg.Package.Dir
		if pkgDir == "" {
			pkgDir = filepath.Join(gapRoot, "pkg")
		}
		pkgDir, err = requireDir(pkgDir, "package")
		if err != nil {
			return nil, err
		}

		targets = append(targets, rootTarget{gapRoot: gapRoot, pkgDir: pkgDir})
	}
	return targets, nil
}

func runCheck(cmd *cobra.Command, app *App) error {
	cfg := app.Config
	printer := app.Printer

	targets, err := resolveTargets(cfg)
	if err != nil {
		printer.Printf(output.LevelFailure, "error: %v", err)
		return NewExitError(1)
	}

	logDir, err := os.MkdirTemp("", "gapcheck-")
	if err != nil {
		printer.Printf(output.LevelFailure, "error: creating transcript directory: %v", err)
		return NewExitError(1)
	}

	markers := classify.DefaultMarkers(cfg.Package.Name)
	builder := buildctl.NewController(printer)

	// One counter for the whole run: transcript filenames must stay
	// unique across roots, which all write into the same directory.
	counter := session.NewStepCounter()

	for _, t := range targets {
		inv := gapexec.New(t.gapRoot, cfg.GAP, cfg.Verbose)
		runner := session.NewRunner(inv, markers, printer, logDir, cfg.Verbose, counter)
		driver := matrix.NewDriver(runner, builder, printer, t.gapRoot, t.pkgDir, cfg.Package)

		if err := driver.Run(cmd.Context()); err != nil {
			// Keep the transcripts of a failed run for diagnosis.
			if !errors.Is(err, session.ErrInterrupted) {
				printer.Printf(output.LevelFailure, "error: %v", err)
			}
			printer.Printf(output.LevelInfo, "transcripts retained in %s", logDir)
			return NewExitError(1)
		}
	}

	_ = os.RemoveAll(logDir)
	return nil
}
