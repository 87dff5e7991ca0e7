// Package matrix walks the fixed configuration matrix that qualifies a
// GAP package for release.
//
// The [Driver] produces the ordered sequence of test steps (metadata
// validation, load modes, dependency build states, test suites) and feeds
// each one to a step runner, interleaving build controller operations to
// toggle the compile state of native-code dependencies. The order is
// fixed: a release run is only comparable to earlier runs if every run
// walks the matrix the same way.
//
// Key types:
//   - [Driver]: The top-level sequence for one GAP installation root
//   - [StepRunner], [Builder]: Injection points for the session runner and
//     build controller
//
// The driver is fail-fast: the first error from a step or build operation
// aborts the remaining sequence and propagates to the caller.
package matrix

import (
	"context"
	"fmt"

	"gapcheck/internal/buildctl"
	"gapcheck/internal/config"
	"gapcheck/internal/output"
	"gapcheck/internal/session"
)

// StepRunner executes one test step. A non-nil error means the run must
// stop; reported-but-tolerated failures return nil. The [session.Runner]
// type implements this interface.
type StepRunner interface {
	Run(ctx context.Context, step session.Step) error
}

// Builder toggles the compile state of native-code dependencies. The
// [buildctl.Controller] type implements this interface.
type Builder interface {
	Clean(ctx context.Context, t *buildctl.Target) error
	Build(ctx context.Context, t *buildctl.Target) error
}

// Driver walks the configuration matrix for one GAP installation root.
//
// Create instances with [NewDriver] and call [Driver.Run]. The driver
// tracks each native dependency's build state explicitly through
// [buildctl.Target] rather than inferring it from which command ran last.
type Driver struct {
	runner  StepRunner
	builder Builder
	printer *output.Printer
	gapRoot string
	pkgDir  string
	pkg     config.PackageConfig

	// locate is overridable in tests.
	locate func(pkgDir, name string) (*buildctl.Target, error)
}

// NewDriver creates a [Driver] for one GAP root. pkgDir is the directory
// holding the package under test and its optional dependencies.
func NewDriver(runner StepRunner, builder Builder, printer *output.Printer, gapRoot, pkgDir string, pkg config.PackageConfig) *Driver {
	return &Driver{
		runner:  runner,
		builder: builder,
		printer: printer,
		gapRoot: gapRoot,
		pkgDir:  pkgDir,
		pkg:     pkg,
		locate:  buildctl.LocateTarget,
	}
}

// step feeds one stop-on-failure step to the runner.
func (d *Driver) step(ctx context.Context, desc string, statements ...string) error {
	return d.runner.Run(ctx, session.Step{
		Description:   desc,
		Statements:    statements,
		StopOnFailure: true,
	})
}

// heading prints a phase heading.
func (d *Driver) heading(msg string) {
	d.printer.Newline()
	d.printer.Println(output.LevelHeading, msg)
}

// Run walks the whole matrix: validation, load modes, native dependency
// build states, documentation, the secondary package's suites, and the
// package's own suites in each configuration. On full success it prints
// the success notice and returns nil.
func (d *Driver) Run(ctx context.Context) error {
	load := loadStmt(d.pkg.Name)
	loadOnlyNeeded := loadOnlyNeededStmt(d.pkg.Name)
	loadSecondary := loadStmt(d.pkg.Secondary)
	secondary := titleCase(d.pkg.Secondary)

	d.heading("Running tests in " + d.gapRoot)

	// Phase 1-3: metadata and load-order checks.
	if err := d.step(ctx, "Validating PackageInfo.g", validateStmt(d.pkgDir, d.pkg.Name)); err != nil {
		return err
	}
	if err := d.step(ctx, "Loading package", load); err != nil {
		return err
	}
	if err := d.step(ctx, "Loading only needed", loadOnlyNeeded); err != nil {
		return err
	}
	if err := d.step(ctx, fmt.Sprintf("Loading %s first", secondary), loadSecondary, load); err != nil {
		return err
	}
	if err := d.step(ctx, fmt.Sprintf("Loading %s second", secondary), load, loadSecondary); err != nil {
		return err
	}

	// Phase 4: each native dependency, uncompiled then compiled.
	targets := make([]*buildctl.Target, 0, len(d.pkg.NativeDeps))
	for _, dep := range d.pkg.NativeDeps {
		t, err := d.locate(d.pkgDir, dep)
		if err != nil {
			return err
		}
		targets = append(targets, t)

		if err := d.builder.Clean(ctx, t); err != nil {
			return err
		}
		if err := d.step(ctx, fmt.Sprintf("Loading %s not compiled", titleCase(dep)), load); err != nil {
			return err
		}
		if err := d.builder.Build(ctx, t); err != nil {
			return err
		}
		if err := d.step(ctx, fmt.Sprintf("Loading %s compiled", titleCase(dep)), load); err != nil {
			return err
		}
	}

	// Phase 5-6: documentation and the secondary package's own suites.
	if err := d.step(ctx, "Compiling the doc", load, suiteStmt(d.pkg.Name, "MakeDoc")); err != nil {
		return err
	}
	if err := d.step(ctx, fmt.Sprintf("Testing %s", secondary),
		load,
		loadSecondary,
		suiteStmt(d.pkg.Secondary, "TestAll"),
		suiteStmt(d.pkg.Secondary, "TestManualExamples"),
	); err != nil {
		return err
	}

	// Phases 7-9: the package's suites with the toggled dependency
	// compiled, uncompiled, and under only-needed loading. The toggled
	// dependency is the last configured one; the others stay compiled.
	if len(targets) > 0 {
		toggled := targets[len(targets)-1]

		d.heading(fmt.Sprintf("Testing with %s compiled", titleCase(toggled.Name)))
		if err := d.suites(ctx, load); err != nil {
			return err
		}

		d.heading(fmt.Sprintf("Testing with %s uncompiled", titleCase(toggled.Name)))
		if err := d.builder.Clean(ctx, toggled); err != nil {
			return err
		}
		if err := d.suites(ctx, load); err != nil {
			return err
		}
		if err := d.builder.Build(ctx, toggled); err != nil {
			return err
		}
	} else {
		d.heading("Testing all suites")
		if err := d.suites(ctx, load); err != nil {
			return err
		}
	}

	d.heading("Testing only needed")
	if err := d.suites(ctx, loadOnlyNeeded); err != nil {
		return err
	}

	// Phase 10: done.
	d.printer.Newline()
	d.printer.Println(output.LevelSuccess, "SUCCESS!")
	return nil
}

// suites runs the install, manual-example and standard suites with the
// given load statement, then the quick regression list. The quick list
// tolerates failures: isolated regression checks must not mask the
// overall result of the matrix.
func (d *Driver) suites(ctx context.Context, load string) error {
	if err := d.step(ctx, "testinstall.tst", load, suiteStmt(d.pkg.Name, "TestInstall")); err != nil {
		return err
	}
	if err := d.step(ctx, "manual examples", load, suiteStmt(d.pkg.Name, "TestManualExamples")); err != nil {
		return err
	}
	if err := d.step(ctx, "test standard", load, suiteStmt(d.pkg.Name, "TestStandard")); err != nil {
		return err
	}

	quick := append([]string{loadStmt(d.pkg.Name)}, quickTestStmts(d.gapRoot)...)
	return d.runner.Run(ctx, session.Step{
		Description:   "GAP quick tests",
		Statements:    quick,
		StopOnFailure: false,
	})
}
