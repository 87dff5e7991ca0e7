// Package buildctl drives the native-code build of optional GAP package
// dependencies such as grape and orb.
//
// Each dependency lives in a versioned subdirectory of the GAP pkg
// directory (e.g. pkg/grape-4.9.0), located by name prefix. The controller
// runs make clean, or ./configure followed by make, inside that directory.
// Build operations have no partial-failure tolerance: any non-zero result
// is fatal to the whole run.
//
// Key types:
//   - [Target]: A located dependency with its explicit build state
//   - [Controller]: Runs clean and build operations against targets
//
// External commands run with the located directory as their working
// directory; the orchestrator's own working directory is never changed.
package buildctl

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"gapcheck/internal/output"
)

// BuildState is the compile state of a target, updated by the controller
// from the result of its own operations rather than inferred from command
// side effects.
type BuildState int

const (
	// StateUnknown means no operation has run against the target yet.
	StateUnknown BuildState = iota

	// StateUncompiled means the last successful operation was a clean.
	StateUncompiled

	// StateCompiled means the last successful operation was a build.
	StateCompiled
)

// String returns the state name for progress messages.
func (s BuildState) String() string {
	switch s {
	case StateUncompiled:
		return "uncompiled"
	case StateCompiled:
		return "compiled"
	default:
		return "unknown"
	}
}

// Target is a located optional dependency.
//
// Build one with [LocateTarget]. State starts as [StateUnknown] and is
// updated by [Controller.Clean] and [Controller.Build].
type Target struct {
	// Name is the dependency name, e.g. "grape".
	Name string

	// Dir is the located package directory.
	Dir string

	// State is the explicit build state after the last successful
	// operation.
	State BuildState
}

// LocateTarget finds the directory for a named dependency beneath pkgDir:
// the subdirectory whose name starts with name. When several match (e.g.
// two unpacked versions), the last in directory order wins. Returns an
// error naming the dependency when no directory matches.
func LocateTarget(pkgDir, name string) (*Target, error) {
	entries, err := os.ReadDir(pkgDir)
	if err != nil {
		return nil, fmt.Errorf("reading package directory: %w", err)
	}

	var dir string
	for _, e := range entries {
		if e.IsDir() && strings.HasPrefix(e.Name(), name) {
			dir = filepath.Join(pkgDir, e.Name())
		}
	}
	if dir == "" {
		return nil, fmt.Errorf("can't find the %s directory under %s", name, pkgDir)
	}
	return &Target{Name: name, Dir: dir}, nil
}

// runCommand executes one external command in dir with all output
// discarded. Overridable in tests.
type runCommand func(ctx context.Context, dir, name string, args ...string) error

func execCommand(ctx context.Context, dir, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}

// Controller runs clean and build operations against located targets.
//
// Create instances with [NewController].
type Controller struct {
	printer *output.Printer
	run     runCommand
}

// NewController creates a [Controller] reporting through printer.
func NewController(printer *output.Printer) *Controller {
	return &Controller{printer: printer, run: execCommand}
}

// Clean removes the target's compiled binary via make clean. On success
// the target's state becomes [StateUncompiled]; any failure is fatal to
// the run.
func (c *Controller) Clean(ctx context.Context, t *Target) error {
	c.printer.Announce(output.LevelInfo, fmt.Sprintf("Deleting %s binary", t.Name))
	err := c.printer.WithSpinner(output.LevelInfo, func() error {
		return c.run(ctx, t.Dir, "make", "clean")
	})
	if err != nil {
		return fmt.Errorf("cleaning %s: %w", t.Name, err)
	}
	t.State = StateUncompiled
	return nil
}

// Build compiles the target via ./configure followed by make. On success
// the target's state becomes [StateCompiled]; a non-zero result from
// either command is fatal to the run.
func (c *Controller) Build(ctx context.Context, t *Target) error {
	c.printer.Announce(output.LevelInfo, fmt.Sprintf("Compiling %s", t.Name))
	err := c.printer.WithSpinner(output.LevelInfo, func() error {
		if err := c.run(ctx, t.Dir, "./configure"); err != nil {
			return err
		}
		return c.run(ctx, t.Dir, "make")
	})
	if err != nil {
		return fmt.Errorf("building %s: %w", t.Name, err)
	}
	t.State = StateCompiled
	return nil
}
