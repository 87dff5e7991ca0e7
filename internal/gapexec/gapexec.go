// Package gapexec constructs the external processes a test step runs: the
// GAP session itself and the feeder that supplies its command script.
//
// GAP is always started in non-interactive batch mode: banner suppressed,
// no workspace autoloading of suggested packages, break loop disabled so
// internal errors abort instead of prompting, and a fixed memory ceiling.
// Commands reach the session on stdin from a feeder process, preserving a
// strict two-process pipe topology with no shell in between.
//
// Key types:
//   - [Invocation]: Fully resolved GAP command line for one installation root
package gapexec

import (
	"context"
	"os/exec"
	"path/filepath"

	"gapcheck/internal/config"
)

// Invocation is a fully resolved GAP command line for one installation
// root. Build one with [New]; it is immutable afterwards.
type Invocation struct {
	// Binary is the absolute path to the GAP launcher.
	Binary string

	// MemoryLimit is passed to -m.
	MemoryLimit string

	// Verbose keeps GAP's normal per-statement output instead of passing
	// the quiet flag.
	Verbose bool
}

// New resolves an [Invocation] for the given GAP root.
func New(gapRoot string, cfg config.GAPConfig, verbose bool) Invocation {
	return Invocation{
		Binary:      filepath.Join(gapRoot, cfg.Binary),
		MemoryLimit: cfg.MemoryLimit,
		Verbose:     verbose,
	}
}

// Args returns the argument list for the GAP process, excluding the
// binary itself.
//
// -r disables reading user preference files, -A disables autoloading of
// suggested packages, -T disables the break loop so errors terminate the
// statement, and -m sets the memory ceiling. -q is appended unless the
// invocation is verbose.
func (inv Invocation) Args() []string {
	args := []string{"-r", "-A", "-T", "-m", inv.MemoryLimit}
	if !inv.Verbose {
		args = append(args, "-q")
	}
	return args
}

// Command returns an unstarted exec.Cmd for the GAP session. Stdin, stdout
// and stderr are left for the caller to wire; the session runner connects
// stdin to the feeder and discards the output streams.
func (inv Invocation) Command(ctx context.Context) *exec.Cmd {
	return exec.CommandContext(ctx, inv.Binary, inv.Args()...)
}

// FeederCommand returns an unstarted exec.Cmd that writes script to its
// stdout and exits. The script is passed as a single argument, so no
// shell quoting or escaping is involved.
func FeederCommand(ctx context.Context, script string) *exec.Cmd {
	return exec.CommandContext(ctx, "echo", script)
}
