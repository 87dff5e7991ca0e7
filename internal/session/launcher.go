package session

import (
	"context"
	"errors"
	"fmt"
	"os/exec"

	"gapcheck/internal/gapexec"
)

// pipeLauncher is the production launcher: a feeder process emits the
// command script on its stdout, which is piped into the GAP session's
// stdin. The session's own stdout and stderr are discarded; the only
// output that matters is the transcript written by LogTo.
type pipeLauncher struct {
	inv gapexec.Invocation
}

// Launch starts both processes, waits for the session to exit, then reaps
// the feeder. Context cancellation kills both processes; Launch reports it
// as [ErrInterrupted].
func (l pipeLauncher) Launch(ctx context.Context, script, _ string) error {
	feeder := gapexec.FeederCommand(ctx, script)
	feedOut, err := feeder.StdoutPipe()
	if err != nil {
		return fmt.Errorf("feeder pipe: %w", err)
	}

	gap := l.inv.Command(ctx)
	gap.Stdin = feedOut
	// Stdout and Stderr stay nil: os/exec connects them to /dev/null.

	if err := feeder.Start(); err != nil {
		return fmt.Errorf("starting feeder: %w", err)
	}
	if err := gap.Start(); err != nil {
		_ = feeder.Process.Kill()
		_ = feeder.Wait()
		return fmt.Errorf("starting session: %w", err)
	}

	waitErr := gap.Wait()
	// The feeder may die with a broken pipe when the session exits
	// early; its status does not affect the step outcome.
	_ = feeder.Wait()

	if ctx.Err() != nil {
		return ErrInterrupted
	}
	if waitErr != nil {
		// A non-zero exit from a session that ran is a session
		// outcome, not a launch failure: pass or fail is decided by
		// the transcript alone.
		var exitErr *exec.ExitError
		if errors.As(waitErr, &exitErr) {
			return nil
		}
		return fmt.Errorf("session: %w", waitErr)
	}
	return nil
}
