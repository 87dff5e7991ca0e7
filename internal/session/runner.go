// Package session executes individual test steps against a GAP session.
//
// A [Step] is an ordered list of opaque GAP statements plus a stop policy.
// The [Runner] turns each step into a command script whose first statement
// redirects the session's output to a unique transcript file, feeds the
// script to a fresh GAP process through a feeder pipe, waits for the
// session to exit, and classifies the transcript to decide pass or fail.
//
// Key types:
//   - [Step]: One unit of orchestrated work
//   - [Runner]: Executes steps and applies the stop/continue policy
//
// A non-nil error from [Runner.Run] means the whole run must stop; a
// reported failure on a step with StopOnFailure false returns nil so the
// caller proceeds to the next step.
package session

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"

	"gapcheck/internal/classify"
	"gapcheck/internal/gapexec"
	"gapcheck/internal/output"
)

// ErrInterrupted is returned when the operator interrupts a running step.
// Interrupt is always fatal to the whole run, never just to the step.
var ErrInterrupted = errors.New("interrupted")

// Step is one unit of orchestrated work: a described sequence of GAP
// statements and a stop policy. Steps are created by the matrix driver and
// consumed exactly once.
type Step struct {
	// Description is the step label shown to the operator.
	Description string

	// Statements are the GAP statements to feed to the session, in
	// order. The runner treats them as opaque text.
	Statements []string

	// StopOnFailure makes a classified failure or launch failure fatal
	// to the whole run. When false, failures are reported and the run
	// continues with the next step.
	StopOnFailure bool
}

// launcher runs one feeder+session process pair to completion. The real
// implementation spawns GAP; tests substitute a fake that writes the
// transcript file directly.
type launcher interface {
	Launch(ctx context.Context, script, transcript string) error
}

// StepCounter allocates monotonically increasing step numbers so that
// transcript filenames never repeat within one run. A single counter is
// shared by every [Runner] of a run, including runners for different GAP
// roots writing into the same transcript directory.
type StepCounter struct {
	n atomic.Int64
}

// NewStepCounter creates a [StepCounter] starting at zero.
func NewStepCounter() *StepCounter {
	return &StepCounter{}
}

// Next returns the next step number. Safe for concurrent use, monotonic,
// and never reused.
func (c *StepCounter) Next() int64 {
	return c.n.Add(1)
}

// Runner executes test steps sequentially against one GAP installation.
//
// Create instances with [NewRunner]. Transcript filenames come from the
// shared [StepCounter], so they stay unique even across runners and
// intervening build operations.
type Runner struct {
	printer *output.Printer
	markers classify.MarkerSet
	logDir  string
	verbose bool
	counter *StepCounter
	launch  launcher
}

// NewRunner creates a [Runner] that spawns GAP per inv and writes
// transcripts under logDir, numbered by counter.
func NewRunner(inv gapexec.Invocation, markers classify.MarkerSet, printer *output.Printer, logDir string, verbose bool, counter *StepCounter) *Runner {
	return &Runner{
		printer: printer,
		markers: markers,
		logDir:  logDir,
		verbose: verbose,
		counter: counter,
		launch:  pipeLauncher{inv: inv},
	}
}

// BuildScript assembles the command script for one step. The first
// statement always redirects the session's output to the transcript file;
// the step's statements follow unmodified, one per line.
func BuildScript(transcript string, statements []string) string {
	lines := make([]string, 0, len(statements)+1)
	lines = append(lines, fmt.Sprintf("LogTo(%q);", transcript))
	lines = append(lines, statements...)
	return strings.Join(lines, "\n")
}

// nextTranscript allocates a fresh unique transcript filename.
func (r *Runner) nextTranscript() string {
	return filepath.Join(r.logDir, fmt.Sprintf("test-%d.log", r.counter.Next()))
}

// Run executes one step: script construction, feeder+session launch,
// transcript classification, stop/continue policy.
//
// Run returns nil when the run may continue, which includes reported
// failures on steps with StopOnFailure false. It returns [ErrInterrupted]
// on operator interrupt, and a descriptive error for every other fatal
// condition: launch failure or classified failure with StopOnFailure set,
// or an unreadable transcript regardless of policy.
func (r *Runner) Run(ctx context.Context, step Step) error {
	transcript := r.nextTranscript()
	script := BuildScript(transcript, step.Statements)

	if r.verbose {
		r.printer.Println(output.LevelInfo, script)
	}

	r.printer.Announce(output.LevelStep, step.Description)
	launchErr := r.printer.WithSpinner(output.LevelStep, func() error {
		return r.launch.Launch(ctx, script, transcript)
	})

	if launchErr != nil {
		if errors.Is(launchErr, ErrInterrupted) || ctx.Err() != nil {
			r.printer.Println(output.LevelFailure, "Killed!")
			return ErrInterrupted
		}
		r.printer.Println(output.LevelFailure, "FAILED!")
		if step.StopOnFailure {
			return fmt.Errorf("%s: %w", step.Description, launchErr)
		}
		// Fall through to the transcript: the step may still have
		// produced a classifiable log before the session died.
	}

	text, err := os.ReadFile(transcript)
	if err != nil {
		// Without a transcript the step's result is unknowable, so
		// this is fatal regardless of the stop policy.
		r.printer.Printf(output.LevelFailure, "error: %s not found!", transcript)
		return fmt.Errorf("reading transcript: %w", err)
	}

	return r.report(step, transcript, string(text))
}

// report classifies the transcript and surfaces the result, returning an
// error only when the failure must stop the run.
func (r *Runner) report(step Step, transcript, text string) error {
	res := r.markers.Classify(text)

	if res.EmptyWarning {
		r.printer.Printf(output.LevelWarning, "warning: %s is empty!", transcript)
	}

	if res.Outcome == classify.Fail {
		r.printer.Println(output.LevelFailure, "FAILED!")
		r.printer.EchoTranscript(text)
		if step.StopOnFailure {
			return fmt.Errorf("%s failed: transcript %s contains %q", step.Description, transcript, res.Marker)
		}
	}
	return nil
}
