// Package output provides terminal output formatting for gapcheck.
//
// All user-facing text goes through [Printer], which styles messages by
// semantic level (info, success, failure, warning, heading) using lipgloss
// and degrades to plain text on non-interactive output. The package also
// owns terminal cursor state and the progress spinner shown while the
// orchestrator blocks on an external process.
//
// Key types:
//   - [Printer]: Styled writer with semantic highlight levels
//   - [Level]: Semantic highlight level for a message
//
// For testing, use [NewPrinterWithWriter] with a bytes.Buffer; styling and
// cursor escapes are disabled for non-terminal writers.
package output

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
)

// Level is the semantic highlight level of a message.
//
// Levels map to colors, not to severities: the Printer attaches no meaning
// beyond the style. Callers pick the level that matches the message's role
// in the run report.
type Level int

const (
	// LevelInfo is used for neutral progress messages, such as build
	// controller activity. Rendered cyan.
	LevelInfo Level = iota

	// LevelSuccess is used for the final success notice. Rendered green.
	LevelSuccess

	// LevelFailure is used for failure notices and echoed transcript
	// diagnostics. Rendered red.
	LevelFailure

	// LevelWarning is used for non-fatal conditions, such as an empty
	// transcript. Rendered red like failures, matching the run report's
	// convention that anything red deserves operator attention.
	LevelWarning

	// LevelHeading is used for phase headings. Rendered on a blue
	// background.
	LevelHeading

	// LevelStep is used for per-step announcements. Rendered magenta.
	LevelStep
)

// labelWidth is the column the " . . . " trailer starts at when announcing
// a step, so successive step results line up.
const labelWidth = 27

// Printer writes styled messages to a terminal or arbitrary writer.
//
// Create instances with [NewPrinter] for stdout or [NewPrinterWithWriter]
// for tests. A Printer is safe to share across the components of one run;
// it has no mutable state beyond the underlying writer.
type Printer struct {
	w      io.Writer
	tty    bool
	styles map[Level]lipgloss.Style
}

// NewPrinter creates a [Printer] writing to stdout, with styling and cursor
// control enabled when stdout is a terminal.
func NewPrinter() *Printer {
	return newPrinter(os.Stdout, isatty.IsTerminal(os.Stdout.Fd()))
}

// NewPrinterWithWriter creates a [Printer] writing to w with styling and
// cursor control disabled. Intended for tests.
func NewPrinterWithWriter(w io.Writer) *Printer {
	return newPrinter(w, false)
}

func newPrinter(w io.Writer, tty bool) *Printer {
	r := lipgloss.NewRenderer(w)
	if !tty {
		r.SetColorProfile(termenv.Ascii)
	}
	return &Printer{
		w:   w,
		tty: tty,
		styles: map[Level]lipgloss.Style{
			LevelInfo:    r.NewStyle().Foreground(lipgloss.Color("6")),
			LevelSuccess: r.NewStyle().Foreground(lipgloss.Color("2")),
			LevelFailure: r.NewStyle().Foreground(lipgloss.Color("1")),
			LevelWarning: r.NewStyle().Foreground(lipgloss.Color("1")),
			LevelHeading: r.NewStyle().Background(lipgloss.Color("4")),
			LevelStep:    r.NewStyle().Foreground(lipgloss.Color("5")),
		},
	}
}

// Println writes msg styled for level, followed by a newline.
func (p *Printer) Println(level Level, msg string) {
	fmt.Fprintln(p.w, p.styles[level].Render(msg))
}

// Printf formats and writes a message styled for level, followed by a
// newline.
func (p *Printer) Printf(level Level, format string, args ...any) {
	p.Println(level, fmt.Sprintf(format, args...))
}

// Announce writes a step label padded to a fixed column, followed by a
// " . . . " trailer and no newline. The matching result (or the spinner's
// closing newline) completes the line.
func (p *Printer) Announce(level Level, label string) {
	if n := labelWidth - len(label); n > 0 {
		label += strings.Repeat(" ", n)
	}
	fmt.Fprint(p.w, p.styles[level].Render(label+" . . . "))
}

// Newline writes a bare newline, closing a line started by [Announce].
func (p *Printer) Newline() {
	fmt.Fprintln(p.w)
}

// EchoTranscript writes every line of a failing transcript at failure
// level so the operator can diagnose the failure.
func (p *Printer) EchoTranscript(text string) {
	for _, line := range strings.Split(strings.TrimRight(text, "\n"), "\n") {
		p.Println(LevelFailure, line)
	}
}

// HideCursor hides the terminal cursor. No-op when the writer is not a
// terminal.
func (p *Printer) HideCursor() {
	if p.tty {
		fmt.Fprint(p.w, "\033[?25l")
	}
}

// ShowCursor restores the terminal cursor. No-op when the writer is not a
// terminal. Safe to call more than once; every code path that hides the
// cursor must guarantee a matching ShowCursor, including error and
// interrupt paths.
func (p *Printer) ShowCursor() {
	if p.tty {
		fmt.Fprint(p.w, "\033[?25h")
	}
}
