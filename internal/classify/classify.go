// Package classify decides whether a GAP session transcript represents a
// passing or failing test step.
//
// Classification is a pure substring scan: a transcript fails when it
// contains any marker from a [MarkerSet], and passes otherwise. An empty
// transcript passes but carries a warning flag, since a session that
// produced no output usually means the log redirection never took effect.
//
// Key types:
//   - [MarkerSet]: The literal substrings that mark a transcript as failed
//   - [Result]: Outcome of classifying one transcript
//
// The package performs no I/O and prints nothing; callers surface warnings
// and diagnostics through the output package.
package classify

import "strings"

// Outcome is the pass/fail classification of a transcript.
type Outcome int

const (
	// Pass means no failure marker was found in the transcript.
	Pass Outcome = iota

	// Fail means at least one failure marker was found.
	Fail
)

// String returns "Pass" or "Fail".
func (o Outcome) String() string {
	if o == Fail {
		return "Fail"
	}
	return "Pass"
}

// Result is the outcome of classifying one transcript.
type Result struct {
	// Outcome is Pass or Fail.
	Outcome Outcome

	// EmptyWarning is set when the transcript was zero-length. It is
	// orthogonal to Outcome: an empty transcript classifies as Pass but
	// should be reported to the operator as a warning.
	EmptyWarning bool

	// Marker is the first failure marker found, for diagnostics.
	// Empty when Outcome is Pass.
	Marker string
}

// MarkerSet is the set of literal, case-sensitive substrings whose
// presence in a transcript is sufficient evidence of failure.
//
// A MarkerSet is immutable after construction. Build one with
// [DefaultMarkers]; the set is fixed for the whole run.
type MarkerSet struct {
	markers []string
}

// DefaultMarkers returns the marker set for a run testing pkgName.
//
// The markers are, in scan order: the GAP diff-report banner emitted when
// a Test() comparison differs, the generic warning banner, the error-code
// prefix, the word "Error", the break-loop prompt, and the two-line
// sequence printed when loading pkgName returns fail.
func DefaultMarkers(pkgName string) MarkerSet {
	return MarkerSet{markers: []string{
		"########> Diff",
		"# WARNING",
		"#E ",
		"Error",
		"brk>",
		"LoadPackage(\"" + pkgName + "\", false);\nfail",
	}}
}

// Markers returns a copy of the marker substrings, in scan order.
func (s MarkerSet) Markers() []string {
	out := make([]string, len(s.markers))
	copy(out, s.markers)
	return out
}

// Classify scans text for failure markers and returns the [Result].
//
// Classify is pure and total: the same text always yields the same
// Result. A zero-length text yields Pass with EmptyWarning set, because
// an empty transcript cannot contain a marker.
func (s MarkerSet) Classify(text string) Result {
	res := Result{Outcome: Pass}
	if len(text) == 0 {
		res.EmptyWarning = true
		return res
	}
	for _, m := range s.markers {
		if strings.Contains(text, m) {
			res.Outcome = Fail
			res.Marker = m
			return res
		}
	}
	return res
}
