package cli

import "fmt"

// ExitError represents a command failure with a specific exit code.
//
// It lets Cobra RunE functions signal non-zero exit codes without calling
// os.Exit directly, so command behavior stays testable. The error
// propagates up to [RunWithConfig], where [IsExitError] extracts the code
// for [ExecuteResult]; main owns the single os.Exit call.
type ExitError struct {
	// Code is the exit code to return to the shell. 0 means success,
	// 1 is the general fatal-condition code.
	Code int
}

// Error implements the error interface, using the same "exit status N"
// format as os/exec for consistency with subprocess exit messages.
func (e *ExitError) Error() string {
	return fmt.Sprintf("exit status %d", e.Code)
}

// NewExitError creates an [ExitError] with the given exit code.
func NewExitError(code int) *ExitError {
	return &ExitError{Code: code}
}

// IsExitError reports whether err is an [ExitError], returning its code.
func IsExitError(err error) (int, bool) {
	if exitErr, ok := err.(*ExitError); ok {
		return exitErr.Code, true
	}
	return 0, false
}
