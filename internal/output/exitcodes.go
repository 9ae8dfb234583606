package output

import (
	"errors"
	"fmt"
)

// Exit codes returned by the devrig process.
const (
	ExitSuccess     = 0
	ExitUserError   = 1 // bad input: flags, override names, plan names, changeset files
	ExitSystemError = 2 // environment: missing binaries, failed commands, I/O
	ExitConflict    = 3 // existing state: changeset file exists, foreign hooks
)

// ExitError carries the exit code a failure maps to.
type ExitError struct {
	Code    int
	Message string
	Cause   error
}

func (e *ExitError) Error() string {
	return e.Message
}

// Unwrap exposes Cause to errors.Is and errors.As.
func (e *ExitError) Unwrap() error {
	return e.Cause
}

func newExitError(code int, message string, cause error) *ExitError {
	return &ExitError{Code: code, Message: message, Cause: cause}
}

// NewUserError reports a problem the user can fix by changing their input.
func NewUserError(message string) *ExitError {
	return newExitError(ExitUserError, message, nil)
}

// UserErrorf is NewUserError with fmt.Sprintf formatting.
func UserErrorf(format string, args ...any) *ExitError {
	return newExitError(ExitUserError, fmt.Sprintf(format, args...), nil)
}

// NewSystemError reports a failure of the environment rather than the input.
func NewSystemError(message string) *ExitError {
	return newExitError(ExitSystemError, message, nil)
}

// NewSystemErrorWithCause is NewSystemError wrapping the error that caused it.
func NewSystemErrorWithCause(message string, cause error) *ExitError {
	return newExitError(ExitSystemError, message, cause)
}

// NewConflictError reports existing state devrig refuses to overwrite or ignore.
func NewConflictError(message string) *ExitError {
	return newExitError(ExitConflict, message, nil)
}

// ConflictErrorf is NewConflictError with fmt.Sprintf formatting.
func ConflictErrorf(format string, args ...any) *ExitError {
	return newExitError(ExitConflict, fmt.Sprintf(format, args...), nil)
}

// GetExitCode maps err to a process exit code. Errors without an ExitError in
// their chain are treated as user errors.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitUserError
}
