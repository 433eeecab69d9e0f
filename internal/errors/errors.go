package errors

import (
	"fmt"

	crdberrors "github.com/cockroachdb/errors"
)

// Exit codes for CLI applications.
const (
	// ExitSuccess indicates the command completed successfully.
	ExitSuccess = 0

	// ExitUser indicates a user-related error (invalid input, configuration, etc.).
	ExitUser = 1

	// ExitSystem indicates a system-related error (I/O, network, permissions, etc.).
	ExitSystem = 2
)

// Sentinel errors for common failure conditions.
var (
	// ErrTaskNotFound indicates the requested task is not registered.
	ErrTaskNotFound = crdberrors.New("task not found")

	// ErrTaskCycle indicates the task dependency graph contains a cycle.
	ErrTaskCycle = crdberrors.New("task dependency cycle")

	// ErrPythonTooOld indicates the active Python runtime is below the minimum version.
	ErrPythonTooOld = crdberrors.New("python version below minimum")

	// ErrToolMissing indicates a required external tool is not on PATH.
	ErrToolMissing = crdberrors.New("required tool not found")

	// ErrUserDataInvalid indicates the user-data record is missing or incomplete.
	ErrUserDataInvalid = crdberrors.New("user data missing or incomplete")

	// ErrInvalidConfig indicates configuration validation failed.
	ErrInvalidConfig = crdberrors.New("invalid configuration")
)

// Re-exported wrapping helpers so callers use a single errors package.
var (
	New    = crdberrors.New
	Newf   = crdberrors.Newf
	Wrap   = crdberrors.Wrap
	Wrapf  = crdberrors.Wrapf
	Is     = crdberrors.Is
	As     = crdberrors.As
	Unwrap = crdberrors.Unwrap
	Join   = crdberrors.Join
)

// ExitError wraps an error with an exit code and optional suggestion for CLI applications.
// It implements the error interface and supports unwrapping via errors.Unwrap.
type ExitError struct {
	// Err is the underlying error that caused the exit.
	Err error

	// Code is the exit code to return to the operating system.
	Code int

	// Suggestion is an optional actionable suggestion for the user.
	Suggestion string
}

// NewExitError creates an ExitError with the given underlying error and exit code.
// If err is nil, the returned ExitError will have a nil Err field.
func NewExitError(err error, code int) *ExitError {
	return &ExitError{
		Err:  err,
		Code: code,
	}
}

// NewUserError creates an ExitError with ExitUser code and a suggestion.
func NewUserError(err error, suggestion string) *ExitError {
	return &ExitError{
		Err:        err,
		Code:       ExitUser,
		Suggestion: suggestion,
	}
}

// NewSystemError creates an ExitError with ExitSystem code and a suggestion.
func NewSystemError(err error, suggestion string) *ExitError {
	return &ExitError{
		Err:        err,
		Code:       ExitSystem,
		Suggestion: suggestion,
	}
}

// NewConfigError creates an ExitError with ExitUser code and a standard suggestion.
func NewConfigError(err error) *ExitError {
	return &ExitError{
		Err:        err,
		Code:       ExitUser,
		Suggestion: "Check your ezdev.yaml for mistakes",
	}
}

// Error returns the error message from the underlying error.
// If the underlying error is nil, it returns a generic message with the exit code.
func (e *ExitError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("exit code %d", e.Code)
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error, enabling errors.Is and errors.As
// to examine the error chain.
func (e *ExitError) Unwrap() error {
	return e.Err
}

// ExitCode extracts the exit code from an error chain.
// It returns ExitSuccess for nil, the wrapped code when an ExitError is
// present, and ExitUser for any other error.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitUser
}
