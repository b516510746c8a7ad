// Package errors provides centralized error definitions and error handling
// utilities for the DevBoot codebase. It defines sentinel errors for the
// supervision engine, a domain error type for launch failures, and
// classification helpers.
//
// # Usage
//
// Creating errors:
//
//	// Sentinel error, surfaced as-is
//	return errors.ErrAlreadyRunning
//
//	// Domain-specific error with context wrapping
//	return errors.NewLaunchError(shell, err)
//
// Checking errors:
//
//	if errors.Is(err, errors.ErrProjectNotFound) { ... }
//
//	var launchErr *errors.LaunchError
//	if errors.As(err, &launchErr) { ... }
package errors

import (
	"errors"
	"fmt"
)

// Re-export standard library functions for convenience.
// This allows callers to import only this package for all error handling.
var (
	Is     = errors.Is
	As     = errors.As
	Unwrap = errors.Unwrap
	New    = errors.New
	Join   = errors.Join
)

// Process-related sentinel errors
var (
	// ErrAlreadyRunning indicates a start request for a live process.
	ErrAlreadyRunning = New("project is already running")
	// ErrNotRunning indicates input sent to a process that is not running.
	ErrNotRunning = New("process is not running")
	// ErrProjectNotFound indicates an unknown project identifier.
	ErrProjectNotFound = New("project not found")
	// ErrNoStdin indicates the process has no retained stdin writer.
	ErrNoStdin = New("no stdin handle available for this process")
)

// ErrShellNotFound indicates that no host shell interpreter could be located.
var ErrShellNotFound = New("shell interpreter not found")

// LaunchError indicates that the OS failed to create a child process.
// It is never retried by a direct start call, but a launch failure during a
// crash-triggered respawn is absorbed into the restart policy.
type LaunchError struct {
	// Shell is the interpreter that was invoked.
	Shell string
	// Cause is the underlying OS error.
	Cause error
}

// NewLaunchError creates a LaunchError wrapping the OS-level cause.
func NewLaunchError(shell string, cause error) *LaunchError {
	return &LaunchError{Shell: shell, Cause: cause}
}

// Error returns the error message.
func (e *LaunchError) Error() string {
	return fmt.Sprintf("failed to start process via %s: %v", e.Shell, e.Cause)
}

// Unwrap returns the underlying error.
func (e *LaunchError) Unwrap() error {
	return e.Cause
}

// IsRecoverable reports whether the error represents a recoverable caller
// mistake (already running, not running, unknown project) as opposed to an
// OS-level failure.
func IsRecoverable(err error) bool {
	return Is(err, ErrAlreadyRunning) ||
		Is(err, ErrNotRunning) ||
		Is(err, ErrProjectNotFound)
}
