package systemd

import (
	"errors"
	"fmt"
)

var (
	// ErrCommand is wrapped when the management tool could not be run or reported failure.
	ErrCommand = errors.New("command failed")

	// ErrUnitNotFound is wrapped when the unit does not exist.
	ErrUnitNotFound = errors.New("unit not found")

	// ErrMalformedOutput is returned when tool output lacks the expected shape.
	ErrMalformedOutput = errors.New("malformed output")
)

// Scope selects the system or the per-user service manager.
type Scope int

// Service manager scopes.
const (
	ScopeSystem Scope = iota
	ScopeUser
)

// String returns the scope name.
func (s Scope) String() string {
	if s == ScopeUser {
		return "user"
	}
	return "system"
}

// ScopeFor maps the userMode setting to a Scope.
func ScopeFor(userMode bool) Scope {
	if userMode {
		return ScopeUser
	}
	return ScopeSystem
}

// Error represents a failed systemd operation.
type Error struct {
	Op    string // list-units, start, stop, show, cat, ...
	Unit  string // empty for operations not tied to a unit
	Scope Scope
	Err   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Unit == "" {
		return fmt.Sprintf("systemd %s (%s): %v", e.Op, e.Scope, e.Err)
	}
	return fmt.Sprintf("systemd %s %s (%s): %v", e.Op, e.Unit, e.Scope, e.Err)
}

// Unwrap returns the underlying error for error unwrapping.
func (e *Error) Unwrap() error {
	return e.Err
}

// NewError creates a new Error with the given details.
func NewError(op, unitName string, scope Scope, cause error) *Error {
	return &Error{
		Op:    op,
		Unit:  unitName,
		Scope: scope,
		Err:   cause,
	}
}

// ConnectionError represents an error connecting to systemd.
type ConnectionError struct {
	Scope Scope
	Cause error
}

// Error implements the error interface.
func (e *ConnectionError) Error() string {
	return fmt.Sprintf("failed to connect to systemd %s bus: %v", e.Scope, e.Cause)
}

// Unwrap returns the underlying error for error unwrapping.
func (e *ConnectionError) Unwrap() error {
	return e.Cause
}

// NewConnectionError creates a new ConnectionError.
func NewConnectionError(scope Scope, cause error) *ConnectionError {
	return &ConnectionError{
		Scope: scope,
		Cause: cause,
	}
}

// IsConnectionError checks if an error is a ConnectionError.
func IsConnectionError(err error) bool {
	var cErr *ConnectionError
	return errors.As(err, &cErr)
}

// IsError checks if an error is a systemd Error.
func IsError(err error) bool {
	var sErr *Error
	return errors.As(err, &sErr)
}

// IsUnitNotFound checks if an error reports a missing unit.
func IsUnitNotFound(err error) bool {
	return errors.Is(err, ErrUnitNotFound)
}
