package core

import (
	"errors"
	"fmt"
)

// Common errors
var (
	// ErrNotFound is returned when a node or edge does not exist.
	// Callers should treat this as a normal outcome, not a failure.
	ErrNotFound = errors.New("not found")

	// ErrClosed is returned when trying to use a closed store
	ErrClosed = errors.New("store is closed")

	// ErrInvalidConfig is returned when configuration is invalid
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrCorruptSnapshot is returned by snapshot backends when the
	// persisted state cannot be decoded. The store recovers from it by
	// starting empty; it is never surfaced to API callers.
	ErrCorruptSnapshot = errors.New("corrupt snapshot")
)

// StoreError wraps errors with operation context
type StoreError struct {
	Op  string // Operation name
	Err error  // Underlying error
}

// Error implements the error interface
func (e *StoreError) Error() string {
	if e.Op == "" {
		return fmt.Sprintf("gravec: %v", e.Err)
	}
	return fmt.Sprintf("gravec: %s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error
func (e *StoreError) Unwrap() error {
	return e.Err
}

// Is checks if the error matches the target
func (e *StoreError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// wrapError wraps an error with operation context
func wrapError(op string, err error) error {
	if err == nil {
		return nil
	}
	return &StoreError{Op: op, Err: err}
}
