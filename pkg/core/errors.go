package core

import (
	"errors"
	"fmt"
)

// Failure taxonomy. Every error leaving the engine wraps one of these so
// callers can branch without string matching.
var (
	// ErrRemoteUnavailable marks a network or service failure. The engine
	// recovers by applying the mutation optimistically in memory.
	ErrRemoteUnavailable = errors.New("remote store unavailable")

	// ErrConstraintViolation marks a remote-side constraint failure,
	// e.g. tag resolution. The mutation is still applied optimistically.
	ErrConstraintViolation = errors.New("constraint violation")

	// ErrNotFound marks a mutation against a note id absent from the
	// canonical collection. The operation is a no-op.
	ErrNotFound = errors.New("note not found")
)

// SyncError is the recoverable error surfaced at the engine boundary.
// It carries a human-readable message for status indicators; it is never
// fatal and the engine never panics across the boundary.
type SyncError struct {
	Op      string // engine operation, e.g. "create", "reorder"
	Message string
	Err     error // one of the taxonomy sentinels, possibly wrapped further
}

func (e *SyncError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Message)
}

func (e *SyncError) Unwrap() error { return e.Err }

func syncErr(op, message string, err error) *SyncError {
	return &SyncError{Op: op, Message: message, Err: err}
}
