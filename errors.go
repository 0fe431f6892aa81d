// Package rehearse provides a Given/When/Then scenario harness for testing
// event-sourced aggregates. It offers an in-memory message repository with
// commit-boundary bookkeeping, an aggregate repository facade with pluggable
// decoration and dispatch, and a controllable clock for deterministic
// timestamps.
package rehearse

import (
	"errors"
	"fmt"
)

// Sentinel errors for common error conditions.
// Use errors.Is() to check for these errors.
var (
	// ErrAggregateNotFound indicates the aggregate has no recorded history.
	ErrAggregateNotFound = errors.New("rehearse: aggregate root not found")

	// ErrNilAggregate indicates a nil aggregate root was passed.
	ErrNilAggregate = errors.New("rehearse: nil aggregate root")

	// ErrEmptyAggregateRootID indicates an empty aggregate root ID was provided.
	ErrEmptyAggregateRootID = errors.New("rehearse: aggregate root ID is required")

	// ErrNoMessages indicates no messages were provided for persist.
	ErrNoMessages = errors.New("rehearse: no messages to persist")
)

// AggregateNotFoundError provides detailed information about an aggregate
// with no history.
type AggregateNotFoundError struct {
	AggregateRootID AggregateRootID
}

// Error returns the error message.
func (e *AggregateNotFoundError) Error() string {
	return fmt.Sprintf("rehearse: aggregate root %q not found", e.AggregateRootID)
}

// Is reports whether this error matches the target error.
func (e *AggregateNotFoundError) Is(target error) bool {
	return target == ErrAggregateNotFound
}

// Unwrap returns the underlying error for errors.Unwrap().
func (e *AggregateNotFoundError) Unwrap() error {
	return ErrAggregateNotFound
}

// NewAggregateNotFoundError creates a new AggregateNotFoundError.
func NewAggregateNotFoundError(id AggregateRootID) *AggregateNotFoundError {
	return &AggregateNotFoundError{AggregateRootID: id}
}
