package model

import (
	"errors"
	"fmt"
)

// ErrNotFound signals a missing user or diagnosis.
var ErrNotFound = errors.New("not found")

// ErrVersionConflict signals that the current diagnosis row changed between
// read and write; the caller should re-read and retry if it still wants the
// mutation.
var ErrVersionConflict = errors.New("diagnosis version conflict")

// ValidationError reports an incomplete or malformed answer set.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("validation failed: %s", e.Reason)
	}
	return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Reason)
}

// InsufficientDataError reports a brush-up gated on data sufficiency before
// the AI collaborator was ever called. No audit entry exists for these runs.
type InsufficientDataError struct {
	Trigger TriggerType
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("insufficient data for trigger %s", e.Trigger)
}

// ExternalServiceError wraps a failure from an external collaborator. Not
// retried automatically.
type ExternalServiceError struct {
	Service string
	Err     error
}

func (e *ExternalServiceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Service, e.Err)
}

func (e *ExternalServiceError) Unwrap() error {
	return e.Err
}
