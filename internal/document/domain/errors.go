package domain

import (
	"errors"
	"fmt"
)

// ValidationError reports malformed or missing required input.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s", e.Reason)
}

func NewValidationError(reason string) error {
	return &ValidationError{Reason: reason}
}

// NotFoundError reports a referenced record that does not exist or is
// inactive/deleted.
type NotFoundError struct {
	Resource string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found", e.Resource)
}

func NewNotFoundError(resource string) error {
	return &NotFoundError{Resource: resource}
}

// ConsistencyError reports a resolution or concurrency mismatch (partial
// catalog resolution, stale document version).
type ConsistencyError struct {
	Reason string
}

func (e *ConsistencyError) Error() string {
	return fmt.Sprintf("consistency violation: %s", e.Reason)
}

func NewConsistencyError(reason string) error {
	return &ConsistencyError{Reason: reason}
}

func IsValidation(err error) bool {
	var target *ValidationError
	return errors.As(err, &target)
}

func IsNotFound(err error) bool {
	var target *NotFoundError
	return errors.As(err, &target)
}

func IsConsistency(err error) bool {
	var target *ConsistencyError
	return errors.As(err, &target)
}
