package database

import (
	"fmt"
)

// StoreError represents a persistence operation failure with context.
// Store faults are surfaced to callers as-is and never retried at this layer.
type StoreError struct {
	Operation string
	Err       error
}

// Error implements the error interface
func (e *StoreError) Error() string {
	return fmt.Sprintf("store error in %s: %v", e.Operation, e.Err)
}

// Unwrap returns the underlying error
func (e *StoreError) Unwrap() error {
	return e.Err
}

// NotFoundError represents a resource not found error
type NotFoundError struct {
	Resource string
	Key      string
}

// Error implements the error interface
func (e *NotFoundError) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("%s not found: %s", e.Resource, e.Key)
	}
	return fmt.Sprintf("%s not found", e.Resource)
}

// ValidationError represents a validation error
type ValidationError struct {
	Field  string
	Reason string
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed for field '%s': %s", e.Field, e.Reason)
}

// WrapStoreError wraps a persistence error with operation context
func WrapStoreError(operation string, err error) error {
	if err == nil {
		return nil
	}
	return &StoreError{
		Operation: operation,
		Err:       err,
	}
}
