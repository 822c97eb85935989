// Package errors provides custom error types for domain-specific errors.
package errors

import (
	"errors"
	"fmt"
)

// Standard sentinel errors
var (
	// ErrAnalysisFailed is the single opaque failure reported to callers when
	// an external inference call fails for any reason. The underlying cause
	// (transport vs schema) is logged but never surfaced.
	ErrAnalysisFailed = errors.New("analysis failed, verify inputs and retry")

	ErrConfigInvalid = errors.New("invalid configuration")
	ErrDraftNotFound = errors.New("no saved draft")
	ErrDatabaseError = errors.New("database error")
)

// ValidationError represents a local input validation failure. It identifies
// the unmet field so the caller can gate submission step by step.
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s (%v): %s", e.Field, e.Value, e.Message)
}

// NewValidationError creates a new ValidationError.
func NewValidationError(field string, value interface{}, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Value:   value,
		Message: message,
	}
}

// SchemaError represents an external response that failed structural
// validation: a missing required key or a value outside an enumerated set.
// Schema failures are never retried.
type SchemaError struct {
	Contract string
	Field    string
	Message  string
	Err      error
}

func (e *SchemaError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("schema error [%s] %s: %s: %v", e.Contract, e.Field, e.Message, e.Err)
	}
	return fmt.Sprintf("schema error [%s] %s: %s", e.Contract, e.Field, e.Message)
}

func (e *SchemaError) Unwrap() error {
	return e.Err
}

// NewSchemaError creates a new SchemaError.
func NewSchemaError(contract, field, message string, err error) *SchemaError {
	return &SchemaError{
		Contract: contract,
		Field:    field,
		Message:  message,
		Err:      err,
	}
}

// TransportError represents a failed call to the external inference service.
type TransportError struct {
	Operation string
	Err       error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport error [%s]: %v", e.Operation, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// NewTransportError creates a new TransportError.
func NewTransportError(operation string, err error) *TransportError {
	return &TransportError{
		Operation: operation,
		Err:       err,
	}
}

// ImportError represents a malformed archive snapshot. Imports are atomic:
// a snapshot that raises an ImportError leaves the archive untouched.
type ImportError struct {
	Reason string
	Err    error
}

func (e *ImportError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("import error: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("import error: %s", e.Reason)
}

func (e *ImportError) Unwrap() error {
	return e.Err
}

// NewImportError creates a new ImportError.
func NewImportError(reason string, err error) *ImportError {
	return &ImportError{
		Reason: reason,
		Err:    err,
	}
}

// SelectionError represents an invalid selection for a consistency check:
// fewer than two entries, or entries spanning more than one ticker. Raised
// before any external call is attempted.
type SelectionError struct {
	Reason string
}

func (e *SelectionError) Error() string {
	return fmt.Sprintf("selection error: %s", e.Reason)
}

// NewSelectionError creates a new SelectionError.
func NewSelectionError(reason string) *SelectionError {
	return &SelectionError{Reason: reason}
}

// Wrap wraps an error with additional context.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps an error with formatted context.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
