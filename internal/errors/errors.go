// Package errors provides custom error types for domain-specific errors.
package errors

import (
	"errors"
	"fmt"
)

// Standard sentinel errors
var (
	ErrPurchaseNotFound  = errors.New("purchase not found")
	ErrInvalidPurchase   = errors.New("invalid purchase request")
	ErrNoQuorum          = errors.New("no quorum: every board member failed")
	ErrDeadlineExceeded  = errors.New("deliberation deadline exceeded")
	ErrRateLimited       = errors.New("rate limited")
	ErrConfigInvalid     = errors.New("invalid configuration")
	ErrDatabaseError     = errors.New("database error")
	ErrProviderExhausted = errors.New("completion provider retries exhausted")
)

// StageErrorKind classifies a stage failure for retry decisions.
type StageErrorKind string

const (
	// KindSchemaViolation marks a structurally invalid stage output. Never
	// retried; fatal to the member.
	KindSchemaViolation StageErrorKind = "schema_violation"
	// KindTransient marks a transport, timeout, or rate-limit failure.
	// Retried with backoff up to a bound, then fatal to the member.
	KindTransient StageErrorKind = "transient"
)

// StageError represents a failure of one reasoning stage for one persona.
type StageError struct {
	PersonaID string
	Stage     string
	Kind      StageErrorKind
	Err       error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("stage error [%s] %s (%s): %v", e.PersonaID, e.Stage, e.Kind, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// NewStageError creates a new StageError.
func NewStageError(personaID, stage string, kind StageErrorKind, err error) *StageError {
	return &StageError{
		PersonaID: personaID,
		Stage:     stage,
		Kind:      kind,
		Err:       err,
	}
}

// IsSchemaViolation reports whether err is a StageError of schema kind.
func IsSchemaViolation(err error) bool {
	var se *StageError
	return errors.As(err, &se) && se.Kind == KindSchemaViolation
}

// IsTransient reports whether err is a StageError of transient kind.
func IsTransient(err error) bool {
	var se *StageError
	return errors.As(err, &se) && se.Kind == KindTransient
}

// PersistenceError represents a failed write to the external store.
type PersistenceError struct {
	Record string
	ID     string
	Err    error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence error [%s] %s: %v", e.Record, e.ID, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// NewPersistenceError creates a new PersistenceError.
func NewPersistenceError(record, id string, err error) *PersistenceError {
	return &PersistenceError{
		Record: record,
		ID:     id,
		Err:    err,
	}
}

// ValidationError represents a validation error.
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
