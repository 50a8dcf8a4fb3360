/*
errors.go - Error kinds surfaced to the boundary layer

PURPOSE:
  Every operation either succeeds or fails with one of two error kinds.
  Callers should test with errors.Is against the sentinels, or errors.As
  against the structured types when they need the details.

ERROR CATEGORIES:
  1. Persistence errors - store unreachable, read/write failure, bad row
  2. Validation errors  - caller input rejected, unparseable due date

Neither kind is retried. The message is surfaced verbatim.
*/
package books

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrPersistence is the root of every store failure.
	ErrPersistence = errors.New("persistence error")

	// ErrValidation is the root of every rejected input.
	ErrValidation = errors.New("validation error")

	// ErrUnknownTaxonomy is returned for a taxonomy kind that has no table.
	ErrUnknownTaxonomy = fmt.Errorf("%w: unknown taxonomy kind", ErrValidation)
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// PersistenceError wraps a storage failure with the operation that hit it.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() []error {
	return []error{ErrPersistence, e.Err}
}

// ValidationError describes a rejected field value.
type ValidationError struct {
	Field  string
	Value  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("invalid %s %q: %s", e.Field, e.Value, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// Persistence wraps err as a PersistenceError. Nil stays nil, and errors that
// already carry a kind are returned unchanged.
func Persistence(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrPersistence) || errors.Is(err, ErrValidation) {
		return err
	}
	return &PersistenceError{Op: op, Err: err}
}

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsValidation reports whether err was caused by caller input.
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}

// IsPersistence reports whether err came from the store.
func IsPersistence(err error) bool {
	return errors.Is(err, ErrPersistence)
}

func required(field, value string) error {
	if value == "" {
		return &ValidationError{Field: field, Reason: "must not be empty"}
	}
	return nil
}
