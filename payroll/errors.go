/*
errors.go - Centralized error types for the payroll engine

PURPOSE:
  All error types in one place for consistency and discoverability.
  Stores and the HTTP layer wrap or map these; the engine never retries.

ERROR CATEGORIES:
  1. Input validation - malformed or unknown employee, dates or ranges
                        (never retried)
  2. Not found        - a referenced employee does not exist; reported as
                        a validation error on employee_id that also
                        matches ErrEmployeeNotFound
  3. Data access      - the persistence collaborator failed (propagated as-is)

  Missing configuration (no shift, no rate) is NOT an error. It resolves to
  the rest-day sentinel or to a zero-pay line.

USAGE:
  if errors.Is(err, payroll.ErrInvalidInput) {
      var verr *payroll.ValidationError
      errors.As(err, &verr) // verr.Field, verr.Message
  }
*/
package payroll

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrInvalidInput is returned for any request that fails validation.
	ErrInvalidInput = errors.New("invalid input")

	// ErrEmployeeNotFound is returned when a referenced employee does not exist.
	ErrEmployeeNotFound = errors.New("employee not found")

	// ErrDataAccess marks failures of the external persistence collaborator.
	ErrDataAccess = errors.New("data access failed")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// ValidationError names the offending input field. Err, when set, is a more
// specific cause such as ErrEmployeeNotFound.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrInvalidInput}
	}
	return []error{ErrInvalidInput, e.Err}
}

// DataAccessError wraps a store failure with the operation that hit it.
type DataAccessError struct {
	Op  string
	Err error
}

func (e *DataAccessError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *DataAccessError) Unwrap() []error {
	return []error{ErrDataAccess, e.Err}
}

func dataAccess(op string, err error) error {
	if err == nil {
		return nil
	}
	return &DataAccessError{Op: op, Err: err}
}

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError returns true if the error is due to invalid client input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// IsNotFound returns true if the error indicates a missing record.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrEmployeeNotFound)
}

// IsDataAccess returns true if the persistence collaborator failed.
func IsDataAccess(err error) bool {
	return errors.Is(err, ErrDataAccess)
}
