/*
errors.go - Centralized error types for the flexitime engine

PURPOSE:
  All error types in one place for consistency and discoverability.
  Data-quality problems (malformed cells, unknown models) are NOT
  errors: the engine degrades to documented defaults instead. Errors
  here cover invalid caller input and store failures only.

USAGE:
  Callers can classify with the helpers:

    if flexitime.IsNotFound(err) {
        // 404
    }

SEE ALSO:
  - engine.go: Returns these errors from orchestration methods
  - store/sqlite: Wraps driver failures, maps missing rows to these
*/
package flexitime

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrEmployeeNotFound is returned when a referenced employee doesn't exist.
	ErrEmployeeNotFound = errors.New("employee not found")

	// ErrModelNotFound is returned when a referenced work-time model doesn't exist.
	ErrModelNotFound = errors.New("work-time model not found")

	// ErrRecordNotFound is returned when no record exists for a date.
	ErrRecordNotFound = errors.New("record not found")

	// ErrInvalidEmployeeID is returned when a personnel number is not 8 digits.
	ErrInvalidEmployeeID = errors.New("invalid employee id: must be 8 digits")

	// ErrInvalidModel is returned when a work-time model fails validation.
	ErrInvalidModel = errors.New("invalid work-time model")

	// ErrInvalidClock is returned when caller-supplied clock input is malformed.
	// Stored cells never trigger this; they degrade to absent instead.
	ErrInvalidClock = errors.New("invalid clock time: want HH:MM")

	// ErrUnknownRuleLabel is returned at configuration load time when a
	// status label maps to a rule kind that does not exist.
	ErrUnknownRuleLabel = errors.New("unknown rule kind for status label")

	// ErrDuplicateEmployee is returned when creating an employee whose
	// personnel number is already taken.
	ErrDuplicateEmployee = errors.New("employee already exists")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// RuleConfigError reports an invalid entry in the status rule configuration.
type RuleConfigError struct {
	Label string // status label as configured
	Kind  string // the unrecognized rule kind
}

func (e *RuleConfigError) Error() string {
	return fmt.Sprintf("status %q: unknown rule kind %q", e.Label, e.Kind)
}

func (e *RuleConfigError) Unwrap() error { return ErrUnknownRuleLabel }

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsNotFound returns true if the error indicates a missing resource.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrEmployeeNotFound) ||
		errors.Is(err, ErrModelNotFound) ||
		errors.Is(err, ErrRecordNotFound)
}

// IsClientError returns true if the error is due to invalid client input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidEmployeeID) ||
		errors.Is(err, ErrInvalidModel) ||
		errors.Is(err, ErrInvalidClock) ||
		errors.Is(err, ErrDuplicateEmployee)
}
