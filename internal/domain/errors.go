package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by the services and the ownership resolver.
var (
	// ErrNotFound covers both "does not exist" and "exists under another user";
	// callers must not be able to tell the two apart.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyPaid signals a mark-paid call on a payment that is already paid.
	ErrAlreadyPaid = errors.New("payment already paid")
	// ErrNoPaymentTypes signals generation on a flat without payment types.
	ErrNoPaymentTypes = errors.New("flat has no payment types")
	// ErrConflict signals a lost race on the per-period unique constraint.
	ErrConflict = errors.New("payment already generated for period")
)

// InvalidFormatError reports a malformed entity identifier. It is a caller bug
// and is raised before any store access.
type InvalidFormatError struct {
	Field string
	Value string
}

func (e *InvalidFormatError) Error() string {
	return fmt.Sprintf("invalid %s format: %q", e.Field, e.Value)
}

// ValidationError carries per-field violations for a rejected command.
type ValidationError struct {
	Violations map[string]string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %v", e.Violations)
}

// StoreError wraps an underlying data access failure. The cause is preserved
// for logging but is never the caller-facing message.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string { return fmt.Sprintf("store failure during %s: %v", e.Op, e.Err) }
func (e *StoreError) Unwrap() error { return e.Err }
