// Package errs defines the error taxonomy shared by all domain services.
// Handlers translate these into HTTP statuses; services wrap them with
// fmt.Errorf("...: %w", ...) to add context.
package errs

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound signals that a referenced entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidCredentials signals an identity resolution failure.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrInvalidDate signals an unparseable calendar date.
	ErrInvalidDate = errors.New("invalid date")

	// ErrConflict signals a state conflict, e.g. deleting a doctor that
	// still owns appointments or registering a duplicate patient email.
	ErrConflict = errors.New("conflict")
)

// DischargeError reports a rolled-back discharge workflow. The store is
// unchanged when this error is returned.
type DischargeError struct {
	Reason string
}

func (e *DischargeError) Error() string {
	return fmt.Sprintf("discharge failed: %s", e.Reason)
}
