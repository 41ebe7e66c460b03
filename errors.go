package lendbook

import (
	"errors"
	"fmt"
)

// Sentinel errors for common failure scenarios.
var (
	// Obligation errors
	ErrNotFound     = errors.New("lendbook: obligation not found")
	ErrAlreadyPaid  = errors.New("lendbook: obligation already paid")
	ErrInvalidInput = errors.New("lendbook: invalid input")

	// Wiring errors
	ErrNoStore    = errors.New("lendbook: no store configured")
	ErrNoRecorder = errors.New("lendbook: no transaction recorder configured")

	// Store errors
	ErrKeyNotFound = errors.New("lendbook: key not found")
	ErrStoreClosed = errors.New("lendbook: store is closed")
)

// ValidationError represents a rejected field on an incoming draft or patch.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("lendbook: validation failed for %s: %s", e.Field, e.Message)
}

// Unwrap lets errors.Is(err, ErrInvalidInput) match validation failures.
func (e *ValidationError) Unwrap() error { return ErrInvalidInput }

// IsNotFound returns true if the error is a missing-obligation error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsAlreadyPaid returns true if the error rejects a repeated settlement.
func IsAlreadyPaid(err error) bool {
	return errors.Is(err, ErrAlreadyPaid)
}

// IsValidation returns true if the error is an input validation failure.
func IsValidation(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}
