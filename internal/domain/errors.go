package domain

import (
	"errors"
	"strings"
)

// Sentinel errors shared by repositories and services.
var (
	ErrNotFound     = errors.New("not found")
	ErrForbidden    = errors.New("forbidden")
	ErrInvalidInput = errors.New("invalid input")
)

// ValidationError lists every problem found in a malformed input.
// errors.Is(err, ErrInvalidInput) reports true for it.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Problems, "; ")
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// NewValidationError returns nil when problems is empty so callers can write
// `return NewValidationError(problems)` unconditionally.
func NewValidationError(problems []string) error {
	if len(problems) == 0 {
		return nil
	}
	return &ValidationError{Problems: problems}
}
