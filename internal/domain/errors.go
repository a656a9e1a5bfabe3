package domain

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyCatalog       = errors.New("catalog has no jobs")
	ErrDuplicateJob       = errors.New("duplicate job id")
	ErrIndexOutOfRange    = errors.New("job index out of range")
	ErrInvalidDescription = errors.New("invalid description")
	ErrInvalidDirection   = errors.New("invalid vote direction")
	ErrInvalidExpiry      = errors.New("invalid timer expiry policy")
	ErrNotComplete        = errors.New("session not complete")
)

// ValidationError reports which field of a submitted description was empty.
type ValidationError struct {
	Field string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s must not be empty", e.Field)
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidDescription
}
