package anchor

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidEnvelope   = errors.New("invalid anchor envelope")
	ErrEnvelopeTooLarge  = errors.New("anchor envelope exceeds a single HCS message")
	ErrUnsigned          = errors.New("anchor envelope is not signed")
	ErrSignatureMismatch = errors.New("anchor envelope signature does not verify")
	ErrOperatorRequired  = errors.New("operator account and key are required")
)

// ValidationError names the envelope field that failed validation.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("anchor envelope %s %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidEnvelope
}

func invalid(field string, format string, args ...any) error {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}
