package order

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNotFound   = errors.New("order: not found")
	ErrConflict   = errors.New("order: isbn already exists")
	ErrValidation = errors.New("order: validation failed")
)

// ConflictError reports a duplicate ISBN detected before the rule engine ran.
type ConflictError struct {
	ISBN string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("order with ISBN '%s' already exists", e.ISBN)
}

func (e *ConflictError) Unwrap() error { return ErrConflict }

// FieldError is a single rule failure, addressed by the offending field path.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError carries every rule failure collected in one validation
// pass. Individual failures are never signalled on their own.
type ValidationError struct {
	Failures []FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Failures))
	for i, f := range e.Failures {
		msgs[i] = f.Field + ": " + f.Message
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

func (e *ValidationError) Unwrap() error { return ErrValidation }
