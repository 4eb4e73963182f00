package model

import (
	"errors"
	"fmt"
	"strings"
)

var ErrValidation = errors.New("validation failed")

type FieldError struct {
	Field   string
	Message string
}

func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors collects every rejected field of a request. A nil value means
// the request is valid.
type ValidationErrors []FieldError

func (e ValidationErrors) Error() string {
	messages := make([]string, 0, len(e))
	for _, fieldErr := range e {
		messages = append(messages, fieldErr.Error())
	}
	return strings.Join(messages, "; ")
}

func (e ValidationErrors) Unwrap() error { return ErrValidation }

func (e *ValidationErrors) Add(field, message string) {
	*e = append(*e, FieldError{Field: field, Message: message})
}

// Err returns nil for an empty collection so callers can write `return errs.Err()`.
func (e ValidationErrors) Err() error {
	if len(e) == 0 {
		return nil
	}
	return e
}
