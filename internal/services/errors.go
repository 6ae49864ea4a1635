package services

import (
	"errors"
	"fmt"
)

var ErrNotFound = errors.New("not found")

// ValidationError reports input that was rejected before touching storage.
type ValidationError struct {
	Field  string
	Reason string
}

func (err *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", err.Field, err.Reason)
}

func invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}
