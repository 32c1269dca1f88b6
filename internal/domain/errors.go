package domain

import (
	"fmt"
	"sort"
	"strings"
)

// ValidationError reports malformed, missing or out-of-range input.
type ValidationError struct {
	Message string
	Fields  map[string][]string
}

func NewValidationError(field, msg string) *ValidationError {
	return &ValidationError{Message: "Validation error", Fields: map[string][]string{field: {msg}}}
}

// Add appends a field message and returns the receiver for chaining.
func (e *ValidationError) Add(field, msg string) *ValidationError {
	if e.Fields == nil {
		e.Fields = map[string][]string{}
	}
	e.Fields[field] = append(e.Fields[field], msg)
	return e
}

func (e *ValidationError) HasErrors() bool {
	return len(e.Fields) > 0
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, strings.Join(e.Fields[k], ", ")))
	}
	if len(parts) == 0 {
		return e.Message
	}
	return e.Message + ": " + strings.Join(parts, "; ")
}

// AuthorizationError is a role or ownership mismatch.
type AuthorizationError struct {
	Message string
}

func (e *AuthorizationError) Error() string {
	if e.Message == "" {
		return "Unauthorized"
	}
	return e.Message
}

// NotFoundError is a missing entity.
type NotFoundError struct {
	Entity string
	ID     any
}

func (e *NotFoundError) Error() string {
	if e.ID == nil {
		return e.Entity + " not found"
	}
	return fmt.Sprintf("%s %v not found", e.Entity, e.ID)
}

// ConflictError is a booking overlap, a forbidden state change or a uniqueness violation.
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string {
	return e.Message
}

var ErrUnauthorized = &AuthorizationError{Message: "Unauthorized"}
