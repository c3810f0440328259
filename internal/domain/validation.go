package domain

import (
	"fmt"
	"sort"
	"strings"
)

// ValidationError is a field-keyed map of human-readable messages produced
// by the validation gate. It is a structured, recoverable rejection: when a
// mutation returns a ValidationError, no writes were performed.
//
// Match with errors.As; the zero map is never returned (a valid request
// yields a nil error instead).
type ValidationError struct {
	Fields map[string]string

	causes []error
}

// NewValidationError creates an empty ValidationError ready to collect
// field messages.
func NewValidationError() *ValidationError {
	return &ValidationError{Fields: map[string]string{}}
}

// Set records a message for the given field. The first message for a field
// wins; later checks do not overwrite an earlier, more specific failure.
func (e *ValidationError) Set(field, message string) {
	if _, ok := e.Fields[field]; ok {
		return
	}
	e.Fields[field] = message
}

// SetErr records a message for the given field and attaches a sentinel
// cause, so callers can classify the rejection with errors.Is while still
// receiving the full field map.
func (e *ValidationError) SetErr(field string, sentinel error, message string) {
	if _, ok := e.Fields[field]; ok {
		return
	}
	e.Fields[field] = message
	e.causes = append(e.causes, sentinel)
}

// Unwrap exposes the sentinel causes for errors.Is matching.
func (e *ValidationError) Unwrap() []error {
	return e.causes
}

// Empty reports whether no field failures were recorded.
func (e *ValidationError) Empty() bool {
	return len(e.Fields) == 0
}

// ErrOrNil returns the ValidationError if any field failed, nil otherwise.
// Returning the concrete type directly would yield a non-nil error interface
// wrapping a nil pointer.
func (e *ValidationError) ErrOrNil() error {
	if e.Empty() {
		return nil
	}
	return e
}

// Error renders the field map deterministically (sorted by field name).
func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	fields := make([]string, 0, len(e.Fields))
	for f := range e.Fields {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	var b strings.Builder
	b.WriteString("validation failed: ")
	for i, f := range fields {
		if i > 0 {
			b.WriteString("; ")
		}
		fmt.Fprintf(&b, "%s: %s", f, e.Fields[f])
	}
	return b.String()
}
