// Package errmap provides wire protocol mappers for domain errors.
package errmap

import (
	"errors"
	"net/http"

	"github.com/aelexs/listshare-platform/internal/domain"
)

// HTTPError represents an HTTP error response.
type HTTPError struct {
	StatusCode int               `json:"-"`
	Code       string            `json:"code"`
	Message    string            `json:"message"`
	Fields     map[string]string `json:"fields,omitempty"`
}

func (e HTTPError) Error() string {
	return e.Message
}

// httpMapping defines a domain error to HTTP status/code mapping.
type httpMapping struct {
	err        error
	statusCode int
	code       string
}

// httpMappings maps domain errors to HTTP status codes and error codes.
// Order matters: first match wins (via errors.Is).
var httpMappings = []httpMapping{
	// Resource errors
	{domain.ErrNotFound, http.StatusNotFound, "NOT_FOUND"},
	{domain.ErrAlreadyExists, http.StatusConflict, "ALREADY_EXISTS"},
	{domain.ErrAlreadyMember, http.StatusConflict, "ALREADY_MEMBER"},
	{domain.ErrVersionConflict, http.StatusConflict, "VERSION_CONFLICT"},

	// Auth errors — 401
	{domain.ErrUnauthorized, http.StatusUnauthorized, "UNAUTHENTICATED"},

	// Permission errors
	{domain.ErrForbidden, http.StatusForbidden, "PERMISSION_DENIED"},
	{domain.ErrNotMember, http.StatusForbidden, "NOT_MEMBER"},

	// Validation errors — 400
	{domain.ErrInvalidInput, http.StatusBadRequest, "INVALID_ARGUMENT"},
	{domain.ErrInvalidMethod, http.StatusBadRequest, "INVALID_ARGUMENT"},
	{domain.ErrEmptyID, http.StatusBadRequest, "INVALID_ARGUMENT"},
	{domain.ErrInvalidID, http.StatusBadRequest, "INVALID_ARGUMENT"},

	// Availability
	{domain.ErrUnavailable, http.StatusServiceUnavailable, "UNAVAILABLE"},
}

// ToHTTPError converts a domain error to an HTTP error. A ValidationError
// takes precedence over the sentinels it wraps so clients receive the full
// field-keyed message map.
func ToHTTPError(err error) HTTPError {
	if err == nil {
		return HTTPError{StatusCode: http.StatusOK}
	}

	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		return HTTPError{
			StatusCode: validationStatusCode(ve),
			Code:       "VALIDATION_FAILED",
			Message:    ve.Error(),
			Fields:     ve.Fields,
		}
	}

	for _, m := range httpMappings {
		if errors.Is(err, m.err) {
			return HTTPError{StatusCode: m.statusCode, Code: m.code, Message: err.Error()}
		}
	}
	// Never expose internal error details to clients
	return HTTPError{StatusCode: http.StatusInternalServerError, Code: "INTERNAL", Message: "internal error"}
}

// validationStatusCode picks the response status for a validation failure.
// A failure whose only cause is a missing resource reads as 404; everything
// else is a 400.
func validationStatusCode(ve *domain.ValidationError) int {
	if len(ve.Fields) == 1 && errors.Is(ve, domain.ErrNotFound) {
		return http.StatusNotFound
	}
	return http.StatusBadRequest
}

// ToHTTPStatusCode extracts just the HTTP status code for a domain error.
func ToHTTPStatusCode(err error) int {
	return ToHTTPError(err).StatusCode
}
