package domain

import "errors"

// Sentinel errors for domain error conditions.
// Use errors.Is() for matching - never compare error strings.
var (
	// ID validation errors
	ErrEmptyID   = errors.New("ID cannot be empty")
	ErrInvalidID = errors.New("invalid ID format")

	// Resource errors
	ErrNotFound      = errors.New("resource not found")
	ErrAlreadyExists = errors.New("resource already exists")

	// Membership errors
	ErrAlreadyMember = errors.New("user is already a member of this list")
	ErrNotMember     = errors.New("user is not a member of this list")

	// Authorization errors
	ErrUnauthorized = errors.New("authentication required")
	ErrForbidden    = errors.New("permission denied")

	// Validation errors
	ErrInvalidInput  = errors.New("invalid input")
	ErrInvalidMethod = errors.New("invalid state method")

	// Invariant violations surfaced after validation passed. These are
	// operation failures: unexpected for the single request, not retried.
	ErrOwnerResolution     = errors.New("owner change: successor account not found")
	ErrMembershipInvariant = errors.New("membership reference missing for list member")

	// Concurrency errors
	ErrVersionConflict = errors.New("record version conflict")

	// Operational errors
	ErrUnavailable = errors.New("service temporarily unavailable")

	// Configuration errors
	ErrConfigRequired = errors.New("required configuration key missing")
)

// clientErrors enumerates all domain errors that represent client-side issues.
var clientErrors = []error{
	ErrInvalidInput,
	ErrInvalidMethod,
	ErrNotFound,
	ErrAlreadyMember,
	ErrNotMember,
	ErrForbidden,
	ErrUnauthorized,
	ErrEmptyID,
	ErrInvalidID,
}

// IsClientError returns true if the error represents a client-side issue
// that will not succeed on retry without client-side changes.
func IsClientError(err error) bool {
	for _, target := range clientErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsRetryable returns true if the error represents a transient condition
// that may succeed on retry.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrUnavailable) ||
		errors.Is(err, ErrVersionConflict)
}

// IsNotFound returns true if the error represents a missing resource.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
