package domain

import "time"

// Clock provides the current time. Implementations may be real (production)
// or deterministic (testing). The domain defines the interface; adapters
// provide implementations.
type Clock interface {
	// Now returns the current time.
	Now() time.Time
}

// RealClock implements Clock using the system clock.
type RealClock struct{}

// Now returns time.Now().
func (RealClock) Now() time.Time {
	return time.Now()
}

// Timestamp returns the current wall clock as an RFC 3339 UTC string.
// All persisted timestamps use this format.
func Timestamp(c Clock) string {
	return c.Now().UTC().Format(time.RFC3339)
}

// Ensure RealClock implements Clock at compile time.
var _ Clock = RealClock{}
