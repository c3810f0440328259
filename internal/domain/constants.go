package domain

import "time"

// Normative limits for the list platform.
// These are compiled defaults that can be overridden via configuration.
const (
	// Share code configuration. 36^5 candidates (~60.5M) keeps the
	// collision retry loop short at any plausible list count.
	ShareCodeLength   = 5
	ShareCodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

	// Input limits
	MaxListNameLength   = 128
	MaxItemNameLength   = 256
	MaxScreenNameLength = 64
	MinPasswordLength   = 8

	// Propagation (denormalized copy fan-out)
	PropagationConcurrency = 8 // Max concurrent per-member cache updates

	// Timeout contracts
	DynamoDBTimeout = 5 * time.Second // Max time for DynamoDB operations
	RedisTimeout    = 2 * time.Second // Max time for Redis operations

	// Graceful shutdown
	ShutdownDrainDelay  = 2 * time.Second  // Let load balancer propagate endpoint removal
	ShutdownHTTPTimeout = 10 * time.Second // Max time to drain in-flight HTTP requests
	ShutdownOTELTimeout = 5 * time.Second  // Max time to flush telemetry

	// Token configuration
	AccessTokenLifetime = 24 * time.Hour // JWT access token validity
)

// ClaimMethod selects the direction of a claim toggle.
type ClaimMethod string

const (
	ClaimMethodClaim   ClaimMethod = "claim"
	ClaimMethodUnclaim ClaimMethod = "unclaim"
)

// IsValidClaimMethod checks if a claim method is one of the two values.
func IsValidClaimMethod(m ClaimMethod) bool {
	return m == ClaimMethodClaim || m == ClaimMethodUnclaim
}

// PurchaseMethod selects the direction of a purchase toggle.
type PurchaseMethod string

const (
	PurchaseMethodPurchase   PurchaseMethod = "purchase"
	PurchaseMethodUnpurchase PurchaseMethod = "unpurchase"
)

// IsValidPurchaseMethod checks if a purchase method is one of the two values.
func IsValidPurchaseMethod(m PurchaseMethod) bool {
	return m == PurchaseMethodPurchase || m == PurchaseMethodUnpurchase
}
