// Package domain contains pure business logic and types.
// No external dependencies allowed - this is the innermost ring of Clean Architecture.
package domain

import (
	"fmt"

	"github.com/google/uuid"
)

// UserID is a value object representing a unique user account identifier.
// Always valid in memory - use NewUserID to construct.
type UserID struct {
	value string
}

// NewUserID creates a UserID from a raw string, validating it is a valid UUID.
func NewUserID(raw string) (UserID, error) {
	if raw == "" {
		return UserID{}, ErrEmptyID
	}
	if _, err := uuid.Parse(raw); err != nil {
		return UserID{}, fmt.Errorf("invalid user ID %q: %w", raw, ErrInvalidID)
	}
	return UserID{value: raw}, nil
}

// MustUserID creates a UserID, panicking on invalid input. Use only in tests.
func MustUserID(raw string) UserID {
	id, err := NewUserID(raw)
	if err != nil {
		panic(err)
	}
	return id
}

// GenerateUserID creates a new random UserID.
func GenerateUserID() UserID {
	return UserID{value: uuid.NewString()}
}

func (id UserID) String() string { return id.value }
func (id UserID) IsZero() bool   { return id.value == "" }

// ListID is a value object representing a unique list aggregate identifier.
type ListID struct {
	value string
}

// NewListID creates a ListID from a raw string, validating it is a valid UUID.
func NewListID(raw string) (ListID, error) {
	if raw == "" {
		return ListID{}, ErrEmptyID
	}
	if _, err := uuid.Parse(raw); err != nil {
		return ListID{}, fmt.Errorf("invalid list ID %q: %w", raw, ErrInvalidID)
	}
	return ListID{value: raw}, nil
}

// MustListID creates a ListID, panicking on invalid input. Use only in tests.
func MustListID(raw string) ListID {
	id, err := NewListID(raw)
	if err != nil {
		panic(err)
	}
	return id
}

// GenerateListID creates a new random ListID.
func GenerateListID() ListID {
	return ListID{value: uuid.NewString()}
}

func (id ListID) String() string { return id.value }
func (id ListID) IsZero() bool   { return id.value == "" }

// ItemID is a value object representing a unique item identifier.
// An item's lifecycle is fully nested inside its owning list aggregate.
type ItemID struct {
	value string
}

// NewItemID creates an ItemID from a raw string, validating it is a valid UUID.
func NewItemID(raw string) (ItemID, error) {
	if raw == "" {
		return ItemID{}, ErrEmptyID
	}
	if _, err := uuid.Parse(raw); err != nil {
		return ItemID{}, fmt.Errorf("invalid item ID %q: %w", raw, ErrInvalidID)
	}
	return ItemID{value: raw}, nil
}

// MustItemID creates an ItemID, panicking on invalid input. Use only in tests.
func MustItemID(raw string) ItemID {
	id, err := NewItemID(raw)
	if err != nil {
		panic(err)
	}
	return id
}

// GenerateItemID creates a new random ItemID.
func GenerateItemID() ItemID {
	return ItemID{value: uuid.NewString()}
}

func (id ItemID) String() string { return id.value }
func (id ItemID) IsZero() bool   { return id.value == "" }
