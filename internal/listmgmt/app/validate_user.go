package app

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/aelexs/listshare-platform/internal/auth"
	"github.com/aelexs/listshare-platform/internal/domain"
)

var emailPattern = regexp.MustCompile(`^[0-9a-zA-Z]([-.\w]*[0-9a-zA-Z])*@([0-9a-zA-Z][-\w]*[0-9a-zA-Z]\.)+[a-zA-Z]{2,9}$`)

// validateRegister checks the registration inputs, including email
// uniqueness against the user store.
func (s *Service) validateRegister(ctx context.Context, email, password, confirmPassword, screenName string) error {
	ve := domain.NewValidationError()

	if strings.TrimSpace(email) == "" {
		ve.Set("email", "Email must not be empty")
	} else if !emailPattern.MatchString(email) {
		ve.Set("email", "Must be a valid email")
	} else {
		_, err := s.users.FindByEmail(ctx, email)
		switch {
		case err == nil:
			ve.SetErr("email", domain.ErrAlreadyExists, "There is already a user with that email")
		case errors.Is(err, domain.ErrNotFound):
			// Email is free.
		default:
			return fmt.Errorf("validate: resolve user by email: %w", err)
		}
	}

	validatePassword(password, ve)

	if confirmPassword == "" {
		ve.Set("confirm_password", "Confirm password must not be empty")
	} else if confirmPassword != password {
		ve.Set("confirm_password", "Passwords do not match")
	}

	validateScreenName(screenName, ve)

	return ve.ErrOrNil()
}

// validateLogin checks the login inputs and resolves the account. The
// password comparison runs only when every field check passed, so the
// error map never mixes format failures with a credential failure.
func (s *Service) validateLogin(ctx context.Context, email, password string) (*UserRecord, error) {
	ve := domain.NewValidationError()
	var user *UserRecord

	if strings.TrimSpace(email) == "" {
		ve.Set("email", "Email must not be empty")
	} else if !emailPattern.MatchString(email) {
		ve.Set("email", "Must be a valid email")
	} else {
		found, err := s.users.FindByEmail(ctx, email)
		switch {
		case errors.Is(err, domain.ErrNotFound):
			ve.SetErr("email", domain.ErrNotFound, "User does not exist")
		case err != nil:
			return nil, fmt.Errorf("validate: resolve user by email: %w", err)
		default:
			user = found
		}
	}

	validatePassword(password, ve)

	if user != nil && ve.Empty() {
		if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
			ve.SetErr("password", domain.ErrUnauthorized, "Password is incorrect")
		}
	}

	if err := ve.ErrOrNil(); err != nil {
		return nil, err
	}
	return user, nil
}

func validatePassword(password string, ve *domain.ValidationError) {
	if password == "" {
		ve.Set("password", "Password must not be empty")
	} else if len(password) < domain.MinPasswordLength {
		ve.Set("password", "Password is too short")
	}
}

func validateScreenName(screenName string, ve *domain.ValidationError) {
	if strings.TrimSpace(screenName) == "" {
		ve.Set("screen_name", "Screen name must not be empty")
	} else if len(screenName) > domain.MaxScreenNameLength {
		ve.Set("screen_name", "Screen name is too long")
	}
}
