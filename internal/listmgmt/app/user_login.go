package app

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/codes"

	"github.com/aelexs/listshare-platform/internal/observability"
)

// LoginResult carries the authenticated account and its access token.
type LoginResult struct {
	User      *UserRecord
	Token     string
	ExpiresAt time.Time
}

// Login authenticates a user by email and password and mints a signed
// access token for the session.
func (s *Service) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	ctx, span := tracer.Start(ctx, "user.login")
	defer span.End()

	user, err := s.validateLogin(ctx, email, password)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	minted, err := s.minter.MintAccessToken(user.UserID, user.ScreenName)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("login: %w", err)
	}

	observability.WithTraceID(ctx, s.logger).InfoContext(ctx, "user.logged_in",
		"user_id", user.UserID,
	)

	return &LoginResult{
		User:      user,
		Token:     minted.Token,
		ExpiresAt: minted.ExpiresAt,
	}, nil
}
