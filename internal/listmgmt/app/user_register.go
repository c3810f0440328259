package app

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"

	"github.com/aelexs/listshare-platform/internal/auth"
	"github.com/aelexs/listshare-platform/internal/domain"
	"github.com/aelexs/listshare-platform/internal/observability"
)

// tempJoinDate marks accounts created without credentials. Guest accounts
// carry it instead of a join timestamp so cleanup jobs can find them.
const tempJoinDate = "temp"

// Register creates a new user account with an empty membership list. The
// plaintext password is hashed before the record is constructed and never
// stored or logged.
func (s *Service) Register(ctx context.Context, email, password, confirmPassword, screenName string) (*UserRecord, error) {
	ctx, span := tracer.Start(ctx, "user.register")
	defer span.End()

	if err := s.validateRegister(ctx, email, password, confirmPassword, screenName); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("register: %w", err)
	}

	user := &UserRecord{
		UserID:       domain.GenerateUserID().String(),
		Email:        email,
		PasswordHash: hash,
		ScreenName:   screenName,
		Lists:        []MembershipRef{},
		JoinDate:     domain.Timestamp(s.clock),
	}

	if err := s.users.Save(ctx, user); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("register: save user: %w", err)
	}

	usersRegisteredTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.Bool("temp", false),
	))
	observability.WithTraceID(ctx, s.logger).InfoContext(ctx, "user.registered",
		"user_id", user.UserID,
	)

	return user, nil
}

// CreateTempUser creates a guest account with a screen name and no
// credentials. Guests participate in lists like any other member but
// cannot log in.
func (s *Service) CreateTempUser(ctx context.Context, screenName string) (*UserRecord, error) {
	ctx, span := tracer.Start(ctx, "user.create_temp")
	defer span.End()

	ve := domain.NewValidationError()
	validateScreenName(screenName, ve)
	if err := ve.ErrOrNil(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	user := &UserRecord{
		UserID:     domain.GenerateUserID().String(),
		ScreenName: screenName,
		Lists:      []MembershipRef{},
		JoinDate:   tempJoinDate,
	}

	if err := s.users.Save(ctx, user); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("create temp user: save user: %w", err)
	}

	usersRegisteredTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.Bool("temp", true),
	))
	observability.WithTraceID(ctx, s.logger).InfoContext(ctx, "user.temp_created",
		"user_id", user.UserID,
	)

	return user, nil
}
