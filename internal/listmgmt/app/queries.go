package app

import (
	"context"

	"github.com/aelexs/listshare-platform/internal/domain"
)

// GetUser returns a user account by ID.
func (s *Service) GetUser(ctx context.Context, userID string) (*UserRecord, error) {
	ctx, span := tracer.Start(ctx, "user.get")
	defer span.End()

	if userID == "" {
		ve := domain.NewValidationError()
		ve.Set("userID", "User ID must not be empty")
		return nil, ve.ErrOrNil()
	}
	return s.users.GetByID(ctx, userID)
}

// GetList returns a list aggregate by ID.
func (s *Service) GetList(ctx context.Context, listID string) (*ListRecord, error) {
	ctx, span := tracer.Start(ctx, "list.get")
	defer span.End()

	if listID == "" {
		ve := domain.NewValidationError()
		ve.Set("listID", "List ID must not be empty")
		return nil, ve.ErrOrNil()
	}
	return s.lists.GetByID(ctx, listID)
}

// GetUserLists returns the denormalized membership references straight off
// the user record. The snapshots are as fresh as the last propagation;
// no list aggregates are loaded.
func (s *Service) GetUserLists(ctx context.Context, userID string) ([]MembershipRef, error) {
	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return user.Lists, nil
}
