package app

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/codes"

	"github.com/aelexs/listshare-platform/internal/domain"
	"github.com/aelexs/listshare-platform/internal/observability"
)

// CreateList creates a new list aggregate owned by the given user and
// embeds an owned membership reference in the owner's account. The owner
// is the sole member, so there is nothing to propagate and no broadcast.
func (s *Service) CreateList(ctx context.Context, name, userID string) (*ListRecord, error) {
	ctx, span := tracer.Start(ctx, "list.create")
	defer span.End()

	res, err := s.validateCreateList(ctx, name, userID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	user := res.user

	code, err := s.uniqueShareCode(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("create list: %w", err)
	}

	now := domain.Timestamp(s.clock)
	list := &ListRecord{
		ListID:       domain.GenerateListID().String(),
		OwnerID:      user.UserID,
		Name:         name,
		Code:         code,
		Members:      []ShortMember{shortMember(user)},
		Items:        []Item{},
		Created:      now,
		LastModified: now,
	}

	if err := s.lists.Save(ctx, list); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("create list: save list: %w", err)
	}

	insertMembership(user, MembershipRef{
		ListID:       list.ListID,
		ListName:     list.Name,
		Owned:        true,
		Members:      cloneMembers(list.Members),
		LastModified: now,
	})
	if err := s.users.Save(ctx, user); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("create list: save owner: %w", err)
	}

	listsCreatedTotal.Add(ctx, 1)
	observability.WithTraceID(ctx, s.logger).InfoContext(ctx, "list.created",
		"list_id", list.ListID,
		"owner_id", user.UserID,
	)

	return list, nil
}
