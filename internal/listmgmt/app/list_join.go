package app

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/codes"

	"github.com/aelexs/listshare-platform/internal/domain"
	"github.com/aelexs/listshare-platform/internal/observability"
)

// JoinList adds a user to the list resolved by share code, embeds an
// unowned membership reference in the joiner's account, fans the new
// member set out to every other member's cached copy, and broadcasts a
// join envelope on the list's topic.
func (s *Service) JoinList(ctx context.Context, code, userID string) (*ListRecord, error) {
	ctx, span := tracer.Start(ctx, "list.join")
	defer span.End()

	res, err := s.validateJoinList(ctx, code, userID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	list, user := res.list, res.user

	joined := shortMember(user)
	list.Members = append(list.Members, joined)
	list.LastModified = domain.Timestamp(s.clock)

	if err := s.lists.Save(ctx, list); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("join list: save list: %w", err)
	}

	insertMembership(user, MembershipRef{
		ListID:       list.ListID,
		ListName:     list.Name,
		Owned:        false,
		Members:      cloneMembers(list.Members),
		LastModified: list.LastModified,
	})
	if err := s.users.Save(ctx, user); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("join list: save member: %w", err)
	}

	// The joiner's reference was just written with the current member set;
	// only the other members hold stale copies.
	s.propagate(ctx, list, user.UserID, syncMembers(list))

	s.publish(ctx, list.ListID, Envelope{
		Category: CategoryMemberUpdates,
		Type:     EventJoin,
		Affector: joined,
		Member:   &joined,
	})

	membersJoinedTotal.Add(ctx, 1)
	observability.WithTraceID(ctx, s.logger).InfoContext(ctx, "list.member_joined",
		"list_id", list.ListID,
		"user_id", user.UserID,
	)

	return list, nil
}
