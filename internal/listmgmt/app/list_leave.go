package app

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/aelexs/listshare-platform/internal/domain"
	"github.com/aelexs/listshare-platform/internal/observability"
)

// LeaveList removes a user from the list and deletes the corresponding
// membership reference from their account. An emptied list is deleted
// outright with no propagation or broadcast - no recipients remain. If the
// departing user owned the list, the ownership transfer protocol promotes
// a successor before the list is persisted; the broadcast then carries a
// leave envelope followed by an owner-change envelope.
func (s *Service) LeaveList(ctx context.Context, listID, userID string) (*ListRecord, error) {
	ctx, span := tracer.Start(ctx, "list.leave")
	defer span.End()

	res, err := s.validateLeaveList(ctx, listID, userID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	list, user := res.list, res.user
	departed := shortMember(user)

	list.Members = append(list.Members[:res.memberIdx], list.Members[res.memberIdx+1:]...)
	removeMembership(user, res.refIdx)

	if err := s.users.Save(ctx, user); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("leave list: save member: %w", err)
	}

	if len(list.Members) == 0 {
		deleted, err := s.lists.Delete(ctx, list.ListID)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return nil, fmt.Errorf("leave list: delete emptied list: %w", err)
		}
		listsDeletedTotal.Add(ctx, 1)
		observability.WithTraceID(ctx, s.logger).InfoContext(ctx, "list.deleted_on_empty",
			"list_id", list.ListID,
		)
		return deleted, nil
	}

	wasOwner := list.OwnerID == user.UserID
	var successor *UserRecord
	if wasOwner {
		successor, err = s.transferOwnership(ctx, list)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return nil, fmt.Errorf("leave list: %w", err)
		}
	}

	list.LastModified = domain.Timestamp(s.clock)
	if err := s.lists.Save(ctx, list); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("leave list: save list: %w", err)
	}

	s.propagate(ctx, list, "", syncMembers(list))

	s.publish(ctx, list.ListID, Envelope{
		Category: CategoryMemberUpdates,
		Type:     EventLeave,
		Affector: departed,
		Member:   &departed,
	})
	if wasOwner {
		promoted := shortMember(successor)
		s.publish(ctx, list.ListID, Envelope{
			Category: CategoryMemberUpdates,
			Type:     EventOwnerChange,
			Affector: departed,
			Member:   &promoted,
		})
	}

	span.SetAttributes(attribute.Bool("list.owner_changed", wasOwner))
	membersLeftTotal.Add(ctx, 1)
	observability.WithTraceID(ctx, s.logger).InfoContext(ctx, "list.member_left",
		"list_id", list.ListID,
		"user_id", user.UserID,
		"owner_changed", wasOwner,
	)

	return list, nil
}
