package app

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel/codes"

	"github.com/aelexs/listshare-platform/internal/domain"
	"github.com/aelexs/listshare-platform/internal/observability"
)

// DeleteUser deletes the account and then detaches it from every list it
// belonged to: the member is removed from each list aggregate, emptied
// lists are deleted outright, and lists the user owned go through the
// ownership transfer protocol before the remaining members are notified.
// The cascade is best-effort per list; a failure on one list is logged
// and does not stop the others.
func (s *Service) DeleteUser(ctx context.Context, userID string) (*UserRecord, error) {
	ctx, span := tracer.Start(ctx, "user.delete")
	defer span.End()

	if userID == "" {
		ve := domain.NewValidationError()
		ve.Set("userID", "User ID must not be empty")
		err := ve.ErrOrNil()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	deleted, err := s.users.Delete(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("delete user: %w", err)
	}
	departed := shortMember(deleted)

	for _, ref := range deleted.Lists {
		if err := s.detachFromList(ctx, departed, ref.ListID); err != nil {
			observability.WithTraceID(ctx, s.logger).WarnContext(ctx, "user.detach_failed",
				"user_id", deleted.UserID,
				"list_id", ref.ListID,
				"error", err,
			)
		}
	}

	usersDeletedTotal.Add(ctx, 1)
	observability.WithTraceID(ctx, s.logger).InfoContext(ctx, "user.deleted",
		"user_id", deleted.UserID,
		"list_count", len(deleted.Lists),
	)

	return deleted, nil
}

// detachFromList removes a departed member from one list aggregate and
// runs the departure consequences: delete-if-emptied, ownership transfer
// when the departed user owned the list, propagation, and leave plus
// owner-change broadcasts. The departed user's own account is already
// gone, so only the list side is touched.
func (s *Service) detachFromList(ctx context.Context, departed ShortMember, listID string) error {
	list, err := s.lists.GetByID(ctx, listID)
	if errors.Is(err, domain.ErrNotFound) {
		// The referenced list is already gone.
		return nil
	}
	if err != nil {
		return fmt.Errorf("load list: %w", err)
	}

	idx := memberIndex(list, departed.UserID)
	if idx == -1 {
		return nil
	}
	list.Members = append(list.Members[:idx], list.Members[idx+1:]...)

	if len(list.Members) == 0 {
		if _, err := s.lists.Delete(ctx, list.ListID); err != nil {
			return fmt.Errorf("delete emptied list: %w", err)
		}
		listsDeletedTotal.Add(ctx, 1)
		return nil
	}

	wasOwner := list.OwnerID == departed.UserID
	var successor *UserRecord
	if wasOwner {
		successor, err = s.transferOwnership(ctx, list)
		if err != nil {
			return err
		}
	}

	list.LastModified = domain.Timestamp(s.clock)
	if err := s.lists.Save(ctx, list); err != nil {
		return fmt.Errorf("save list: %w", err)
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

	membersLeftTotal.Add(ctx, 1)
	return nil
}
