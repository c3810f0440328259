package app

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel/codes"

	"github.com/aelexs/listshare-platform/internal/domain"
	"github.com/aelexs/listshare-platform/internal/observability"
)

// DeleteList removes the list aggregate and, best-effort, the membership
// reference cached on every former member's account. A terminal delete
// envelope is published first so live subscribers learn the topic is going
// quiet; after that the topic simply stops producing.
func (s *Service) DeleteList(ctx context.Context, listID, userID string) (*ListRecord, error) {
	ctx, span := tracer.Start(ctx, "list.delete")
	defer span.End()

	ve := domain.NewValidationError()
	user, err := s.resolveUser(ctx, userID, "userID", ve)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	if err := ve.ErrOrNil(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	deleted, err := s.lists.Delete(ctx, listID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("delete list: %w", err)
	}

	s.publish(ctx, deleted.ListID, Envelope{
		Category: CategoryListUpdates,
		Type:     EventListDelete,
		Affector: shortMember(user),
		Properties: &ListProperties{
			Name: &deleted.Name,
		},
	})

	s.dropMembershipAll(ctx, deleted.ListID, deleted.Members)

	listsDeletedTotal.Add(ctx, 1)
	observability.WithTraceID(ctx, s.logger).InfoContext(ctx, "list.deleted",
		"list_id", deleted.ListID,
		"member_count", len(deleted.Members),
	)

	return deleted, nil
}
