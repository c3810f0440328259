package app

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/codes"

	"github.com/aelexs/listshare-platform/internal/observability"
)

// UpdateListParams holds the optional fields of a list metadata update.
// Nil/false fields are left untouched.
type UpdateListParams struct {
	Name           *string
	OwnerID        *string
	RegenerateCode bool
}

// UpdateList applies the supplied metadata fields to the list and
// broadcasts a list-update envelope carrying only the changed properties.
// Membership reference caches are not touched: name and code are read off
// the canonical aggregate, and the owned flag follows ownership transfer
// on departure, not metadata updates.
func (s *Service) UpdateList(ctx context.Context, listID, userID string, params UpdateListParams) (*ListRecord, error) {
	ctx, span := tracer.Start(ctx, "list.update")
	defer span.End()

	res, err := s.validateUpdateList(ctx, listID, userID, params.OwnerID, params.Name)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	list, user := res.list, res.user

	var changed ListProperties
	if params.Name != nil {
		list.Name = *params.Name
		changed.Name = &list.Name
	}
	if res.owner != nil {
		list.OwnerID = res.owner.UserID
		changed.OwnerID = &list.OwnerID
	}
	if params.RegenerateCode {
		code, err := s.uniqueShareCode(ctx)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return nil, fmt.Errorf("update list: %w", err)
		}
		list.Code = code
		changed.Code = &list.Code
	}

	if err := s.lists.Save(ctx, list); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("update list: save list: %w", err)
	}

	s.publish(ctx, list.ListID, Envelope{
		Category:   CategoryListUpdates,
		Type:       EventListUpdate,
		Affector:   shortMember(user),
		Properties: &changed,
	})

	observability.WithTraceID(ctx, s.logger).InfoContext(ctx, "list.updated",
		"list_id", list.ListID,
		"name_changed", params.Name != nil,
		"owner_changed", res.owner != nil,
		"code_regenerated", params.RegenerateCode,
	)

	return list, nil
}
