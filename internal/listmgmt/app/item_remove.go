package app

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"

	"github.com/aelexs/listshare-platform/internal/domain"
	"github.com/aelexs/listshare-platform/internal/observability"
)

// RemoveItem deletes an item from the list, refreshes the last-modified
// marker on every member's cached reference, and broadcasts a remove
// envelope carrying the item as it was at deletion.
func (s *Service) RemoveItem(ctx context.Context, listID, itemID, userID string) (*ListRecord, error) {
	ctx, span := tracer.Start(ctx, "item.remove")
	defer span.End()

	res, err := s.validateItemOp(ctx, listID, itemID, userID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	list, user := res.list, res.user

	removed := list.Items[res.itemIdx]
	list.Items = append(list.Items[:res.itemIdx], list.Items[res.itemIdx+1:]...)
	list.LastModified = domain.Timestamp(s.clock)

	if err := s.lists.Save(ctx, list); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("remove item: save list: %w", err)
	}

	s.propagate(ctx, list, "", touch(list))

	s.publish(ctx, list.ListID, Envelope{
		Category: CategoryItemUpdates,
		Type:     EventItemRemove,
		Affector: shortMember(user),
		Item:     &removed,
	})

	itemMutationsTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("mutation", EventItemRemove),
	))
	observability.WithTraceID(ctx, s.logger).InfoContext(ctx, "item.removed",
		"list_id", list.ListID,
		"item_id", removed.ItemID,
		"user_id", user.UserID,
	)

	return list, nil
}
