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

// AddItem appends a new unclaimed, unpurchased item to the list, refreshes
// the list's last-modified marker on every member's cached reference, and
// broadcasts an add envelope carrying the new item.
func (s *Service) AddItem(ctx context.Context, listID, name, userID string) (*ListRecord, error) {
	ctx, span := tracer.Start(ctx, "item.add")
	defer span.End()

	res, err := s.validateAddItem(ctx, listID, name, userID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	list, user := res.list, res.user

	now := domain.Timestamp(s.clock)
	item := Item{
		ItemID:       domain.GenerateItemID().String(),
		Name:         name,
		LastModified: now,
	}
	list.Items = append(list.Items, item)
	list.LastModified = now

	if err := s.lists.Save(ctx, list); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("add item: save list: %w", err)
	}

	s.propagate(ctx, list, "", touch(list))

	s.publish(ctx, list.ListID, Envelope{
		Category: CategoryItemUpdates,
		Type:     EventItemAdd,
		Affector: shortMember(user),
		Item:     &item,
	})

	span.SetAttributes(attribute.String("item.id", item.ItemID))
	itemMutationsTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("mutation", EventItemAdd),
	))
	observability.WithTraceID(ctx, s.logger).InfoContext(ctx, "item.added",
		"list_id", list.ListID,
		"item_id", item.ItemID,
		"user_id", user.UserID,
	)

	return list, nil
}
