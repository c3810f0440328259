package app

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/aelexs/listshare-platform/internal/domain"
	"github.com/aelexs/listshare-platform/internal/observability"
)

// ClaimItem sets or clears the claimant on an item. A claim overwrites any
// existing claimant unconditionally and an unclaim clears the field no
// matter who claimed it; the last writer wins. Repeating the same method
// is a harmless overwrite with the same outcome.
func (s *Service) ClaimItem(ctx context.Context, listID, itemID, userID string, method domain.ClaimMethod) (*ListRecord, error) {
	ctx, span := tracer.Start(ctx, "item.claim")
	defer span.End()

	if !domain.IsValidClaimMethod(method) {
		ve := domain.NewValidationError()
		ve.SetErr("method", domain.ErrInvalidMethod, "Invalid method")
		err := ve.ErrOrNil()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	res, err := s.validateItemOp(ctx, listID, itemID, userID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	list, user := res.list, res.user

	item := &list.Items[res.itemIdx]
	if method == domain.ClaimMethodClaim {
		item.ClaimedBy = user.ScreenName
	} else {
		item.ClaimedBy = ""
	}

	return s.finishItemToggle(ctx, span, list, user, item, string(method))
}

// PurchaseItem sets or clears the purchased flag on an item. Like claims,
// the toggle is an unconditional overwrite with last-writer-wins
// semantics.
func (s *Service) PurchaseItem(ctx context.Context, listID, itemID, userID string, method domain.PurchaseMethod) (*ListRecord, error) {
	ctx, span := tracer.Start(ctx, "item.purchase")
	defer span.End()

	if !domain.IsValidPurchaseMethod(method) {
		ve := domain.NewValidationError()
		ve.SetErr("method", domain.ErrInvalidMethod, "Invalid method")
		err := ve.ErrOrNil()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	res, err := s.validateItemOp(ctx, listID, itemID, userID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	list, user := res.list, res.user

	item := &list.Items[res.itemIdx]
	item.Purchased = method == domain.PurchaseMethodPurchase

	return s.finishItemToggle(ctx, span, list, user, item, string(method))
}

// finishItemToggle persists a toggled item, fans the refreshed
// last-modified marker out to member caches, and broadcasts the toggle.
func (s *Service) finishItemToggle(ctx context.Context, span trace.Span, list *ListRecord, user *UserRecord, item *Item, eventType string) (*ListRecord, error) {
	now := domain.Timestamp(s.clock)
	item.LastModified = now
	list.LastModified = now

	if err := s.lists.Save(ctx, list); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("%s item: save list: %w", eventType, err)
	}

	s.propagate(ctx, list, "", touch(list))

	changed := *item
	s.publish(ctx, list.ListID, Envelope{
		Category: CategoryItemUpdates,
		Type:     eventType,
		Affector: shortMember(user),
		Item:     &changed,
	})

	itemMutationsTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("mutation", eventType),
	))
	observability.WithTraceID(ctx, s.logger).InfoContext(ctx, "item.toggled",
		"list_id", list.ListID,
		"item_id", item.ItemID,
		"user_id", user.UserID,
		"mutation", eventType,
	)

	return list, nil
}
