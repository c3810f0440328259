package app

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/aelexs/listshare-platform/internal/observability"
)

// EventCategory groups change envelopes by the kind of state they describe.
type EventCategory string

const (
	CategoryItemUpdates   EventCategory = "item_updates"
	CategoryMemberUpdates EventCategory = "member_updates"
	CategoryListUpdates   EventCategory = "list_updates"
)

// Event type tags carried in the envelope.
const (
	EventJoin        = "join"
	EventLeave       = "leave"
	EventOwnerChange = "owner change"

	EventItemAdd        = "add"
	EventItemRemove     = "remove"
	EventItemClaim      = "claim"
	EventItemUnclaim    = "unclaim"
	EventItemPurchase   = "purchase"
	EventItemUnpurchase = "unpurchase"

	EventListUpdate = "list-update"
	EventListDelete = "delete"
)

// ListProperties carries only the properties changed by a list update;
// unchanged fields stay nil.
type ListProperties struct {
	OwnerID *string `json:"owner"`
	Name    *string `json:"list_name"`
	Code    *string `json:"code"`
}

// Envelope is the typed change record published to a list's topic.
// Exactly one of Member, Item, or Properties is set, matching Category.
type Envelope struct {
	Category   EventCategory   `json:"category"`
	Type       string          `json:"type"`
	Affector   ShortMember     `json:"affector"`
	Member     *ShortMember    `json:"member,omitempty"`
	Item       *Item           `json:"item,omitempty"`
	Properties *ListProperties `json:"properties,omitempty"`
}

// EventPublisher publishes typed change envelopes to the topic keyed by
// list identity. Publish is fire-and-forget: with no subscriber attached
// the envelope is dropped, and there is no durability or replay.
type EventPublisher interface {
	Publish(ctx context.Context, listID string, env Envelope) error
}

// publish sends an envelope to the list's topic. Broadcast failures never
// fail the triggering mutation; they are logged and counted.
func (s *Service) publish(ctx context.Context, listID string, env Envelope) {
	if err := s.events.Publish(ctx, listID, env); err != nil {
		observability.WithTraceID(ctx, s.logger).WarnContext(ctx, "event.publish_failed",
			"list_id", listID,
			"event_type", env.Type,
			"error", err,
		)
		return
	}
	eventsPublishedTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("category", string(env.Category)),
		attribute.String("type", env.Type),
	))
}
