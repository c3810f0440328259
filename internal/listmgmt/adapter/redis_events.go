package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"go.opentelemetry.io/otel/attribute"

	"github.com/aelexs/listshare-platform/internal/domain"
	"github.com/aelexs/listshare-platform/internal/listmgmt/app"
	"github.com/aelexs/listshare-platform/internal/redis"
)

// eventRedis is a narrow, consumer-defined interface for the Redis pub/sub
// operations the event bus needs. The *redis.Client RDB handle satisfies it.
type eventRedis interface {
	Publish(ctx context.Context, channel string, message any) *redis.IntCmd
	Subscribe(ctx context.Context, channels ...string) *redis.PubSub
}

// EventBus broadcasts change envelopes over Redis pub/sub, one channel per
// list ID. Delivery is fire-and-forget: envelopes published while no
// subscriber is attached are dropped, and there is no replay. It satisfies
// app.EventPublisher.
type EventBus struct {
	rdb eventRedis

	mu     sync.Mutex
	subs   map[*Subscription]struct{}
	closed bool
}

// NewEventBus creates an EventBus on the given Redis handle.
func NewEventBus(rdb eventRedis) *EventBus {
	return &EventBus{
		rdb:  rdb,
		subs: map[*Subscription]struct{}{},
	}
}

// Publish sends one envelope, JSON-encoded, to the list's channel.
func (b *EventBus) Publish(ctx context.Context, listID string, env app.Envelope) error {
	ctx, span := tracer.Start(ctx, "events.publish")
	defer span.End()
	span.SetAttributes(
		attribute.String("event.category", string(env.Category)),
		attribute.String("event.type", env.Type),
	)

	payload, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("event bus: marshal envelope: %w", err)
	}

	if err := b.rdb.Publish(ctx, listID, payload).Err(); err != nil {
		return fmt.Errorf("event bus: publish: %w", err)
	}
	return nil
}

// Subscribe attaches a subscriber to the list's channel. Envelopes that
// fail to decode are dropped. The subscription delivers from the moment it
// is created; earlier envelopes are gone.
func (b *EventBus) Subscribe(ctx context.Context, listID string) (*Subscription, error) {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil, fmt.Errorf("event bus: subscribe: %w", domain.ErrUnavailable)
	}

	pubsub := b.rdb.Subscribe(ctx, listID)
	sub := &Subscription{
		bus:    b,
		pubsub: pubsub,
		events: make(chan app.Envelope),
		done:   make(chan struct{}),
	}
	b.subs[sub] = struct{}{}
	b.mu.Unlock()

	go sub.pump()

	return sub, nil
}

// Close detaches every active subscription. The shared Redis client is
// owned by the composition root and stays open.
func (b *EventBus) Close() error {
	b.mu.Lock()
	b.closed = true
	subs := make([]*Subscription, 0, len(b.subs))
	for sub := range b.subs {
		subs = append(subs, sub)
	}
	b.mu.Unlock()

	for _, sub := range subs {
		_ = sub.Close()
	}
	return nil
}

func (b *EventBus) drop(sub *Subscription) {
	b.mu.Lock()
	delete(b.subs, sub)
	b.mu.Unlock()
}

// Subscription is one attached subscriber on a list's channel.
type Subscription struct {
	bus    *EventBus
	pubsub *redis.PubSub
	events chan app.Envelope
	done   chan struct{}

	closeOnce sync.Once
}

// Events returns the channel envelopes are delivered on. It is closed when
// the subscription closes.
func (s *Subscription) Events() <-chan app.Envelope {
	return s.events
}

// Close detaches the subscriber and closes the events channel.
func (s *Subscription) Close() error {
	var err error
	s.closeOnce.Do(func() {
		s.bus.drop(s)
		close(s.done)
		err = s.pubsub.Close()
	})
	return err
}

// pump decodes messages off the Redis subscription until it closes. A
// consumer that stops reading without closing must not wedge the pump, so
// sends race the done signal.
func (s *Subscription) pump() {
	defer close(s.events)
	for msg := range s.pubsub.Channel() {
		var env app.Envelope
		if err := json.Unmarshal([]byte(msg.Payload), &env); err != nil {
			continue
		}
		select {
		case s.events <- env:
		case <-s.done:
			return
		}
	}
}
