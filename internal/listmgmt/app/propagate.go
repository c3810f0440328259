package app

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"golang.org/x/sync/errgroup"

	"github.com/aelexs/listshare-platform/internal/domain"
	"github.com/aelexs/listshare-platform/internal/observability"
)

// refUpdate mutates one member's cached membership reference during
// propagation. It runs against a freshly loaded user record.
type refUpdate func(ref *MembershipRef)

// syncMembers overwrites the cached member set and last-modified marker
// with the canonical aggregate's current values.
func syncMembers(list *ListRecord) refUpdate {
	members := cloneMembers(list.Members)
	return func(ref *MembershipRef) {
		ref.Members = cloneMembers(members)
		ref.LastModified = list.LastModified
	}
}

// touch refreshes only the last-modified marker; item mutations leave the
// membership set untouched.
func touch(list *ListRecord) refUpdate {
	lastModified := list.LastModified
	return func(ref *MembershipRef) {
		ref.LastModified = lastModified
	}
}

// propagate pushes a freshly-persisted list aggregate's state into the
// membership reference cached on every current member's account, skipping
// excludeID (empty to include everyone). The fan-out is fire-and-forget:
// the triggering mutation returns before it completes, and Service.Wait is
// the aggregated completion signal. Per-member updates run in a
// bounded-concurrency task group; a failure for one member is logged and
// counted, never rolled back, retried, or surfaced to the caller.
func (s *Service) propagate(ctx context.Context, list *ListRecord, excludeID string, apply refUpdate) {
	members := cloneMembers(list.Members)
	listID := list.ListID

	s.bgWG.Add(1)
	bg := context.WithoutCancel(ctx)
	go func() {
		defer s.bgWG.Done()

		g := new(errgroup.Group)
		g.SetLimit(domain.PropagationConcurrency)
		for _, m := range members {
			if m.UserID == excludeID {
				continue
			}
			g.Go(func() error {
				if err := s.propagateToMember(bg, listID, m.UserID, apply); err != nil {
					propagationFailuresTotal.Add(bg, 1, metric.WithAttributes(
						attribute.String("list_id", listID),
					))
					observability.WithTraceID(bg, s.logger).WarnContext(bg, "propagation.member_failed",
						"list_id", listID,
						"user_id", m.UserID,
						"error", err,
					)
				}
				return nil
			})
		}
		_ = g.Wait()
	}()
}

// propagateToMember performs one member's read-modify-write cycle. There
// is no cross-member atomicity; a version conflict from the store means a
// concurrent writer won and counts as a failed update.
func (s *Service) propagateToMember(ctx context.Context, listID, userID string, apply refUpdate) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("load member: %w", err)
	}

	idx := membershipIndex(user, listID)
	if idx == -1 {
		return fmt.Errorf("locate membership ref: %w", domain.ErrMembershipInvariant)
	}
	apply(&user.Lists[idx])

	if err := s.users.Save(ctx, user); err != nil {
		return fmt.Errorf("save member: %w", err)
	}
	return nil
}

// dropMembershipAll removes the membership reference for listID from every
// listed member's account. Used by the delete-list cascade; same
// best-effort, bounded-concurrency contract as propagate.
func (s *Service) dropMembershipAll(ctx context.Context, listID string, members []ShortMember) {
	snapshot := cloneMembers(members)

	s.bgWG.Add(1)
	bg := context.WithoutCancel(ctx)
	go func() {
		defer s.bgWG.Done()

		g := new(errgroup.Group)
		g.SetLimit(domain.PropagationConcurrency)
		for _, m := range snapshot {
			g.Go(func() error {
				if err := s.dropMembership(bg, listID, m.UserID); err != nil {
					propagationFailuresTotal.Add(bg, 1, metric.WithAttributes(
						attribute.String("list_id", listID),
					))
					observability.WithTraceID(bg, s.logger).WarnContext(bg, "propagation.drop_failed",
						"list_id", listID,
						"user_id", m.UserID,
						"error", err,
					)
				}
				return nil
			})
		}
		_ = g.Wait()
	}()
}

// dropMembership removes one member's reference to a deleted list.
func (s *Service) dropMembership(ctx context.Context, listID, userID string) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("load member: %w", err)
	}

	idx := membershipIndex(user, listID)
	if idx == -1 {
		// Already gone; nothing to drop.
		return nil
	}
	removeMembership(user, idx)

	if err := s.users.Save(ctx, user); err != nil {
		return fmt.Errorf("save member: %w", err)
	}
	return nil
}
