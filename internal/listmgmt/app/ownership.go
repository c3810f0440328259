package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/aelexs/listshare-platform/internal/domain"
	"github.com/aelexs/listshare-platform/internal/observability"
)

// transferOwnership promotes a successor after the owning member has been
// removed from the (already-mutated) member set. The successor is the
// member at index 0: the longest-standing remaining member in storage
// order. The caller persists the list; this protocol persists only the
// successor's account.
//
// Both failure modes here are invariant violations surfaced after
// validation passed, so they are operation failures rather than
// validation rejections.
func (s *Service) transferOwnership(ctx context.Context, list *ListRecord) (*UserRecord, error) {
	successor := list.Members[0]

	account, err := s.users.GetByID(ctx, successor.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			err = errors.Join(err, domain.ErrOwnerResolution)
		}
		return nil, fmt.Errorf("transfer ownership: resolve successor %s: %w", successor.UserID, err)
	}

	list.OwnerID = account.UserID

	idx := membershipIndex(account, list.ListID)
	if idx == -1 {
		return nil, fmt.Errorf("transfer ownership: successor %s: %w", account.UserID, domain.ErrMembershipInvariant)
	}
	promoteMembership(account, idx)

	if err := s.users.Save(ctx, account); err != nil {
		return nil, fmt.Errorf("transfer ownership: save successor: %w", err)
	}

	ownershipTransfersTotal.Add(ctx, 1)
	observability.WithTraceID(ctx, s.logger).InfoContext(ctx, "list.owner_changed",
		"list_id", list.ListID,
		"new_owner_id", account.UserID,
	)

	return account, nil
}
