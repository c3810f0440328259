package app_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aelexs/listshare-platform/internal/domain"
	"github.com/aelexs/listshare-platform/internal/listmgmt/app"
)

func TestLeaveListSuccessorAccountMissing(t *testing.T) {
	h := newHarness(t)
	alice := h.seedUser(t, "alice")
	bob := h.seedUser(t, "bob")
	list := h.createList(t, "Groceries", alice)
	h.join(t, list, bob)
	published := len(h.events.forList(list.ListID))

	// The successor's account vanishes between validation and transfer.
	_, err := h.users.Delete(context.Background(), bob.UserID)
	require.NoError(t, err)

	_, err = h.svc.LeaveList(context.Background(), list.ListID, alice.UserID)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrOwnerResolution)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	// An invariant violation after validation passed is an operation
	// failure, not a field rejection.
	var ve *domain.ValidationError
	assert.False(t, errors.As(err, &ve))

	// The canonical aggregate was never persisted: the stored list still
	// carries both members and the old owner.
	stored, getErr := h.lists.GetByID(context.Background(), list.ListID)
	require.NoError(t, getErr)
	assert.Equal(t, alice.UserID, stored.OwnerID)
	assert.Len(t, stored.Members, 2)

	// The departing owner's own save had already landed.
	_, found := h.userRef(t, alice.UserID, list.ListID)
	assert.False(t, found)

	// No leave or owner-change broadcast for a failed mutation.
	h.svc.Wait()
	assert.Len(t, h.events.forList(list.ListID), published)
}

func TestLeaveListSuccessorMissingMembershipRef(t *testing.T) {
	h := newHarness(t)
	alice := h.seedUser(t, "alice")
	bob := h.seedUser(t, "bob")
	list := h.createList(t, "Groceries", alice)
	h.join(t, list, bob)
	published := len(h.events.forList(list.ListID))

	// The successor's account survives but no longer references the list.
	stored, err := h.users.GetByID(context.Background(), bob.UserID)
	require.NoError(t, err)
	stored.Lists = []app.MembershipRef{}
	h.users.put(stored)

	_, err = h.svc.LeaveList(context.Background(), list.ListID, alice.UserID)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrMembershipInvariant)

	var ve *domain.ValidationError
	assert.False(t, errors.As(err, &ve))

	// Transfer aborted before the list was persisted.
	current, getErr := h.lists.GetByID(context.Background(), list.ListID)
	require.NoError(t, getErr)
	assert.Equal(t, alice.UserID, current.OwnerID)
	assert.Len(t, current.Members, 2)

	h.svc.Wait()
	assert.Len(t, h.events.forList(list.ListID), published)
}

func TestDeleteUserCascadeSuccessorMissing(t *testing.T) {
	h := newHarness(t)
	alice := h.seedUser(t, "alice")
	bob := h.seedUser(t, "bob")
	list := h.createList(t, "Groceries", alice)
	h.join(t, list, bob)
	published := len(h.events.forList(list.ListID))

	_, err := h.users.Delete(context.Background(), bob.UserID)
	require.NoError(t, err)

	// The cascade is best-effort per list: the failed transfer is logged,
	// the account deletion itself still succeeds.
	deleted, err := h.svc.DeleteUser(context.Background(), alice.UserID)
	require.NoError(t, err)
	assert.Equal(t, alice.UserID, deleted.UserID)

	// The list the transfer failed on is left untouched.
	stored, getErr := h.lists.GetByID(context.Background(), list.ListID)
	require.NoError(t, getErr)
	assert.Equal(t, alice.UserID, stored.OwnerID)
	assert.Len(t, stored.Members, 2)

	h.svc.Wait()
	assert.Len(t, h.events.forList(list.ListID), published)
}
