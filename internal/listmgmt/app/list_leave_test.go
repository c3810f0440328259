package app_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aelexs/listshare-platform/internal/domain"
	"github.com/aelexs/listshare-platform/internal/listmgmt/app"
)

func TestLeaveList(t *testing.T) {
	h := newHarness(t)
	alice := h.seedUser(t, "alice")
	bob := h.seedUser(t, "bob")
	list := h.createList(t, "Groceries", alice)
	h.join(t, list, bob)

	updated, err := h.svc.LeaveList(context.Background(), list.ListID, bob.UserID)
	require.NoError(t, err)
	h.svc.Wait()

	require.Len(t, updated.Members, 1)
	assert.Equal(t, alice.UserID, updated.Members[0].UserID)
	assert.Equal(t, alice.UserID, updated.OwnerID)

	_, ok := h.userRef(t, bob.UserID, list.ListID)
	assert.False(t, ok)

	ownerRef, ok := h.userRef(t, alice.UserID, list.ListID)
	require.True(t, ok)
	assert.Len(t, ownerRef.Members, 1)

	envs := h.events.forList(list.ListID)
	require.Len(t, envs, 2) // join + leave
	leave := envs[1]
	assert.Equal(t, app.CategoryMemberUpdates, leave.Category)
	assert.Equal(t, app.EventLeave, leave.Type)
	assert.Equal(t, bob.UserID, leave.Affector.UserID)
	require.NotNil(t, leave.Member)
	assert.Equal(t, bob.UserID, leave.Member.UserID)
}

func TestLeaveListOwnerDeparturePromotesSuccessor(t *testing.T) {
	h := newHarness(t)
	alice := h.seedUser(t, "alice")
	bob := h.seedUser(t, "bob")
	carol := h.seedUser(t, "carol")
	list := h.createList(t, "Groceries", alice)
	h.join(t, list, bob)
	h.join(t, list, carol)

	updated, err := h.svc.LeaveList(context.Background(), list.ListID, alice.UserID)
	require.NoError(t, err)
	h.svc.Wait()

	// The first remaining member is promoted.
	require.Len(t, updated.Members, 2)
	assert.Equal(t, bob.UserID, updated.OwnerID)

	// The successor's cached reference flips to owned and moves into the
	// owned run at the front of their account.
	user, err := h.users.GetByID(context.Background(), bob.UserID)
	require.NoError(t, err)
	require.NotEmpty(t, user.Lists)
	assert.Equal(t, list.ListID, user.Lists[0].ListID)
	assert.True(t, user.Lists[0].Owned)

	carolRef, ok := h.userRef(t, carol.UserID, list.ListID)
	require.True(t, ok)
	assert.False(t, carolRef.Owned)
	assert.Len(t, carolRef.Members, 2)

	envs := h.events.forList(list.ListID)
	require.Len(t, envs, 4) // join, join, leave, owner change
	leave, ownerChange := envs[2], envs[3]
	assert.Equal(t, app.EventLeave, leave.Type)
	assert.Equal(t, alice.UserID, leave.Affector.UserID)
	assert.Equal(t, app.EventOwnerChange, ownerChange.Type)
	assert.Equal(t, alice.UserID, ownerChange.Affector.UserID)
	require.NotNil(t, ownerChange.Member)
	assert.Equal(t, bob.UserID, ownerChange.Member.UserID)
}

func TestLeaveListLastMemberDeletesList(t *testing.T) {
	h := newHarness(t)
	alice := h.seedUser(t, "alice")
	list := h.createList(t, "Groceries", alice)

	_, err := h.svc.LeaveList(context.Background(), list.ListID, alice.UserID)
	require.NoError(t, err)
	h.svc.Wait()

	_, err = h.svc.GetList(context.Background(), list.ListID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, ok := h.userRef(t, alice.UserID, list.ListID)
	assert.False(t, ok)

	// An emptied list is deleted silently; no recipients remain.
	assert.Empty(t, h.events.forList(list.ListID))
}

func TestLeaveListNotMember(t *testing.T) {
	h := newHarness(t)
	alice := h.seedUser(t, "alice")
	bob := h.seedUser(t, "bob")
	list := h.createList(t, "Groceries", alice)

	_, err := h.svc.LeaveList(context.Background(), list.ListID, bob.UserID)

	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "User is not a part of the list", ve.Fields["userID"])
	assert.ErrorIs(t, err, domain.ErrNotMember)
}

func TestLeaveListUnknownList(t *testing.T) {
	h := newHarness(t)
	alice := h.seedUser(t, "alice")

	_, err := h.svc.LeaveList(context.Background(), domain.GenerateListID().String(), alice.UserID)

	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, map[string]string{"listID": "List with that ID not found"}, ve.Fields)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
