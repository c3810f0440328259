package app_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aelexs/listshare-platform/internal/domain"
	"github.com/aelexs/listshare-platform/internal/listmgmt/app"
)

func strPtr(s string) *string { return &s }

func TestUpdateListRename(t *testing.T) {
	h := newHarness(t)
	alice := h.seedUser(t, "alice")
	list := h.createList(t, "Groceries", alice)

	updated, err := h.svc.UpdateList(context.Background(), list.ListID, alice.UserID, app.UpdateListParams{
		Name: strPtr("Weekly Groceries"),
	})
	require.NoError(t, err)
	h.svc.Wait()

	assert.Equal(t, "Weekly Groceries", updated.Name)
	assert.Equal(t, list.Code, updated.Code)
	assert.Equal(t, list.OwnerID, updated.OwnerID)

	// The envelope carries only the changed property.
	envs := h.events.forList(list.ListID)
	require.Len(t, envs, 1)
	env := envs[0]
	assert.Equal(t, app.CategoryListUpdates, env.Category)
	assert.Equal(t, app.EventListUpdate, env.Type)
	require.NotNil(t, env.Properties)
	require.NotNil(t, env.Properties.Name)
	assert.Equal(t, "Weekly Groceries", *env.Properties.Name)
	assert.Nil(t, env.Properties.OwnerID)
	assert.Nil(t, env.Properties.Code)

	// Cached references are not refreshed by metadata updates; readers of
	// the reference see the old name until the next membership propagation.
	ref, ok := h.userRef(t, alice.UserID, list.ListID)
	require.True(t, ok)
	assert.Equal(t, "Groceries", ref.ListName)
}

func TestUpdateListTransferOwner(t *testing.T) {
	h := newHarness(t)
	alice := h.seedUser(t, "alice")
	bob := h.seedUser(t, "bob")
	list := h.createList(t, "Groceries", alice)
	h.join(t, list, bob)

	updated, err := h.svc.UpdateList(context.Background(), list.ListID, alice.UserID, app.UpdateListParams{
		OwnerID: strPtr(bob.UserID),
	})
	require.NoError(t, err)
	h.svc.Wait()

	assert.Equal(t, bob.UserID, updated.OwnerID)

	envs := h.events.forList(list.ListID)
	env := envs[len(envs)-1]
	require.NotNil(t, env.Properties)
	require.NotNil(t, env.Properties.OwnerID)
	assert.Equal(t, bob.UserID, *env.Properties.OwnerID)
	assert.Nil(t, env.Properties.Name)
}

func TestUpdateListRegenerateCode(t *testing.T) {
	h := newHarness(t)
	alice := h.seedUser(t, "alice")
	list := h.createList(t, "Groceries", alice)

	updated, err := h.svc.UpdateList(context.Background(), list.ListID, alice.UserID, app.UpdateListParams{
		RegenerateCode: true,
	})
	require.NoError(t, err)

	assert.NotEqual(t, list.Code, updated.Code)
	assert.Regexp(t, `^[A-Z0-9]{5}$`, updated.Code)

	// The old code no longer resolves; the new one does.
	_, err = h.svc.JoinList(context.Background(), list.Code, h.seedUser(t, "bob").UserID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = h.svc.JoinList(context.Background(), updated.Code, h.seedUser(t, "carol").UserID)
	assert.NoError(t, err)
	h.svc.Wait()
}

func TestUpdateListValidation(t *testing.T) {
	h := newHarness(t)
	alice := h.seedUser(t, "alice")
	bob := h.seedUser(t, "bob")
	list := h.createList(t, "Groceries", alice)

	tests := []struct {
		name       string
		userID     string
		params     app.UpdateListParams
		wantFields map[string]string
		wantIs     error
	}{
		{
			name:   "requester not a member",
			userID: bob.UserID,
			params: app.UpdateListParams{Name: strPtr("Renamed")},
			wantFields: map[string]string{
				"userID": "User is not a part of the list",
			},
			wantIs: domain.ErrNotMember,
		},
		{
			name:   "new owner not a member",
			userID: alice.UserID,
			params: app.UpdateListParams{OwnerID: strPtr(bob.UserID)},
			wantFields: map[string]string{
				"ownerID": "Owner is not a part of the list",
			},
			wantIs: domain.ErrNotMember,
		},
		{
			name:   "empty name",
			userID: alice.UserID,
			params: app.UpdateListParams{Name: strPtr("")},
			wantFields: map[string]string{
				"list_name": "List name must not be empty",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := h.svc.UpdateList(context.Background(), list.ListID, tt.userID, tt.params)

			var ve *domain.ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tt.wantFields, ve.Fields)
			if tt.wantIs != nil {
				assert.ErrorIs(t, err, tt.wantIs)
			}
		})
	}
}
