package port_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aelexs/listshare-platform/internal/domain"
	"github.com/aelexs/listshare-platform/internal/listmgmt/app"
	"github.com/aelexs/listshare-platform/internal/listmgmt/port"
)

// ---------------------------------------------------------------------------
// Stub — implements the handler's list service interface.
// ---------------------------------------------------------------------------

type stubListService struct {
	createListFn   func(ctx context.Context, name, userID string) (*app.ListRecord, error)
	joinListFn     func(ctx context.Context, code, userID string) (*app.ListRecord, error)
	leaveListFn    func(ctx context.Context, listID, userID string) (*app.ListRecord, error)
	updateListFn   func(ctx context.Context, listID, userID string, params app.UpdateListParams) (*app.ListRecord, error)
	deleteListFn   func(ctx context.Context, listID, userID string) (*app.ListRecord, error)
	getListFn      func(ctx context.Context, listID string) (*app.ListRecord, error)
	addItemFn      func(ctx context.Context, listID, name, userID string) (*app.ListRecord, error)
	removeItemFn   func(ctx context.Context, listID, itemID, userID string) (*app.ListRecord, error)
	claimItemFn    func(ctx context.Context, listID, itemID, userID string, method domain.ClaimMethod) (*app.ListRecord, error)
	purchaseItemFn func(ctx context.Context, listID, itemID, userID string, method domain.PurchaseMethod) (*app.ListRecord, error)
}

func (s *stubListService) CreateList(ctx context.Context, name, userID string) (*app.ListRecord, error) {
	if s.createListFn == nil {
		return nil, domain.ErrNotFound
	}
	return s.createListFn(ctx, name, userID)
}

func (s *stubListService) JoinList(ctx context.Context, code, userID string) (*app.ListRecord, error) {
	if s.joinListFn == nil {
		return nil, domain.ErrNotFound
	}
	return s.joinListFn(ctx, code, userID)
}

func (s *stubListService) LeaveList(ctx context.Context, listID, userID string) (*app.ListRecord, error) {
	if s.leaveListFn == nil {
		return nil, domain.ErrNotFound
	}
	return s.leaveListFn(ctx, listID, userID)
}

func (s *stubListService) UpdateList(ctx context.Context, listID, userID string, params app.UpdateListParams) (*app.ListRecord, error) {
	if s.updateListFn == nil {
		return nil, domain.ErrNotFound
	}
	return s.updateListFn(ctx, listID, userID, params)
}

func (s *stubListService) DeleteList(ctx context.Context, listID, userID string) (*app.ListRecord, error) {
	if s.deleteListFn == nil {
		return nil, domain.ErrNotFound
	}
	return s.deleteListFn(ctx, listID, userID)
}

func (s *stubListService) GetList(ctx context.Context, listID string) (*app.ListRecord, error) {
	if s.getListFn == nil {
		return nil, domain.ErrNotFound
	}
	return s.getListFn(ctx, listID)
}

func (s *stubListService) AddItem(ctx context.Context, listID, name, userID string) (*app.ListRecord, error) {
	if s.addItemFn == nil {
		return nil, domain.ErrNotFound
	}
	return s.addItemFn(ctx, listID, name, userID)
}

func (s *stubListService) RemoveItem(ctx context.Context, listID, itemID, userID string) (*app.ListRecord, error) {
	if s.removeItemFn == nil {
		return nil, domain.ErrNotFound
	}
	return s.removeItemFn(ctx, listID, itemID, userID)
}

func (s *stubListService) ClaimItem(ctx context.Context, listID, itemID, userID string, method domain.ClaimMethod) (*app.ListRecord, error) {
	if s.claimItemFn == nil {
		return nil, domain.ErrNotFound
	}
	return s.claimItemFn(ctx, listID, itemID, userID, method)
}

func (s *stubListService) PurchaseItem(ctx context.Context, listID, itemID, userID string, method domain.PurchaseMethod) (*app.ListRecord, error) {
	if s.purchaseItemFn == nil {
		return nil, domain.ErrNotFound
	}
	return s.purchaseItemFn(ctx, listID, itemID, userID, method)
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newListMux(svc *stubListService) *http.ServeMux {
	mux := http.NewServeMux()
	port.NewListHandler(svc, testLogger()).Mount(mux)
	return mux
}

func doJSON(t *testing.T, mux *http.ServeMux, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func sampleList() *app.ListRecord {
	return &app.ListRecord{
		ListID:  "list-1",
		OwnerID: "u-1",
		Name:    "Groceries",
		Code:    "AB12C",
		Members: []app.ShortMember{{UserID: "u-1", ScreenName: "alice"}},
		Items:   []app.Item{},
	}
}

// ---------------------------------------------------------------------------
// Tests
// ---------------------------------------------------------------------------

func TestListHandler_CreateList(t *testing.T) {
	svc := &stubListService{
		createListFn: func(_ context.Context, name, userID string) (*app.ListRecord, error) {
			assert.Equal(t, "Groceries", name)
			assert.Equal(t, "u-1", userID)
			return sampleList(), nil
		},
	}
	rec := doJSON(t, newListMux(svc), http.MethodPost, "/v1/lists", `{"list_name":"Groceries","userID":"u-1"}`)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var got map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "list-1", got["id"])
	assert.Equal(t, "u-1", got["owner"])
	assert.Equal(t, "Groceries", got["list_name"])
	assert.Equal(t, "AB12C", got["code"])
}

func TestListHandler_CreateList_ValidationError(t *testing.T) {
	svc := &stubListService{
		createListFn: func(context.Context, string, string) (*app.ListRecord, error) {
			ve := domain.NewValidationError()
			ve.Set("list_name", "List name must not be empty")
			return nil, ve.ErrOrNil()
		},
	}
	rec := doJSON(t, newListMux(svc), http.MethodPost, "/v1/lists", `{}`)

	require.Equal(t, http.StatusBadRequest, rec.Code)

	var got struct {
		Code   string            `json:"code"`
		Fields map[string]string `json:"fields"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "VALIDATION_FAILED", got.Code)
	assert.Equal(t, map[string]string{"list_name": "List name must not be empty"}, got.Fields)
}

func TestListHandler_MalformedBody(t *testing.T) {
	rec := doJSON(t, newListMux(&stubListService{}), http.MethodPost, "/v1/lists", `{not json`)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	var got struct {
		Code string `json:"code"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "INVALID_ARGUMENT", got.Code)
}

func TestListHandler_GetList(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		svc := &stubListService{
			getListFn: func(_ context.Context, listID string) (*app.ListRecord, error) {
				assert.Equal(t, "list-1", listID)
				return sampleList(), nil
			},
		}
		rec := doJSON(t, newListMux(svc), http.MethodGet, "/v1/lists/list-1", "")
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("not found maps to 404", func(t *testing.T) {
		rec := doJSON(t, newListMux(&stubListService{}), http.MethodGet, "/v1/lists/list-9", "")
		require.Equal(t, http.StatusNotFound, rec.Code)

		var got struct {
			Code string `json:"code"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.Equal(t, "NOT_FOUND", got.Code)
	})
}

func TestListHandler_JoinList(t *testing.T) {
	svc := &stubListService{
		joinListFn: func(_ context.Context, code, userID string) (*app.ListRecord, error) {
			assert.Equal(t, "AB12C", code)
			assert.Equal(t, "u-2", userID)
			return sampleList(), nil
		},
	}
	rec := doJSON(t, newListMux(svc), http.MethodPost, "/v1/lists/join", `{"code":"AB12C","userID":"u-2"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestListHandler_UpdateList(t *testing.T) {
	svc := &stubListService{
		updateListFn: func(_ context.Context, listID, userID string, params app.UpdateListParams) (*app.ListRecord, error) {
			assert.Equal(t, "list-1", listID)
			assert.Equal(t, "u-1", userID)
			require.NotNil(t, params.Name)
			assert.Equal(t, "Renamed", *params.Name)
			assert.Nil(t, params.OwnerID)
			assert.True(t, params.RegenerateCode)
			return sampleList(), nil
		},
	}
	rec := doJSON(t, newListMux(svc), http.MethodPatch, "/v1/lists/list-1",
		`{"userID":"u-1","list_name":"Renamed","regenerate_code":true}`)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestListHandler_LeaveList(t *testing.T) {
	svc := &stubListService{
		leaveListFn: func(_ context.Context, listID, userID string) (*app.ListRecord, error) {
			assert.Equal(t, "list-1", listID)
			assert.Equal(t, "u-2", userID)
			return sampleList(), nil
		},
	}
	rec := doJSON(t, newListMux(svc), http.MethodPost, "/v1/lists/list-1/leave", `{"userID":"u-2"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestListHandler_AddItem(t *testing.T) {
	svc := &stubListService{
		addItemFn: func(_ context.Context, listID, name, userID string) (*app.ListRecord, error) {
			assert.Equal(t, "list-1", listID)
			assert.Equal(t, "Milk", name)
			assert.Equal(t, "u-1", userID)
			return sampleList(), nil
		},
	}
	rec := doJSON(t, newListMux(svc), http.MethodPost, "/v1/lists/list-1/items", `{"name":"Milk","userID":"u-1"}`)
	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestListHandler_RemoveItem(t *testing.T) {
	svc := &stubListService{
		removeItemFn: func(_ context.Context, listID, itemID, userID string) (*app.ListRecord, error) {
			assert.Equal(t, "list-1", listID)
			assert.Equal(t, "item-1", itemID)
			assert.Equal(t, "u-1", userID)
			return sampleList(), nil
		},
	}
	rec := doJSON(t, newListMux(svc), http.MethodDelete, "/v1/lists/list-1/items/item-1", `{"userID":"u-1"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestListHandler_ClaimAndPurchase(t *testing.T) {
	svc := &stubListService{
		claimItemFn: func(_ context.Context, listID, itemID, userID string, method domain.ClaimMethod) (*app.ListRecord, error) {
			assert.Equal(t, domain.ClaimMethodUnclaim, method)
			return sampleList(), nil
		},
		purchaseItemFn: func(_ context.Context, listID, itemID, userID string, method domain.PurchaseMethod) (*app.ListRecord, error) {
			assert.Equal(t, domain.PurchaseMethodPurchase, method)
			return sampleList(), nil
		},
	}
	mux := newListMux(svc)

	rec := doJSON(t, mux, http.MethodPost, "/v1/lists/list-1/items/item-1/claim", `{"userID":"u-1","method":"unclaim"}`)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, mux, http.MethodPost, "/v1/lists/list-1/items/item-1/purchase", `{"userID":"u-1","method":"purchase"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestListHandler_DeleteListEmptyBody(t *testing.T) {
	// Operations that only need path parameters accept an empty body.
	svc := &stubListService{
		deleteListFn: func(_ context.Context, listID, userID string) (*app.ListRecord, error) {
			assert.Equal(t, "list-1", listID)
			assert.Empty(t, userID)
			return sampleList(), nil
		},
	}
	rec := doJSON(t, newListMux(svc), http.MethodDelete, "/v1/lists/list-1", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}
