package port

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/aelexs/listshare-platform/internal/domain"
	"github.com/aelexs/listshare-platform/internal/errmap"
	"github.com/aelexs/listshare-platform/internal/listmgmt/app"
	"github.com/aelexs/listshare-platform/internal/observability"
)

// listService is a narrow, consumer-defined interface for the list
// operations the handler requires. The *app.Service satisfies this.
type listService interface {
	CreateList(ctx context.Context, name, userID string) (*app.ListRecord, error)
	JoinList(ctx context.Context, code, userID string) (*app.ListRecord, error)
	LeaveList(ctx context.Context, listID, userID string) (*app.ListRecord, error)
	UpdateList(ctx context.Context, listID, userID string, params app.UpdateListParams) (*app.ListRecord, error)
	DeleteList(ctx context.Context, listID, userID string) (*app.ListRecord, error)
	GetList(ctx context.Context, listID string) (*app.ListRecord, error)
	AddItem(ctx context.Context, listID, name, userID string) (*app.ListRecord, error)
	RemoveItem(ctx context.Context, listID, itemID, userID string) (*app.ListRecord, error)
	ClaimItem(ctx context.Context, listID, itemID, userID string, method domain.ClaimMethod) (*app.ListRecord, error)
	PurchaseItem(ctx context.Context, listID, itemID, userID string, method domain.PurchaseMethod) (*app.ListRecord, error)
}

// ListHandler serves the list and item HTTP JSON endpoints.
type ListHandler struct {
	svc    listService
	logger *slog.Logger
}

// NewListHandler creates a ListHandler backed by the given service.
func NewListHandler(svc listService, logger *slog.Logger) *ListHandler {
	return &ListHandler{svc: svc, logger: logger}
}

// Mount registers the list routes on the mux.
func (h *ListHandler) Mount(mux *http.ServeMux) {
	mux.HandleFunc("POST /v1/lists", h.createList)
	mux.HandleFunc("POST /v1/lists/join", h.joinList)
	mux.HandleFunc("GET /v1/lists/{listID}", h.getList)
	mux.HandleFunc("PATCH /v1/lists/{listID}", h.updateList)
	mux.HandleFunc("DELETE /v1/lists/{listID}", h.deleteList)
	mux.HandleFunc("POST /v1/lists/{listID}/leave", h.leaveList)
	mux.HandleFunc("POST /v1/lists/{listID}/items", h.addItem)
	mux.HandleFunc("DELETE /v1/lists/{listID}/items/{itemID}", h.removeItem)
	mux.HandleFunc("POST /v1/lists/{listID}/items/{itemID}/claim", h.claimItem)
	mux.HandleFunc("POST /v1/lists/{listID}/items/{itemID}/purchase", h.purchaseItem)
}

func (h *ListHandler) createList(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ListName string `json:"list_name"`
		UserID   string `json:"userID"`
	}
	if !h.decode(w, r, &req) {
		return
	}

	list, err := h.svc.CreateList(r.Context(), req.ListName, req.UserID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusCreated, list)
}

func (h *ListHandler) joinList(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Code   string `json:"code"`
		UserID string `json:"userID"`
	}
	if !h.decode(w, r, &req) {
		return
	}

	list, err := h.svc.JoinList(r.Context(), req.Code, req.UserID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusOK, list)
}

func (h *ListHandler) getList(w http.ResponseWriter, r *http.Request) {
	list, err := h.svc.GetList(r.Context(), r.PathValue("listID"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusOK, list)
}

func (h *ListHandler) updateList(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID         string  `json:"userID"`
		Name           *string `json:"list_name"`
		OwnerID        *string `json:"owner"`
		RegenerateCode bool    `json:"regenerate_code"`
	}
	if !h.decode(w, r, &req) {
		return
	}

	list, err := h.svc.UpdateList(r.Context(), r.PathValue("listID"), req.UserID, app.UpdateListParams{
		Name:           req.Name,
		OwnerID:        req.OwnerID,
		RegenerateCode: req.RegenerateCode,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusOK, list)
}

func (h *ListHandler) deleteList(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID string `json:"userID"`
	}
	if !h.decode(w, r, &req) {
		return
	}

	list, err := h.svc.DeleteList(r.Context(), r.PathValue("listID"), req.UserID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusOK, list)
}

func (h *ListHandler) leaveList(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID string `json:"userID"`
	}
	if !h.decode(w, r, &req) {
		return
	}

	list, err := h.svc.LeaveList(r.Context(), r.PathValue("listID"), req.UserID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusOK, list)
}

func (h *ListHandler) addItem(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name   string `json:"name"`
		UserID string `json:"userID"`
	}
	if !h.decode(w, r, &req) {
		return
	}

	list, err := h.svc.AddItem(r.Context(), r.PathValue("listID"), req.Name, req.UserID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusCreated, list)
}

func (h *ListHandler) removeItem(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID string `json:"userID"`
	}
	if !h.decode(w, r, &req) {
		return
	}

	list, err := h.svc.RemoveItem(r.Context(), r.PathValue("listID"), r.PathValue("itemID"), req.UserID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusOK, list)
}

func (h *ListHandler) claimItem(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID string `json:"userID"`
		Method string `json:"method"`
	}
	if !h.decode(w, r, &req) {
		return
	}

	list, err := h.svc.ClaimItem(r.Context(), r.PathValue("listID"), r.PathValue("itemID"), req.UserID, domain.ClaimMethod(req.Method))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusOK, list)
}

func (h *ListHandler) purchaseItem(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID string `json:"userID"`
		Method string `json:"method"`
	}
	if !h.decode(w, r, &req) {
		return
	}

	list, err := h.svc.PurchaseItem(r.Context(), r.PathValue("listID"), r.PathValue("itemID"), req.UserID, domain.PurchaseMethod(req.Method))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusOK, list)
}

func (h *ListHandler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	return decodeJSON(w, r, h.logger, dst)
}

func (h *ListHandler) writeJSON(w http.ResponseWriter, r *http.Request, status int, body any) {
	writeJSON(w, r, h.logger, status, body)
}

func (h *ListHandler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	writeError(w, r, h.logger, err)
}

// decodeJSON reads a JSON request body into dst. A malformed body is a
// client error; the handler stops when decodeJSON returns false.
func decodeJSON(w http.ResponseWriter, r *http.Request, logger *slog.Logger, dst any) bool {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, 1<<20))
	if err != nil {
		writeError(w, r, logger, errors.Join(domain.ErrInvalidInput, err))
		return false
	}
	if len(body) == 0 {
		// Operations that only need path parameters accept an empty body.
		return true
	}
	if err := json.Unmarshal(body, dst); err != nil {
		writeError(w, r, logger, errors.Join(domain.ErrInvalidInput, err))
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, r *http.Request, logger *slog.Logger, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		observability.WithTraceID(r.Context(), logger).WarnContext(r.Context(), "http.write_response_failed",
			"error", err,
		)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	httpErr := errmap.ToHTTPError(err)
	if httpErr.StatusCode >= http.StatusInternalServerError {
		observability.WithTraceID(r.Context(), logger).ErrorContext(r.Context(), "http.request_failed",
			"path", r.URL.Path,
			"error", err,
		)
	}
	writeJSON(w, r, logger, httpErr.StatusCode, httpErr)
}
