package port

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/aelexs/listshare-platform/internal/listmgmt/app"
)

// userService is a narrow, consumer-defined interface for the account
// operations the handler requires. The *app.Service satisfies this.
type userService interface {
	Register(ctx context.Context, email, password, confirmPassword, screenName string) (*app.UserRecord, error)
	Login(ctx context.Context, email, password string) (*app.LoginResult, error)
	CreateTempUser(ctx context.Context, screenName string) (*app.UserRecord, error)
	DeleteUser(ctx context.Context, userID string) (*app.UserRecord, error)
	GetUser(ctx context.Context, userID string) (*app.UserRecord, error)
	GetUserLists(ctx context.Context, userID string) ([]app.MembershipRef, error)
}

// UserHandler serves the account HTTP JSON endpoints.
type UserHandler struct {
	svc    userService
	logger *slog.Logger
}

// NewUserHandler creates a UserHandler backed by the given service.
func NewUserHandler(svc userService, logger *slog.Logger) *UserHandler {
	return &UserHandler{svc: svc, logger: logger}
}

// Mount registers the account routes on the mux.
func (h *UserHandler) Mount(mux *http.ServeMux) {
	mux.HandleFunc("POST /v1/users", h.register)
	mux.HandleFunc("POST /v1/users/temp", h.createTempUser)
	mux.HandleFunc("POST /v1/login", h.login)
	mux.HandleFunc("GET /v1/users/{userID}", h.getUser)
	mux.HandleFunc("GET /v1/users/{userID}/lists", h.getUserLists)
	mux.HandleFunc("DELETE /v1/users/{userID}", h.deleteUser)
}

func (h *UserHandler) register(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email           string `json:"email"`
		Password        string `json:"password"`
		ConfirmPassword string `json:"confirm_password"`
		ScreenName      string `json:"screen_name"`
	}
	if !decodeJSON(w, r, h.logger, &req) {
		return
	}

	user, err := h.svc.Register(r.Context(), req.Email, req.Password, req.ConfirmPassword, req.ScreenName)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, r, h.logger, http.StatusCreated, user)
}

func (h *UserHandler) createTempUser(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ScreenName string `json:"screen_name"`
	}
	if !decodeJSON(w, r, h.logger, &req) {
		return
	}

	user, err := h.svc.CreateTempUser(r.Context(), req.ScreenName)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, r, h.logger, http.StatusCreated, user)
}

func (h *UserHandler) login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if !decodeJSON(w, r, h.logger, &req) {
		return
	}

	result, err := h.svc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, r, h.logger, http.StatusOK, struct {
		User      *app.UserRecord `json:"user"`
		Token     string          `json:"token"`
		ExpiresAt string          `json:"expires_at"`
	}{
		User:      result.User,
		Token:     result.Token,
		ExpiresAt: result.ExpiresAt.UTC().Format(time.RFC3339),
	})
}

func (h *UserHandler) getUser(w http.ResponseWriter, r *http.Request) {
	user, err := h.svc.GetUser(r.Context(), r.PathValue("userID"))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, r, h.logger, http.StatusOK, user)
}

func (h *UserHandler) getUserLists(w http.ResponseWriter, r *http.Request) {
	lists, err := h.svc.GetUserLists(r.Context(), r.PathValue("userID"))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, r, h.logger, http.StatusOK, lists)
}

func (h *UserHandler) deleteUser(w http.ResponseWriter, r *http.Request) {
	user, err := h.svc.DeleteUser(r.Context(), r.PathValue("userID"))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, r, h.logger, http.StatusOK, user)
}
