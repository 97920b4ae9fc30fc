package user

import (
	"context"
	"net/http"

	"github.com/frahmantamala/user-management/internal"
	"github.com/frahmantamala/user-management/internal/auth"
	"github.com/frahmantamala/user-management/internal/transport"
)

type ServiceAPI interface {
	Register(ctx context.Context, req RegisterRequest, caller *auth.Principal) (*User, error)
	Create(ctx context.Context, req RegisterRequest) (*User, error)
	Login(ctx context.Context, req LoginRequest) (*LoginResult, error)
	Show(ctx context.Context, userID int64) (*User, error)
	Logout(ctx context.Context, userID int64) error
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(baseHandler *transport.BaseHandler, svc ServiceAPI) *Handler {
	return &Handler{
		BaseHandler: baseHandler,
		Service:     svc,
	}
}

// Register handles POST /user/register
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := h.DecodeJSON(w, r, &req); err != nil {
		h.WriteAppError(w, r, err)
		return
	}

	caller, _ := auth.PrincipalFromContext(r.Context())

	u, err := h.Service.Register(r.Context(), req, caller)
	if err != nil {
		h.WriteAppError(w, r, err)
		return
	}

	h.WriteSuccess(w, "User registration successful", u.ToView())
}

// Create handles POST /user/create
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := h.DecodeJSON(w, r, &req); err != nil {
		h.WriteAppError(w, r, err)
		return
	}

	u, err := h.Service.Create(r.Context(), req)
	if err != nil {
		h.WriteAppError(w, r, err)
		return
	}

	h.WriteSuccess(w, "User created successfully", u.ToView())
}

// Login handles POST /user/login
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := h.DecodeJSON(w, r, &req); err != nil {
		h.WriteAppError(w, r, err)
		return
	}

	result, err := h.Service.Login(r.Context(), req)
	if err != nil {
		h.WriteAppError(w, r, err)
		return
	}

	h.WriteSuccess(w, "Login successful.", result)
}

// Info handles GET /user/info
func (h *Handler) Info(w http.ResponseWriter, r *http.Request) {
	caller, ok := auth.PrincipalFromContext(r.Context())
	if !ok {
		h.WriteAppError(w, r, internal.ErrUnauthenticated)
		return
	}

	u, err := h.Service.Show(r.Context(), caller.ID)
	if err != nil {
		h.WriteAppError(w, r, err)
		return
	}

	h.WriteSuccess(w, "Get info successful", InfoResponse{
		Info:        u.ToView(),
		Roles:       nonNil(u.Roles),
		Permissions: nonNil(u.Permissions),
	})
}

// Logout handles POST /user/logout
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	caller, ok := auth.PrincipalFromContext(r.Context())
	if !ok {
		h.WriteAppError(w, r, internal.ErrUnauthenticated)
		return
	}

	if err := h.Service.Logout(r.Context(), caller.ID); err != nil {
		h.WriteAppError(w, r, err)
		return
	}

	h.WriteSuccess(w, "Log out successful", nil)
}
