package httpx

import (
	"context"
	"log/slog"
	"net/http"

	domainauth "github.com/target/gatehouse/internal/domain/auth"
	"github.com/target/gatehouse/internal/domain/model"
)

// RootServiceInterface is the slice of service.RootService the handlers need.
type RootServiceInterface interface {
	UnsetRoot(ctx context.Context, caller *domainauth.Session, login string) error
	SetRoot(ctx context.Context, caller *domainauth.Session, login string) error
	SearchRoots(ctx context.Context, caller *domainauth.Session) ([]*model.User, error)
}

// RootHandlers serves the root administration endpoints.
type RootHandlers struct {
	Svc    RootServiceInterface
	Logger *slog.Logger
}

// rootView is the public shape of a root user.
type rootView struct {
	Login string `json:"login"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// UnsetRoot revokes root from the user named by the login parameter.
// POST /api/roots/unset_root.
func (h *RootHandlers) UnsetRoot(w http.ResponseWriter, r *http.Request) {
	caller := SessionFromContext(r.Context())
	if err := h.Svc.UnsetRoot(r.Context(), caller, requestParam(r, "login")); err != nil {
		WriteAppError(w, r, h.Logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SetRoot grants root to the user named by the login parameter.
// POST /api/roots/set_root.
func (h *RootHandlers) SetRoot(w http.ResponseWriter, r *http.Request) {
	caller := SessionFromContext(r.Context())
	if err := h.Svc.SetRoot(r.Context(), caller, requestParam(r, "login")); err != nil {
		WriteAppError(w, r, h.Logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Search lists the active roots.
// GET /api/roots/search.
func (h *RootHandlers) Search(w http.ResponseWriter, r *http.Request) {
	roots, err := h.Svc.SearchRoots(r.Context(), SessionFromContext(r.Context()))
	if err != nil {
		WriteAppError(w, r, h.Logger, err)
		return
	}
	out := make([]rootView, 0, len(roots))
	for _, u := range roots {
		out = append(out, rootView{Login: u.Login, Name: u.Name, Email: u.Email})
	}
	WriteJSON(w, http.StatusOK, map[string]any{"roots": out})
}
