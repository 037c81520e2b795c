package httpx

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	domainauth "github.com/target/gatehouse/internal/domain/auth"
	"github.com/target/gatehouse/internal/domain/model"
)

// UserTokenServiceInterface is the slice of service.UserTokenService the handlers need.
type UserTokenServiceInterface interface {
	Generate(ctx context.Context, caller *domainauth.Session, name string) (*model.GeneratedUserToken, error)
	Revoke(ctx context.Context, caller *domainauth.Session, name string) error
	Search(ctx context.Context, caller *domainauth.Session) ([]*model.UserToken, error)
}

// UserTokenHandlers serves the caller's own user tokens.
type UserTokenHandlers struct {
	Svc    UserTokenServiceInterface
	Logger *slog.Logger
}

type userTokenView struct {
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

// Generate creates a named token and returns the raw value once.
// POST /api/user_tokens/generate.
func (h *UserTokenHandlers) Generate(w http.ResponseWriter, r *http.Request) {
	tok, err := h.Svc.Generate(r.Context(), SessionFromContext(r.Context()), requestParam(r, "name"))
	if err != nil {
		WriteAppError(w, r, h.Logger, err)
		return
	}
	WriteJSON(w, http.StatusOK, tok)
}

// Revoke deletes a token by name.
// POST /api/user_tokens/revoke.
func (h *UserTokenHandlers) Revoke(w http.ResponseWriter, r *http.Request) {
	if err := h.Svc.Revoke(r.Context(), SessionFromContext(r.Context()), requestParam(r, "name")); err != nil {
		WriteAppError(w, r, h.Logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Search lists the caller's tokens without their secrets.
// GET /api/user_tokens/search.
func (h *UserTokenHandlers) Search(w http.ResponseWriter, r *http.Request) {
	caller := SessionFromContext(r.Context())
	tokens, err := h.Svc.Search(r.Context(), caller)
	if err != nil {
		WriteAppError(w, r, h.Logger, err)
		return
	}
	out := make([]userTokenView, 0, len(tokens))
	for _, t := range tokens {
		out = append(out, userTokenView{Name: t.Name, CreatedAt: t.CreatedAt})
	}
	WriteJSON(w, http.StatusOK, map[string]any{"login": caller.Login(), "userTokens": out})
}
