package httpx

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	domainauth "github.com/target/gatehouse/internal/domain/auth"
	"github.com/target/gatehouse/internal/domain/model"
	"github.com/target/gatehouse/internal/metrics"
	"github.com/target/gatehouse/internal/redirect"
	"github.com/target/gatehouse/internal/service"
)

// AuthServiceInterface is the part of service.AuthService the handlers use.
type AuthServiceInterface interface {
	BeginLogin(ctx context.Context, redirectURL string) (*service.BeginLoginResult, error)
	CompleteLogin(ctx context.Context, input service.CompleteLoginInput) (*service.CompleteLoginResult, error)
	GetSession(ctx context.Context, sessionID string) (*domainauth.Session, error)
	Logout(ctx context.Context, sessionID string) error
	CurrentUser(ctx context.Context, sess *domainauth.Session) (*model.User, error)
}

// AuthHandlers serves the login flow and session status endpoints.
type AuthHandlers struct {
	Svc          AuthServiceInterface
	CookieDomain string
	Metrics      *metrics.Metrics
	Logger       *slog.Logger
}

// callbackError is a rejected callback: an error code for the body plus the reason.
type callbackError struct {
	code string
	err  error
}

func (h *AuthHandlers) log() *slog.Logger {
	if h.Logger == nil {
		return slog.Default()
	}
	return h.Logger
}

func (h *AuthHandlers) redirects(r *http.Request) redirect.Manager {
	return redirect.NewManager(cookieAttrs(r, h.CookieDomain))
}

// Login starts a login and sends the browser to the IdP. A non-blank return_to
// is kept in REDIRECT_TO unvalidated; Callback checks it before using it.
//
// GET /auth/login?return_to=<path>
func (h *AuthHandlers) Login(w http.ResponseWriter, r *http.Request) {
	begin, err := h.Svc.BeginLogin(r.Context(), PathCallback)
	if err != nil {
		WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "login_failed", Err: err})
		return
	}

	ttl := int(oauthCookieTTL / time.Second)
	http.SetCookie(w, newCookie(r, h.CookieDomain, oauthStateCookieName, begin.State, ttl))
	http.SetCookie(w, newCookie(r, h.CookieDomain, oauthNonceCookieName, begin.Nonce, ttl))

	returnTo := r.URL.Query().Get(redirect.ReturnToParam)
	writes := h.redirects(r).Create(returnTo)
	for _, c := range writes {
		http.SetCookie(w, c)
		h.Metrics.RecordRedirectCookie(metrics.RedirectStored)
	}
	if len(writes) == 0 && strings.TrimSpace(returnTo) != "" {
		h.log().WarnContext(r.Context(), "return_to cannot be stored in a cookie; login will land on /",
			"return_to", strconv.Quote(returnTo))
	}

	http.Redirect(w, r, begin.AuthURL, http.StatusFound)
}

// Callback finishes the login the IdP redirected back from, sets the session
// cookie and sends the browser to its stored target or "/".
//
// GET /auth/callback?code=<code>&state=<state>
func (h *AuthHandlers) Callback(w http.ResponseWriter, r *http.Request) {
	in, cbErr := readCallback(r)
	if cbErr != nil {
		h.abandonLogin(w, r)
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: cbErr.code, Err: cbErr.err})
		return
	}

	done, err := h.Svc.CompleteLogin(r.Context(), in)
	if err != nil {
		h.log().WarnContext(r.Context(), "login completion failed", "error", err)
		h.abandonLogin(w, r)
		WriteError(w, ErrorParams{
			Code:    http.StatusInternalServerError,
			ErrCode: "login_completion_failed",
			Err:     errors.New("login could not be completed"),
		})
		return
	}

	maxAge := int(time.Until(done.Session.ExpiresAt) / time.Second)
	http.SetCookie(w, newCookie(r, h.CookieDomain, SessionCookieName, done.Session.ID, maxAge))
	h.clearOAuthCookies(w, r)
	http.Redirect(w, r, h.takeRedirect(w, r), http.StatusFound)
}

// readCallback checks the callback query against the cookies Login set.
func readCallback(r *http.Request) (service.CompleteLoginInput, *callbackError) {
	q := r.URL.Query()
	in := service.CompleteLoginInput{Code: q.Get("code"), State: q.Get("state")}
	switch {
	case in.Code == "":
		return in, &callbackError{"missing_code", errors.New("authorization code is required")}
	case in.State == "":
		return in, &callbackError{"missing_state", errors.New("state parameter is required")}
	}
	if c, err := r.Cookie(oauthStateCookieName); err != nil || c.Value != in.State {
		return in, &callbackError{"invalid_state", errors.New("invalid or missing state parameter")}
	}
	c, err := r.Cookie(oauthNonceCookieName)
	if err != nil || c.Value == "" {
		return in, &callbackError{"missing_nonce", errors.New("missing nonce parameter")}
	}
	in.Nonce = c.Value
	return in, nil
}

// takeRedirect consumes REDIRECT_TO. Only a same-origin path survives; anything
// else, or no cookie at all, yields "/".
func (h *AuthHandlers) takeRedirect(w http.ResponseWriter, r *http.Request) string {
	target, ok, writes := h.redirects(r).GetAndDelete(r.Cookies())
	if len(writes) == 0 {
		return "/"
	}
	for _, c := range writes {
		http.SetCookie(w, c)
	}

	if ok && safeRedirectPath(target) == target {
		h.Metrics.RecordRedirectCookie(metrics.RedirectConsumed)
		return target
	}
	if ok {
		h.log().WarnContext(r.Context(), "discarding unsafe post-login redirect", "redirect_to", target)
	}
	h.Metrics.RecordRedirectCookie(metrics.RedirectDiscarded)
	return "/"
}

// abandonLogin drops everything a started login left behind.
func (h *AuthHandlers) abandonLogin(w http.ResponseWriter, r *http.Request) {
	h.clearOAuthCookies(w, r)
	h.clearRedirect(w, r)
}

func (h *AuthHandlers) clearOAuthCookies(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, expiredCookie(r, h.CookieDomain, oauthStateCookieName))
	http.SetCookie(w, expiredCookie(r, h.CookieDomain, oauthNonceCookieName))
}

// clearRedirect always writes the delete cookie. It counts a discard only when
// the request actually carried one.
func (h *AuthHandlers) clearRedirect(w http.ResponseWriter, r *http.Request) {
	if _, err := r.Cookie(redirect.CookieName); err == nil {
		h.Metrics.RecordRedirectCookie(metrics.RedirectDiscarded)
	}
	for _, c := range h.redirects(r).Delete() {
		http.SetCookie(w, c)
	}
}

// Logout ends the session and clears the session and redirect cookies. A store
// failure is logged; the browser is signed out regardless.
//
// POST /auth/logout
func (h *AuthHandlers) Logout(w http.ResponseWriter, r *http.Request) {
	if c, err := r.Cookie(SessionCookieName); err == nil {
		if err = h.Svc.Logout(r.Context(), c.Value); err != nil {
			h.log().WarnContext(r.Context(), "logout failed", "error", err)
		}
	}
	http.SetCookie(w, expiredCookie(r, h.CookieDomain, SessionCookieName))
	h.clearRedirect(w, r)

	if !wantsJSON(r) {
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"status": "success", "redirect_to": "/"})
}

type statusUser struct {
	ID        string          `json:"id"`
	FirstName string          `json:"first_name"`
	LastName  string          `json:"last_name"`
	Email     string          `json:"email"`
	Role      domainauth.Role `json:"role"`
	Root      bool            `json:"root"`
}

type authStatus struct {
	Authenticated bool        `json:"authenticated"`
	User          *statusUser `json:"user,omitempty"`
	ExpiresAt     *time.Time  `json:"expires_at,omitempty"`
}

// Status reports who the session cookie belongs to. A stale cookie is cleared.
//
// GET /auth/status
func (h *AuthHandlers) Status(w http.ResponseWriter, r *http.Request) {
	c, err := r.Cookie(SessionCookieName)
	if err != nil {
		WriteJSON(w, http.StatusOK, authStatus{})
		return
	}
	sess, err := h.Svc.GetSession(r.Context(), c.Value)
	if err != nil {
		http.SetCookie(w, expiredCookie(r, h.CookieDomain, SessionCookieName))
		WriteJSON(w, http.StatusOK, authStatus{})
		return
	}

	user := &statusUser{
		ID:        sess.UserID,
		FirstName: sess.FirstName,
		LastName:  sess.LastName,
		Email:     sess.Email,
		Role:      sess.Role,
	}
	if u, userErr := h.Svc.CurrentUser(r.Context(), sess); userErr == nil {
		user.Root = u.IsRoot && u.Active
	}
	WriteJSON(w, http.StatusOK, authStatus{Authenticated: true, User: user, ExpiresAt: &sess.ExpiresAt})
}
