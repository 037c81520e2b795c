package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/target/gatehouse/internal/data"
	domainauth "github.com/target/gatehouse/internal/domain/auth"
	"github.com/target/gatehouse/internal/domain/model"
	"github.com/target/gatehouse/internal/ports"
)

// AuthServiceOptions groups dependencies for AuthService.
type AuthServiceOptions struct {
	Provider ports.AuthProvider
	Sessions ports.SessionStore
	Roles    ports.RoleMapper
	Users    ports.UserRepository // Optional: when set, every login is recorded as a user
	Logger   *slog.Logger         // Optional
	Now      func() time.Time     // Optional: defaults to time.Now
}

// AuthService runs the login flow: provider exchange, user bookkeeping, role mapping
// and the server-side session that backs the session cookie.
type AuthService struct {
	provider ports.AuthProvider
	sessions ports.SessionStore
	roles    ports.RoleMapper
	users    ports.UserRepository
	logger   *slog.Logger
	now      func() time.Time
}

var errSessionExpired = errors.New("session expired")

func NewAuthService(opts AuthServiceOptions) *AuthService {
	s := &AuthService{
		provider: opts.Provider,
		sessions: opts.Sessions,
		roles:    opts.Roles,
		users:    opts.Users,
		logger:   opts.Logger,
		now:      opts.Now,
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

// BeginLoginResult is what the login handler needs to send the browser to the IdP.
type BeginLoginResult struct {
	AuthURL string
	State   string
	Nonce   string
}

// BeginLogin asks the provider for an authorization URL plus the state and nonce
// the callback must echo back.
func (s *AuthService) BeginLogin(ctx context.Context, redirectURL string) (*BeginLoginResult, error) {
	if redirectURL == "" {
		return nil, errors.New("redirect URL is required")
	}
	authURL, state, nonce, err := s.provider.Begin(ctx, ports.BeginInput{RedirectURL: redirectURL})
	if err != nil {
		return nil, fmt.Errorf("begin auth flow: %w", err)
	}
	return &BeginLoginResult{AuthURL: authURL, State: state, Nonce: nonce}, nil
}

// CompleteLoginInput is the callback's query plus the nonce kept in its cookie.
type CompleteLoginInput struct {
	Code  string
	State string
	Nonce string
}

func (in CompleteLoginInput) validate() error {
	switch {
	case in.Code == "":
		return errors.New("authorization code is required")
	case in.State == "":
		return errors.New("state parameter is required")
	case in.Nonce == "":
		return errors.New("nonce parameter is required")
	}
	return nil
}

type CompleteLoginResult struct {
	Session domainauth.Session
	// User is the stored user record; nil when no UserRepository is configured.
	User *model.User
}

// CompleteLogin exchanges the code for an identity, records the user and saves a
// session. Nothing is saved when any step fails.
func (s *AuthService) CompleteLogin(ctx context.Context, in CompleteLoginInput) (*CompleteLoginResult, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	identity, err := s.provider.Exchange(ctx, ports.ExchangeInput(in))
	if err != nil {
		return nil, fmt.Errorf("exchange authorization code: %w", err)
	}

	user, err := s.recordUser(ctx, identity)
	if err != nil {
		return nil, err
	}

	session := domainauth.Session{
		ID:        uuid.NewString(),
		UserID:    identity.UserID,
		FirstName: identity.FirstName,
		LastName:  identity.LastName,
		Email:     identity.Email,
		Role:      s.roles.Map(identity.Groups),
		ExpiresAt: identity.ExpiresAt,
	}
	if err = s.sessions.Save(ctx, session); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}

	s.logger.InfoContext(ctx, "user signed in",
		slog.String("login", session.Login()),
		slog.String("role", string(session.Role)),
		slog.Time("expires_at", session.ExpiresAt),
	)
	return &CompleteLoginResult{Session: session, User: user}, nil
}

// recordUser upserts the signed-in user. The very first user becomes root.
func (s *AuthService) recordUser(ctx context.Context, id domainauth.Identity) (*model.User, error) {
	if s.users == nil {
		return nil, nil
	}
	res, err := s.users.Upsert(ctx, model.UpsertUserRequest{
		Login: id.UserID,
		Name:  id.DisplayName(),
		Email: id.Email,
	})
	if err != nil {
		return nil, fmt.Errorf("record user: %w", err)
	}
	if res.Created && res.User.IsRoot {
		s.logger.WarnContext(ctx, "first user granted root", slog.String("login", res.User.Login))
	}
	return &res.User, nil
}

// GetSession loads a live session. An expired one is deleted on sight.
func (s *AuthService) GetSession(ctx context.Context, sessionID string) (*domainauth.Session, error) {
	if sessionID == "" {
		return nil, errors.New("session ID is required")
	}

	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	if s.now().Before(session.ExpiresAt) {
		return &session, nil
	}

	if err = s.sessions.Delete(ctx, sessionID); err != nil {
		return nil, errors.Join(errSessionExpired, fmt.Errorf("delete session: %w", err))
	}
	return nil, errSessionExpired
}

// Logout deletes the session. An empty ID is a no-op.
func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	if err := s.sessions.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// CurrentUser returns the stored user behind sess, or data.ErrUserNotFound when
// users are not tracked or this one was never recorded.
func (s *AuthService) CurrentUser(ctx context.Context, sess *domainauth.Session) (*model.User, error) {
	if s.users == nil || sess == nil {
		return nil, data.ErrUserNotFound
	}
	return s.users.GetByLogin(ctx, sess.Login())
}
