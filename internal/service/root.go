package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/target/gatehouse/internal/data"
	domainauth "github.com/target/gatehouse/internal/domain/auth"
	"github.com/target/gatehouse/internal/domain/model"
	apperrors "github.com/target/gatehouse/internal/errors"
	"github.com/target/gatehouse/internal/metrics"
	"github.com/target/gatehouse/internal/ports"
)

// Messages returned to clients by RootService.
const (
	MsgLoginRequired    = "login is required"
	MsgLastRoot         = "Last root can't be unset"
	MsgNotAuthenticated = "authentication required"
	MsgRootRequired     = "root privilege required"
)

// RootServiceOptions groups dependencies for RootService.
type RootServiceOptions struct {
	Users   ports.UserRepository // Required
	Metrics *metrics.Metrics     // Optional
	Logger  *slog.Logger         // Optional
}

// RootService administers the root flag of users. Every mutation keeps at least one active root user.
type RootService struct {
	users   ports.UserRepository
	metrics *metrics.Metrics
	logger  *slog.Logger
}

// NewRootService constructs a new RootService.
func NewRootService(opts RootServiceOptions) (*RootService, error) {
	if opts.Users == nil {
		return nil, errors.New("UserRepository is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &RootService{
		users:   opts.Users,
		metrics: opts.Metrics,
		logger:  logger.With("component", "root_service"),
	}, nil
}

// CheckIsRoot returns the caller's current user record if it is an active root user.
// The flag is read from the store, not the session, so a demotion takes effect on the next request.
func (s *RootService) CheckIsRoot(ctx context.Context, caller *domainauth.Session) (*model.User, error) {
	if caller == nil || caller.Login() == "" {
		return nil, apperrors.Unauthorized(MsgNotAuthenticated)
	}
	u, err := s.users.GetByLogin(ctx, caller.Login())
	if errors.Is(err, data.ErrUserNotFound) {
		return nil, apperrors.Forbidden(MsgRootRequired)
	}
	if err != nil {
		return nil, fmt.Errorf("load caller: %w", apperrors.MapDBError(err))
	}
	if !u.IsRoot || !u.Active {
		return nil, apperrors.Forbidden(MsgRootRequired)
	}
	return u, nil
}

// UnsetRoot revokes the root flag of login. It fails with a validation error, and changes nothing,
// when no other active root user would remain. An unknown or non-root login is a no-op.
func (s *RootService) UnsetRoot(ctx context.Context, caller *domainauth.Session, login string) error {
	if _, err := s.CheckIsRoot(ctx, caller); err != nil {
		return err
	}
	return s.unsetRoot(ctx, caller.Login(), login)
}

// UnsetRootAsOperator is UnsetRoot for operator tooling that has no session. actor is logged.
func (s *RootService) UnsetRootAsOperator(ctx context.Context, actor, login string) error {
	return s.unsetRoot(ctx, actor, login)
}

func (s *RootService) unsetRoot(ctx context.Context, actor, login string) error {
	login = strings.TrimSpace(login)
	if login == "" {
		return apperrors.ValidationField("login", MsgLoginRequired)
	}

	err := s.users.UnsetRootUnlessLast(ctx, login)
	if errors.Is(err, data.ErrLastRoot) {
		s.metrics.RecordDemotionRejected()
		s.logger.WarnContext(ctx, "refused to unset last root", "caller", actor, "login", login)
		return apperrors.Validation(MsgLastRoot)
	}
	if err != nil {
		return fmt.Errorf("unset root: %w", apperrors.MapDBError(err))
	}

	s.metrics.RecordRootFlagChange(metrics.ActionUnset)
	s.logger.InfoContext(ctx, "root flag unset", "caller", actor, "login", login)
	return nil
}

// SetRoot grants the root flag to an existing active user.
func (s *RootService) SetRoot(ctx context.Context, caller *domainauth.Session, login string) error {
	if _, err := s.CheckIsRoot(ctx, caller); err != nil {
		return err
	}
	return s.setRoot(ctx, caller.Login(), login)
}

// SetRootAsOperator is SetRoot for operator tooling that has no session. actor is logged.
func (s *RootService) SetRootAsOperator(ctx context.Context, actor, login string) error {
	return s.setRoot(ctx, actor, login)
}

func (s *RootService) setRoot(ctx context.Context, actor, login string) error {
	login = strings.TrimSpace(login)
	if login == "" {
		return apperrors.ValidationField("login", MsgLoginRequired)
	}

	err := s.users.SetRoot(ctx, login)
	if errors.Is(err, data.ErrUserNotFound) {
		return apperrors.NotFoundf("User with login '%s' not found", login)
	}
	if err != nil {
		return fmt.Errorf("set root: %w", apperrors.MapDBError(err))
	}

	s.metrics.RecordRootFlagChange(metrics.ActionSet)
	s.logger.InfoContext(ctx, "root flag set", "caller", actor, "login", login)
	return nil
}

// SearchRoots lists active root users ordered by login.
func (s *RootService) SearchRoots(ctx context.Context, caller *domainauth.Session) ([]*model.User, error) {
	if _, err := s.CheckIsRoot(ctx, caller); err != nil {
		return nil, err
	}
	roots, err := s.users.ListRoots(ctx)
	if err != nil {
		return nil, fmt.Errorf("list roots: %w", apperrors.MapDBError(err))
	}
	return roots, nil
}
