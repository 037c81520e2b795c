package service

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/target/gatehouse/internal/data"
	domainauth "github.com/target/gatehouse/internal/domain/auth"
	"github.com/target/gatehouse/internal/domain/model"
	apperrors "github.com/target/gatehouse/internal/errors"
	"github.com/target/gatehouse/internal/ports"
)

// tokenBytes yields 40 hex characters.
const tokenBytes = 20

// UserTokenServiceOptions groups dependencies for UserTokenService.
type UserTokenServiceOptions struct {
	Tokens ports.UserTokenRepository // Required
	Logger *slog.Logger              // Optional
	Rand   io.Reader                 // Optional: defaults to crypto/rand
}

// UserTokenService lets authenticated users manage their own named tokens.
type UserTokenService struct {
	tokens ports.UserTokenRepository
	logger *slog.Logger
	rand   io.Reader
}

// NewUserTokenService constructs a new UserTokenService.
func NewUserTokenService(opts UserTokenServiceOptions) (*UserTokenService, error) {
	if opts.Tokens == nil {
		return nil, errors.New("UserTokenRepository is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	r := opts.Rand
	if r == nil {
		r = rand.Reader
	}
	return &UserTokenService{
		tokens: opts.Tokens,
		logger: logger.With("component", "user_token_service"),
		rand:   r,
	}, nil
}

// HashToken returns the hex sha256 digest stored in place of a raw token.
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// Generate creates a token named name for the caller. The raw token is only ever returned here.
func (s *UserTokenService) Generate(
	ctx context.Context,
	caller *domainauth.Session,
	name string,
) (*model.GeneratedUserToken, error) {
	login, name, err := tokenTarget(caller, name)
	if err != nil {
		return nil, err
	}

	buf := make([]byte, tokenBytes)
	if _, err = io.ReadFull(s.rand, buf); err != nil {
		return nil, fmt.Errorf("generate token: %w", err)
	}
	raw := hex.EncodeToString(buf)

	err = s.tokens.Create(ctx, &model.UserToken{Login: login, Name: name, TokenHash: HashToken(raw)})
	if errors.Is(err, data.ErrUserTokenExists) {
		return nil, apperrors.Conflictf("A user token with name '%s' already exists", name)
	}
	if err != nil {
		return nil, fmt.Errorf("create user token: %w", apperrors.MapDBError(err))
	}

	s.logger.InfoContext(ctx, "user token generated", "login", login, "name", name)
	return &model.GeneratedUserToken{Login: login, Name: name, Token: raw}, nil
}

// Revoke deletes the caller's token named name. Revoking an unknown name succeeds.
func (s *UserTokenService) Revoke(ctx context.Context, caller *domainauth.Session, name string) error {
	login, name, err := tokenTarget(caller, name)
	if err != nil {
		return err
	}
	deleted, err := s.tokens.DeleteByName(ctx, login, name)
	if err != nil {
		return fmt.Errorf("revoke user token: %w", apperrors.MapDBError(err))
	}
	if deleted {
		s.logger.InfoContext(ctx, "user token revoked", "login", login, "name", name)
	}
	return nil
}

// Search lists the caller's tokens.
func (s *UserTokenService) Search(ctx context.Context, caller *domainauth.Session) ([]*model.UserToken, error) {
	if caller == nil || caller.Login() == "" {
		return nil, apperrors.Unauthorized(MsgNotAuthenticated)
	}
	out, err := s.tokens.ListByLogin(ctx, caller.Login())
	if err != nil {
		return nil, fmt.Errorf("list user tokens: %w", apperrors.MapDBError(err))
	}
	return out, nil
}

func tokenTarget(caller *domainauth.Session, name string) (string, string, error) {
	if caller == nil || caller.Login() == "" {
		return "", "", apperrors.Unauthorized(MsgNotAuthenticated)
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return "", "", apperrors.ValidationField("name", "name is required")
	}
	return caller.Login(), name, nil
}
