package ports

import (
	"context"

	"github.com/target/gatehouse/internal/domain/model"
)

// UserRepository persists users and their root flag.
type UserRepository interface {
	// GetByLogin returns the user with the given login or data.ErrUserNotFound.
	GetByLogin(ctx context.Context, login string) (*model.User, error)
	// Upsert creates or refreshes a user from a completed login. The first user ever created is root.
	Upsert(ctx context.Context, req model.UpsertUserRequest) (*model.UpsertUserResult, error)
	// ListRoots returns active root users ordered by login.
	ListRoots(ctx context.Context) ([]*model.User, error)
	// SetRoot grants the root flag to an active user.
	SetRoot(ctx context.Context, login string) error
	// UnsetRootUnlessLast revokes the root flag from login unless no other active root would remain,
	// in which case it returns data.ErrLastRoot and changes nothing. The check and the write are atomic.
	UnsetRootUnlessLast(ctx context.Context, login string) error
}

// UserTokenRepository persists hashed user tokens.
type UserTokenRepository interface {
	Create(ctx context.Context, token *model.UserToken) error
	DeleteByName(ctx context.Context, login, name string) (bool, error)
	ListByLogin(ctx context.Context, login string) ([]*model.UserToken, error)
}
