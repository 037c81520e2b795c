package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/target/gatehouse/internal/domain/model"
)

// UserTokenRepo provides database operations for user tokens.
type UserTokenRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewUserTokenRepo creates a new UserTokenRepo with real time provider.
func NewUserTokenRepo(db *sql.DB) *UserTokenRepo {
	return &UserTokenRepo{DB: db, timeProvider: RealTimeProvider{}}
}

// Create inserts token and fills in its ID and CreatedAt.
func (r *UserTokenRepo) Create(ctx context.Context, token *model.UserToken) error {
	if token == nil {
		return errors.New("user token is required")
	}
	createdAt := r.timeProvider.Now().UTC()
	err := withConn(ctx, r.DB, func(conn *pgx.Conn) error {
		return conn.QueryRow(ctx, `
			INSERT INTO user_tokens (login, name, token_hash, created_at)
			VALUES ($1, $2, $3, $4)
			RETURNING id, created_at`,
			token.Login, token.Name, token.TokenHash, createdAt,
		).Scan(&token.ID, &token.CreatedAt)
	})
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
		return ErrUserTokenExists
	}
	if err != nil {
		return fmt.Errorf("failed to create user token: %w", err)
	}
	return nil
}

// DeleteByName removes the named token of login and reports whether a row was deleted.
func (r *UserTokenRepo) DeleteByName(ctx context.Context, login, name string) (bool, error) {
	var affected int64
	err := withConn(ctx, r.DB, func(conn *pgx.Conn) error {
		tag, err := conn.Exec(ctx, `DELETE FROM user_tokens WHERE login = $1 AND name = $2`, login, name)
		affected = tag.RowsAffected()
		return err
	})
	if err != nil {
		return false, fmt.Errorf("failed to delete user token: %w", err)
	}
	return affected > 0, nil
}

// ListByLogin returns the tokens of login, oldest first.
func (r *UserTokenRepo) ListByLogin(ctx context.Context, login string) ([]*model.UserToken, error) {
	var out []*model.UserToken
	err := withConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			SELECT id, login, name, token_hash, created_at
			FROM user_tokens WHERE login = $1
			ORDER BY created_at, name`, login)
		if err != nil {
			return err
		}
		out, err = pgx.CollectRows(rows, pgx.RowToAddrOfStructByName[model.UserToken])
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list user tokens: %w", err)
	}
	return out, nil
}
