package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/target/gatehouse/internal/domain/model"
)

const userColumns = `login, name, email, is_root, active, created_at, updated_at`

// demotionTx bounds how long a demotion waits behind a concurrent one.
var demotionTx = txOptions{
	TxOptions:   pgx.TxOptions{IsoLevel: pgx.ReadCommitted},
	LockTimeout: 5 * time.Second,
}

// UserRepo provides database operations for users.
type UserRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewUserRepo creates a new UserRepo with real time provider.
func NewUserRepo(db *sql.DB) *UserRepo {
	return &UserRepo{DB: db, timeProvider: RealTimeProvider{}}
}

// NewUserRepoWithTimeProvider creates a new UserRepo with a custom time provider (useful for tests).
func NewUserRepoWithTimeProvider(db *sql.DB, tp TimeProvider) *UserRepo {
	return &UserRepo{DB: db, timeProvider: tp}
}

// GetByLogin retrieves a user by login.
func (r *UserRepo) GetByLogin(ctx context.Context, login string) (*model.User, error) {
	var out model.User
	err := withConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `SELECT `+userColumns+` FROM users WHERE login = $1`, login)
		if err != nil {
			return err
		}
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.User])
		return err
	})
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user by login: %w", err)
	}
	return &out, nil
}

type upsertRow struct {
	model.User
	Created bool `db:"created"`
}

// Upsert inserts the user or refreshes name and email of an existing row.
// A row inserted into an empty table is flagged root so a fresh install has an administrator.
func (r *UserRepo) Upsert(ctx context.Context, req model.UpsertUserRequest) (*model.UpsertUserResult, error) {
	login := strings.TrimSpace(req.Login)
	if login == "" {
		return nil, errors.New("login is required")
	}

	now := r.timeProvider.Now().UTC()
	var row upsertRow
	err := withConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			INSERT INTO users (login, name, email, is_root, active, created_at, updated_at)
			SELECT $1, $2, $3, NOT EXISTS (SELECT 1 FROM users), true, $4, $4
			ON CONFLICT (login) DO UPDATE
				SET name = EXCLUDED.name, email = EXCLUDED.email, updated_at = EXCLUDED.updated_at
			RETURNING `+userColumns+`, (xmax = 0) AS created`,
			login, strings.TrimSpace(req.Name), strings.TrimSpace(req.Email), now,
		)
		if err != nil {
			return err
		}
		row, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[upsertRow])
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upsert user: %w", err)
	}
	return &model.UpsertUserResult{User: row.User, Created: row.Created}, nil
}

// ListRoots returns active root users ordered by login.
func (r *UserRepo) ListRoots(ctx context.Context) ([]*model.User, error) {
	var out []*model.User
	err := withConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `SELECT `+userColumns+` FROM users WHERE is_root AND active ORDER BY login`)
		if err != nil {
			return err
		}
		out, err = pgx.CollectRows(rows, pgx.RowToAddrOfStructByName[model.User])
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list root users: %w", err)
	}
	return out, nil
}

// SetRoot flags an active user as root. It is idempotent.
func (r *UserRepo) SetRoot(ctx context.Context, login string) error {
	var affected int64
	err := withConn(ctx, r.DB, func(conn *pgx.Conn) error {
		tag, err := conn.Exec(ctx,
			`UPDATE users SET is_root = true, updated_at = $2 WHERE login = $1 AND active`,
			login, r.timeProvider.Now().UTC(),
		)
		affected = tag.RowsAffected()
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to set root: %w", err)
	}
	if affected == 0 {
		return ErrUserNotFound
	}
	return nil
}

// UnsetRootUnlessLast clears the root flag of login inside one transaction.
// Every active root row is locked before counting, so two concurrent demotions serialize and
// the second one sees the first one's result. A login that is not root is left unchanged.
func (r *UserRepo) UnsetRootUnlessLast(ctx context.Context, login string) error {
	now := r.timeProvider.Now().UTC()
	err := withTx(ctx, r.DB, demotionTx, func(tx pgx.Tx) error {
		rows, err := tx.Query(ctx, `SELECT login FROM users WHERE is_root AND active ORDER BY login FOR UPDATE`)
		if err != nil {
			return err
		}
		roots, err := pgx.CollectRows(rows, pgx.RowTo[string])
		if err != nil {
			return err
		}
		if countOthers(roots, login) == 0 {
			return ErrLastRoot
		}
		_, err = tx.Exec(ctx,
			`UPDATE users SET is_root = false, updated_at = $2 WHERE login = $1 AND is_root`,
			login, now,
		)
		return err
	})
	if errors.Is(err, ErrLastRoot) {
		return ErrLastRoot
	}
	if err != nil {
		return fmt.Errorf("failed to unset root: %w", err)
	}
	return nil
}

func countOthers(logins []string, login string) int {
	n := 0
	for _, l := range logins {
		if l != login {
			n++
		}
	}
	return n
}
