package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/target/gatehouse/internal/bootstrap"
)

// withDatabase connects to Postgres for the duration of fn.
func withDatabase(cmdCtx *commandContext, fn func(ctx context.Context, db *sql.DB) error) (err error) {
	db, err := bootstrap.ConnectDB(cmdCtx.Ctx, bootstrap.DatabaseConfig{
		DBConfig: cmdCtx.Config.Postgres,
		Logger:   cmdCtx.Logger,
	})
	if err != nil {
		return fmt.Errorf("connect db: %w", err)
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			err = errors.Join(err, fmt.Errorf("close db: %w", closeErr))
		}
	}()
	return fn(cmdCtx.Ctx, db)
}

// withRedis connects to the session store for the duration of fn.
func withRedis(cmdCtx *commandContext, fn func(ctx context.Context, client redis.UniversalClient) error) (err error) {
	client, err := bootstrap.ConnectRedis(cmdCtx.Ctx, bootstrap.DatabaseConfig{
		RedisConfig: cmdCtx.Config.Redis,
		Logger:      cmdCtx.Logger,
	})
	if err != nil {
		return fmt.Errorf("connect redis: %w", err)
	}
	defer func() {
		if closeErr := client.Close(); closeErr != nil {
			err = errors.Join(err, fmt.Errorf("close redis: %w", closeErr))
		}
	}()
	return fn(cmdCtx.Ctx, client)
}
