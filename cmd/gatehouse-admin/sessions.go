package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/redis/go-redis/v9"
	redisadapter "github.com/target/gatehouse/internal/adapters/redis"
	"github.com/target/gatehouse/internal/ports"
)

type revokeSessionsOptions struct {
	Login string
	Yes   bool
}

func runRevokeSessions(cmdCtx *commandContext, args []string) error {
	opts, err := parseRevokeSessionsFlags(args)
	if err != nil {
		return err
	}
	return withRedis(cmdCtx, func(_ context.Context, client redis.UniversalClient) error {
		store := redisadapter.NewSessionStoreWithPrefix(client, cmdCtx.Config.Redis.KeyPrefix)
		return revokeSessions(cmdCtx, store, opts)
	})
}

func revokeSessions(cmdCtx *commandContext, store ports.SessionRevoker, opts revokeSessionsOptions) error {
	prompt := fmt.Sprintf("About to sign %q out of every session.", opts.Login)
	if err := confirmAction(cmdCtx, opts.Yes, prompt); err != nil {
		return err
	}

	n, err := store.DeleteByLogin(cmdCtx.Ctx, opts.Login)
	if err != nil {
		return fmt.Errorf("revoke sessions: %w", err)
	}
	cmdCtx.Logger.InfoContext(cmdCtx.Ctx, "sessions revoked", "login", opts.Login, "count", n)
	return writef(cmdCtx.Out, "revoked %d session(s) of %s\n", n, opts.Login)
}

func parseRevokeSessionsFlags(args []string) (revokeSessionsOptions, error) {
	fs := flag.NewFlagSet("revoke-sessions", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	var opts revokeSessionsOptions
	fs.StringVar(&opts.Login, "login", "", "Login whose sessions are deleted (required)")
	fs.BoolVar(&opts.Yes, "yes", false, "Skip the confirmation prompt")

	if err := fs.Parse(args); err != nil {
		return revokeSessionsOptions{}, err
	}
	opts.Login = strings.TrimSpace(opts.Login)
	if opts.Login == "" {
		return revokeSessionsOptions{}, errors.New("--login is required")
	}
	return opts, nil
}
