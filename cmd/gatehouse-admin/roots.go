package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/target/gatehouse/internal/bootstrap"
	"github.com/target/gatehouse/internal/data"
	"github.com/target/gatehouse/internal/domain/model"
	"github.com/target/gatehouse/internal/ports"
	"github.com/target/gatehouse/internal/service"
)

const defaultMigrationTimeout = 5 * time.Minute

type migrateOptions struct {
	Timeout time.Duration
}

type listRootsOptions struct {
	JSON bool
}

type rootChangeOptions struct {
	Login string
	Actor string
	Yes   bool
}

func runMigrations(cmdCtx *commandContext, args []string) error {
	opts, err := parseMigrateFlags(args)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmdCtx.Ctx, opts.Timeout)
	defer cancel()
	cmdCtx.Ctx = ctx

	return withDatabase(cmdCtx, func(ctx context.Context, db *sql.DB) error {
		cmdCtx.Logger.InfoContext(ctx, "running database migrations")
		return bootstrap.RunMigrations(ctx, db, cmdCtx.Logger)
	})
}

func runListRoots(cmdCtx *commandContext, args []string) error {
	opts, err := parseListRootsFlags(args)
	if err != nil {
		return err
	}
	return withDatabase(cmdCtx, func(ctx context.Context, db *sql.DB) error {
		return listRoots(ctx, data.NewUserRepo(db), cmdCtx.Out, opts)
	})
}

func runSetRoot(cmdCtx *commandContext, args []string) error {
	opts, err := parseRootChangeFlags("set-root", args)
	if err != nil {
		return err
	}
	return withDatabase(cmdCtx, func(ctx context.Context, db *sql.DB) error {
		return changeRoot(cmdCtx, data.NewUserRepo(db), opts, true)
	})
}

func runUnsetRoot(cmdCtx *commandContext, args []string) error {
	opts, err := parseRootChangeFlags("unset-root", args)
	if err != nil {
		return err
	}
	return withDatabase(cmdCtx, func(ctx context.Context, db *sql.DB) error {
		return changeRoot(cmdCtx, data.NewUserRepo(db), opts, false)
	})
}

func listRoots(ctx context.Context, users ports.UserRepository, out io.Writer, opts listRootsOptions) error {
	roots, err := users.ListRoots(ctx)
	if err != nil {
		return fmt.Errorf("list roots: %w", err)
	}
	if roots == nil {
		roots = []*model.User{}
	}

	if opts.JSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(roots)
	}

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	if err = writef(tw, "LOGIN\tNAME\tEMAIL\n"); err != nil {
		return err
	}
	for _, u := range roots {
		if err = writef(tw, "%s\t%s\t%s\n", u.Login, u.Name, u.Email); err != nil {
			return err
		}
	}
	if err = tw.Flush(); err != nil {
		return err
	}
	return writef(out, "\n%d root user(s)\n", len(roots))
}

// changeRoot applies a root flag change through RootService so the last-root rule and audit
// logging are the same as for the HTTP endpoints.
func changeRoot(cmdCtx *commandContext, users ports.UserRepository, opts rootChangeOptions, grant bool) error {
	roots, err := service.NewRootService(service.RootServiceOptions{Users: users, Logger: cmdCtx.Logger})
	if err != nil {
		return err
	}
	actor := operatorName(opts.Actor)

	if grant {
		if err = roots.SetRootAsOperator(cmdCtx.Ctx, actor, opts.Login); err != nil {
			return err
		}
		return writef(cmdCtx.Out, "granted root to %s\n", opts.Login)
	}

	prompt := fmt.Sprintf("About to revoke the root flag of %q.", opts.Login)
	if err = confirmAction(cmdCtx, opts.Yes, prompt); err != nil {
		return err
	}
	if err = roots.UnsetRootAsOperator(cmdCtx.Ctx, actor, opts.Login); err != nil {
		return err
	}
	return writef(cmdCtx.Out, "revoked root from %s\n", opts.Login)
}

func parseMigrateFlags(args []string) (migrateOptions, error) {
	fs := flag.NewFlagSet("migrate", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	opts := migrateOptions{}
	fs.DurationVar(
		&opts.Timeout,
		"timeout",
		defaultMigrationTimeout,
		"Maximum duration to wait for migrations to complete",
	)

	if err := fs.Parse(args); err != nil {
		return migrateOptions{}, err
	}
	if opts.Timeout <= 0 {
		return migrateOptions{}, errors.New("--timeout must be greater than zero")
	}
	return opts, nil
}

func parseListRootsFlags(args []string) (listRootsOptions, error) {
	fs := flag.NewFlagSet("list-roots", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	var opts listRootsOptions
	fs.BoolVar(&opts.JSON, "json", false, "Print roots as JSON")

	if err := fs.Parse(args); err != nil {
		return listRootsOptions{}, err
	}
	return opts, nil
}

func parseRootChangeFlags(name string, args []string) (rootChangeOptions, error) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	var opts rootChangeOptions
	fs.StringVar(&opts.Login, "login", "", "Login of the user to change (required)")
	fs.StringVar(&opts.Actor, "actor", "", "Name recorded as the caller in audit logs (default: $USER)")
	fs.BoolVar(&opts.Yes, "yes", false, "Skip the confirmation prompt")

	if err := fs.Parse(args); err != nil {
		return rootChangeOptions{}, err
	}
	opts.Login = strings.TrimSpace(opts.Login)
	if opts.Login == "" {
		return rootChangeOptions{}, errors.New("--login is required")
	}
	return opts, nil
}
