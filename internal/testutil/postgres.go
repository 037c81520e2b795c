// Package testutil provides Postgres and Redis fixtures for gatehouse tests.
//
// Postgres tests run against a real server, by default the docker-compose test
// profile on localhost:55432, and are skipped when it is unreachable. Set
// TEST_REQUIRE_DB=true in CI to turn the skip into a failure.
package testutil

import (
	"context"
	"database/sql"
	"net"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/google/uuid"
	// Registers the "pgx" database/sql driver.
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/target/gatehouse/internal/migrate"
)

// TestDBConfig locates the test database.
type TestDBConfig struct {
	Host     string `env:"TEST_DB_HOST"     envDefault:"localhost"`
	Port     string `env:"TEST_DB_PORT"     envDefault:"55432"`
	User     string `env:"TEST_DB_USER"     envDefault:"gatehouse"`
	Password string `env:"TEST_DB_PASSWORD" envDefault:"gatehouse"`
	DBName   string `env:"TEST_DB_NAME"     envDefault:"gatehouse"`
	SSLMode  string `env:"DB_SSL_MODE"      envDefault:"disable"`

	// Ephemeral gives every WithAutoDB test its own schema instead of the shared tables.
	Ephemeral bool `env:"TEST_DB_EPHEMERAL"`
	// Require fails tests that would otherwise be skipped for a missing database.
	Require      bool `env:"TEST_REQUIRE_DB"`
	RequireInfra bool `env:"TEST_REQUIRE_INFRA"`
}

// DefaultTestDBConfig reads TestDBConfig from the environment. Unparseable
// values fall back to the defaults.
func DefaultTestDBConfig() TestDBConfig {
	cfg, err := env.ParseAs[TestDBConfig]()
	if err != nil {
		return TestDBConfig{Host: "localhost", Port: "55432", User: "gatehouse", Password: "gatehouse", DBName: "gatehouse", SSLMode: "disable"}
	}
	return cfg
}

func (cfg TestDBConfig) DSN() string {
	return cfg.dsn(nil)
}

func (cfg TestDBConfig) dsn(extra url.Values) string {
	q := url.Values{"sslmode": {cfg.SSLMode}}
	for k, v := range extra {
		q[k] = v
	}
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(cfg.User, cfg.Password),
		Host:     net.JoinHostPort(cfg.Host, cfg.Port),
		Path:     "/" + cfg.DBName,
		RawQuery: q.Encode(),
	}
	return u.String()
}

func (cfg TestDBConfig) mustHaveDB() bool { return cfg.Require || cfg.RequireInfra }

func openDB(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	if err = db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// SkipIfNoTestDB skips t when the test database does not answer a ping.
func SkipIfNoTestDB(t testing.TB) {
	t.Helper()
	cfg := DefaultTestDBConfig()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	db, err := openDB(ctx, cfg.DSN())
	if err != nil {
		if cfg.mustHaveDB() {
			t.Fatal("test database not available:", err)
		}
		t.Skip("test database not available:", err)
	}
	closeAndLog(t, "probe DB", db)
}

// SetupTestDB returns the shared, migrated and emptied test database.
func SetupTestDB(t testing.TB) *sql.DB {
	t.Helper()
	SkipIfNoTestDB(t)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	db, err := openDB(ctx, DefaultTestDBConfig().DSN())
	if err != nil {
		t.Fatal("connect to test database:", err)
	}
	if _, err = migrate.Run(ctx, db, nil); err != nil {
		t.Fatal("migrate test database:", err)
	}
	CleanupTestDB(t, db)
	return db
}

// CleanupTestDB empties every gatehouse table.
func CleanupTestDB(t testing.TB, db *sql.DB) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if _, err := db.ExecContext(ctx, "TRUNCATE user_tokens, users"); err != nil {
		t.Fatal("clean test database:", err)
	}
}

// WithAutoDB runs fn against a private schema when TEST_DB_EPHEMERAL is set, and
// against the shared database otherwise.
func WithAutoDB(t testing.TB, fn func(*sql.DB)) {
	t.Helper()
	if DefaultTestDBConfig().Ephemeral {
		fn(SetupEphemeralSchemaDB(t))
		return
	}
	db := SetupTestDB(t)
	defer func() {
		CleanupTestDB(t, db)
		closeAndLog(t, "test DB", db)
	}()
	fn(db)
}

// SetupEphemeralSchemaDB migrates a fresh schema that only the returned handle
// sees. The schema is dropped when the test ends.
func SetupEphemeralSchemaDB(t testing.TB) *sql.DB {
	t.Helper()
	SkipIfNoTestDB(t)
	cfg := DefaultTestDBConfig()

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	admin, err := openDB(ctx, cfg.DSN())
	if err != nil {
		t.Fatal("open admin DB:", err)
	}
	schema := "t_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
	if _, err = admin.ExecContext(ctx, "CREATE SCHEMA "+schema); err != nil {
		closeAndLog(t, "admin DB", admin)
		t.Fatalf("create schema %s: %v", schema, err)
	}

	db, err := openDB(ctx, cfg.dsn(url.Values{"search_path": {schema}}))
	if err != nil {
		closeAndLog(t, "admin DB", admin)
		t.Fatal("open schema DB:", err)
	}
	t.Cleanup(func() {
		closeAndLog(t, "schema DB", db)
		dropCtx, dropCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer dropCancel()
		if _, dropErr := admin.ExecContext(dropCtx, "DROP SCHEMA IF EXISTS "+schema+" CASCADE"); dropErr != nil {
			t.Logf("drop schema %s: %v", schema, dropErr)
		}
		closeAndLog(t, "admin DB", admin)
	})

	if _, err = migrate.Run(ctx, db, nil); err != nil {
		t.Fatal("migrate schema:", err)
	}
	return db
}

// SeedUser inserts a user row directly, bypassing the first-user-is-root rule.
func SeedUser(t testing.TB, db *sql.DB, login string, root, active bool) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if _, err := db.ExecContext(ctx,
		`INSERT INTO users (login, name, email, is_root, active) VALUES ($1, $2, $3, $4, $5)`,
		login, strings.ToUpper(login[:1])+login[1:], login+"@example.com", root, active,
	); err != nil {
		t.Fatalf("seed user %s: %v", login, err)
	}
}

// IsRoot reads the stored root flag of login.
func IsRoot(t testing.TB, db *sql.DB, login string) bool {
	t.Helper()
	var root bool
	if err := db.QueryRowContext(context.Background(),
		`SELECT is_root FROM users WHERE login = $1`, login,
	).Scan(&root); err != nil {
		t.Fatalf("read root flag of %s: %v", login, err)
	}
	return root
}

// RunConcurrent starts every func at once and returns their errors in argument order.
func RunConcurrent(funcs ...func() error) []error {
	errs := make([]error, len(funcs))
	start := make(chan struct{})
	done := make(chan struct{})
	for i, fn := range funcs {
		go func() {
			defer func() { done <- struct{}{} }()
			<-start
			errs[i] = fn()
		}()
	}
	close(start)
	for range funcs {
		<-done
	}
	return errs
}

// TestTime is the fixed instant tests start their clocks at.
func TestTime() time.Time {
	return time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
}

func closeAndLog(t testing.TB, name string, c interface{ Close() error }) {
	if err := c.Close(); err != nil {
		t.Logf("close %s: %v", name, err)
	}
}
