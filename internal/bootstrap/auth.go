package bootstrap

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/redis/go-redis/v9"
	"github.com/target/gatehouse/config"
	"github.com/target/gatehouse/internal/adapters/authroles"
	"github.com/target/gatehouse/internal/adapters/devauth"
	"github.com/target/gatehouse/internal/adapters/oidc"
	redisadapter "github.com/target/gatehouse/internal/adapters/redis"
	"github.com/target/gatehouse/internal/ports"
	"github.com/target/gatehouse/internal/service"
)

// AuthConfig contains configuration for auth service.
type AuthConfig struct {
	Auth        config.AuthConfig
	RedisClient redis.UniversalClient
	KeyPrefix   string               // Optional: defaults to redisadapter.DefaultPrefix
	Users       ports.UserRepository // Optional: when nil, logins are not recorded
	Logger      *slog.Logger
}

// BuildAuthService creates an auth service for the configured auth mode.
func BuildAuthService(cfg AuthConfig) (*service.AuthService, error) {
	if cfg.RedisClient == nil {
		return nil, errors.New("auth service requires a redis client")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	prefix := cfg.KeyPrefix
	if prefix == "" {
		prefix = redisadapter.DefaultPrefix
	}
	sessionStore := redisadapter.NewSessionStoreWithPrefix(cfg.RedisClient, prefix)

	provider, err := buildProvider(cfg.Auth, logger)
	if err != nil {
		return nil, err
	}

	return service.NewAuthService(service.AuthServiceOptions{
		Provider: provider,
		Sessions: sessionStore,
		Roles: authroles.StaticRoleMapper{
			AdminGroup: cfg.Auth.AdminGroup,
			UserGroup:  cfg.Auth.UserGroup,
		},
		Users:  cfg.Users,
		Logger: logger,
	}), nil
}

//nolint:ireturn // the provider is picked by auth mode at runtime.
func buildProvider(cfg config.AuthConfig, logger *slog.Logger) (ports.AuthProvider, error) {
	switch cfg.Mode {
	case config.AuthModeMock:
		logger.Warn("dev auth enabled; every login signs in as the configured identity",
			"user_id", cfg.DevAuth.UserID)
		prov, err := devauth.NewProvider(devauth.Config{
			UserID:          cfg.DevAuth.UserID,
			Email:           cfg.DevAuth.Email,
			FirstName:       cfg.DevAuth.FirstName,
			LastName:        cfg.DevAuth.LastName,
			Groups:          cfg.DevAuth.Groups,
			SessionDuration: cfg.DevAuth.SessionTTL,
		})
		if err != nil {
			return nil, fmt.Errorf("create dev auth provider: %w", err)
		}
		return prov, nil

	case config.AuthModeOAuth:
		oauth := cfg.OAuth
		if missing := oauth.Missing(); len(missing) > 0 {
			logger.Error("oauth mode selected but required config missing", "missing", missing)
			return nil, fmt.Errorf("oauth auth mode requires %s", strings.Join(missing, ", "))
		}
		prov, err := oidc.NewProvider(oidc.ProviderConfig{
			ClientID:     oauth.ClientID,
			ClientSecret: oauth.ClientSecret,
			RedirectURL:  oauth.RedirectURL,
			Scope:        oauth.Scope,
			DiscoveryURL: oauth.DiscoveryURL,
			LoginClaim:   oauth.LoginClaim,
		})
		if err != nil {
			return nil, fmt.Errorf("create oidc provider: %w", err)
		}
		return prov, nil

	default:
		return nil, fmt.Errorf("unsupported auth mode %q", cfg.Mode)
	}
}
