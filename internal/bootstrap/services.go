package bootstrap

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"
	"github.com/target/gatehouse/config"
	"github.com/target/gatehouse/internal/data"
	"github.com/target/gatehouse/internal/metrics"
	"github.com/target/gatehouse/internal/service"
)

// ServiceContainer holds all application services.
type ServiceContainer struct {
	Auth    *service.AuthService
	Roots   *service.RootService
	Tokens  *service.UserTokenService
	Metrics *metrics.Metrics // nil when metrics are disabled
}

// ServiceDeps groups dependencies for service initialization.
type ServiceDeps struct {
	Config      *config.AppConfig
	DB          *sql.DB
	RedisClient redis.UniversalClient
	Logger      *slog.Logger
}

// NewServices builds repositories and the services on top of them.
func NewServices(deps *ServiceDeps) (ServiceContainer, error) {
	if deps == nil || deps.Config == nil {
		return ServiceContainer{}, errors.New("service deps with config are required")
	}
	if deps.DB == nil {
		return ServiceContainer{}, errors.New("database is required")
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	var m *metrics.Metrics
	if deps.Config.Metrics.Enabled {
		m = metrics.New()
	}

	users := data.NewUserRepo(deps.DB)

	auth, err := BuildAuthService(AuthConfig{
		Auth:        deps.Config.Auth,
		RedisClient: deps.RedisClient,
		KeyPrefix:   deps.Config.Redis.KeyPrefix,
		Users:       users,
		Logger:      logger,
	})
	if err != nil {
		return ServiceContainer{}, fmt.Errorf("build auth service: %w", err)
	}

	roots, err := service.NewRootService(service.RootServiceOptions{
		Users:   users,
		Metrics: m,
		Logger:  logger,
	})
	if err != nil {
		return ServiceContainer{}, fmt.Errorf("build root service: %w", err)
	}

	tokens, err := service.NewUserTokenService(service.UserTokenServiceOptions{
		Tokens: data.NewUserTokenRepo(deps.DB),
		Logger: logger,
	})
	if err != nil {
		return ServiceContainer{}, fmt.Errorf("build user token service: %w", err)
	}

	return ServiceContainer{
		Auth:    auth,
		Roots:   roots,
		Tokens:  tokens,
		Metrics: m,
	}, nil
}
