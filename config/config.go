// Package config holds gatehouse's environment-driven configuration. Values are
// parsed with github.com/caarlos0/env and then passed through Sanitize.
package config

import (
	"log/slog"
	"os"
	"strings"
)

// AppConfig is the whole process configuration. Each group lives in its own file.
type AppConfig struct {
	// IsDev is set by DEV=true, or by NODE_ENV=development when DEV is unset.
	// Dev mode logs at debug level in text format unless LOG_* say otherwise.
	IsDev bool `env:"DEV" envDefault:"false"`

	Auth     AuthConfig
	Postgres DBConfig    `envPrefix:"DB_"`
	Redis    RedisConfig `envPrefix:"REDIS_"`
	HTTP     HTTPConfig
	Metrics  MetricsConfig
	Log      LogConfig
}

// Sanitize trims, defaults and clamps values after parsing.
func (c *AppConfig) Sanitize() {
	c.Auth.Sanitize()
	c.Redis.Sanitize()
	c.HTTP.Sanitize()

	if !c.IsDev {
		nodeEnv := strings.ToLower(os.Getenv("NODE_ENV"))
		c.IsDev = nodeEnv == "development" || nodeEnv == "dev"
	}
	if c.IsDev && os.Getenv("LOG_LEVEL") == "" {
		c.Log.Level = slog.LevelDebug
	}
	if c.IsDev && os.Getenv("LOG_FORMAT") == "" {
		c.Log.Format = LogFormatText
	}
}
