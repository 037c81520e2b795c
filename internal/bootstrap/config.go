// Package bootstrap wires configuration, infrastructure and services into a running gatehouse process.
package bootstrap

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/target/gatehouse/config"
)

// dotEnvFiles are read in order. godotenv never overrides a variable that is
// already set, so the process environment beats .env.local, which beats .env.
var dotEnvFiles = []string{".env.local", ".env"}

// InitLogger installs the JSON logger used until configuration is loaded.
func InitLogger() *slog.Logger {
	return ConfigureLogger(config.LogConfig{Format: config.LogFormatJSON}, os.Stdout)
}

// ConfigureLogger builds the process logger from cfg and installs it as the slog default.
func ConfigureLogger(cfg config.LogConfig, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.Level}
	var h slog.Handler = slog.NewJSONHandler(w, opts)
	if cfg.Format == config.LogFormatText {
		h = slog.NewTextHandler(w, opts)
	}
	logger := slog.New(h)
	slog.SetDefault(logger)
	return logger
}

// LoadConfig reads the optional dotenv files, parses the environment and sanitizes the result.
func LoadConfig() (config.AppConfig, error) {
	for _, name := range dotEnvFiles {
		if err := godotenv.Load(name); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return config.AppConfig{}, fmt.Errorf("load %s: %w", name, err)
		}
	}

	cfg, err := env.ParseAs[config.AppConfig]()
	if err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	cfg.Sanitize()
	return cfg, nil
}
