package config

import (
	"fmt"
	"log/slog"
	"strings"
)

// MetricsConfig controls the Prometheus registry and its scrape endpoint.
type MetricsConfig struct {
	Enabled bool `env:"METRICS_ENABLED" envDefault:"true"`
}

// LogFormat picks the slog handler.
type LogFormat string

const (
	LogFormatJSON LogFormat = "json"
	LogFormatText LogFormat = "text"
)

func (f *LogFormat) UnmarshalText(text []byte) error {
	switch v := LogFormat(strings.ToLower(strings.TrimSpace(string(text)))); v {
	case LogFormatJSON, LogFormatText:
		*f = v
		return nil
	default:
		return fmt.Errorf("invalid log format %q: want json or text", text)
	}
}

// LogConfig configures the process logger. LOG_LEVEL takes slog level names
// such as DEBUG or WARN, optionally with an offset like INFO+2.
type LogConfig struct {
	Level  slog.Level `env:"LOG_LEVEL"  envDefault:"INFO"`
	Format LogFormat  `env:"LOG_FORMAT" envDefault:"json"`
}
