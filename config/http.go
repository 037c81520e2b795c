package config

import "time"

// HTTPConfig contains HTTP server configuration.
type HTTPConfig struct {
	// Addr is the address to bind the HTTP server to.
	Addr string `env:"HTTP_ADDR" envDefault:":8080"`

	// CookieDomain is the domain for session and redirect cookies.
	// Leave empty to use the request domain.
	CookieDomain string `env:"APP_COOKIE_DOMAIN" envDefault:""`

	ReadTimeout     time.Duration `env:"HTTP_READ_TIMEOUT"     envDefault:"30s"`
	WriteTimeout    time.Duration `env:"HTTP_WRITE_TIMEOUT"    envDefault:"30s"`
	IdleTimeout     time.Duration `env:"HTTP_IDLE_TIMEOUT"     envDefault:"120s"`
	ShutdownTimeout time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

// Sanitize applies guardrails to HTTP configuration values.
func (h *HTTPConfig) Sanitize() {
	if h.Addr == "" {
		h.Addr = ":8080"
	}
	h.ReadTimeout = atLeast(h.ReadTimeout, time.Second, 30*time.Second)
	h.WriteTimeout = atLeast(h.WriteTimeout, time.Second, 30*time.Second)
	h.IdleTimeout = atLeast(h.IdleTimeout, time.Second, 120*time.Second)
	h.ShutdownTimeout = atLeast(h.ShutdownTimeout, time.Second, 10*time.Second)
}

// atLeast returns def for non-positive values and clamps the rest to min.
func atLeast(v, minimum, def time.Duration) time.Duration {
	if v <= 0 {
		return def
	}
	return max(v, minimum)
}
