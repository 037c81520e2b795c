package httpx

import (
	"context"
	"net/http"
	"time"
)

// healthCheckTimeout bounds the time spent on every dependency probe combined.
const healthCheckTimeout = 2 * time.Second

// HealthCheck probes one dependency, such as the database or Redis.
type HealthCheck struct {
	Name  string
	Check func(ctx context.Context) error
}

// healthHandler reports 200 when every check passes and 503 with the failing names otherwise.
func healthHandler(checks []HealthCheck) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
		defer cancel()

		failed := map[string]string{}
		for _, c := range checks {
			if err := c.Check(ctx); err != nil {
				failed[c.Name] = err.Error()
			}
		}

		status, body := http.StatusOK, map[string]any{"status": "ok"}
		if len(failed) > 0 {
			status, body = http.StatusServiceUnavailable, map[string]any{"status": "unavailable", "failed": failed}
		}
		if r.Method == http.MethodHead {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(status)
			return
		}
		WriteJSON(w, status, body)
	}
}
