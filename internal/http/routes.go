package httpx

import (
	"log/slog"
	"net/http"

	"github.com/target/gatehouse/internal/metrics"
)

// RouterServices holds all the services needed by the HTTP router.
type RouterServices struct {
	Auth         AuthServiceInterface
	Roots        RootServiceInterface
	Tokens       UserTokenServiceInterface
	Metrics      *metrics.Metrics // Optional: nil disables instrumentation and /metrics
	Health       []HealthCheck    // Optional: dependency probes for /healthz
	CookieDomain string
	Logger       *slog.Logger // Optional
}

// NewRouter creates the HTTP handler for the whole service.
func NewRouter(services RouterServices) http.Handler {
	logger := services.Logger
	if logger == nil {
		logger = slog.Default()
	}
	mux := http.NewServeMux()

	health := healthHandler(services.Health)
	mux.HandleFunc("GET "+PathHealth, health)
	mux.HandleFunc("HEAD "+PathHealth, health)
	if services.Metrics != nil {
		mux.Handle("GET "+PathMetrics, services.Metrics.Handler())
	}

	if services.Auth != nil {
		registerAuthRoutes(mux, &AuthHandlers{
			Svc:          services.Auth,
			CookieDomain: services.CookieDomain,
			Metrics:      services.Metrics,
			Logger:       logger,
		})
		requireAuth := RequireAuth(services.Auth)
		if services.Roots != nil {
			registerRootRoutes(mux, &RootHandlers{Svc: services.Roots, Logger: logger}, requireAuth)
		}
		if services.Tokens != nil {
			registerUserTokenRoutes(mux, &UserTokenHandlers{Svc: services.Tokens, Logger: logger}, requireAuth)
		}
	}

	var handler http.Handler = mux
	if services.Metrics != nil {
		handler = Instrument(services.Metrics)(handler)
	}
	return Recover(logger)(AccessLog(logger)(handler))
}

func registerAuthRoutes(mux *http.ServeMux, h *AuthHandlers) {
	mux.HandleFunc("GET "+PathLogin, h.Login)
	mux.HandleFunc("GET "+PathCallback, h.Callback)
	mux.HandleFunc("POST "+PathLogout, h.Logout)
	mux.HandleFunc("GET "+PathStatus, h.Status)
}

func registerRootRoutes(mux *http.ServeMux, h *RootHandlers, mw func(http.Handler) http.Handler) {
	mux.Handle("POST /api/roots/unset_root", mw(http.HandlerFunc(h.UnsetRoot)))
	mux.Handle("POST /api/roots/set_root", mw(http.HandlerFunc(h.SetRoot)))
	mux.Handle("GET /api/roots/search", mw(http.HandlerFunc(h.Search)))
}

func registerUserTokenRoutes(mux *http.ServeMux, h *UserTokenHandlers, mw func(http.Handler) http.Handler) {
	mux.Handle("POST /api/user_tokens/generate", mw(http.HandlerFunc(h.Generate)))
	mux.Handle("POST /api/user_tokens/revoke", mw(http.HandlerFunc(h.Revoke)))
	mux.Handle("GET /api/user_tokens/search", mw(http.HandlerFunc(h.Search)))
}
