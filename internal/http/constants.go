package httpx

import "time"

// Cookie names written by the auth handlers. REDIRECT_TO is owned by the redirect package.
const (
	SessionCookieName    = "session_id"
	oauthStateCookieName = "oauth_state"
	oauthNonceCookieName = "oauth_nonce"
)

// oauthCookieTTL bounds how long a started login may take to reach the callback.
const oauthCookieTTL = 10 * time.Minute

// Route paths shared by the router and the auth handlers.
const (
	PathLogin    = "/auth/login"
	PathCallback = "/auth/callback"
	PathLogout   = "/auth/logout"
	PathStatus   = "/auth/status"
	PathHealth   = "/healthz"
	PathMetrics  = "/metrics"
)
