package config

import (
	"fmt"
	"strings"
	"time"
)

// AuthMode selects the login provider.
type AuthMode string

const (
	AuthModeOAuth AuthMode = "oauth"
	// AuthModeMock signs every login in as DevAuthConfig's identity. Local use only.
	AuthModeMock AuthMode = "mock"
)

// UnmarshalText accepts oauth, mock or its alias dev, in any case.
func (a *AuthMode) UnmarshalText(text []byte) error {
	switch v := strings.ToLower(strings.TrimSpace(string(text))); v {
	case string(AuthModeOAuth):
		*a = AuthModeOAuth
	case string(AuthModeMock), "dev":
		*a = AuthModeMock
	default:
		return fmt.Errorf("unknown AUTH_MODE %q: want oauth or mock", v)
	}
	return nil
}

// OAuthConfig is the OIDC client registration, read from OAUTH_*.
type OAuthConfig struct {
	ClientID     string `env:"CLIENT_ID"`
	ClientSecret string `env:"CLIENT_SECRET"`
	RedirectURL  string `env:"REDIRECT_URL"  envDefault:"http://localhost:8080/auth/callback"`
	Scope        string `env:"SCOPE"         envDefault:"openid profile email groups"`
	DiscoveryURL string `env:"DISCOVERY_URL"`
	// LoginClaim overrides the samaccountname, preferred_username, sub lookup.
	LoginClaim string `env:"LOGIN_CLAIM"`
}

// Missing lists the OAUTH_* variables that are required but empty.
func (c OAuthConfig) Missing() []string {
	var out []string
	for _, f := range []struct{ name, val string }{
		{"OAUTH_CLIENT_ID", c.ClientID},
		{"OAUTH_CLIENT_SECRET", c.ClientSecret},
		{"OAUTH_REDIRECT_URL", c.RedirectURL},
		{"OAUTH_DISCOVERY_URL", c.DiscoveryURL},
	} {
		if strings.TrimSpace(f.val) == "" {
			out = append(out, f.name)
		}
	}
	return out
}

// DevAuthConfig is the identity handed out in mock mode, read from DEV_AUTH_*.
type DevAuthConfig struct {
	UserID     string        `env:"USER_ID"     envDefault:"dev-user"`
	Email      string        `env:"EMAIL"       envDefault:"dev@example.com"`
	FirstName  string        `env:"FIRST_NAME"  envDefault:"Dev"`
	LastName   string        `env:"LAST_NAME"   envDefault:"User"`
	Groups     []string      `env:"GROUPS"      envDefault:"admins"          envSeparator:";"`
	SessionTTL time.Duration `env:"SESSION_TTL" envDefault:"8h"`
}

type AuthConfig struct {
	Mode    AuthMode      `env:"AUTH_MODE"         envDefault:"oauth"`
	OAuth   OAuthConfig   `envPrefix:"OAUTH_"`
	DevAuth DevAuthConfig `envPrefix:"DEV_AUTH_"`

	// Group names matched against the provider's group claim to pick a role.
	AdminGroup string `env:"ADMIN_GROUP,required"`
	UserGroup  string `env:"USER_GROUP,required"`
}

// Sanitize trims values compared against provider claims and restores a
// non-positive dev session TTL to its default.
func (c *AuthConfig) Sanitize() {
	c.AdminGroup = strings.TrimSpace(c.AdminGroup)
	c.UserGroup = strings.TrimSpace(c.UserGroup)
	c.OAuth.LoginClaim = strings.TrimSpace(c.OAuth.LoginClaim)
	if c.DevAuth.SessionTTL <= 0 {
		c.DevAuth.SessionTTL = 8 * time.Hour
	}
}
