// Package ports declares the interfaces the services depend on. Adapters under
// internal/adapters and internal/data implement them.
package ports

import (
	"context"

	domainauth "github.com/target/gatehouse/internal/domain/auth"
)

type BeginInput struct {
	// RedirectURL is the callback the IdP sends the browser back to.
	RedirectURL string
}

type ExchangeInput struct {
	Code  string
	State string
	Nonce string
}

// AuthProvider drives the authorization code flow against an identity provider.
type AuthProvider interface {
	Begin(ctx context.Context, in BeginInput) (authURL, state, nonce string, err error)
	// Exchange redeems the code and returns the verified identity. The ID token
	// nonce must match in.Nonce.
	Exchange(ctx context.Context, in ExchangeInput) (domainauth.Identity, error)
}

// SessionStore keeps server-side sessions keyed by session ID.
// Get fails for unknown and expired sessions alike.
type SessionStore interface {
	Save(ctx context.Context, sess domainauth.Session) error
	Get(ctx context.Context, id string) (domainauth.Session, error)
	Delete(ctx context.Context, id string) error
}

// SessionRevoker signs a user out everywhere. It returns how many live sessions
// were removed.
type SessionRevoker interface {
	DeleteByLogin(ctx context.Context, login string) (int, error)
}

type RoleMapper interface {
	Map(groups []string) domainauth.Role
}
