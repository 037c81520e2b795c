package httpx

import (
	"context"

	domainauth "github.com/target/gatehouse/internal/domain/auth"
)

type sessionKey struct{}

// ContextWithSession attaches the caller's session. A nil session leaves ctx as is.
func ContextWithSession(ctx context.Context, s *domainauth.Session) context.Context {
	if s == nil {
		return ctx
	}
	return context.WithValue(ctx, sessionKey{}, s)
}

// SessionFromContext returns the session RequireAuth attached, or nil.
func SessionFromContext(ctx context.Context) *domainauth.Session {
	s, _ := ctx.Value(sessionKey{}).(*domainauth.Session)
	return s
}
