// Package redirect carries the post-login redirect target in a cookie around the OAuth2 login flow.
//
// The functions here never touch a request or response. They take the request data they need
// (the return_to parameter, the incoming cookies) and return the cookies the caller must write.
// Values are stored as given: callers that redirect to a returned value must validate it first.
package redirect

import (
	"net/http"
	"strings"
	"time"
)

const (
	// CookieName is the cookie that holds the redirect target between login start and callback.
	CookieName = "REDIRECT_TO"
	// ReturnToParam is the request parameter read when a login flow starts.
	ReturnToParam = "return_to"
)

// CookieAttributes holds the transport-level attributes the cookie does not decide for itself.
// Zero values leave the attribute unset.
type CookieAttributes struct {
	Path     string
	Domain   string
	Secure   bool
	SameSite http.SameSite
}

// Manager computes REDIRECT_TO cookie writes. The zero value is usable.
type Manager struct {
	Attrs CookieAttributes
}

// NewManager returns a Manager that stamps attrs on every cookie it produces.
func NewManager(attrs CookieAttributes) Manager {
	return Manager{Attrs: attrs}
}

// Create returns the cookie to set for returnTo. The value goes on the wire
// unescaped, so a blank returnTo, or one holding bytes a cookie value cannot
// carry (';', '"', '\', controls, non-ASCII), yields no cookie rather than an
// altered target. The cookie has no Max-Age or Expires, so it lives until cleared
// or the browser session ends.
func (m Manager) Create(returnTo string) []*http.Cookie {
	if isBlank(returnTo) || !Storable(returnTo) {
		return nil
	}
	c := m.base()
	c.Value = returnTo
	return []*http.Cookie{c}
}

// GetAndDelete looks up the redirect cookie among the incoming cookies.
// When the cookie is absent nothing is returned. When present, the delete cookie is always
// returned, and the stored value is reported only if it is not blank.
func (m Manager) GetAndDelete(cookies []*http.Cookie) (string, bool, []*http.Cookie) {
	stored, found := find(cookies)
	if !found {
		return "", false, nil
	}
	writes := m.Delete()
	if isBlank(stored.Value) {
		return "", false, writes
	}
	return stored.Value, true, writes
}

// Delete returns the cookie that makes the client discard REDIRECT_TO immediately.
// Like Create and GetAndDelete it returns the writes as a slice.
func (m Manager) Delete() []*http.Cookie {
	c := m.base()
	c.Value = ""
	c.MaxAge = -1
	c.Expires = time.Unix(0, 0).UTC()
	return []*http.Cookie{c}
}

// Storable reports whether v survives http.SetCookie byte for byte.
func Storable(v string) bool {
	return (&http.Cookie{Name: CookieName, Value: v}).Valid() == nil
}

func (m Manager) base() *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Path:     m.Attrs.Path,
		Domain:   m.Attrs.Domain,
		Secure:   m.Attrs.Secure,
		SameSite: m.Attrs.SameSite,
		HttpOnly: true,
	}
}

// find returns the first REDIRECT_TO cookie, matching the order the browser sent them in.
func find(cookies []*http.Cookie) (*http.Cookie, bool) {
	for _, c := range cookies {
		if c != nil && c.Name == CookieName {
			return c, true
		}
	}
	return nil, false
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
