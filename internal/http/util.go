package httpx

import (
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/target/gatehouse/internal/redirect"
)

// isSecureRequest reports whether the client reached us over TLS, directly or through a proxy.
func isSecureRequest(r *http.Request) bool {
	return r.TLS != nil || strings.EqualFold(r.Header.Get("X-Forwarded-Proto"), "https")
}

// cookieAttrs returns the attributes every cookie we set on r shares.
func cookieAttrs(r *http.Request, domain string) redirect.CookieAttributes {
	return redirect.CookieAttributes{
		Path:     "/",
		Domain:   domain,
		Secure:   isSecureRequest(r),
		SameSite: http.SameSiteLaxMode,
	}
}

// newCookie builds a cookie with the shared attributes. maxAge follows http.Cookie semantics.
func newCookie(r *http.Request, domain, name, value string, maxAge int) *http.Cookie {
	a := cookieAttrs(r, domain)
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     a.Path,
		Domain:   a.Domain,
		HttpOnly: true,
		Secure:   a.Secure,
		SameSite: a.SameSite,
		MaxAge:   maxAge,
	}
}

// expiredCookie mirrors newCookie so browsers match and drop the stored cookie.
func expiredCookie(r *http.Request, domain, name string) *http.Cookie {
	c := newCookie(r, domain, name, "", -1)
	c.Expires = time.Unix(0, 0).UTC()
	return c
}

// requestParam reads a parameter from the query string or a form body.
func requestParam(r *http.Request, key string) string {
	return strings.TrimSpace(r.FormValue(key))
}

// safeRedirectPath ensures the provided redirect is a same-origin relative path
// starting with "/" and not an absolute URL. Returns "/" when invalid.
func safeRedirectPath(candidate string) string {
	candidate = strings.TrimSpace(candidate)
	if candidate == "" {
		return "/"
	}
	// Browsers treat "//host" and "/\host" as network-path references.
	if strings.HasPrefix(candidate, "//") || strings.HasPrefix(candidate, "/\\") {
		return "/"
	}
	u, err := url.Parse(candidate)
	if err != nil || u.IsAbs() || u.Host != "" || !strings.HasPrefix(u.Path, "/") {
		return "/"
	}
	return candidate
}

// wantsJSON reports whether the client asked for a JSON body instead of a redirect.
func wantsJSON(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "application/json") ||
		strings.EqualFold(r.Header.Get("X-Requested-With"), "XMLHttpRequest")
}
