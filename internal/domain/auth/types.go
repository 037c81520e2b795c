// Package auth holds the identity, role and session types shared by the
// login flow and its adapters.
package auth

import "time"

// Role represents the coarse application role derived from IdP groups.
// Root privilege is not a role: it is a flag on the persisted user record.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
	RoleGuest Role = "guest"
)

// Identity is who the IdP says signed in, already mapped out of provider claims.
type Identity struct {
	UserID    string // login, e.g. samaccountname or sub
	FirstName string
	LastName  string
	Email     string
	Groups    []string
	ExpiresAt time.Time // from the IdP token
}

// DisplayName joins first and last name, falling back to the login.
func (i Identity) DisplayName() string {
	switch {
	case i.FirstName != "" && i.LastName != "":
		return i.FirstName + " " + i.LastName
	case i.FirstName != "":
		return i.FirstName
	case i.LastName != "":
		return i.LastName
	default:
		return i.UserID
	}
}

// Session is the server-side record behind a session cookie. ID is the cookie value.
type Session struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Email     string    `json:"email"`
	Role      Role      `json:"role"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Login returns the user login the session belongs to.
func (s Session) Login() string { return s.UserID }
