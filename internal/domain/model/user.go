package model

import "time"

// User is a persisted account. Only IsRoot is managed by the root administration endpoints.
type User struct {
	Login     string    `json:"login"      db:"login"`
	Name      string    `json:"name"       db:"name"`
	Email     string    `json:"email"      db:"email"`
	IsRoot    bool      `json:"root"       db:"is_root"`
	Active    bool      `json:"active"     db:"active"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// UpsertUserRequest carries identity data captured at login.
type UpsertUserRequest struct {
	Login string
	Name  string
	Email string
}

// UpsertUserResult reports the stored user and whether the row was created by this call.
type UpsertUserResult struct {
	User    User
	Created bool
}
