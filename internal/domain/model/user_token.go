package model

import "time"

// UserToken is a named access token owned by a user. Only the hash of the token is persisted.
type UserToken struct {
	ID        string    `json:"-"          db:"id"`
	Login     string    `json:"login"      db:"login"`
	Name      string    `json:"name"       db:"name"`
	TokenHash string    `json:"-"          db:"token_hash"`
	CreatedAt time.Time `json:"createdAt"  db:"created_at"`
}

// GeneratedUserToken is returned once, right after generation. Token is the raw secret.
type GeneratedUserToken struct {
	Login string `json:"login"`
	Name  string `json:"name"`
	Token string `json:"token"`
}
