package data

import "errors"

// Shared sentinel errors for data-layer repositories.
var (
	// User repository sentinels.
	ErrUserNotFound = errors.New("user not found")
	// ErrLastRoot is returned when revoking a root flag would leave no active root user.
	ErrLastRoot = errors.New("last root user")

	// User token repository sentinels.
	ErrUserTokenExists = errors.New("user token name already exists")
)
