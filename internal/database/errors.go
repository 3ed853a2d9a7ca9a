package database

import "errors"

var (
	// ErrUserExists is returned when an attempt is made to register
	// an account with a username or email that is already taken.
	ErrUserExists = errors.New("user exists")
	// ErrUserNotFound is returned when no account matches the given
	// identifier or id.
	ErrUserNotFound = errors.New("user not found")
	// ErrLinkNotFound is returned when an attempt is made to access
	// a link record that doesn't exist.
	ErrLinkNotFound = errors.New("link not found")
	// ErrTokenInvalid is returned when an activation or reset token
	// doesn't match any account or has already expired.
	ErrTokenInvalid = errors.New("invalid or expired token")
)
