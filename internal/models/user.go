package models

import "time"

// Authorization roles assigned to accounts. New accounts always start
// with RoleUser; RoleAdmin is granted administratively.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User represents a registered account.
type User struct {
	// ID is the unique identifier for the account record.
	ID int64
	// Username is the unique display name chosen at registration.
	Username string
	// Email is the address activation and reset messages are sent to.
	Email string
	// PasswordHash is the bcrypt hash of the account password.
	PasswordHash string
	// Role is the authorization role, either RoleUser or RoleAdmin.
	Role string
	// Activated reports whether the account confirmed its email address.
	// Login is rejected until it is set.
	Activated bool
	// CreatedAt is the timestamp indicating when the account was registered.
	CreatedAt time.Time
}
