// Package models holds the persisted entities of the auth service.
package models

import "time"

// Roles known to the system. Stored on the user record and stamped into
// the role claim of issued tokens.
const (
	RoleResearcher = "Researcher"
	RoleAdmin      = "Admin"
)

// User is a stored credential record. PasswordDigest is always
// Digest(plaintext, Salt); the plaintext is never persisted.
type User struct {
	ID             string
	Login          string
	PasswordDigest string
	Salt           string
	Role           string
	CreatedAt      time.Time
}
