package models

import "time"

// ServiceToken is the revocation record for an administratively issued
// token, keyed by the encoded token string. The token itself is immutable;
// revocation state lives here, out of band.
type ServiceToken struct {
	Token     string
	EmittedAt time.Time
	ExpiresAt time.Time
	Revoked   bool
}
