// Package common defines shared constants and sentinel errors used across
// the auth service layers. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")
	ErrorConflict = errors.New("already recorded")

	// Service-level errors. ErrorUnauthorized deliberately collapses every
	// credential and token rejection into one caller-visible outcome.
	ErrorUnauthorized = errors.New("unauthorized")
	ErrorForbidden    = errors.New("forbidden")
	ErrorUnavailable  = errors.New("service unavailable")
	ErrorInternal     = errors.New("internal error")

	// Startup-only configuration error. Fatal, never returned per request.
	ErrorConfiguration = errors.New("invalid configuration")

	// Token validation sub-reasons. All map to ErrorUnauthorized at the
	// edge; they stay distinct for logging and diagnostics.
	ErrTokenMalformed        = errors.New("token malformed")
	ErrTokenSignatureInvalid = errors.New("token signature invalid")
	ErrTokenExpired          = errors.New("token expired")
	ErrTokenNotYetValid      = errors.New("token not yet valid")
	ErrTokenWrongIssuer      = errors.New("token issuer mismatch")
	ErrTokenWrongAudience    = errors.New("token audience mismatch")
	ErrTokenRevoked          = errors.New("token revoked")
)
