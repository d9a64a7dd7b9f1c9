// Package common defines shared constants and sentinel errors used across
// the identity core and its transports. Callers should use errors.Is to
// match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors (generic/internal flow control).
	ErrorInternal    = errors.New("internal error")
	ErrAlreadyExists = errors.New("already exists")
	ErrInvalidInput  = errors.New("invalid input")

	// Identity core errors.
	ErrHashingFailure        = errors.New("hashing failure")
	ErrAuthenticationFailure = errors.New("authentication failure")
	ErrIdentityStoreFailure  = errors.New("identity store failure")
	ErrSessionDecodeFailure  = errors.New("session decode failure")
	ErrIncompleteProfile     = errors.New("incomplete federated profile")
	ErrUnknownProvider       = errors.New("unknown identity provider")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")

	// Token lifecycle errors.
	ErrTokenExpired = errors.New("token expired")
)
