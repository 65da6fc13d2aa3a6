// Package common defines shared sentinel errors used across the adminctl
// client layers. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Remote call outcomes.
	ErrUnauthorized  = errors.New("unauthorized")
	ErrUnavailable   = errors.New("server unavailable")
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")
	ErrRateLimited   = errors.New("too many requests")

	// Local validation, raised before any network call is made.
	ErrValidation = errors.New("validation error")

	// Login flow errors.
	ErrNoPendingCode = errors.New("no pending verification code")

	// Token lifecycle errors.
	ErrNoRefreshToken = errors.New("no refresh token held")
)
