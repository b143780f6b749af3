package apperrors

import (
	"errors"
)

var (
	ErrUserAlreadyExists = errors.New("username or email already registered")
	ErrUserNotFound      = errors.New("user not found")
	ErrUserInactive      = errors.New("user is inactive")

	// Covers wrong password and unknown username both
	// One error for the two cases prevents username enumeration through login responses
	ErrInvalidCredentials = errors.New("invalid username or password")

	// Covers malformed, tampered and expired tokens alike
	// The caller must not learn which check rejected the token
	ErrInvalidToken = errors.New("invalid or expired token")

	ErrWrongTokenKind       = errors.New("wrong token kind")
	ErrAuthHeaderMissing    = errors.New("missing or malformed authorization header")
	ErrRefreshCookieMissing = errors.New("refresh token not found")
)
