package models

import (
	"time"
)

// TokenKind separates the two credentials this service issues. A refresh
// token must never authenticate a request and an access token must never
// mint new pairs.
type TokenKind string

const (
	TokenKindAccess  TokenKind = "access"
	TokenKindRefresh TokenKind = "refresh"
)

type IssuedToken struct {
	Value     string
	ExpiresAt time.Time
}

// Token pair issued on registration, login and refresh
type TokenPair struct {
	Access  IssuedToken
	Refresh IssuedToken
}
