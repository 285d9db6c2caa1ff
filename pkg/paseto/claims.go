package pasetotoken

import (
	"time"

	"github.com/google/uuid"
)

type TokenType string

const (
	TokenTypeAccess  TokenType = "access"
	TokenTypeRefresh TokenType = "refresh"
)

// Claims identify a user and a session. Role and gym are looked up on every
// request and never read from a token.
type Claims struct {
	Type      TokenType
	UserID    uuid.UUID
	SessionID uuid.UUID
	TokenID   string

	Issuer    string
	Audience  string
	IssuedAt  time.Time
	NotBefore time.Time
	ExpiresAt time.Time
}

// Remaining is how long the token stays valid after now; zero once expired.
func (c *Claims) Remaining(now time.Time) time.Duration {
	if d := c.ExpiresAt.Sub(now); d > 0 {
		return d
	}
	return 0
}
