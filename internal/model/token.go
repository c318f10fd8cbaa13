package model

import "time"

// TokenTTL is the fixed lifetime of an access token.
const TokenTTL = time.Hour

// Claims are the identity attributes signed into an access token.
type Claims struct {
	ID        int64
	Email     string
	Role      Role
	TokenID   string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Identity returns the identity subset of the claims.
func (c Claims) Identity() Identity {
	return Identity{ID: c.ID, Email: c.Email, Role: c.Role}
}

// TokenManager issues and verifies signed access tokens.
type TokenManager interface {
	Issue(identity Identity) (string, Claims, error)
	Parse(token string) (Claims, error)
}
