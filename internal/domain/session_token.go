package domain

import (
	"errors"
	"time"
)

var (
	// ErrNoAuthToken is returned when a session token is required but not provided.
	ErrNoAuthToken = errors.New("no auth token")
	// ErrInvalidAuthToken is returned when a token's signature, issuer or lifetime is invalid.
	ErrInvalidAuthToken = errors.New("invalid auth token")
)

// SessionClaims is the content asserted by a session token.
type SessionClaims struct {
	Subject   string    // Authenticated username
	Issuer    string    // Identifier of the issuing service
	Role      Role      // Authorization level of the subject
	IssuedAt  time.Time // Creation time, second precision
	ExpiresAt time.Time // End of validity, always after IssuedAt
}

// Lifetime returns the validity window of the claims.
func (c SessionClaims) Lifetime() time.Duration {
	return c.ExpiresAt.Sub(c.IssuedAt)
}

// SessionToken is a signed, serialized set of claims. It is never modified after issuance.
type SessionToken struct {
	Encoded string
	Claims  SessionClaims
}

// IsZero reports whether the token is empty.
func (t SessionToken) IsZero() bool {
	return t.Encoded == ""
}
