package service

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// SessionClaims defines the claims carried by a signed session token.
// The contract with the rest of the system is minimal: the account id,
// stored as the registered subject claim.
type SessionClaims struct {
	jwt.RegisteredClaims
}

// AccountID returns the account id embedded in the claims subject.
func (c *SessionClaims) AccountID() (uuid.UUID, error) {
	return uuid.Parse(c.Subject)
}

// TokenService signs and validates session tokens.
// This abstracts the details of token signing from the use cases.
type TokenService interface {
	// Sign creates a session token whose claims carry the account id.
	Sign(accountID uuid.UUID) (string, error)

	// Validate checks the validity of a session token string.
	Validate(tokenString string) (*SessionClaims, error)
}
