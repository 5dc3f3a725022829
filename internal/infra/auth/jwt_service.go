package auth

import (
	"errors"
	"time"

	"gatekeeper/config"
	"gatekeeper/internal/domain/service"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const defaultSessionTTL = 5 * time.Hour

// jwtService is a concrete implementation of the TokenService interface using the JWT standard.
type jwtService struct {
	secret     string
	sessionTTL time.Duration
}

// NewJWTService is the constructor for jwtService.
// It takes configuration values to create a new token service instance.
func NewJWTService(cfg *config.Config) (service.TokenService, error) {
	if cfg.SecretKey.Access == "" {
		return nil, errors.New("jwt secret must be provided")
	}

	sessionTTL := defaultSessionTTL
	if cfg.Auth != nil && cfg.Auth.SessionTTL > 0 {
		sessionTTL = cfg.Auth.SessionTTL
	}

	return &jwtService{
		secret:     cfg.SecretKey.Access,
		sessionTTL: sessionTTL,
	}, nil
}

// Sign creates a session token carrying the account id as subject.
func (s *jwtService) Sign(accountID uuid.UUID) (string, error) {
	now := time.Now()
	claims := &service.SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   accountID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.sessionTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	return token.SignedString([]byte(s.secret))
}

// Validate checks the validity of a session token string.
func (s *jwtService) Validate(tokenString string) (*service.SessionClaims, error) {
	claims := &service.SessionClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		// Ensure the signing method is what we expect.
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}

		return []byte(s.secret), nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, jwt.ErrTokenUnverifiable
	}

	return claims, nil
}
