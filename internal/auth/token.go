package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"invently_backend/internal/config"
)

// SessionTTL is how long a session token stays valid after issuance.
const SessionTTL = 5 * 24 * time.Hour

// ErrInvalidToken is the only failure Parse reports. Callers cannot
// tell a malformed token from an expired one or a bad signature.
var ErrInvalidToken = errors.New("invalid token")

type Claims struct {
	UserID string `json:"user_id"`
	jwt.RegisteredClaims
}

// TokenManager signs and verifies session tokens with a single
// process-wide secret fixed at startup.
type TokenManager struct {
	secret []byte
}

// NewTokenManager fails when the secret is unset so the process never
// starts issuing unsigned sessions.
func NewTokenManager(secret string) (*TokenManager, error) {
	if secret == "" {
		return nil, config.ErrMissingJWTSecret
	}
	return &TokenManager{secret: []byte(secret)}, nil
}

// Generate issues a signed session token for the user, expiring
// SessionTTL from now.
func (m *TokenManager) Generate(userID string) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(SessionTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// Parse checks signature and expiry and returns the user ID carried by
// the token.
func (m *TokenManager) Parse(tokenStr string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return m.secret, nil
	})
	if err != nil || !token.Valid {
		return "", ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || claims.UserID == "" {
		return "", ErrInvalidToken
	}

	return claims.UserID, nil
}
