package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	// SessionDays is how long an identity claim and its session row live.
	SessionDays = 365
	// ResetTTL bounds the lifetime of reset and welcome claims.
	ResetTTL = 24 * time.Hour
)

// AuthClaims is the identity claim carried by bearer tokens. SessionID ties
// the token to a row in the session registry so it can be revoked.
type AuthClaims struct {
	UserID    uint64    `json:"user_id"`
	SessionID uuid.UUID `json:"uuid"`
	jwt.RegisteredClaims
}

// NewAuthClaims builds an identity claim expiring ttl from now.
func NewAuthClaims(userID uint64, sessionID uuid.UUID, ttl time.Duration) *AuthClaims {
	return &AuthClaims{
		UserID:    userID,
		SessionID: sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
		},
	}
}

// ResetClaims is the stateless claim mailed out for password resets and
// account welcome links. It binds the user id and email together so a
// changed email invalidates outstanding links.
type ResetClaims struct {
	UserID uint64 `json:"user_id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// NewResetClaims builds a reset claim expiring ttl from now.
func NewResetClaims(userID uint64, email string, ttl time.Duration) *ResetClaims {
	return &ResetClaims{
		UserID: userID,
		Email:  email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
		},
	}
}
