package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/goliatone/go-errors"
)

// TokenService signs and validates the EdDSA tokens used for identity and
// password reset claims.
type TokenService struct {
	keys   *KeyPair
	logger Logger
}

// NewTokenService creates a TokenService around an immutable key pair.
func NewTokenService(keys *KeyPair, opts ...TokenServiceOption) *TokenService {
	ts := &TokenService{
		keys:   keys,
		logger: defLogger{},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(ts)
		}
	}
	return ts
}

type TokenServiceOption func(*TokenService)

func WithTokenLogger(logger Logger) TokenServiceOption {
	return func(ts *TokenService) {
		if logger != nil {
			ts.logger = logger
		}
	}
}

// SignAuthClaims signs an identity claim into a compact JWT.
func (ts *TokenService) SignAuthClaims(claims *AuthClaims) (string, error) {
	if claims == nil {
		return "", errors.New("claims must not be nil", errors.CategoryInternal)
	}
	return ts.sign(claims)
}

// SignResetClaims signs a reset claim into a compact JWT.
func (ts *TokenService) SignResetClaims(claims *ResetClaims) (string, error) {
	if claims == nil {
		return "", errors.New("claims must not be nil", errors.CategoryInternal)
	}
	return ts.sign(claims)
}

func (ts *TokenService) sign(claims jwt.Claims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodEdDSA, claims)

	signed, err := token.SignedString(ts.keys.Private)
	if err != nil {
		return "", errors.Wrap(err, errors.CategoryInternal, "failed to sign JWT")
	}

	return signed, nil
}

// ValidateAuth parses and verifies an identity token. Malformed, expired,
// tampered and wrong-algorithm tokens all surface the same rejection so the
// response does not leak which check failed.
func (ts *TokenService) ValidateAuth(tokenString string) (*AuthClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &AuthClaims{}, ts.keyFunc)
	if err != nil {
		ts.logger.Debug("token validation failed: %v", err)
		return nil, ErrTokenInvalid
	}

	claims, ok := token.Claims.(*AuthClaims)
	if !ok || !token.Valid {
		return nil, ErrTokenInvalid
	}

	return claims, nil
}

// ValidateReset parses and verifies a reset token with the same uniform
// rejection as ValidateAuth.
func (ts *TokenService) ValidateReset(tokenString string) (*ResetClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &ResetClaims{}, ts.keyFunc)
	if err != nil {
		ts.logger.Debug("reset token validation failed: %v", err)
		return nil, ErrTokenInvalid
	}

	claims, ok := token.Claims.(*ResetClaims)
	if !ok || !token.Valid {
		return nil, ErrTokenInvalid
	}

	return claims, nil
}

func (ts *TokenService) keyFunc(t *jwt.Token) (any, error) {
	if _, ok := t.Method.(*jwt.SigningMethodEd25519); !ok {
		ts.logger.Error("unexpected signing method: %v", t.Header["alg"])
		return nil, jwt.ErrTokenSignatureInvalid
	}
	return ts.keys.Public, nil
}
