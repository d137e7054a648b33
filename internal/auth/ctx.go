package auth

import "context"

type contextKey string

const claimsContextKey contextKey = "auth:claims"

// WithClaims returns a context carrying the authenticated claims.
func WithClaims(ctx context.Context, claims *AuthClaims) context.Context {
	return context.WithValue(ctx, claimsContextKey, claims)
}

// ClaimsFromContext retrieves the authenticated claims, if any.
func ClaimsFromContext(ctx context.Context) (*AuthClaims, bool) {
	claims, ok := ctx.Value(claimsContextKey).(*AuthClaims)
	return claims, ok && claims != nil
}
