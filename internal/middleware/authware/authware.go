// Package authware is the per-request authentication pipeline: it extracts
// the bearer token, verifies its signature, confirms the session still
// exists in the registry, and runs the CSRF guard for mutating methods.
package authware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/dracker/dracker/internal/auth"
	"github.com/dracker/dracker/internal/middleware/csrf"
)

// ContextKey is where the middleware stores the verified claims in fiber
// locals.
const ContextKey = "auth:claims"

// CookieName is the fallback token cookie set by POST /login/cookie.
const CookieName = "authorization"

const bearerScheme = "Bearer"

// Config defines the collaborators of the middleware.
type Config struct {
	Tokens   *auth.TokenService
	Sessions auth.Sessions
	Logger   auth.Logger

	// SkipCSRF disables the double submit check, for non-browser clients in
	// tests.
	SkipCSRF bool
}

// New builds the fiber middleware. Order matters: a token failure must
// surface before the CSRF verdict so an attacker cannot probe the guard
// without credentials.
func New(cfg Config) fiber.Handler {
	if cfg.Logger == nil {
		cfg.Logger = auth.NewNopLogger()
	}

	return func(c *fiber.Ctx) error {
		raw := TokenFromRequest(c)
		if raw == "" {
			return auth.ErrCredentialsMissing
		}

		claims, err := cfg.Tokens.ValidateAuth(raw)
		if err != nil {
			return err
		}

		ctx := c.UserContext()

		// A valid signature is not enough, the session row must still be
		// in the registry.
		if _, err := cfg.Sessions.FindActive(ctx, claims.SessionID); err != nil {
			return auth.ErrSessionRevoked
		}

		if err := cfg.Sessions.Touch(ctx, claims.SessionID); err != nil {
			cfg.Logger.Warn("failed to touch session %s: %v", claims.SessionID, err)
		}

		c.Locals(ContextKey, claims)
		c.SetUserContext(auth.WithClaims(ctx, claims))

		if !cfg.SkipCSRF && c.Method() != fiber.MethodGet {
			if err := csrf.Validate(c); err != nil {
				return err
			}
		}

		return c.Next()
	}
}

// TokenFromRequest pulls the bearer token from the Authorization header,
// falling back to the authorization cookie.
func TokenFromRequest(c *fiber.Ctx) string {
	header := c.Get(fiber.HeaderAuthorization)
	if header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], bearerScheme) {
			return strings.TrimSpace(parts[1])
		}
	}
	return c.Cookies(CookieName)
}

// ClaimsFromCtx returns the claims the middleware stored for this request.
func ClaimsFromCtx(c *fiber.Ctx) (*auth.AuthClaims, bool) {
	claims, ok := c.Locals(ContextKey).(*auth.AuthClaims)
	return claims, ok && claims != nil
}
