// Package csrf implements the double submit token guard: the token lives in
// a cookie the SPA cannot read across origins, and every mutating request
// must repeat it in a header.
package csrf

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"io"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-errors"
)

// TokenName is both the cookie name and the header name.
const TokenName = "x-csrf-token"

// TokenLength is the number of random bytes behind each token.
const TokenLength = 32

// CookieMaxAge matches the session window.
const CookieMaxAge = 365 * 24 * time.Hour

// ErrMismatch rejects mutating requests whose header and cookie disagree.
var ErrMismatch = errors.New("CSRF token mismatch", errors.CategoryAuthz).
	WithCode(errors.CodeForbidden).
	WithTextCode("CSRF_MISMATCH")

// NewToken generates a fresh random token, base64 url encoded without
// padding.
func NewToken() (string, error) {
	buf := make([]byte, TokenLength)
	if _, err := io.ReadFull(rand.Reader, buf); err != nil {
		return "", errors.Wrap(err, errors.CategoryInternal, "failed to generate CSRF token")
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// TokenHandler serves GET /csrf. It reuses the caller's existing cookie
// value when present, otherwise mints a new token, then sets the cookie and
// echoes the value in the response header with status 201.
func TokenHandler(c *fiber.Ctx) error {
	token := c.Cookies(TokenName)
	if token == "" {
		fresh, err := NewToken()
		if err != nil {
			return err
		}
		token = fresh
	}

	c.Cookie(&fiber.Cookie{
		Name:     TokenName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(CookieMaxAge.Seconds()),
		Secure:   true,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteNoneMode,
	})
	c.Set(TokenName, token)

	return c.SendStatus(fiber.StatusCreated)
}

// Validate compares the request header token against the cookie token in
// constant time. An absent value on either side counts as empty and fails
// the comparison.
func Validate(c *fiber.Ctx) error {
	header := c.Get(TokenName)
	cookie := c.Cookies(TokenName)

	if header == "" || cookie == "" {
		return ErrMismatch
	}

	if subtle.ConstantTimeCompare([]byte(header), []byte(cookie)) != 1 {
		return ErrMismatch
	}

	return nil
}
