package auth

import (
	"github.com/goliatone/go-errors"
)

// Shared rich errors for the credential flows. Handlers return these as-is;
// the HTTP layer maps category/code to a status and renders {"msg": ...}.
var (
	// ErrInvalidCredentials covers both unknown email and wrong password so
	// the login response does not reveal which one failed.
	ErrInvalidCredentials = errors.New("Invalid Credentials", errors.CategoryAuth).
				WithCode(errors.CodeUnauthorized).
				WithTextCode("INVALID_CREDENTIALS")

	// ErrTokenInvalid is the uniform verdict for any identity or reset token
	// failure: malformed, bad signature, wrong algorithm, or expired.
	ErrTokenInvalid = errors.New("Invalid or expired token", errors.CategoryAuth).
			WithCode(errors.CodeUnauthorized).
			WithTextCode("TOKEN_INVALID")

	// ErrSessionRevoked rejects a structurally valid token whose session row
	// no longer exists in the registry.
	ErrSessionRevoked = errors.New("Session is no longer active", errors.CategoryAuth).
				WithCode(errors.CodeUnauthorized).
				WithTextCode("SESSION_REVOKED")

	// ErrCredentialsMissing rejects requests with neither a bearer header nor
	// an authorization cookie.
	ErrCredentialsMissing = errors.New("Missing authentication token", errors.CategoryAuth).
				WithCode(errors.CodeUnauthorized).
				WithTextCode("CREDENTIALS_MISSING")

	// ErrCSRFMismatch rejects mutating requests whose header and cookie
	// tokens disagree.
	ErrCSRFMismatch = errors.New("CSRF token mismatch", errors.CategoryAuthz).
			WithCode(errors.CodeForbidden).
			WithTextCode("CSRF_MISMATCH")

	// ErrEmailTaken rejects signups and profile updates that would collide
	// with an existing account email.
	ErrEmailTaken = errors.New("Email is taken", errors.CategoryValidation).
			WithCode(errors.CodeBadRequest).
			WithTextCode("EMAIL_TAKEN")

	// ErrPasswordMismatch rejects reset submissions where password and
	// confirmation differ.
	ErrPasswordMismatch = errors.New("Passwords don't match", errors.CategoryValidation).
				WithCode(errors.CodeBadRequest).
				WithTextCode("PASSWORD_MISMATCH")

	// ErrPasswordTooShort enforces the minimum credential length.
	ErrPasswordTooShort = errors.New("Password must be at least 8 characters", errors.CategoryValidation).
				WithCode(errors.CodeBadRequest).
				WithTextCode("PASSWORD_TOO_SHORT")
)

// NotFound builds a not-found error for the given resource name.
func NotFound(resource string) *errors.Error {
	return errors.New(resource+" not found", errors.CategoryNotFound).
		WithCode(errors.CodeNotFound)
}
