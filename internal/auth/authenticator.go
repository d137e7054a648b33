package auth

import (
	"context"
	"time"

	"github.com/goliatone/go-errors"
	"github.com/google/uuid"
)

// Authenticator implements the credential flows: login mints a session plus
// a signed identity token, logout and revocation drop registry rows.
type Authenticator struct {
	repo       RepositoryManager
	tokens     *TokenService
	sessionTTL time.Duration
	logger     Logger
}

// NewAuthenticator creates the Authenticator with the default 365 day
// session window.
func NewAuthenticator(repo RepositoryManager, tokens *TokenService, opts ...AuthenticatorOption) *Authenticator {
	a := &Authenticator{
		repo:       repo,
		tokens:     tokens,
		sessionTTL: SessionDays * 24 * time.Hour,
		logger:     defLogger{},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(a)
		}
	}
	return a
}

type AuthenticatorOption func(*Authenticator)

func WithLogger(logger Logger) AuthenticatorOption {
	return func(a *Authenticator) {
		if logger != nil {
			a.logger = logger
		}
	}
}

func WithSessionTTL(ttl time.Duration) AuthenticatorOption {
	return func(a *Authenticator) {
		if ttl > 0 {
			a.sessionTTL = ttl
		}
	}
}

// Login verifies the credentials, registers a fresh session and returns the
// signed bearer token. Unknown email and wrong password are indistinguishable
// to the caller.
func (a *Authenticator) Login(ctx context.Context, email, password, agent string) (string, error) {
	user, err := a.repo.Users().ByEmail(ctx, email)
	if err != nil {
		if errors.IsNotFound(err) {
			a.logger.Debug("login rejected: unknown email")
			return "", ErrInvalidCredentials
		}
		return "", err
	}

	if !VerifyPassword(password, user.PasswordHash) {
		a.logger.Debug("login rejected: password mismatch for user %d", user.ID)
		return "", ErrInvalidCredentials
	}

	sessionID := uuid.New()
	if _, err := a.repo.Sessions().Create(ctx, user.ID, sessionID, agent); err != nil {
		return "", err
	}

	claims := NewAuthClaims(uint64(user.ID), sessionID, a.sessionTTL)
	token, err := a.tokens.SignAuthClaims(claims)
	if err != nil {
		return "", err
	}

	a.logger.Info("user %d logged in, session %s", user.ID, sessionID)
	return token, nil
}

// Logout revokes the session owned by userID. A session that is already
// gone, or owned by someone else, surfaces as an auth failure.
func (a *Authenticator) Logout(ctx context.Context, sessionID uuid.UUID, userID int64) error {
	if err := a.repo.Sessions().Delete(ctx, sessionID, userID); err != nil {
		if errors.IsNotFound(err) {
			return ErrSessionRevoked
		}
		return err
	}
	a.logger.Info("user %d logged out, session %s", userID, sessionID)
	return nil
}

// RevokeOtherSessions drops every session of the user except keep.
func (a *Authenticator) RevokeOtherSessions(ctx context.Context, userID int64, keep uuid.UUID) (int64, error) {
	n, err := a.repo.Sessions().DeleteAllExcept(ctx, userID, keep)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		a.logger.Info("user %d revoked %d other sessions", userID, n)
	}
	return n, nil
}
