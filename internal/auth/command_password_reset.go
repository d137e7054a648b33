package auth

import (
	"context"
	"time"

	goerrors "github.com/goliatone/go-errors"
)

const minPasswordLength = 8

type InitializePasswordResetMessage struct {
	Email string `json:"email"`
}

func (p InitializePasswordResetMessage) Type() string { return "user.password_reset" }

// InitializePasswordResetHandler mints a 24h reset claim and mails the link.
// From the caller's view it always succeeds: an unknown email is a silent
// no-op so the endpoint cannot be used to enumerate accounts.
type InitializePasswordResetHandler struct {
	repo   RepositoryManager
	tokens *TokenService
	mail   MailDispatcher
	spaURL string
	logger Logger
}

func NewInitializePasswordResetHandler(repo RepositoryManager, tokens *TokenService, mail MailDispatcher, spaURL string, logger Logger) *InitializePasswordResetHandler {
	if logger == nil {
		logger = defLogger{}
	}
	return &InitializePasswordResetHandler{
		repo:   repo,
		tokens: tokens,
		mail:   mail,
		spaURL: spaURL,
		logger: logger,
	}
}

func (h *InitializePasswordResetHandler) Execute(ctx context.Context, event InitializePasswordResetMessage) error {
	select {
	case <-ctx.Done():
		return goerrors.Wrap(
			ctx.Err(),
			goerrors.CategoryOperation,
			"context cancelled during password reset initialization",
		)
	default:
		return h.execute(ctx, event)
	}
}

func (h *InitializePasswordResetHandler) execute(ctx context.Context, event InitializePasswordResetMessage) error {
	ctx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()

	user, err := h.repo.Users().ByEmail(ctx, event.Email)
	if err != nil {
		if goerrors.IsNotFound(err) {
			h.logger.Debug("password reset requested for unknown email")
			return nil
		}
		return err
	}

	claims := NewResetClaims(uint64(user.ID), user.Email, ResetTTL)
	token, err := h.tokens.SignResetClaims(claims)
	if err != nil {
		return err
	}

	if h.mail != nil {
		link := passwordLink(h.spaURL, token)
		name := user.GivenName
		email := user.Email
		dispatchMail(h.logger, "password reset", func(ctx context.Context) error {
			return h.mail.SendPasswordReset(ctx, email, name, link)
		})
	}

	return nil
}

type FinalizePasswordResetMessage struct {
	Token           string `json:"token"`
	Password        string `json:"password"`
	PasswordConfirm string `json:"password_confirm"`
}

func (p FinalizePasswordResetMessage) Type() string { return "user.password_reset_finalize" }

// FinalizePasswordResetHandler validates the submitted pair, verifies the
// signed claim and rehashes the credential. The claim must still match the
// account by id AND email, so changing the address kills outstanding links.
type FinalizePasswordResetHandler struct {
	repo   RepositoryManager
	tokens *TokenService
	logger Logger
}

func NewFinalizePasswordResetHandler(repo RepositoryManager, tokens *TokenService, logger Logger) *FinalizePasswordResetHandler {
	if logger == nil {
		logger = defLogger{}
	}
	return &FinalizePasswordResetHandler{
		repo:   repo,
		tokens: tokens,
		logger: logger,
	}
}

func (h *FinalizePasswordResetHandler) Execute(ctx context.Context, event FinalizePasswordResetMessage) error {
	select {
	case <-ctx.Done():
		return goerrors.Wrap(
			ctx.Err(),
			goerrors.CategoryOperation,
			"context cancelled during password reset finalization",
		)
	default:
		return h.execute(ctx, event)
	}
}

func (h *FinalizePasswordResetHandler) execute(ctx context.Context, event FinalizePasswordResetMessage) error {
	// Input checks come before any claim work so a bad submission never
	// burns a still-valid link.
	if event.Password != event.PasswordConfirm {
		return ErrPasswordMismatch
	}
	if len(event.Password) < minPasswordLength {
		return ErrPasswordTooShort
	}

	claims, err := h.tokens.ValidateReset(event.Token)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()

	user, err := h.repo.Users().ByIDAndEmail(ctx, int64(claims.UserID), claims.Email)
	if err != nil {
		if goerrors.IsNotFound(err) {
			return ErrTokenInvalid
		}
		return err
	}

	hash, err := HashPassword(event.Password)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to hash password")
	}

	if err := h.repo.Users().UpdatePassword(ctx, user.ID, hash); err != nil {
		return err
	}

	h.logger.Info("password updated for user %d", user.ID)
	return nil
}
