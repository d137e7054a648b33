package auth

import (
	"context"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/uptrace/bun"
)

type SignupMessage struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	GivenName string `json:"given_name"`
	Surname   string `json:"surname"`

	OnResponse func(user *User)
}

func (e SignupMessage) Type() string { return "user.signup" }

// SignupHandler creates an account: uniqueness check and insert run in one
// transaction, then a welcome mail with a 24h claim link goes out on a
// detached goroutine.
type SignupHandler struct {
	repo   RepositoryManager
	tokens *TokenService
	mail   MailDispatcher
	spaURL string
	logger Logger
}

func NewSignupHandler(repo RepositoryManager, tokens *TokenService, mail MailDispatcher, spaURL string, logger Logger) *SignupHandler {
	if logger == nil {
		logger = defLogger{}
	}
	return &SignupHandler{
		repo:   repo,
		tokens: tokens,
		mail:   mail,
		spaURL: spaURL,
		logger: logger,
	}
}

func (h *SignupHandler) Execute(ctx context.Context, event SignupMessage) error {
	select {
	case <-ctx.Done():
		return goerrors.Wrap(
			ctx.Err(),
			goerrors.CategoryOperation,
			"context cancelled during signup",
		)
	default:
		return h.execute(ctx, event)
	}
}

func (h *SignupHandler) execute(ctx context.Context, event SignupMessage) error {
	user := &User{}

	ctx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()

	err := h.repo.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		taken, err := h.repo.Users().EmailTaken(ctx, event.Email)
		if err != nil {
			return err
		}
		if taken {
			return ErrEmailTaken
		}

		hash, err := HashPassword(event.Password)
		if err != nil {
			var richErr *goerrors.Error
			if goerrors.As(err, &richErr) && richErr.Category == goerrors.CategoryBadInput {
				return goerrors.Wrap(richErr, goerrors.CategoryValidation, "invalid password provided").
					WithCode(goerrors.CodeBadRequest)
			}
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to hash password")
		}

		user.Email = event.Email
		user.PasswordHash = hash
		user.GivenName = event.GivenName
		user.Surname = event.Surname

		if user, err = h.repo.Users().CreateTx(ctx, tx, user); err != nil {
			return err
		}

		return nil
	})

	if err != nil {
		var richErr *goerrors.Error
		if goerrors.As(err, &richErr) {
			return richErr
		}
		return goerrors.Wrap(err, goerrors.CategoryInternal, "signup transaction failed")
	}

	h.sendWelcome(user)

	if event.OnResponse != nil {
		event.OnResponse(user)
	}

	return nil
}

func (h *SignupHandler) sendWelcome(user *User) {
	if h.mail == nil {
		return
	}

	claims := NewResetClaims(uint64(user.ID), user.Email, ResetTTL)
	token, err := h.tokens.SignResetClaims(claims)
	if err != nil {
		h.logger.Error("failed to sign welcome claim for user %d: %v", user.ID, err)
		return
	}

	link := passwordLink(h.spaURL, token)
	dispatchMail(h.logger, "welcome", func(ctx context.Context) error {
		return h.mail.SendWelcome(ctx, user.Email, user.GivenName, link)
	})
}
