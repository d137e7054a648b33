package httpd

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/gofiber/fiber/v2"
	goerrors "github.com/goliatone/go-errors"
)

type userUpdatePayload struct {
	Email     string `json:"email"`
	GivenName string `json:"given_name"`
	Surname   string `json:"surname"`
}

func (p userUpdatePayload) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Email, validation.Required, is.Email),
		validation.Field(&p.GivenName, validation.Required),
		validation.Field(&p.Surname, validation.Required),
	)
}

type userDTO struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	GivenName string    `json:"given_name"`
	Surname   string    `json:"surname"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (s *Server) userMe(c *fiber.Ctx) error {
	claims, err := s.claims(c)
	if err != nil {
		return err
	}

	user, err := s.cfg.Repo.Users().ByID(c.UserContext(), int64(claims.UserID))
	if err != nil {
		return err
	}

	return c.JSON(userDTO{
		ID:        user.ID,
		Email:     user.Email,
		GivenName: user.GivenName,
		Surname:   user.Surname,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	})
}

func (s *Server) userUpdate(c *fiber.Ctx) error {
	claims, err := s.claims(c)
	if err != nil {
		return err
	}

	var p userUpdatePayload
	if err := parseBody(c, &p); err != nil {
		return err
	}

	ctx := c.UserContext()
	repo := s.cfg.Repo.Users()

	user, err := repo.ByID(ctx, int64(claims.UserID))
	if err != nil {
		return err
	}

	// Re-check uniqueness only when the address actually changes, the
	// unique index backs this up in any case.
	if user.Email != p.Email {
		taken, err := repo.EmailTaken(ctx, p.Email)
		if err != nil {
			return err
		}
		if taken {
			return goerrors.New("Email is taken", goerrors.CategoryValidation).
				WithCode(goerrors.CodeBadRequest)
		}
	}

	user.Email = p.Email
	user.GivenName = p.GivenName
	user.Surname = p.Surname

	if err := repo.Update(ctx, user); err != nil {
		return err
	}

	return c.SendStatus(fiber.StatusAccepted)
}

// userDestroy removes the account; the FK cascade drops its sessions and
// trackers with it.
func (s *Server) userDestroy(c *fiber.Ctx) error {
	claims, err := s.claims(c)
	if err != nil {
		return err
	}

	if err := s.cfg.Repo.Users().Delete(c.UserContext(), int64(claims.UserID)); err != nil {
		return err
	}

	return c.SendStatus(fiber.StatusNoContent)
}
