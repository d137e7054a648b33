package httpd

import (
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/gofiber/fiber/v2"

	"github.com/dracker/dracker/internal/auth"
	"github.com/dracker/dracker/internal/middleware/authware"
	"github.com/dracker/dracker/internal/middleware/csrf"
)

type loginPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (p loginPayload) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Email, validation.Required, is.Email),
		validation.Field(&p.Password, validation.Required),
	)
}

type signupPayload struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	GivenName string `json:"given_name"`
	Surname   string `json:"surname"`
}

func (p signupPayload) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Email, validation.Required, is.Email),
		validation.Field(&p.Password, validation.Required, validation.Length(8, 0)),
	)
}

type passwordSetPayload struct {
	Token           string `json:"token"`
	Password        string `json:"password"`
	PasswordConfirm string `json:"password_confirm"`
}

func (p passwordSetPayload) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Token, validation.Required),
		validation.Field(&p.Password, validation.Required, validation.Length(8, 0)),
		validation.Field(&p.PasswordConfirm, validation.Required, validation.Length(8, 0)),
	)
}

type passwordForgotPayload struct {
	Email string `json:"email"`
}

func (p passwordForgotPayload) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Email, validation.Required, is.Email),
	)
}

func (s *Server) loginToken(c *fiber.Ctx) error {
	token, err := s.login(c)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(token)
}

// loginCookie performs the same login but hands the token back as an
// HTTPOnly cookie for browser clients that keep it out of script reach.
func (s *Server) loginCookie(c *fiber.Ctx) error {
	token, err := s.login(c)
	if err != nil {
		return err
	}

	c.Cookie(&fiber.Cookie{
		Name:     authware.CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(csrf.CookieMaxAge.Seconds()),
		Secure:   true,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteNoneMode,
	})

	return c.SendStatus(fiber.StatusCreated)
}

func (s *Server) login(c *fiber.Ctx) (string, error) {
	var p loginPayload
	if err := parseBody(c, &p); err != nil {
		return "", err
	}

	agent := c.Get(fiber.HeaderUserAgent)
	if agent == "" {
		agent = "Unknown"
	}

	return s.cfg.Auther.Login(c.UserContext(), p.Email, p.Password, agent)
}

func (s *Server) logout(c *fiber.Ctx) error {
	claims, err := s.claims(c)
	if err != nil {
		return err
	}

	if err := s.cfg.Auther.Logout(c.UserContext(), claims.SessionID, int64(claims.UserID)); err != nil {
		return err
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (s *Server) signup(c *fiber.Ctx) error {
	var p signupPayload
	if err := parseBody(c, &p); err != nil {
		return err
	}

	var created *auth.User
	msg := auth.SignupMessage{
		Email:     p.Email,
		Password:  p.Password,
		GivenName: p.GivenName,
		Surname:   p.Surname,
		OnResponse: func(user *auth.User) {
			created = user
		},
	}

	if err := s.cfg.Signup.Execute(c.UserContext(), msg); err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(created.ID)
}

func (s *Server) passwordSet(c *fiber.Ctx) error {
	var p passwordSetPayload
	if err := parseBody(c, &p); err != nil {
		return err
	}

	msg := auth.FinalizePasswordResetMessage{
		Token:           p.Token,
		Password:        p.Password,
		PasswordConfirm: p.PasswordConfirm,
	}

	if err := s.cfg.ResetFin.Execute(c.UserContext(), msg); err != nil {
		return err
	}

	return c.SendStatus(fiber.StatusAccepted)
}

// passwordForgot accepts every well formed request with 202 whether or not
// the account exists.
func (s *Server) passwordForgot(c *fiber.Ctx) error {
	var p passwordForgotPayload
	if err := parseBody(c, &p); err != nil {
		return err
	}

	msg := auth.InitializePasswordResetMessage{Email: p.Email}
	if err := s.cfg.ResetIni.Execute(c.UserContext(), msg); err != nil {
		return err
	}

	return c.SendStatus(fiber.StatusAccepted)
}
