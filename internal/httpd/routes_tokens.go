package httpd

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/dracker/dracker/internal/auth"
)

// tokenDTO is the session listing shape; current marks the session the
// request itself rides on.
type tokenDTO struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	Agent     string    `json:"agent"`
	Current   bool      `json:"current"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func newTokenDTO(token *auth.SessionToken, claims *auth.AuthClaims) tokenDTO {
	return tokenDTO{
		ID:        token.ID,
		UserID:    token.UserID,
		Agent:     token.Agent,
		Current:   token.Token == claims.SessionID,
		CreatedAt: token.CreatedAt,
		UpdatedAt: token.UpdatedAt,
	}
}

func (s *Server) tokenIndex(c *fiber.Ctx) error {
	claims, err := s.claims(c)
	if err != nil {
		return err
	}

	tokens, err := s.cfg.Repo.Sessions().ListByUser(c.UserContext(), int64(claims.UserID), listQuery(c))
	if err != nil {
		return err
	}

	out := make([]tokenDTO, 0, len(tokens))
	for _, token := range tokens {
		out = append(out, newTokenDTO(token, claims))
	}

	return c.JSON(out)
}

func (s *Server) tokenCount(c *fiber.Ctx) error {
	claims, err := s.claims(c)
	if err != nil {
		return err
	}

	n, err := s.cfg.Repo.Sessions().CountByUser(c.UserContext(), int64(claims.UserID), listQuery(c))
	if err != nil {
		return err
	}

	return c.JSON(n)
}

func (s *Server) tokenDestroy(c *fiber.Ctx) error {
	claims, err := s.claims(c)
	if err != nil {
		return err
	}

	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	if err := s.cfg.Repo.Sessions().DeleteByID(c.UserContext(), id, int64(claims.UserID)); err != nil {
		return err
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// tokenDestroyAll is "log out everywhere else": every session but the
// current one goes away.
func (s *Server) tokenDestroyAll(c *fiber.Ctx) error {
	claims, err := s.claims(c)
	if err != nil {
		return err
	}

	if _, err := s.cfg.Auther.RevokeOtherSessions(c.UserContext(), int64(claims.UserID), claims.SessionID); err != nil {
		return err
	}

	return c.SendStatus(fiber.StatusNoContent)
}
