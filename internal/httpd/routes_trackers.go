package httpd

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

type trackerDTO struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Desc      string    `json:"desc"`
	Slug      string    `json:"slug"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// trackerIndex lists the caller's trackers with their public ingest slugs.
func (s *Server) trackerIndex(c *fiber.Ctx) error {
	claims, err := s.claims(c)
	if err != nil {
		return err
	}

	trackers, err := s.cfg.Trackers.ListByUser(c.UserContext(), int64(claims.UserID), listQuery(c))
	if err != nil {
		return err
	}

	out := make([]trackerDTO, 0, len(trackers))
	for _, t := range trackers {
		slug, err := s.cfg.Slugs.Encode(t.ID)
		if err != nil {
			return err
		}
		out = append(out, trackerDTO{
			ID:        t.ID,
			Name:      t.Name,
			Desc:      t.Desc,
			Slug:      slug,
			CreatedAt: t.CreatedAt,
			UpdatedAt: t.UpdatedAt,
		})
	}

	return c.JSON(out)
}
