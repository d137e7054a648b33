package httpd

import (
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/gofiber/fiber/v2"

	"github.com/dracker/dracker/internal/tracker"
)

type pingPayload struct {
	TrackerID int64   `json:"tracker_id"`
	Lat       float64 `json:"lat"`
	Lon       float64 `json:"lon"`
	Note      string  `json:"note"`
}

func (p pingPayload) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.TrackerID, validation.Required),
		validation.Field(&p.Lat, validation.Min(-90.0), validation.Max(90.0)),
		validation.Field(&p.Lon, validation.Min(-180.0), validation.Max(180.0)),
	)
}

type pingIngestPayload struct {
	Slug string  `json:"slug"`
	Lat  float64 `json:"lat"`
	Lon  float64 `json:"lon"`
	Note string  `json:"note"`
}

func (p pingIngestPayload) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Slug, validation.Required),
		validation.Field(&p.Lat, validation.Min(-90.0), validation.Max(90.0)),
		validation.Field(&p.Lon, validation.Min(-180.0), validation.Max(180.0)),
	)
}

func (s *Server) pingIndex(c *fiber.Ctx) error {
	pings, err := s.cfg.Pings.List(c.UserContext(), listQuery(c))
	if err != nil {
		return err
	}
	return c.JSON(pings)
}

func (s *Server) pingCount(c *fiber.Ctx) error {
	n, err := s.cfg.Pings.Count(c.UserContext(), listQuery(c))
	if err != nil {
		return err
	}
	return c.JSON(n)
}

func (s *Server) pingStore(c *fiber.Ctx) error {
	var p pingPayload
	if err := parseBody(c, &p); err != nil {
		return err
	}

	ping, err := s.cfg.Pings.Create(c.UserContext(), &tracker.Ping{
		TrackerID: p.TrackerID,
		Lat:       p.Lat,
		Lon:       p.Lon,
		Note:      p.Note,
	})
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(ping.ID)
}

// pingIngest is the public submission endpoint for devices. The slug stands
// in for the tracker id so the URL carries no enumerable identifier.
func (s *Server) pingIngest(c *fiber.Ctx) error {
	var p pingIngestPayload
	if err := parseBody(c, &p); err != nil {
		return err
	}

	trackerID, err := s.cfg.Slugs.Decode(p.Slug)
	if err != nil {
		return err
	}

	ping, err := s.cfg.Pings.Create(c.UserContext(), &tracker.Ping{
		TrackerID: trackerID,
		Lat:       p.Lat,
		Lon:       p.Lon,
		Note:      p.Note,
	})
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(ping.ID)
}
