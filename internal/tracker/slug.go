package tracker

import (
	"github.com/goliatone/go-errors"
	"github.com/sqids/sqids-go"
)

const slugMinLength = 10

// ErrInvalidSlug rejects public ping submissions whose slug does not decode
// to a tracker id.
var ErrInvalidSlug = errors.New("Invalid tracker_id", errors.CategoryBadInput).
	WithCode(errors.CodeBadRequest)

// SlugCodec maps tracker ids to opaque public slugs, so ingest URLs do not
// leak sequential ids.
type SlugCodec struct {
	s *sqids.Sqids
}

func NewSlugCodec() (*SlugCodec, error) {
	s, err := sqids.New(sqids.Options{MinLength: slugMinLength})
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to build slug codec")
	}
	return &SlugCodec{s: s}, nil
}

// Encode turns a tracker id into its public slug.
func (c *SlugCodec) Encode(id int64) (string, error) {
	slug, err := c.s.Encode([]uint64{uint64(id)})
	if err != nil {
		return "", errors.Wrap(err, errors.CategoryInternal, "failed to encode tracker slug")
	}
	return slug, nil
}

// Decode turns a public slug back into a tracker id.
func (c *SlugCodec) Decode(slug string) (int64, error) {
	ids := c.s.Decode(slug)
	if len(ids) == 0 {
		return 0, ErrInvalidSlug
	}
	return int64(ids[0]), nil
}
