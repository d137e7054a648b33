package tracker_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dracker/dracker/internal/tracker"
)

func TestSlugRoundTrip(t *testing.T) {
	codec, err := tracker.NewSlugCodec()
	require.NoError(t, err)

	for _, id := range []int64{1, 42, 999999} {
		slug, err := codec.Encode(id)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, len(slug), 10)

		got, err := codec.Decode(slug)
		require.NoError(t, err)
		assert.Equal(t, id, got)
	}
}

func TestSlugsAreOpaque(t *testing.T) {
	codec, err := tracker.NewSlugCodec()
	require.NoError(t, err)

	a, err := codec.Encode(1)
	require.NoError(t, err)
	b, err := codec.Encode(2)
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
}

func TestDecodeRejectsGarbage(t *testing.T) {
	codec, err := tracker.NewSlugCodec()
	require.NoError(t, err)

	for _, slug := range []string{"", "!!nonsense!!", "   "} {
		_, err := codec.Decode(slug)
		assert.ErrorIs(t, err, tracker.ErrInvalidSlug)
	}
}
