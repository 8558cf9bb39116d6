package api

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildURL(t *testing.T) {
	t.Run("substitutes a single param", func(t *testing.T) {
		path, err := BuildURL(DestinationBySlug, map[string]string{"slug": "goa"})
		require.NoError(t, err)
		assert.Equal(t, "/destinations/goa", path)
	})

	t.Run("substitutes every placeholder", func(t *testing.T) {
		path, err := BuildURL("/destinations/:slug/hotels/:hotelId", map[string]string{
			"slug":    "goa",
			"hotelId": "abc123",
		})
		require.NoError(t, err)
		assert.Equal(t, "/destinations/goa/hotels/abc123", path)
	})

	t.Run("url-encodes param values", func(t *testing.T) {
		path, err := BuildURL(DestinationBySlug, map[string]string{"slug": "new delhi"})
		require.NoError(t, err)
		assert.Equal(t, "/destinations/new%20delhi", path)
	})

	t.Run("fails on missing param", func(t *testing.T) {
		_, err := BuildURL(ItineraryByID, map[string]string{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "itineraryId")
	})

	t.Run("fails on empty param value", func(t *testing.T) {
		_, err := BuildURL(ItineraryByID, map[string]string{"itineraryId": ""})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "missing")
	})

	t.Run("fails on unknown param", func(t *testing.T) {
		_, err := BuildURL(Hotels, map[string]string{"hotelId": "h1"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unknown param")
	})

	t.Run("template without placeholders passes through", func(t *testing.T) {
		path, err := BuildURL(Generate, nil)
		require.NoError(t, err)
		assert.Equal(t, "/generate", path)
	})
}
