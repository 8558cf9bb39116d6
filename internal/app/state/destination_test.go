package state

import (
	"context"
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDestinationFetchAll(t *testing.T) {
	t.Run("forwards filters and replaces the list", func(t *testing.T) {
		var gotQuery url.Values
		store := newTestStore(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotQuery = r.URL.Query()
			w.Write([]byte(`{"success":true,"data":{"destinations":[{"_id":"d1","slug":"goa"}]}}`))
		}))

		filters := url.Values{"category": []string{"beach"}, "country": []string{"India"}}
		require.NoError(t, store.Destinations.FetchAll(context.Background(), filters))

		assert.Equal(t, "beach", gotQuery.Get("category"))
		assert.Equal(t, "India", gotQuery.Get("country"))
		require.Len(t, store.Destinations.Destinations(), 1)
	})

	t.Run("tolerates a bare array response", func(t *testing.T) {
		store := newTestStore(t, jsonResponse(`[{"_id":"d1"},{"_id":"d2"}]`))

		require.NoError(t, store.Destinations.FetchAll(context.Background(), nil))
		assert.Len(t, store.Destinations.Destinations(), 2)
	})
}

func TestDestinationDetail(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/destinations/goa", jsonResponse(`{"success":true,"data":{"destination":{"_id":"d1","slug":"goa","name":"Goa"}}}`))
	mux.HandleFunc("/destinations/goa/hotels", jsonResponse(`{"success":true,"data":{"hotels":[{"_id":"h1"}]}}`))
	mux.HandleFunc("/destinations/goa/attractions", jsonResponse(`{"success":true,"data":{"attractions":[{"_id":"a1"},{"_id":"a2"}]}}`))
	mux.HandleFunc("/destinations/goa/restaurants", jsonResponse(`{"success":true,"data":{"restaurants":[{"_id":"r1"}]}}`))
	store := newTestStore(t, mux)

	require.NoError(t, store.Destinations.FetchDetail(context.Background(), "goa"))

	require.NotNil(t, store.Destinations.Current())
	assert.Equal(t, "Goa", store.Destinations.Current().Name)
	assert.Len(t, store.Destinations.Hotels(), 1)
	assert.Len(t, store.Destinations.Attractions(), 2)
	assert.Len(t, store.Destinations.Restaurants(), 1)

	t.Run("clear drops the detail context and nested lists", func(t *testing.T) {
		store.Destinations.ClearCurrent()

		assert.Nil(t, store.Destinations.Current())
		assert.Empty(t, store.Destinations.Hotels())
		assert.Empty(t, store.Destinations.Attractions())
		assert.Empty(t, store.Destinations.Restaurants())
	})
}

func TestDestinationDetailPartialFailure(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/destinations/goa", jsonResponse(`{"success":true,"data":{"destination":{"_id":"d1","slug":"goa"}}}`))
	mux.HandleFunc("/destinations/goa/hotels", jsonError(http.StatusInternalServerError, "hotels unavailable"))
	mux.HandleFunc("/destinations/goa/attractions", jsonResponse(`{"success":true,"data":{"attractions":[{"_id":"a1"}]}}`))
	mux.HandleFunc("/destinations/goa/restaurants", jsonResponse(`{"success":true,"data":{"restaurants":[]}}`))
	store := newTestStore(t, mux)

	err := store.Destinations.FetchDetail(context.Background(), "goa")
	require.Error(t, err)

	// The failing nested fetch records its own error; the destination itself
	// still loaded.
	assert.NotNil(t, store.Destinations.Current())
	assert.Equal(t, "hotels unavailable", store.Destinations.Err(OpFetchDestHotels))
	assert.Empty(t, store.Destinations.Err(OpFetchDestination))
}
