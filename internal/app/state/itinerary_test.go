package state

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestItineraryDelete(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/itineraries", jsonResponse(`{
		"success": true,
		"data": {"itineraries": [{"_id": "it1"}, {"_id": "it2"}, {"_id": "it3"}]}
	}`))
	mux.HandleFunc("/itineraries/", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodDelete {
			w.Write([]byte(`{"success": true}`))
			return
		}
		w.Write([]byte(`{"success": true, "data": {"itinerary": {"_id": "it2"}}}`))
	})
	store := newTestStore(t, mux)

	ctx := context.Background()
	require.NoError(t, store.Itineraries.FetchAll(ctx))
	require.NoError(t, store.Itineraries.FetchByID(ctx, "it2"))
	require.NotNil(t, store.Itineraries.Current())
	require.NoError(t, store.Itineraries.Delete(ctx, "it2"))

	list := store.Itineraries.Itineraries()
	require.Len(t, list, 2)
	assert.Equal(t, "it1", list[0].ID)
	assert.Equal(t, "it3", list[1].ID)
	assert.Nil(t, store.Itineraries.Current(), "deleting the current itinerary clears the detail context")
}

func TestItinerarySave(t *testing.T) {
	t.Run("unshifts the returned plan and marks sticky success", func(t *testing.T) {
		mux := http.NewServeMux()
		mux.HandleFunc("/itineraries/user/saved", jsonResponse(`{
			"success": true,
			"data": {"savedPlans": [{"_id": "sp1", "itinerary": {"_id": "old"}}]}
		}`))
		mux.HandleFunc("/itineraries/it9/save", jsonResponse(`{
			"success": true,
			"data": {"savedPlan": {"_id": "sp2", "itinerary": {"_id": "it9"}, "note": "honeymoon"}}
		}`))
		store := newTestStore(t, mux)

		ctx := context.Background()
		require.NoError(t, store.Itineraries.FetchSaved(ctx))
		require.NoError(t, store.Itineraries.Save(ctx, "it9", "honeymoon"))

		saved := store.Itineraries.Saved()
		require.Len(t, saved, 2)
		assert.Equal(t, "it9", saved[0].Itinerary.ID)
		assert.Equal(t, "honeymoon", saved[0].Note)
		assert.True(t, store.Itineraries.Success(OpSaveItinerary))

		store.Itineraries.ClearSaveSuccess()
		assert.False(t, store.Itineraries.Success(OpSaveItinerary))
	})

	t.Run("unsave filters by itinerary identity", func(t *testing.T) {
		mux := http.NewServeMux()
		mux.HandleFunc("/itineraries/user/saved", jsonResponse(`{
			"success": true,
			"data": {"savedPlans": [
				{"_id": "sp1", "itinerary": {"_id": "it1"}},
				{"_id": "sp2", "itinerary": {"_id": "it2"}}
			]}
		}`))
		mux.HandleFunc("/itineraries/it1/save", jsonResponse(`{"success": true}`))
		store := newTestStore(t, mux)

		ctx := context.Background()
		require.NoError(t, store.Itineraries.FetchSaved(ctx))
		require.NoError(t, store.Itineraries.Unsave(ctx, "it1"))

		saved := store.Itineraries.Saved()
		require.Len(t, saved, 1)
		assert.Equal(t, "it2", saved[0].Itinerary.ID)
	})
}

func TestItineraryShare(t *testing.T) {
	t.Run("stores the minted link", func(t *testing.T) {
		store := newTestStore(t, jsonResponse(`{
			"success": true,
			"data": {"share": {"shareUrl": "https://trips.example/t/tok", "shareToken": "tok"}}
		}`))

		require.NoError(t, store.Itineraries.Share(context.Background(), "it1", "copy"))

		share := store.Itineraries.ShareData()
		require.NotNil(t, share)
		assert.Equal(t, "tok", share.ShareToken)

		store.Itineraries.ClearShareData()
		assert.Nil(t, store.Itineraries.ShareData())
	})

	t.Run("only the last fulfilled request wins", func(t *testing.T) {
		firstStarted := make(chan struct{})
		releaseFirst := make(chan struct{})
		var once sync.Once

		store := newTestStore(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var body struct {
				Platform string `json:"platform"`
			}
			_ = json.NewDecoder(r.Body).Decode(&body)

			if body.Platform == "slow" {
				once.Do(func() { close(firstStarted) })
				<-releaseFirst
				w.Write([]byte(`{"success":true,"data":{"share":{"shareToken":"stale"}}}`))
				return
			}
			w.Write([]byte(`{"success":true,"data":{"share":{"shareToken":"fresh"}}}`))
		}))

		var wg sync.WaitGroup
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = store.Itineraries.Share(context.Background(), "it1", "slow")
		}()

		<-firstStarted
		require.NoError(t, store.Itineraries.Share(context.Background(), "it1", "copy"))
		close(releaseFirst)
		wg.Wait()

		share := store.Itineraries.ShareData()
		require.NotNil(t, share)
		assert.Equal(t, "fresh", share.ShareToken, "the superseded response must be discarded")
	})
}

func TestItineraryFetchByShareToken(t *testing.T) {
	store := newTestStore(t, jsonResponse(`{
		"success": true,
		"data": {"itinerary": {"_id": "it1", "title": "Shared Goa Trip"}}
	}`))

	require.NoError(t, store.Itineraries.FetchByShareToken(context.Background(), "tok"))

	shared := store.Itineraries.Shared()
	require.NotNil(t, shared)
	assert.Equal(t, "Shared Goa Trip", shared.Title)
}
