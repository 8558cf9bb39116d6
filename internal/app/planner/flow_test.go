package planner

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/itsyashbisht/tripsage-client-sub000/internal/api"
	"github.com/itsyashbisht/tripsage-client-sub000/internal/app/models"
	"github.com/itsyashbisht/tripsage-client-sub000/internal/app/state"
)

func newTestFlow(t *testing.T, handler http.Handler) (*Flow, *state.Store) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	tokens := api.NewTokenStore()
	client := api.NewClient(srv.URL, 5*time.Second, tokens, zap.NewNop())
	store := state.New(client, tokens, zap.NewNop())

	flow := NewFlow(store, zap.NewNop(), 5*time.Second, 100)
	t.Cleanup(flow.Abandon)
	return flow, store
}

func okGeneration() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":true,"data":{"itinerary":{"_id":"it1","days":[{"dayNumber":1}]}}}`))
	}
}

func TestFlowSubmitForm(t *testing.T) {
	t.Run("invalid form stays on the form with no packages", func(t *testing.T) {
		flow, store := newTestFlow(t, okGeneration())

		form := validForm()
		form.Origin = ""
		form.StartDate = "2026-01-10"
		form.EndDate = "2026-01-05"

		errs, packages := flow.SubmitForm(form)
		require.Len(t, errs, 2)
		assert.Nil(t, packages)
		assert.Equal(t, StateForm, flow.State())
		assert.Empty(t, store.Generate.PlannerForm().Origin, "invalid input is not persisted")
	})

	t.Run("valid form persists and moves to the package step", func(t *testing.T) {
		flow, store := newTestFlow(t, okGeneration())

		errs, packages := flow.SubmitForm(validForm())
		require.Empty(t, errs)
		require.Len(t, packages, 3)
		assert.Equal(t, StatePackages, flow.State())

		persisted := store.Generate.PlannerForm()
		assert.Equal(t, "Goa", persisted.Destination)
		assert.Equal(t, 5, persisted.Days, "days derived from the date range")
	})
}

func TestFlowChooseTier(t *testing.T) {
	flow, store := newTestFlow(t, okGeneration())
	_, _ = flow.SubmitForm(validForm())

	t.Run("unknown tier is a validation error", func(t *testing.T) {
		_, err := flow.ChooseTier("platinum")
		require.Error(t, err)
		assert.True(t, errors.Is(err, models.ErrValidation))
	})

	t.Run("valid tier is persisted and resolved into trip params", func(t *testing.T) {
		params, err := flow.ChooseTier(models.TierLuxury)
		require.NoError(t, err)

		assert.Equal(t, models.TierLuxury, params.Tier)
		assert.Equal(t, "Goa", params.Destination)
		assert.Equal(t, 5, params.Days)
		assert.Equal(t, models.TierLuxury, store.Generate.PlannerForm().Tier)
	})
}

func TestResolveParams(t *testing.T) {
	form := validForm()
	form.Days = 5

	t.Run("nav values win over the form", func(t *testing.T) {
		nav := &TripParams{Destination: "Jaipur", Days: 2}
		resolved := ResolveParams(nav, form)

		assert.Equal(t, "Jaipur", resolved.Destination)
		assert.Equal(t, 2, resolved.Days)
		assert.Equal(t, "Mumbai", resolved.Origin, "unset nav fields fall through to the form")
	})

	t.Run("defaults backfill what neither source carries", func(t *testing.T) {
		resolved := ResolveParams(nil, models.PlannerForm{Destination: "Goa"})

		assert.Equal(t, 3, resolved.Days)
		assert.Equal(t, 2, resolved.Adults)
		assert.Equal(t, models.TierStandard, resolved.Tier)
		assert.Equal(t, float64(3000), resolved.DailyBudget)
		assert.NotNil(t, resolved.Interests)
	})

	t.Run("invalid tier falls back to standard", func(t *testing.T) {
		resolved := ResolveParams(&TripParams{Tier: "platinum"}, models.PlannerForm{})
		assert.Equal(t, models.TierStandard, resolved.Tier)
	})
}

func TestFlowBeginGeneration(t *testing.T) {
	t.Run("dispatches once and lands on result", func(t *testing.T) {
		var calls atomic.Int32
		flow, store := newTestFlow(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			w.Write([]byte(`{"success":true,"data":{"itinerary":{"_id":"it1","days":[{"dayNumber":1}]}}}`))
		}))

		params := ResolveParams(nil, validForm())
		require.NoError(t, flow.BeginGeneration(params))
		require.NoError(t, flow.BeginGeneration(params), "re-entry while dispatched is a no-op")

		assert.Eventually(t, func() bool {
			return flow.State() == StateResult
		}, 3*time.Second, 20*time.Millisecond)

		assert.Equal(t, int32(1), calls.Load())
		assert.NotNil(t, store.Generate.Generated())

		percent, _ := flow.Progress().Snapshot()
		assert.Equal(t, 100, percent)
	})

	t.Run("failure lands on failed with the progress reset", func(t *testing.T) {
		flow, store := newTestFlow(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
			w.Write([]byte(`{"success":false,"message":"model overloaded"}`))
		}))

		require.NoError(t, flow.BeginGeneration(ResolveParams(nil, validForm())))

		assert.Eventually(t, func() bool {
			return flow.State() == StateFailed
		}, 3*time.Second, 20*time.Millisecond)

		assert.Equal(t, "model overloaded", store.Generate.Err(state.OpGenerate))
		percent, _ := flow.Progress().Snapshot()
		assert.Equal(t, 0, percent)

		t.Run("back to form allows a retry", func(t *testing.T) {
			flow.BackToForm()
			assert.Equal(t, StateForm, flow.State())
			require.NoError(t, flow.BeginGeneration(ResolveParams(nil, validForm())))
		})
	})

	t.Run("retry supersedes an in-flight dispatch", func(t *testing.T) {
		firstStarted := make(chan struct{})
		releaseFirst := make(chan struct{})
		secondStarted := make(chan struct{})
		releaseSecond := make(chan struct{})
		var calls atomic.Int32

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch calls.Add(1) {
			case 1:
				close(firstStarted)
				<-releaseFirst
				w.Write([]byte(`{"success":true,"data":{"itinerary":{"_id":"it-stale","days":[{"dayNumber":1}]}}}`))
			default:
				close(secondStarted)
				<-releaseSecond
				w.Write([]byte(`{"success":true,"data":{"itinerary":{"_id":"it-fresh","days":[{"dayNumber":1}]}}}`))
			}
		}))
		t.Cleanup(srv.Close)
		closeOnce := func(ch chan struct{}) {
			select {
			case <-ch:
			default:
				close(ch)
			}
		}
		t.Cleanup(func() { closeOnce(releaseFirst); closeOnce(releaseSecond) })

		tokens := api.NewTokenStore()
		store := state.New(api.NewClient(srv.URL, 5*time.Second, tokens, zap.NewNop()), tokens, zap.NewNop())
		// Refill fast enough that the retry is never rate limited.
		flow := NewFlow(store, zap.NewNop(), 5*time.Second, 1e6)
		t.Cleanup(flow.Abandon)

		params := ResolveParams(nil, validForm())
		require.NoError(t, flow.BeginGeneration(params))
		<-firstStarted

		flow.BackToForm()
		require.NoError(t, flow.BeginGeneration(params))
		<-secondStarted

		// The first response resolves while the retry is still in flight.
		// Its payload is discarded by the slice and it must not settle the
		// flow either.
		close(releaseFirst)
		assert.Never(t, func() bool {
			return flow.State() != StateGenerating
		}, 300*time.Millisecond, 20*time.Millisecond, "superseded dispatch settled the flow")
		assert.Nil(t, store.Generate.Generated())
		percent, _ := flow.Progress().Snapshot()
		assert.Less(t, percent, 100)

		close(releaseSecond)
		assert.Eventually(t, func() bool {
			return flow.State() == StateResult
		}, 3*time.Second, 20*time.Millisecond)
		require.NotNil(t, store.Generate.Generated())
		assert.Equal(t, "it-fresh", store.Generate.Generated().ID)
		percent, _ = flow.Progress().Snapshot()
		assert.Equal(t, 100, percent)
	})

	t.Run("rate limiter rejects rapid-fire dispatches", func(t *testing.T) {
		store := func() *state.Store {
			srv := httptest.NewServer(okGeneration())
			t.Cleanup(srv.Close)
			tokens := api.NewTokenStore()
			return state.New(api.NewClient(srv.URL, 5*time.Second, tokens, zap.NewNop()), tokens, zap.NewNop())
		}()

		// Burst of one, effectively no refill within the test window.
		flow := NewFlow(store, zap.NewNop(), 5*time.Second, 1.0/3600.0)
		t.Cleanup(flow.Abandon)

		params := ResolveParams(nil, validForm())
		require.NoError(t, flow.BeginGeneration(params))
		assert.Eventually(t, func() bool {
			return flow.State() == StateResult
		}, 3*time.Second, 20*time.Millisecond)

		flow.BackToForm()
		err := flow.BeginGeneration(params)
		assert.True(t, errors.Is(err, models.ErrRateLimited))
	})
}
