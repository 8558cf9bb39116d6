package state

import (
	"context"
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/itsyashbisht/tripsage-client-sub000/internal/app/models"
)

func strPtr(s string) *string     { return &s }
func intPtr(n int) *int           { return &n }
func floatPtr(f float64) *float64 { return &f }

func TestPlannerFormMerge(t *testing.T) {
	store := newTestStore(t, jsonResponse(`{}`))

	t.Run("defaults are seeded", func(t *testing.T) {
		form := store.Generate.PlannerForm()
		assert.Equal(t, 3, form.Days)
		assert.Equal(t, 2, form.Adults)
		assert.Equal(t, models.TierStandard, form.Tier)
		assert.Equal(t, float64(3000), form.DailyBudget)
		assert.NotNil(t, form.Interests)
	})

	t.Run("patch merges only the carried fields", func(t *testing.T) {
		store.Generate.SetPlannerForm(PlannerFormPatch{
			Destination: strPtr("Goa"),
			Adults:      intPtr(4),
		})

		form := store.Generate.PlannerForm()
		assert.Equal(t, "Goa", form.Destination)
		assert.Equal(t, 4, form.Adults)
		assert.Equal(t, 3, form.Days)
		assert.Equal(t, models.TierStandard, form.Tier)
	})

	t.Run("second patch keeps earlier edits", func(t *testing.T) {
		store.Generate.SetPlannerForm(PlannerFormPatch{DailyBudget: floatPtr(5000)})

		form := store.Generate.PlannerForm()
		assert.Equal(t, "Goa", form.Destination)
		assert.Equal(t, float64(5000), form.DailyBudget)
	})

	t.Run("reset restores defaults", func(t *testing.T) {
		store.Generate.ResetPlannerForm()

		form := store.Generate.PlannerForm()
		assert.Empty(t, form.Destination)
		assert.Equal(t, models.DefaultPlannerForm(), form)
	})
}

func TestGenerateItinerary(t *testing.T) {
	req := GenerateRequest{
		Destination:          "Goa",
		OriginCity:           "Mumbai",
		Days:                 3,
		Adults:               2,
		Tier:                 models.TierStandard,
		Interests:            []string{"beaches"},
		DailyBudgetPerPerson: 3000,
	}

	t.Run("decodes the rich response shape", func(t *testing.T) {
		store := newTestStore(t, jsonResponse(`{
			"success": true,
			"data": {
				"itinerary": {"_id": "it1", "title": "Goa Escape", "days": [{"dayNumber": 1}]},
				"shareUrl": "https://trips.example/t/tok",
				"meta": {"destination": "Goa", "days": 3}
			}
		}`))

		require.NoError(t, store.Generate.GenerateItinerary(context.Background(), req))

		require.NotNil(t, store.Generate.Generated())
		assert.Equal(t, "it1", store.Generate.Generated().ID)
		assert.Equal(t, "https://trips.example/t/tok", store.Generate.ShareURL())
		require.NotNil(t, store.Generate.Meta())
		assert.Equal(t, "Goa", store.Generate.Meta().Destination)
	})

	t.Run("tolerates a bare itinerary payload", func(t *testing.T) {
		store := newTestStore(t, jsonResponse(`{
			"success": true,
			"data": {"_id": "it2", "title": "Goa Escape", "days": [{"dayNumber": 1}]}
		}`))

		require.NoError(t, store.Generate.GenerateItinerary(context.Background(), req))

		require.NotNil(t, store.Generate.Generated())
		assert.Equal(t, "it2", store.Generate.Generated().ID)
		assert.Empty(t, store.Generate.ShareURL())
		assert.Nil(t, store.Generate.Meta())
	})

	t.Run("failure records the upstream message", func(t *testing.T) {
		store := newTestStore(t, jsonError(http.StatusBadRequest, "destination not supported"))

		err := store.Generate.GenerateItinerary(context.Background(), req)
		require.Error(t, err)
		assert.Equal(t, "destination not supported", store.Generate.Err(OpGenerate))
		assert.Nil(t, store.Generate.Generated())
	})
}

func TestClearGenerated(t *testing.T) {
	store := newTestStore(t, jsonResponse(`{
		"success": true,
		"data": {"itinerary": {"_id": "it1", "days": [{"dayNumber": 1}]}, "shareUrl": "u", "meta": {"days": 1}}
	}`))

	require.NoError(t, store.Generate.GenerateItinerary(context.Background(), GenerateRequest{Destination: "Goa"}))
	require.NotNil(t, store.Generate.Generated())

	store.Generate.ClearGenerated()
	assert.Nil(t, store.Generate.Generated())
	assert.Empty(t, store.Generate.ShareURL())
	assert.Nil(t, store.Generate.Meta())

	// Idempotent on an already-empty slice.
	store.Generate.ClearGenerated()
	assert.Nil(t, store.Generate.Generated())
}

func TestFetchPackages(t *testing.T) {
	store := newTestStore(t, jsonResponse(`{
		"success": true,
		"data": {"packages": [
			{"tier": "economy", "total": 9900},
			{"tier": "standard", "total": 18000},
			{"tier": "luxury", "total": 41400}
		]}
	}`))

	params := url.Values{"days": []string{"3"}, "adults": []string{"2"}}
	require.NoError(t, store.Generate.FetchPackages(context.Background(), params))

	packages := store.Generate.Packages()
	require.Len(t, packages, 3)
	assert.Equal(t, models.TierEconomy, packages[0].Tier)
	assert.Equal(t, float64(18000), packages[1].Total)
}
