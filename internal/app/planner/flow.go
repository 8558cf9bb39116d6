package planner

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/itsyashbisht/tripsage-client-sub000/internal/app/models"
	"github.com/itsyashbisht/tripsage-client-sub000/internal/app/state"
)

// FlowState names the planner sequence states.
type FlowState string

const (
	StateForm       FlowState = "form"
	StatePackages   FlowState = "packages"
	StateGenerating FlowState = "generating"
	StateResult     FlowState = "result"
	StateFailed     FlowState = "failed"
)

// TripParams is the ephemeral navigation state threaded between the
// planner, loading and results views. It is readable only by the next view
// and never persisted.
type TripParams struct {
	Origin      string   `json:"origin"`
	Destination string   `json:"destination"`
	StartDate   string   `json:"startDate"`
	EndDate     string   `json:"endDate"`
	Days        int      `json:"days"`
	Adults      int      `json:"adults"`
	Children    int      `json:"children"`
	Tier        string   `json:"tier"`
	Interests   []string `json:"interests"`
	DailyBudget float64  `json:"dailyBudget"`
}

// ResolveParams reconciles the trip parameters for the loading view:
// navigation-state values take precedence, then the persisted planner form,
// then the hard defaults.
func ResolveParams(nav *TripParams, form models.PlannerForm) TripParams {
	defaults := models.DefaultPlannerForm()

	resolved := TripParams{
		Origin:      form.Origin,
		Destination: form.Destination,
		StartDate:   form.StartDate,
		EndDate:     form.EndDate,
		Days:        form.Days,
		Adults:      form.Adults,
		Children:    form.Children,
		Tier:        form.Tier,
		Interests:   append([]string{}, form.Interests...),
		DailyBudget: form.DailyBudget,
	}

	if nav != nil {
		if nav.Origin != "" {
			resolved.Origin = nav.Origin
		}
		if nav.Destination != "" {
			resolved.Destination = nav.Destination
		}
		if nav.StartDate != "" {
			resolved.StartDate = nav.StartDate
		}
		if nav.EndDate != "" {
			resolved.EndDate = nav.EndDate
		}
		if nav.Days > 0 {
			resolved.Days = nav.Days
		}
		if nav.Adults > 0 {
			resolved.Adults = nav.Adults
		}
		if nav.Children > 0 {
			resolved.Children = nav.Children
		}
		if nav.Tier != "" {
			resolved.Tier = nav.Tier
		}
		if len(nav.Interests) > 0 {
			resolved.Interests = append([]string{}, nav.Interests...)
		}
		if nav.DailyBudget > 0 {
			resolved.DailyBudget = nav.DailyBudget
		}
	}

	if resolved.Days < 1 {
		resolved.Days = defaults.Days
	}
	if resolved.Adults < 1 {
		resolved.Adults = defaults.Adults
	}
	if resolved.Tier == "" || !ValidTier(resolved.Tier) {
		resolved.Tier = defaults.Tier
	}
	if resolved.DailyBudget <= 0 {
		resolved.DailyBudget = defaults.DailyBudget
	}
	if resolved.Interests == nil {
		resolved.Interests = []string{}
	}
	return resolved
}

// Flow drives one visitor's planner sequence: Form -> PackagesShown ->
// Generating -> Result | Failed. It persists the form into the generate
// slice, guards the generation dispatch against duplicates, and runs the
// decorative progress simulation alongside the real request.
type Flow struct {
	mu         sync.Mutex
	state      FlowState
	packages   []models.PackageOption
	fieldErrs  FieldErrors
	dispatched bool
	generation uint64

	store      *state.Store
	progress   *Progress
	limiter    *rate.Limiter
	logger     *zap.Logger
	genTimeout time.Duration
}

func NewFlow(store *state.Store, logger *zap.Logger, genTimeout time.Duration, genRate float64) *Flow {
	if genTimeout <= 0 {
		genTimeout = 90 * time.Second
	}
	if genRate <= 0 {
		genRate = 1.0 / 30.0
	}
	return &Flow{
		state:      StateForm,
		packages:   []models.PackageOption{},
		store:      store,
		progress:   NewProgress(nil),
		limiter:    rate.NewLimiter(rate.Limit(genRate), 1),
		logger:     logger,
		genTimeout: genTimeout,
	}
}

// State returns the current flow state.
func (f *Flow) State() FlowState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Packages returns the computed tier options (never nil).
func (f *Flow) Packages() []models.PackageOption {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.PackageOption, len(f.packages))
	copy(out, f.packages)
	return out
}

// FieldErrors returns the inline errors of the last submission.
func (f *Flow) FieldErrors() FieldErrors {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := FieldErrors{}
	for k, v := range f.fieldErrs {
		out[k] = v
	}
	return out
}

// Progress exposes the simulated loading progress.
func (f *Flow) Progress() *Progress {
	return f.progress
}

// SubmitForm validates the form and, when clean, persists it into the
// generate slice, computes the package tiers and moves to PackagesShown.
// On validation failure the flow stays on the form and neither navigation
// nor package computation happens.
func (f *Flow) SubmitForm(form models.PlannerForm) (FieldErrors, []models.PackageOption) {
	errs := ValidateForm(form)
	f.mu.Lock()
	f.fieldErrs = errs
	f.mu.Unlock()

	if len(errs) > 0 {
		return errs, nil
	}

	form.Days = TripDays(form)
	f.store.Generate.ReplacePlannerForm(form)

	packages := ComputePackages(form.Days, form.Adults, form.Children, form.DailyBudget)
	f.mu.Lock()
	f.packages = packages
	f.state = StatePackages
	f.mu.Unlock()

	f.logger.Info("Planner form accepted",
		zap.String("destination", form.Destination),
		zap.Int("days", form.Days))
	return nil, packages
}

// ChooseTier persists the chosen tier into the planner form and returns the
// trip parameters to carry to the loading view as navigation state.
func (f *Flow) ChooseTier(tier string) (TripParams, error) {
	if !ValidTier(tier) {
		return TripParams{}, fmt.Errorf("%w: unknown package tier %q", models.ErrValidation, tier)
	}

	f.store.Generate.SetPlannerForm(state.PlannerFormPatch{Tier: &tier})
	form := f.store.Generate.PlannerForm()

	f.mu.Lock()
	f.dispatched = false
	f.mu.Unlock()

	return ResolveParams(nil, form), nil
}

// BeginGeneration enters Generating: it clears any previous result, starts
// the simulated progress and dispatches the AI generation exactly once per
// loading-view entry. Re-entrant calls while a dispatch is live are no-ops.
func (f *Flow) BeginGeneration(params TripParams) error {
	f.mu.Lock()
	if f.dispatched {
		f.mu.Unlock()
		return nil
	}
	if !f.limiter.Allow() {
		f.mu.Unlock()
		return models.ErrRateLimited
	}
	f.dispatched = true
	f.state = StateGenerating
	f.generation++
	gen := f.generation
	f.mu.Unlock()

	f.store.Generate.ClearGenerated()
	f.progress.Start()

	req := state.GenerateRequest{
		Destination:          params.Destination,
		OriginCity:           params.Origin,
		Days:                 params.Days,
		StartDate:            params.StartDate,
		EndDate:              params.EndDate,
		Adults:               params.Adults,
		Children:             params.Children,
		Tier:                 params.Tier,
		Interests:            params.Interests,
		DailyBudgetPerPerson: params.DailyBudget,
	}

	go func() {
		// The view's request context dies with the page; the generation
		// runs detached under its own deadline.
		ctx, cancel := context.WithTimeout(context.Background(), f.genTimeout)
		defer cancel()

		err := f.store.Generate.GenerateItinerary(ctx, req)

		// Only the latest dispatch may settle the flow. A response that
		// resolves after a retry superseded it (the slice has already
		// discarded its payload) must not touch state or progress.
		f.mu.Lock()
		if f.generation != gen {
			f.mu.Unlock()
			return
		}
		if err != nil {
			f.state = StateFailed
			f.mu.Unlock()
			f.progress.Fail()
			f.logger.Warn("Itinerary generation failed",
				zap.String("destination", params.Destination),
				zap.Error(err))
			return
		}
		f.state = StateResult
		f.mu.Unlock()
		f.progress.Finish()
	}()

	return nil
}

// BackToForm returns to the form after a failure, keeping the persisted
// inputs so the user can retry.
func (f *Flow) BackToForm() {
	f.progress.Stop()
	f.mu.Lock()
	f.state = StateForm
	f.dispatched = false
	// Invalidate any dispatch still in flight so its late settle is dropped.
	f.generation++
	f.mu.Unlock()
}

// Abandon tears down the decorative timers when the visitor leaves the
// flow entirely.
func (f *Flow) Abandon() {
	f.progress.Stop()
}
