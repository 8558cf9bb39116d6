package state

import (
	"context"
	"encoding/json"
	"net/url"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"

	"github.com/itsyashbisht/tripsage-client-sub000/internal/api"
	"github.com/itsyashbisht/tripsage-client-sub000/internal/app/models"
	"github.com/itsyashbisht/tripsage-client-sub000/internal/observability/metrics"
)

// Generate operation names.
const (
	OpGenerate = "generate"
	OpPackages = "packages"
)

// GenerateSlice owns the AI generation operation, the fast server-side
// package estimate, and the long-lived planner form that survives page
// remounts within a session.
type GenerateSlice struct {
	mu        sync.RWMutex
	form      models.PlannerForm
	itinerary *models.Itinerary
	shareURL  string
	meta      *models.GenerationMeta
	packages  []models.PackageOption

	ops    *opState
	client *api.Client
	logger *zap.Logger
	notify func()
}

func newGenerateSlice(client *api.Client, logger *zap.Logger, notify func()) *GenerateSlice {
	return &GenerateSlice{
		form:     models.DefaultPlannerForm(),
		packages: []models.PackageOption{},
		ops:      newOpState(),
		client:   client,
		logger:   logger,
		notify:   notify,
	}
}

// PlannerFormPatch carries field-level edits; nil fields are left alone.
type PlannerFormPatch struct {
	Origin      *string   `json:"origin,omitempty"`
	Destination *string   `json:"destination,omitempty"`
	StartDate   *string   `json:"startDate,omitempty"`
	EndDate     *string   `json:"endDate,omitempty"`
	Days        *int      `json:"days,omitempty"`
	Adults      *int      `json:"adults,omitempty"`
	Children    *int      `json:"children,omitempty"`
	Tier        *string   `json:"tier,omitempty"`
	Interests   *[]string `json:"interests,omitempty"`
	DailyBudget *float64  `json:"dailyBudget,omitempty"`
}

// SetPlannerForm shallow-merges the patch into the persisted form. Fields
// the patch does not carry keep their current value.
func (s *GenerateSlice) SetPlannerForm(patch PlannerFormPatch) {
	s.mu.Lock()
	if patch.Origin != nil {
		s.form.Origin = *patch.Origin
	}
	if patch.Destination != nil {
		s.form.Destination = *patch.Destination
	}
	if patch.StartDate != nil {
		s.form.StartDate = *patch.StartDate
	}
	if patch.EndDate != nil {
		s.form.EndDate = *patch.EndDate
	}
	if patch.Days != nil {
		s.form.Days = *patch.Days
	}
	if patch.Adults != nil {
		s.form.Adults = *patch.Adults
	}
	if patch.Children != nil {
		s.form.Children = *patch.Children
	}
	if patch.Tier != nil {
		s.form.Tier = *patch.Tier
	}
	if patch.Interests != nil {
		s.form.Interests = append([]string{}, (*patch.Interests)...)
	}
	if patch.DailyBudget != nil {
		s.form.DailyBudget = *patch.DailyBudget
	}
	s.mu.Unlock()
	s.notify()
}

// ReplacePlannerForm persists a complete form snapshot, e.g. on planner
// submission.
func (s *GenerateSlice) ReplacePlannerForm(form models.PlannerForm) {
	s.mu.Lock()
	s.form = form
	if s.form.Interests == nil {
		s.form.Interests = []string{}
	}
	s.mu.Unlock()
	s.notify()
}

// ResetPlannerForm restores the planner defaults.
func (s *GenerateSlice) ResetPlannerForm() {
	s.mu.Lock()
	s.form = models.DefaultPlannerForm()
	s.mu.Unlock()
	s.notify()
}

// PlannerForm returns the persisted form snapshot.
func (s *GenerateSlice) PlannerForm() models.PlannerForm {
	s.mu.RLock()
	defer s.mu.RUnlock()
	form := s.form
	form.Interests = append([]string{}, s.form.Interests...)
	return form
}

// GenerateRequest is the /generate request body.
type GenerateRequest struct {
	Destination          string   `json:"destination"`
	OriginCity           string   `json:"originCity"`
	Days                 int      `json:"days"`
	StartDate            string   `json:"startDate"`
	EndDate              string   `json:"endDate"`
	Adults               int      `json:"adults"`
	Children             int      `json:"children"`
	Tier                 string   `json:"tier"`
	Interests            []string `json:"interests"`
	DailyBudgetPerPerson float64  `json:"dailyBudgetPerPerson"`
}

// generateResponse tolerates both a bare itinerary payload and the richer
// {itinerary,shareUrl,meta} shape.
type generateResponse struct {
	Itinerary *models.Itinerary      `json:"itinerary"`
	ShareURL  string                 `json:"shareUrl"`
	Meta      *models.GenerationMeta `json:"meta"`
}

// GenerateItinerary dispatches the AI generation call. Pending clears any
// stale result so prior output never shows during a new in-flight request.
func (s *GenerateSlice) GenerateItinerary(ctx context.Context, req GenerateRequest) error {
	seq := s.ops.begin(OpGenerate)
	s.mu.Lock()
	s.itinerary = nil
	s.shareURL = ""
	s.meta = nil
	s.mu.Unlock()
	s.notify()

	start := time.Now()
	var raw json.RawMessage
	err := s.client.Post(ctx, api.Generate, req, &raw)
	s.recordGeneration(ctx, req.Destination, err, time.Since(start))
	if err != nil {
		if s.ops.settleErr(OpGenerate, seq, api.Message(err)) {
			s.notify()
		}
		return err
	}
	if !s.ops.settleOK(OpGenerate, seq) {
		return nil
	}

	s.mu.Lock()
	if resp, ok := objectPayload[generateResponse](raw); ok && resp.Itinerary != nil {
		s.itinerary = resp.Itinerary
		s.shareURL = resp.ShareURL
		s.meta = resp.Meta
	} else if itinerary, ok := objectPayload[models.Itinerary](raw); ok && len(itinerary.Days) > 0 {
		s.itinerary = &itinerary
	}
	s.mu.Unlock()

	s.logger.Info("Itinerary generated",
		zap.String("destination", req.Destination),
		zap.Int("days", req.Days),
		zap.String("tier", req.Tier))
	s.notify()
	return nil
}

// FetchPackages loads the server-side package pricing estimate.
func (s *GenerateSlice) FetchPackages(ctx context.Context, params url.Values) error {
	seq := s.ops.begin(OpPackages)
	s.notify()

	var raw json.RawMessage
	if err := s.client.Get(ctx, api.GeneratePackages, params, &raw); err != nil {
		if s.ops.settleErr(OpPackages, seq, api.Message(err)) {
			s.notify()
		}
		return err
	}
	if !s.ops.settleOK(OpPackages, seq) {
		return nil
	}

	list := listPayload[models.PackageOption](raw, "packages")
	s.mu.Lock()
	s.packages = list
	s.mu.Unlock()
	s.notify()
	return nil
}

// ClearGenerated drops the generation result. Idempotent: safe to call when
// nothing was generated, and afterwards itinerary, share URL and meta are
// guaranteed nil.
func (s *GenerateSlice) ClearGenerated() {
	s.mu.Lock()
	s.itinerary = nil
	s.shareURL = ""
	s.meta = nil
	s.mu.Unlock()
	s.notify()
}

// Generated returns the generated itinerary, or nil.
func (s *GenerateSlice) Generated() *models.Itinerary {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.itinerary == nil {
		return nil
	}
	it := *s.itinerary
	return &it
}

// ShareURL returns the share URL the generation response carried, or "".
func (s *GenerateSlice) ShareURL() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.shareURL
}

// Meta returns the generation metadata, or nil.
func (s *GenerateSlice) Meta() *models.GenerationMeta {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.meta == nil {
		return nil
	}
	m := *s.meta
	return &m
}

// Packages returns the server package estimate (never nil).
func (s *GenerateSlice) Packages() []models.PackageOption {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.PackageOption, len(s.packages))
	copy(out, s.packages)
	return out
}

func (s *GenerateSlice) Loading(op string) bool { return s.ops.Loading(op) }
func (s *GenerateSlice) Err(op string) string   { return s.ops.Err(op) }

func (s *GenerateSlice) recordGeneration(ctx context.Context, destination string, err error, elapsed time.Duration) {
	m := metrics.TryGet()
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	attrs := metric.WithAttributes(
		attribute.String("destination", destination),
		attribute.String("outcome", outcome),
	)
	m.GenerationsTotal.Add(ctx, 1, attrs)
	m.GenerationDuration.Record(ctx, elapsed.Seconds(), attrs)
}
