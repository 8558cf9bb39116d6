package state

import (
	"context"
	"encoding/json"
	"sync"

	"go.uber.org/zap"

	"github.com/itsyashbisht/tripsage-client-sub000/internal/api"
	"github.com/itsyashbisht/tripsage-client-sub000/internal/app/models"
)

// Itinerary operation names.
const (
	OpFetchItineraries = "fetchItineraries"
	OpFetchItinerary   = "fetchItinerary"
	OpFetchShared      = "fetchShared"
	OpFetchUserSaved   = "fetchUserSaved"
	OpDeleteItinerary  = "deleteItinerary"
	OpSaveItinerary    = "saveItinerary"
	OpUnsaveItinerary  = "unsaveItinerary"
	OpShareItinerary   = "shareItinerary"
)

// ItinerarySlice owns itinerary fetching, saving and sharing. Its saved
// list comes from the itinerary-domain endpoint and is kept as a separate
// cache from UserSlice.SavedPlans.
type ItinerarySlice struct {
	mu          sync.RWMutex
	itineraries []models.Itinerary
	current     *models.Itinerary
	shared      *models.Itinerary
	saved       []models.SavedPlan
	shareData   *models.ShareData

	ops    *opState
	client *api.Client
	logger *zap.Logger
	notify func()
}

func newItinerarySlice(client *api.Client, logger *zap.Logger, notify func()) *ItinerarySlice {
	return &ItinerarySlice{
		itineraries: []models.Itinerary{},
		saved:       []models.SavedPlan{},
		ops:         newOpState(),
		client:      client,
		logger:      logger,
		notify:      notify,
	}
}

// FetchAll loads the itinerary list.
func (s *ItinerarySlice) FetchAll(ctx context.Context) error {
	seq := s.ops.begin(OpFetchItineraries)
	s.notify()

	var raw json.RawMessage
	if err := s.client.Get(ctx, api.Itineraries, nil, &raw); err != nil {
		if s.ops.settleErr(OpFetchItineraries, seq, api.Message(err)) {
			s.notify()
		}
		return err
	}
	if !s.ops.settleOK(OpFetchItineraries, seq) {
		return nil
	}

	list := listPayload[models.Itinerary](raw, "itineraries")
	s.mu.Lock()
	s.itineraries = list
	s.mu.Unlock()
	s.notify()
	return nil
}

// FetchByID loads one itinerary into the detail context.
func (s *ItinerarySlice) FetchByID(ctx context.Context, itineraryID string) error {
	path, err := api.BuildURL(api.ItineraryByID, map[string]string{"itineraryId": itineraryID})
	if err != nil {
		return err
	}

	seq := s.ops.begin(OpFetchItinerary)
	s.notify()

	var raw json.RawMessage
	if err := s.client.Get(ctx, path, nil, &raw); err != nil {
		if s.ops.settleErr(OpFetchItinerary, seq, api.Message(err)) {
			s.notify()
		}
		return err
	}
	if !s.ops.settleOK(OpFetchItinerary, seq) {
		return nil
	}

	itinerary, ok := objectPayload[models.Itinerary](raw, "itinerary")
	s.mu.Lock()
	if ok {
		s.current = &itinerary
	}
	s.mu.Unlock()
	s.notify()
	return nil
}

// FetchByShareToken loads a publicly shared itinerary.
func (s *ItinerarySlice) FetchByShareToken(ctx context.Context, shareToken string) error {
	path, err := api.BuildURL(api.ItineraryByShare, map[string]string{"shareToken": shareToken})
	if err != nil {
		return err
	}

	seq := s.ops.begin(OpFetchShared)
	s.notify()

	var raw json.RawMessage
	if err := s.client.Get(ctx, path, nil, &raw); err != nil {
		if s.ops.settleErr(OpFetchShared, seq, api.Message(err)) {
			s.notify()
		}
		return err
	}
	if !s.ops.settleOK(OpFetchShared, seq) {
		return nil
	}

	itinerary, ok := objectPayload[models.Itinerary](raw, "itinerary")
	s.mu.Lock()
	if ok {
		s.shared = &itinerary
	}
	s.mu.Unlock()
	s.notify()
	return nil
}

// FetchSaved loads the saved list from the itinerary-domain endpoint.
func (s *ItinerarySlice) FetchSaved(ctx context.Context) error {
	seq := s.ops.begin(OpFetchUserSaved)
	s.notify()

	var raw json.RawMessage
	if err := s.client.Get(ctx, api.ItinerarySaved, nil, &raw); err != nil {
		if s.ops.settleErr(OpFetchUserSaved, seq, api.Message(err)) {
			s.notify()
		}
		return err
	}
	if !s.ops.settleOK(OpFetchUserSaved, seq) {
		return nil
	}

	saved := listPayload[models.SavedPlan](raw, "savedPlans", "saved")
	s.mu.Lock()
	s.saved = saved
	s.mu.Unlock()
	s.notify()
	return nil
}

// Delete removes an itinerary and filters both in-memory lists by identity
// instead of re-fetching.
func (s *ItinerarySlice) Delete(ctx context.Context, itineraryID string) error {
	path, err := api.BuildURL(api.ItineraryByID, map[string]string{"itineraryId": itineraryID})
	if err != nil {
		return err
	}

	seq := s.ops.begin(OpDeleteItinerary)
	s.notify()

	if err := s.client.Delete(ctx, path, nil); err != nil {
		if s.ops.settleErr(OpDeleteItinerary, seq, api.Message(err)) {
			s.notify()
		}
		return err
	}
	if !s.ops.settleOK(OpDeleteItinerary, seq) {
		return nil
	}

	s.mu.Lock()
	kept := s.itineraries[:0]
	for _, it := range s.itineraries {
		if it.ID != itineraryID {
			kept = append(kept, it)
		}
	}
	s.itineraries = kept
	if s.current != nil && s.current.ID == itineraryID {
		s.current = nil
	}
	s.mu.Unlock()
	s.notify()
	return nil
}

// Save bookmarks an itinerary for the current user with an optional note.
// Success is sticky until the consumer clears it.
func (s *ItinerarySlice) Save(ctx context.Context, itineraryID, note string) error {
	path, err := api.BuildURL(api.ItinerarySave, map[string]string{"itineraryId": itineraryID})
	if err != nil {
		return err
	}

	seq := s.ops.begin(OpSaveItinerary)
	s.ops.clearSuccess(OpSaveItinerary)
	s.notify()

	var raw json.RawMessage
	if err := s.client.Post(ctx, path, map[string]string{"note": note}, &raw); err != nil {
		if s.ops.settleErr(OpSaveItinerary, seq, api.Message(err)) {
			s.notify()
		}
		return err
	}
	if !s.ops.settleOK(OpSaveItinerary, seq) {
		return nil
	}

	if plan, ok := objectPayload[models.SavedPlan](raw, "savedPlan"); ok && plan.Itinerary.ID != "" {
		s.mu.Lock()
		s.saved = append([]models.SavedPlan{plan}, s.saved...)
		s.mu.Unlock()
	}
	s.ops.markSuccess(OpSaveItinerary)
	s.notify()
	return nil
}

// ClearSaveSuccess resets the sticky save success flag.
func (s *ItinerarySlice) ClearSaveSuccess() {
	s.ops.clearSuccess(OpSaveItinerary)
	s.notify()
}

// Unsave removes a bookmark and filters the in-memory list by identity.
func (s *ItinerarySlice) Unsave(ctx context.Context, itineraryID string) error {
	path, err := api.BuildURL(api.ItinerarySave, map[string]string{"itineraryId": itineraryID})
	if err != nil {
		return err
	}

	seq := s.ops.begin(OpUnsaveItinerary)
	s.notify()

	if err := s.client.Delete(ctx, path, nil); err != nil {
		if s.ops.settleErr(OpUnsaveItinerary, seq, api.Message(err)) {
			s.notify()
		}
		return err
	}
	if !s.ops.settleOK(OpUnsaveItinerary, seq) {
		return nil
	}

	s.mu.Lock()
	kept := s.saved[:0]
	for _, plan := range s.saved {
		if plan.Itinerary.ID != itineraryID {
			kept = append(kept, plan)
		}
	}
	s.saved = kept
	s.mu.Unlock()
	s.notify()
	return nil
}

// Share mints a share link for an itinerary. Pending resets shareData so a
// second call racing the first can never surface a conflicting link: only
// the last fulfilled wins.
func (s *ItinerarySlice) Share(ctx context.Context, itineraryID, platform string) error {
	path, err := api.BuildURL(api.ItineraryShare, map[string]string{"itineraryId": itineraryID})
	if err != nil {
		return err
	}

	seq := s.ops.begin(OpShareItinerary)
	s.mu.Lock()
	s.shareData = nil
	s.mu.Unlock()
	s.notify()

	var raw json.RawMessage
	if err := s.client.Post(ctx, path, map[string]string{"platform": platform}, &raw); err != nil {
		if s.ops.settleErr(OpShareItinerary, seq, api.Message(err)) {
			s.notify()
		}
		return err
	}
	if !s.ops.settleOK(OpShareItinerary, seq) {
		return nil
	}

	share, ok := objectPayload[models.ShareData](raw, "share")
	s.mu.Lock()
	if ok {
		s.shareData = &share
	}
	s.mu.Unlock()
	s.notify()
	return nil
}

// ClearShareData drops the share result when leaving the results context so
// a stale link never leaks into a new session.
func (s *ItinerarySlice) ClearShareData() {
	s.mu.Lock()
	s.shareData = nil
	s.mu.Unlock()
	s.notify()
}

// ClearCurrent drops the itinerary detail context.
func (s *ItinerarySlice) ClearCurrent() {
	s.mu.Lock()
	s.current = nil
	s.mu.Unlock()
	s.notify()
}

func (s *ItinerarySlice) Itineraries() []models.Itinerary {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Itinerary, len(s.itineraries))
	copy(out, s.itineraries)
	return out
}

func (s *ItinerarySlice) Current() *models.Itinerary {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return nil
	}
	it := *s.current
	return &it
}

func (s *ItinerarySlice) Shared() *models.Itinerary {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.shared == nil {
		return nil
	}
	it := *s.shared
	return &it
}

func (s *ItinerarySlice) Saved() []models.SavedPlan {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.SavedPlan, len(s.saved))
	copy(out, s.saved)
	return out
}

func (s *ItinerarySlice) ShareData() *models.ShareData {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.shareData == nil {
		return nil
	}
	d := *s.shareData
	return &d
}

func (s *ItinerarySlice) Loading(op string) bool { return s.ops.Loading(op) }
func (s *ItinerarySlice) Err(op string) string   { return s.ops.Err(op) }
func (s *ItinerarySlice) Success(op string) bool { return s.ops.Success(op) }
