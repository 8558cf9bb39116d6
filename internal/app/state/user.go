package state

import (
	"context"
	"encoding/json"
	"sync"

	"go.uber.org/zap"

	"github.com/itsyashbisht/tripsage-client-sub000/internal/api"
	"github.com/itsyashbisht/tripsage-client-sub000/internal/app/models"
)

// User operation names.
const (
	OpFetchProfile   = "fetchProfile"
	OpUpdateProfile  = "updateProfile"
	OpChangePassword = "changePassword"
	OpFetchSaved     = "fetchSaved"
	OpRemoveSaved    = "removeSaved"
)

// UserSlice owns the editable profile view and the "my saved plans" list
// served by the user endpoints. The itinerary slice keeps its own saved
// view from the itinerary-domain endpoint; the two caches are deliberately
// independent. When the auth slice reports unauthenticated, the profile
// here is stale by definition.
type UserSlice struct {
	mu         sync.RWMutex
	profile    *models.User
	savedPlans []models.SavedPlan

	ops    *opState
	client *api.Client
	logger *zap.Logger
	notify func()
}

func newUserSlice(client *api.Client, logger *zap.Logger, notify func()) *UserSlice {
	return &UserSlice{
		savedPlans: []models.SavedPlan{},
		ops:        newOpState(),
		client:     client,
		logger:     logger,
		notify:     notify,
	}
}

// FetchProfile loads the editable profile.
func (s *UserSlice) FetchProfile(ctx context.Context) error {
	seq := s.ops.begin(OpFetchProfile)
	s.notify()

	var raw json.RawMessage
	if err := s.client.Get(ctx, api.UserProfile, nil, &raw); err != nil {
		if s.ops.settleErr(OpFetchProfile, seq, api.Message(err)) {
			s.notify()
		}
		return err
	}
	if !s.ops.settleOK(OpFetchProfile, seq) {
		return nil
	}

	profile, ok := objectPayload[models.User](raw, "user", "profile")
	s.mu.Lock()
	if ok {
		s.profile = &profile
	}
	s.mu.Unlock()
	s.notify()
	return nil
}

// ProfilePatch carries the editable profile fields for an update.
type ProfilePatch struct {
	Name   string `json:"name,omitempty"`
	Email  string `json:"email,omitempty"`
	Avatar string `json:"avatar,omitempty"`
}

// UpdateProfile patches the profile and merges the response into the
// existing profile object rather than replacing it.
func (s *UserSlice) UpdateProfile(ctx context.Context, patch ProfilePatch) error {
	seq := s.ops.begin(OpUpdateProfile)
	s.ops.clearSuccess(OpUpdateProfile)
	s.notify()

	var raw json.RawMessage
	if err := s.client.Patch(ctx, api.UserUpdate, patch, &raw); err != nil {
		if s.ops.settleErr(OpUpdateProfile, seq, api.Message(err)) {
			s.notify()
		}
		return err
	}
	if !s.ops.settleOK(OpUpdateProfile, seq) {
		return nil
	}

	updated, ok := objectPayload[models.User](raw, "user", "profile")
	s.mu.Lock()
	if ok {
		if s.profile == nil {
			s.profile = &updated
		} else {
			mergeUser(s.profile, updated)
		}
	}
	s.mu.Unlock()
	s.ops.markSuccess(OpUpdateProfile)
	s.notify()
	return nil
}

// mergeUser copies non-zero fields of src onto dst.
func mergeUser(dst *models.User, src models.User) {
	if src.ID != "" {
		dst.ID = src.ID
	}
	if src.Name != "" {
		dst.Name = src.Name
	}
	if src.Email != "" {
		dst.Email = src.Email
	}
	if src.Avatar != "" {
		dst.Avatar = src.Avatar
	}
	if src.Role != "" {
		dst.Role = src.Role
	}
	if !src.CreatedAt.IsZero() {
		dst.CreatedAt = src.CreatedAt
	}
	dst.IsVerified = dst.IsVerified || src.IsVerified
}

// ChangePassword updates the password. Success is sticky until the consumer
// clears it.
func (s *UserSlice) ChangePassword(ctx context.Context, current, next string) error {
	seq := s.ops.begin(OpChangePassword)
	s.ops.clearSuccess(OpChangePassword)
	s.notify()

	body := map[string]string{"currentPassword": current, "newPassword": next}
	if err := s.client.Patch(ctx, api.UserChangePassword, body, nil); err != nil {
		if s.ops.settleErr(OpChangePassword, seq, api.Message(err)) {
			s.notify()
		}
		return err
	}
	if !s.ops.settleOK(OpChangePassword, seq) {
		return nil
	}
	s.ops.markSuccess(OpChangePassword)
	s.notify()
	return nil
}

// ClearPasswordSuccess resets the sticky change-password success flag.
func (s *UserSlice) ClearPasswordSuccess() {
	s.ops.clearSuccess(OpChangePassword)
	s.notify()
}

// FetchSavedPlans loads the user's saved plans from the user endpoint.
func (s *UserSlice) FetchSavedPlans(ctx context.Context) error {
	seq := s.ops.begin(OpFetchSaved)
	s.notify()

	var raw json.RawMessage
	if err := s.client.Get(ctx, api.UserSavedPlans, nil, &raw); err != nil {
		if s.ops.settleErr(OpFetchSaved, seq, api.Message(err)) {
			s.notify()
		}
		return err
	}
	if !s.ops.settleOK(OpFetchSaved, seq) {
		return nil
	}

	plans := listPayload[models.SavedPlan](raw, "savedPlans", "plans")
	s.mu.Lock()
	s.savedPlans = plans
	s.mu.Unlock()
	s.notify()
	return nil
}

// RemoveSavedPlan deletes one saved plan and filters it out of the
// in-memory list by itinerary identity instead of re-fetching.
func (s *UserSlice) RemoveSavedPlan(ctx context.Context, itineraryID string) error {
	path, err := api.BuildURL(api.UserRemoveSaved, map[string]string{"itineraryId": itineraryID})
	if err != nil {
		return err
	}

	seq := s.ops.begin(OpRemoveSaved)
	s.notify()

	if err := s.client.Delete(ctx, path, nil); err != nil {
		if s.ops.settleErr(OpRemoveSaved, seq, api.Message(err)) {
			s.notify()
		}
		return err
	}
	if !s.ops.settleOK(OpRemoveSaved, seq) {
		return nil
	}

	s.mu.Lock()
	kept := s.savedPlans[:0]
	for _, plan := range s.savedPlans {
		if plan.Itinerary.ID != itineraryID {
			kept = append(kept, plan)
		}
	}
	s.savedPlans = kept
	s.mu.Unlock()
	s.notify()
	return nil
}

// Profile returns the current editable profile, or nil when not loaded.
func (s *UserSlice) Profile() *models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.profile == nil {
		return nil
	}
	p := *s.profile
	return &p
}

// SavedPlans returns the saved plans list (never nil).
func (s *UserSlice) SavedPlans() []models.SavedPlan {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.SavedPlan, len(s.savedPlans))
	copy(out, s.savedPlans)
	return out
}

func (s *UserSlice) Loading(op string) bool { return s.ops.Loading(op) }
func (s *UserSlice) Err(op string) string   { return s.ops.Err(op) }
func (s *UserSlice) Success(op string) bool { return s.ops.Success(op) }
