package state

import (
	"context"
	"encoding/json"
	"net/url"
	"sync"

	"go.uber.org/zap"

	"github.com/itsyashbisht/tripsage-client-sub000/internal/api"
	"github.com/itsyashbisht/tripsage-client-sub000/internal/app/models"
)

// Review operation names.
const (
	OpFetchReviews = "fetchReviews"
	OpAddReview    = "addReview"
	OpRemoveReview = "removeReview"
)

// ReviewSlice owns the reviews of one destination. Reviews are append and
// remove only; there is no edit.
type ReviewSlice struct {
	mu      sync.RWMutex
	reviews []models.Review

	ops    *opState
	client *api.Client
	logger *zap.Logger
	notify func()
}

func newReviewSlice(client *api.Client, logger *zap.Logger, notify func()) *ReviewSlice {
	return &ReviewSlice{
		reviews: []models.Review{},
		ops:     newOpState(),
		client:  client,
		logger:  logger,
		notify:  notify,
	}
}

// Fetch loads the reviews for a destination.
func (s *ReviewSlice) Fetch(ctx context.Context, destinationID string) error {
	seq := s.ops.begin(OpFetchReviews)
	s.notify()

	query := url.Values{"destinationId": []string{destinationID}}
	var raw json.RawMessage
	if err := s.client.Get(ctx, api.Reviews, query, &raw); err != nil {
		if s.ops.settleErr(OpFetchReviews, seq, api.Message(err)) {
			s.notify()
		}
		return err
	}
	if !s.ops.settleOK(OpFetchReviews, seq) {
		return nil
	}

	list := listPayload[models.Review](raw, "reviews")
	s.mu.Lock()
	s.reviews = list
	s.mu.Unlock()
	s.notify()
	return nil
}

// ReviewInput is the payload for adding a review.
type ReviewInput struct {
	DestinationID string  `json:"destinationId"`
	Rating        float64 `json:"rating"`
	Comment       string  `json:"comment"`
	TripDate      string  `json:"tripDate"`
}

// Add posts a review and optimistically unshifts the response record onto
// the front of the list instead of re-fetching.
func (s *ReviewSlice) Add(ctx context.Context, input ReviewInput) error {
	seq := s.ops.begin(OpAddReview)
	s.notify()

	var raw json.RawMessage
	if err := s.client.Post(ctx, api.Reviews, input, &raw); err != nil {
		if s.ops.settleErr(OpAddReview, seq, api.Message(err)) {
			s.notify()
		}
		return err
	}
	if !s.ops.settleOK(OpAddReview, seq) {
		return nil
	}

	if review, ok := objectPayload[models.Review](raw, "review"); ok && review.ID != "" {
		s.mu.Lock()
		s.reviews = append([]models.Review{review}, s.reviews...)
		s.mu.Unlock()
	}
	s.notify()
	return nil
}

// Remove deletes a review and filters the in-memory list by identity.
func (s *ReviewSlice) Remove(ctx context.Context, reviewID string) error {
	path, err := api.BuildURL(api.ReviewByID, map[string]string{"reviewId": reviewID})
	if err != nil {
		return err
	}

	seq := s.ops.begin(OpRemoveReview)
	s.notify()

	if err := s.client.Delete(ctx, path, nil); err != nil {
		if s.ops.settleErr(OpRemoveReview, seq, api.Message(err)) {
			s.notify()
		}
		return err
	}
	if !s.ops.settleOK(OpRemoveReview, seq) {
		return nil
	}

	s.mu.Lock()
	kept := s.reviews[:0]
	for _, review := range s.reviews {
		if review.ID != reviewID {
			kept = append(kept, review)
		}
	}
	s.reviews = kept
	s.mu.Unlock()
	s.notify()
	return nil
}

// Reviews returns the review list (never nil).
func (s *ReviewSlice) Reviews() []models.Review {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Review, len(s.reviews))
	copy(out, s.reviews)
	return out
}

func (s *ReviewSlice) Loading(op string) bool { return s.ops.Loading(op) }
func (s *ReviewSlice) Err(op string) string   { return s.ops.Err(op) }
