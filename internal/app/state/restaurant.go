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

// Restaurant operation names.
const (
	OpFetchRestaurants = "fetchRestaurants"
	OpFetchRestaurant  = "fetchRestaurant"
)

// RestaurantSlice owns the restaurant catalog and the currently viewed
// restaurant.
type RestaurantSlice struct {
	mu          sync.RWMutex
	restaurants []models.Restaurant
	current     *models.Restaurant

	ops    *opState
	client *api.Client
	logger *zap.Logger
	notify func()
}

func newRestaurantSlice(client *api.Client, logger *zap.Logger, notify func()) *RestaurantSlice {
	return &RestaurantSlice{
		restaurants: []models.Restaurant{},
		ops:         newOpState(),
		client:      client,
		logger:      logger,
		notify:      notify,
	}
}

// FetchAll loads the restaurant catalog with optional filter params.
func (s *RestaurantSlice) FetchAll(ctx context.Context, filters url.Values) error {
	seq := s.ops.begin(OpFetchRestaurants)
	s.notify()

	var raw json.RawMessage
	if err := s.client.Get(ctx, api.Restaurants, filters, &raw); err != nil {
		if s.ops.settleErr(OpFetchRestaurants, seq, api.Message(err)) {
			s.notify()
		}
		return err
	}
	if !s.ops.settleOK(OpFetchRestaurants, seq) {
		return nil
	}

	list := listPayload[models.Restaurant](raw, "restaurants")
	s.mu.Lock()
	s.restaurants = list
	s.mu.Unlock()
	s.notify()
	return nil
}

// FetchByID loads one restaurant into the detail context.
func (s *RestaurantSlice) FetchByID(ctx context.Context, restaurantID string) error {
	path, err := api.BuildURL(api.RestaurantByID, map[string]string{"restaurantId": restaurantID})
	if err != nil {
		return err
	}

	seq := s.ops.begin(OpFetchRestaurant)
	s.notify()

	var raw json.RawMessage
	if err := s.client.Get(ctx, path, nil, &raw); err != nil {
		if s.ops.settleErr(OpFetchRestaurant, seq, api.Message(err)) {
			s.notify()
		}
		return err
	}
	if !s.ops.settleOK(OpFetchRestaurant, seq) {
		return nil
	}

	restaurant, ok := objectPayload[models.Restaurant](raw, "restaurant")
	s.mu.Lock()
	if ok {
		s.current = &restaurant
	}
	s.mu.Unlock()
	s.notify()
	return nil
}

// ClearCurrent drops the restaurant detail context.
func (s *RestaurantSlice) ClearCurrent() {
	s.mu.Lock()
	s.current = nil
	s.mu.Unlock()
	s.notify()
}

func (s *RestaurantSlice) Restaurants() []models.Restaurant {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Restaurant, len(s.restaurants))
	copy(out, s.restaurants)
	return out
}

func (s *RestaurantSlice) Current() *models.Restaurant {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return nil
	}
	r := *s.current
	return &r
}

func (s *RestaurantSlice) Loading(op string) bool { return s.ops.Loading(op) }
func (s *RestaurantSlice) Err(op string) string   { return s.ops.Err(op) }
