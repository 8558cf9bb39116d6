package state

import (
	"context"
	"encoding/json"
	"net/url"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/itsyashbisht/tripsage-client-sub000/internal/api"
	"github.com/itsyashbisht/tripsage-client-sub000/internal/app/models"
)

// Destination operation names. The nested resources keep independent
// loading/error keys so they can be in flight concurrently.
const (
	OpFetchDestinations    = "fetchDestinations"
	OpFetchDestination     = "fetchDestination"
	OpFetchDestHotels      = "fetchDestinationHotels"
	OpFetchDestAttractions = "fetchDestinationAttractions"
	OpFetchDestRestaurants = "fetchDestinationRestaurants"
)

// DestinationSlice owns the destination catalog plus the nested resources of
// the currently viewed destination. Lists are replaced wholesale on each
// successful fetch.
type DestinationSlice struct {
	mu           sync.RWMutex
	destinations []models.Destination
	current      *models.Destination
	hotels       []models.Hotel
	attractions  []models.Attraction
	restaurants  []models.Restaurant

	ops    *opState
	client *api.Client
	logger *zap.Logger
	notify func()
}

func newDestinationSlice(client *api.Client, logger *zap.Logger, notify func()) *DestinationSlice {
	return &DestinationSlice{
		destinations: []models.Destination{},
		hotels:       []models.Hotel{},
		attractions:  []models.Attraction{},
		restaurants:  []models.Restaurant{},
		ops:          newOpState(),
		client:       client,
		logger:       logger,
		notify:       notify,
	}
}

// FetchAll loads the destination catalog with optional filter params.
func (s *DestinationSlice) FetchAll(ctx context.Context, filters url.Values) error {
	seq := s.ops.begin(OpFetchDestinations)
	s.notify()

	var raw json.RawMessage
	if err := s.client.Get(ctx, api.Destinations, filters, &raw); err != nil {
		if s.ops.settleErr(OpFetchDestinations, seq, api.Message(err)) {
			s.notify()
		}
		return err
	}
	if !s.ops.settleOK(OpFetchDestinations, seq) {
		return nil
	}

	list := listPayload[models.Destination](raw, "destinations")
	s.mu.Lock()
	s.destinations = list
	s.mu.Unlock()
	s.notify()
	return nil
}

// FetchBySlug loads one destination.
func (s *DestinationSlice) FetchBySlug(ctx context.Context, slug string) error {
	path, err := api.BuildURL(api.DestinationBySlug, map[string]string{"slug": slug})
	if err != nil {
		return err
	}

	seq := s.ops.begin(OpFetchDestination)
	s.notify()

	var raw json.RawMessage
	if err := s.client.Get(ctx, path, nil, &raw); err != nil {
		if s.ops.settleErr(OpFetchDestination, seq, api.Message(err)) {
			s.notify()
		}
		return err
	}
	if !s.ops.settleOK(OpFetchDestination, seq) {
		return nil
	}

	dest, ok := objectPayload[models.Destination](raw, "destination")
	s.mu.Lock()
	if ok {
		s.current = &dest
	}
	s.mu.Unlock()
	s.notify()
	return nil
}

// FetchHotels loads the hotels of one destination.
func (s *DestinationSlice) FetchHotels(ctx context.Context, slug string) error {
	return s.fetchNested(ctx, api.DestinationHotels, slug, OpFetchDestHotels, func(raw json.RawMessage) {
		list := listPayload[models.Hotel](raw, "hotels")
		s.mu.Lock()
		s.hotels = list
		s.mu.Unlock()
	})
}

// FetchAttractions loads the attractions of one destination.
func (s *DestinationSlice) FetchAttractions(ctx context.Context, slug string) error {
	return s.fetchNested(ctx, api.DestinationAttractions, slug, OpFetchDestAttractions, func(raw json.RawMessage) {
		list := listPayload[models.Attraction](raw, "attractions")
		s.mu.Lock()
		s.attractions = list
		s.mu.Unlock()
	})
}

// FetchRestaurants loads the restaurants of one destination.
func (s *DestinationSlice) FetchRestaurants(ctx context.Context, slug string) error {
	return s.fetchNested(ctx, api.DestinationRestaurants, slug, OpFetchDestRestaurants, func(raw json.RawMessage) {
		list := listPayload[models.Restaurant](raw, "restaurants")
		s.mu.Lock()
		s.restaurants = list
		s.mu.Unlock()
	})
}

func (s *DestinationSlice) fetchNested(ctx context.Context, template, slug, op string, commit func(json.RawMessage)) error {
	path, err := api.BuildURL(template, map[string]string{"slug": slug})
	if err != nil {
		return err
	}

	seq := s.ops.begin(op)
	s.notify()

	var raw json.RawMessage
	if err := s.client.Get(ctx, path, nil, &raw); err != nil {
		if s.ops.settleErr(op, seq, api.Message(err)) {
			s.notify()
		}
		return err
	}
	if !s.ops.settleOK(op, seq) {
		return nil
	}

	commit(raw)
	s.notify()
	return nil
}

// FetchDetail loads a destination and its three nested resources, the
// nested fetches running concurrently since each owns its own op key. The
// first error wins but every fetch still settles its own state.
func (s *DestinationSlice) FetchDetail(ctx context.Context, slug string) error {
	if err := s.FetchBySlug(ctx, slug); err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return s.FetchHotels(gctx, slug) })
	g.Go(func() error { return s.FetchAttractions(gctx, slug) })
	g.Go(func() error { return s.FetchRestaurants(gctx, slug) })
	if err := g.Wait(); err != nil {
		s.logger.Warn("Destination detail fetch incomplete",
			zap.String("slug", slug), zap.Error(err))
		return err
	}
	return nil
}

// ClearCurrent drops the current destination and its nested resources when
// navigating away from the detail context.
func (s *DestinationSlice) ClearCurrent() {
	s.mu.Lock()
	s.current = nil
	s.hotels = []models.Hotel{}
	s.attractions = []models.Attraction{}
	s.restaurants = []models.Restaurant{}
	s.mu.Unlock()
	s.notify()
}

// Destinations returns the catalog list (never nil).
func (s *DestinationSlice) Destinations() []models.Destination {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Destination, len(s.destinations))
	copy(out, s.destinations)
	return out
}

// Current returns the destination in detail context, or nil.
func (s *DestinationSlice) Current() *models.Destination {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return nil
	}
	d := *s.current
	return &d
}

func (s *DestinationSlice) Hotels() []models.Hotel {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Hotel, len(s.hotels))
	copy(out, s.hotels)
	return out
}

func (s *DestinationSlice) Attractions() []models.Attraction {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Attraction, len(s.attractions))
	copy(out, s.attractions)
	return out
}

func (s *DestinationSlice) Restaurants() []models.Restaurant {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Restaurant, len(s.restaurants))
	copy(out, s.restaurants)
	return out
}

func (s *DestinationSlice) Loading(op string) bool { return s.ops.Loading(op) }
func (s *DestinationSlice) Err(op string) string   { return s.ops.Err(op) }
