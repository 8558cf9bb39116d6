package state

import (
	"sync"

	"go.uber.org/zap"

	"github.com/itsyashbisht/tripsage-client-sub000/internal/api"
)

// Store composes every domain slice into one state container. There is one
// Store per visitor session; slices share the HTTP client, the token store
// and the change-notification fan-out.
type Store struct {
	Auth         *AuthSlice
	User         *UserSlice
	Destinations *DestinationSlice
	Hotels       *HotelSlice
	Restaurants  *RestaurantSlice
	Itineraries  *ItinerarySlice
	Generate     *GenerateSlice
	Reviews      *ReviewSlice

	client *api.Client
	tokens *api.TokenStore

	subMu       sync.Mutex
	subscribers map[int]func()
	nextSubID   int
}

func New(client *api.Client, tokens *api.TokenStore, logger *zap.Logger) *Store {
	s := &Store{
		client:      client,
		tokens:      tokens,
		subscribers: make(map[int]func()),
	}
	notify := s.publish

	s.Auth = newAuthSlice(client, tokens, logger.Named("auth"), notify)
	s.User = newUserSlice(client, logger.Named("user"), notify)
	s.Destinations = newDestinationSlice(client, logger.Named("destination"), notify)
	s.Hotels = newHotelSlice(client, logger.Named("hotel"), notify)
	s.Restaurants = newRestaurantSlice(client, logger.Named("restaurant"), notify)
	s.Itineraries = newItinerarySlice(client, logger.Named("itinerary"), notify)
	s.Generate = newGenerateSlice(client, logger.Named("generate"), notify)
	s.Reviews = newReviewSlice(client, logger.Named("review"), notify)
	return s
}

// Client returns the shared HTTP client.
func (s *Store) Client() *api.Client {
	return s.client
}

// Tokens returns the shared token store.
func (s *Store) Tokens() *api.TokenStore {
	return s.tokens
}

// Subscribe registers a change listener and returns its unsubscribe func.
// Listeners fire after every slice state transition.
func (s *Store) Subscribe(fn func()) func() {
	s.subMu.Lock()
	id := s.nextSubID
	s.nextSubID++
	s.subscribers[id] = fn
	s.subMu.Unlock()

	return func() {
		s.subMu.Lock()
		delete(s.subscribers, id)
		s.subMu.Unlock()
	}
}

func (s *Store) publish() {
	s.subMu.Lock()
	listeners := make([]func(), 0, len(s.subscribers))
	for _, fn := range s.subscribers {
		listeners = append(listeners, fn)
	}
	s.subMu.Unlock()

	for _, fn := range listeners {
		fn()
	}
}
