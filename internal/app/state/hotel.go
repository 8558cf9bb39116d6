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

// Hotel operation names.
const (
	OpFetchHotels = "fetchHotels"
	OpFetchHotel  = "fetchHotel"
)

// HotelSlice owns the hotel catalog and the currently viewed hotel.
type HotelSlice struct {
	mu      sync.RWMutex
	hotels  []models.Hotel
	current *models.Hotel

	ops    *opState
	client *api.Client
	logger *zap.Logger
	notify func()
}

func newHotelSlice(client *api.Client, logger *zap.Logger, notify func()) *HotelSlice {
	return &HotelSlice{
		hotels: []models.Hotel{},
		ops:    newOpState(),
		client: client,
		logger: logger,
		notify: notify,
	}
}

// FetchAll loads the hotel catalog with optional filter params, replacing
// the list wholesale.
func (s *HotelSlice) FetchAll(ctx context.Context, filters url.Values) error {
	seq := s.ops.begin(OpFetchHotels)
	s.notify()

	var raw json.RawMessage
	if err := s.client.Get(ctx, api.Hotels, filters, &raw); err != nil {
		if s.ops.settleErr(OpFetchHotels, seq, api.Message(err)) {
			s.notify()
		}
		return err
	}
	if !s.ops.settleOK(OpFetchHotels, seq) {
		return nil
	}

	list := listPayload[models.Hotel](raw, "hotels")
	s.mu.Lock()
	s.hotels = list
	s.mu.Unlock()
	s.notify()
	return nil
}

// FetchByID loads one hotel into the detail context.
func (s *HotelSlice) FetchByID(ctx context.Context, hotelID string) error {
	path, err := api.BuildURL(api.HotelByID, map[string]string{"hotelId": hotelID})
	if err != nil {
		return err
	}

	seq := s.ops.begin(OpFetchHotel)
	s.notify()

	var raw json.RawMessage
	if err := s.client.Get(ctx, path, nil, &raw); err != nil {
		if s.ops.settleErr(OpFetchHotel, seq, api.Message(err)) {
			s.notify()
		}
		return err
	}
	if !s.ops.settleOK(OpFetchHotel, seq) {
		return nil
	}

	hotel, ok := objectPayload[models.Hotel](raw, "hotel")
	s.mu.Lock()
	if ok {
		s.current = &hotel
	}
	s.mu.Unlock()
	s.notify()
	return nil
}

// ClearCurrent drops the hotel detail context.
func (s *HotelSlice) ClearCurrent() {
	s.mu.Lock()
	s.current = nil
	s.mu.Unlock()
	s.notify()
}

func (s *HotelSlice) Hotels() []models.Hotel {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Hotel, len(s.hotels))
	copy(out, s.hotels)
	return out
}

func (s *HotelSlice) Current() *models.Hotel {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return nil
	}
	h := *s.current
	return &h
}

func (s *HotelSlice) Loading(op string) bool { return s.ops.Loading(op) }
func (s *HotelSlice) Err(op string) string   { return s.ops.Err(op) }
