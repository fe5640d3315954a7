package booking

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// MemoryStore keeps everything in process memory. A single write lock covers
// the availability check and the insert, so concurrent bookings cannot
// overbook a slot.
type MemoryStore struct {
	mu           sync.RWMutex
	restaurants  map[string]Restaurant
	order        []string
	reservations map[string]*Reservation

	now   func() time.Time
	newID func() string
}

type MemoryOption func(*MemoryStore)

func WithClock(now func() time.Time) MemoryOption {
	return func(s *MemoryStore) {
		if now != nil {
			s.now = now
		}
	}
}

func WithIDGenerator(fn func() string) MemoryOption {
	return func(s *MemoryStore) {
		if fn != nil {
			s.newID = fn
		}
	}
}

func NewMemoryStore(opts ...MemoryOption) *MemoryStore {
	s := &MemoryStore{
		restaurants:  make(map[string]Restaurant),
		reservations: make(map[string]*Reservation),
		now:          time.Now,
		newID:        uuid.NewString,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

var _ Store = (*MemoryStore)(nil)

func (s *MemoryStore) AddRestaurant(ctx context.Context, r Restaurant) error {
	if err := r.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.restaurants[r.ID]; !exists {
		s.order = append(s.order, r.ID)
	}
	s.restaurants[r.ID] = cloneRestaurant(r)
	return nil
}

func (s *MemoryStore) GetRestaurant(ctx context.Context, id string) (*Restaurant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.restaurants[id]
	if !ok {
		return nil, nil
	}
	out := cloneRestaurant(r)
	return &out, nil
}

func (s *MemoryStore) ListRestaurants(ctx context.Context) ([]Restaurant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Restaurant, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, cloneRestaurant(s.restaurants[id]))
	}
	return out, nil
}

func (s *MemoryStore) SearchRestaurants(ctx context.Context, q SearchQuery) ([]Restaurant, error) {
	q.Cuisine = strings.TrimSpace(q.Cuisine)
	q.Location = strings.TrimSpace(q.Location)

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Restaurant, 0)
	for _, id := range s.order {
		r := s.restaurants[id]
		if !q.matchesStatic(r) {
			continue
		}
		if q.wantsSlot() && !s.availableLocked(r.ID, q.Date, q.Time, q.slotPartySize()) {
			continue
		}
		out = append(out, cloneRestaurant(r))
	}
	return out, nil
}

func (s *MemoryStore) CheckAvailability(ctx context.Context, restaurantID, date, slot string, partySize int) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.availableLocked(restaurantID, date, slot, partySize), nil
}

func (s *MemoryStore) CreateReservation(ctx context.Context, req ReservationRequest) (*Reservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.availableLocked(req.RestaurantID, req.Date, req.Time, req.PartySize) {
		log.Debug().
			Str("restaurant_id", req.RestaurantID).
			Str("date", req.Date).
			Str("time", req.Time).
			Int("party_size", req.PartySize).
			Msg("reservation declined: no capacity")
		return nil, nil
	}

	res := &Reservation{
		ID:           s.newID(),
		RestaurantID: req.RestaurantID,
		Date:         req.Date,
		Time:         req.Time,
		PartySize:    req.PartySize,
		CustomerName: req.CustomerName,
		CreatedAt:    s.now().UTC(),
		Status:       StatusConfirmed,
	}
	s.reservations[res.ID] = res

	log.Info().
		Str("reservation_id", res.ID).
		Str("restaurant_id", res.RestaurantID).
		Str("date", res.Date).
		Str("time", res.Time).
		Int("party_size", res.PartySize).
		Msg("reservation confirmed")

	out := *res
	return &out, nil
}

func (s *MemoryStore) CancelReservation(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, ok := s.reservations[id]
	if !ok || !res.IsConfirmed() {
		return false, nil
	}
	res.Status = StatusCancelled

	log.Info().Str("reservation_id", id).Msg("reservation cancelled")
	return true, nil
}

func (s *MemoryStore) GetReservation(ctx context.Context, id string) (*Reservation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	res, ok := s.reservations[id]
	if !ok {
		return nil, nil
	}
	out := *res
	return &out, nil
}

// availableLocked must be called with s.mu held.
func (s *MemoryStore) availableLocked(restaurantID, date, slot string, partySize int) bool {
	r, ok := s.restaurants[restaurantID]
	if !ok {
		return false
	}

	booked := 0
	for _, res := range s.reservations {
		if res.RestaurantID == restaurantID && res.Date == date && res.Time == slot && res.IsConfirmed() {
			booked += res.PartySize
		}
	}
	return fits(r.SeatingCapacity, booked, partySize)
}

func cloneRestaurant(r Restaurant) Restaurant {
	if r.OperatingHours != nil {
		hours := make(map[string]DayHours, len(r.OperatingHours))
		for day, h := range r.OperatingHours {
			hours[day] = h
		}
		r.OperatingHours = hours
	}
	return r
}
