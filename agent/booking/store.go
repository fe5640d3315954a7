package booking

import (
	"context"
	"errors"
)

var (
	ErrInvalidRestaurant = errors.New("invalid restaurant")
	ErrNilStore          = errors.New("booking store is nil")
)

// Store owns restaurants and reservations and enforces that confirmed party
// sizes at one (restaurant, date, time) never exceed seating capacity.
//
// Lookups return nil without error when the record is absent. CreateReservation
// returns nil without error when the slot has no capacity left.
type Store interface {
	AddRestaurant(ctx context.Context, r Restaurant) error
	GetRestaurant(ctx context.Context, id string) (*Restaurant, error)
	ListRestaurants(ctx context.Context) ([]Restaurant, error)
	SearchRestaurants(ctx context.Context, q SearchQuery) ([]Restaurant, error)
	CheckAvailability(ctx context.Context, restaurantID, date, slot string, partySize int) (bool, error)
	CreateReservation(ctx context.Context, req ReservationRequest) (*Reservation, error)
	// CancelReservation returns true only on the confirmed -> cancelled transition.
	CancelReservation(ctx context.Context, id string) (bool, error)
	GetReservation(ctx context.Context, id string) (*Reservation, error)
}

// Seed adds every restaurant in order.
func Seed(ctx context.Context, store Store, restaurants []Restaurant) error {
	if store == nil {
		return ErrNilStore
	}
	for _, r := range restaurants {
		if err := store.AddRestaurant(ctx, r); err != nil {
			return err
		}
	}
	return nil
}
