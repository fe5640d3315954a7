package booking

import (
	"fmt"
	"strings"
	"time"
)

type PriceRange string

const (
	PriceBudget   PriceRange = "$"
	PriceModerate PriceRange = "$$"
	PriceUpscale  PriceRange = "$$$"
	PriceFineDine PriceRange = "$$$$"
)

const (
	minRating = 1.0
	maxRating = 5.0
)

var PriceRanges = []PriceRange{PriceBudget, PriceModerate, PriceUpscale, PriceFineDine}

func (p PriceRange) Valid() bool {
	for _, v := range PriceRanges {
		if v == p {
			return true
		}
	}
	return false
}

type ReservationStatus string

const (
	StatusConfirmed ReservationStatus = "confirmed"
	StatusCancelled ReservationStatus = "cancelled"
)

type DayHours struct {
	Open  string `json:"open" yaml:"open"`
	Close string `json:"close" yaml:"close"`
}

// Restaurant is immutable once it has been added to a store.
type Restaurant struct {
	ID              string              `json:"id" yaml:"id"`
	Name            string              `json:"name" yaml:"name"`
	Cuisine         string              `json:"cuisine" yaml:"cuisine"`
	Location        string              `json:"location" yaml:"location"`
	Address         string              `json:"address" yaml:"address"`
	SeatingCapacity int                 `json:"seating_capacity" yaml:"seating_capacity"`
	OperatingHours  map[string]DayHours `json:"operating_hours" yaml:"operating_hours"`
	PriceRange      PriceRange          `json:"price_range" yaml:"price_range"`
	Rating          float64             `json:"rating" yaml:"rating"`
	Description     string              `json:"description" yaml:"description"`
}

func (r Restaurant) Validate() error {
	if strings.TrimSpace(r.ID) == "" {
		return fmt.Errorf("%w: id is required", ErrInvalidRestaurant)
	}
	if r.SeatingCapacity <= 0 {
		return fmt.Errorf("%w: restaurant=%s seating capacity must be positive", ErrInvalidRestaurant, r.ID)
	}
	if !r.PriceRange.Valid() {
		return fmt.Errorf("%w: restaurant=%s unknown price range %q", ErrInvalidRestaurant, r.ID, r.PriceRange)
	}
	if r.Rating < minRating || r.Rating > maxRating {
		return fmt.Errorf("%w: restaurant=%s rating %.1f out of range", ErrInvalidRestaurant, r.ID, r.Rating)
	}
	return nil
}

type Reservation struct {
	ID           string            `json:"id"`
	RestaurantID string            `json:"restaurant_id"`
	Date         string            `json:"date"`
	Time         string            `json:"time"`
	PartySize    int               `json:"party_size"`
	CustomerName string            `json:"customer_name"`
	CreatedAt    time.Time         `json:"created_at"`
	Status       ReservationStatus `json:"status"`
}

func (r Reservation) IsConfirmed() bool {
	return r.Status == StatusConfirmed
}

// SearchQuery filters are conjunctive. Zero values mean "no filter".
type SearchQuery struct {
	Cuisine   string
	Location  string
	PartySize int
	Date      string
	Time      string
}

// wantsSlot reports whether the query must also pass an availability check.
func (q SearchQuery) wantsSlot() bool {
	return q.Date != "" && q.Time != ""
}

func (q SearchQuery) slotPartySize() int {
	if q.PartySize > 0 {
		return q.PartySize
	}
	return 1
}

func (q SearchQuery) matchesStatic(r Restaurant) bool {
	if q.Cuisine != "" && !strings.EqualFold(r.Cuisine, q.Cuisine) {
		return false
	}
	if q.Location != "" && !strings.EqualFold(r.Location, q.Location) {
		return false
	}
	if q.PartySize > 0 && r.SeatingCapacity < q.PartySize {
		return false
	}
	return true
}

type ReservationRequest struct {
	RestaurantID string
	Date         string
	Time         string
	PartySize    int
	CustomerName string
}

// fits is the capacity rule shared by every store implementation.
func fits(capacity, booked, partySize int) bool {
	if partySize < 1 || partySize > capacity {
		return false
	}
	return booked+partySize <= capacity
}
