package tool

import (
	"encoding/json"

	"github.com/tanpawarit/goodfoods-reservation-agent/agent/booking"
)

type restaurantView struct {
	ID              string             `json:"id"`
	Name            string             `json:"name"`
	Cuisine         string             `json:"cuisine"`
	Location        string             `json:"location"`
	Address         string             `json:"address"`
	SeatingCapacity int                `json:"seating_capacity"`
	PriceRange      booking.PriceRange `json:"price_range"`
	Rating          float64            `json:"rating"`
	Description     string             `json:"description"`
}

type recommendationView struct {
	ID                  string             `json:"id"`
	Name                string             `json:"name"`
	Cuisine             string             `json:"cuisine"`
	Location            string             `json:"location"`
	Address             string             `json:"address"`
	PriceRange          booking.PriceRange `json:"price_range"`
	Rating              float64            `json:"rating"`
	Description         string             `json:"description"`
	RecommendationScore float64            `json:"recommendation_score"`
}

type confirmationView struct {
	ReservationID  string                    `json:"reservation_id"`
	RestaurantName string                    `json:"restaurant_name"`
	Date           string                    `json:"date"`
	Time           string                    `json:"time"`
	PartySize      int                       `json:"party_size"`
	CustomerName   string                    `json:"customer_name"`
	Status         booking.ReservationStatus `json:"status"`
}

func toRestaurantView(r booking.Restaurant) restaurantView {
	return restaurantView{
		ID:              r.ID,
		Name:            r.Name,
		Cuisine:         r.Cuisine,
		Location:        r.Location,
		Address:         r.Address,
		SeatingCapacity: r.SeatingCapacity,
		PriceRange:      r.PriceRange,
		Rating:          r.Rating,
		Description:     r.Description,
	}
}

func toRecommendationView(rec Recommendation) recommendationView {
	r := rec.Restaurant
	return recommendationView{
		ID:                  r.ID,
		Name:                r.Name,
		Cuisine:             r.Cuisine,
		Location:            r.Location,
		Address:             r.Address,
		PriceRange:          r.PriceRange,
		Rating:              r.Rating,
		Description:         r.Description,
		RecommendationScore: roundScore(rec.Score),
	}
}

func prettyJSON(v any) (string, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}
