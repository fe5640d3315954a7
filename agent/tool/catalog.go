package tool

import (
	contractx "github.com/tanpawarit/goodfoods-reservation-agent/agent/contract"
)

const (
	ToolSearchRestaurants  = "search_restaurants"
	ToolGetAvailability    = "get_availability"
	ToolMakeReservation    = "make_reservation"
	ToolCancelReservation  = "cancel_reservation"
	ToolGetRecommendations = "get_recommendations"
)

const (
	descDate = "Reservation date in YYYY-MM-DD format"
	descTime = "Reservation time in HH:MM format (24-hour)"
)

var minPartySize = 1.0

// Catalog returns the tool declarations offered to the model, in a fixed order.
func Catalog() []contractx.ToolSpec {
	restaurantID := contractx.ParamSpec{Name: "restaurant_id", Type: contractx.ParamString, Description: "Unique identifier of the restaurant", Required: true}
	date := contractx.ParamSpec{Name: "date", Type: contractx.ParamString, Description: descDate, Required: true}
	slot := contractx.ParamSpec{Name: "time", Type: contractx.ParamString, Description: descTime, Required: true}
	party := contractx.ParamSpec{Name: "party_size", Type: contractx.ParamInteger, Description: "Number of guests in the party", Required: true, Minimum: &minPartySize}

	optional := func(p contractx.ParamSpec) contractx.ParamSpec {
		p.Required = false
		return p
	}

	return []contractx.ToolSpec{
		{
			Name:        ToolSearchRestaurants,
			Description: "Search for restaurants based on criteria such as cuisine type, location, party size, date, and time",
			Params: []contractx.ParamSpec{
				{Name: "cuisine", Type: contractx.ParamString, Description: "Type of cuisine (e.g., Italian, Chinese, Japanese, Mexican)"},
				{Name: "location", Type: contractx.ParamString, Description: "Geographic location or area (e.g., Downtown, Midtown, Uptown)"},
				optional(party),
				optional(date),
				optional(slot),
			},
		},
		{
			Name:        ToolGetAvailability,
			Description: "Check availability for a specific restaurant at a given date and time",
			Params:      []contractx.ParamSpec{restaurantID, date, slot, party},
		},
		{
			Name:        ToolMakeReservation,
			Description: "Create a new reservation at a restaurant for a specific date, time, and party size",
			Params: []contractx.ParamSpec{
				restaurantID, date, slot, party,
				{Name: "customer_name", Type: contractx.ParamString, Description: "Full name of the customer making the reservation", Required: true},
			},
		},
		{
			Name:        ToolCancelReservation,
			Description: "Cancel an existing reservation using the reservation ID",
			Params: []contractx.ParamSpec{
				{Name: "reservation_id", Type: contractx.ParamString, Description: "Unique identifier of the reservation to cancel", Required: true},
			},
		},
		{
			Name:        ToolGetRecommendations,
			Description: "Get personalized restaurant recommendations based on user preferences",
			Params: []contractx.ParamSpec{
				{
					Name:        "preferences",
					Type:        contractx.ParamObject,
					Description: "User preferences for restaurant recommendations",
					Properties: []contractx.ParamSpec{
						{Name: "cuisine", Type: contractx.ParamString, Description: "Preferred cuisine type"},
						{Name: "location", Type: contractx.ParamString, Description: "Preferred location or area"},
						{Name: "price_range", Type: contractx.ParamString, Description: "Preferred price range ($, $$, $$$, $$$$)"},
						{Name: "min_rating", Type: contractx.ParamNumber, Description: "Minimum rating (1.0 to 5.0)"},
					},
				},
			},
		},
	}
}
