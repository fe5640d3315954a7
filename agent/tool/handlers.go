package tool

import (
	"context"
	"fmt"
	"strings"

	"github.com/tanpawarit/goodfoods-reservation-agent/agent/booking"
)

// CanonicalSlots is the probe order for alternative times: lunch, then dinner.
var CanonicalSlots = []string{
	"11:00", "11:30", "12:00", "12:30", "13:00", "13:30",
	"17:00", "17:30", "18:00", "18:30", "19:00", "19:30",
	"20:00", "20:30", "21:00", "21:30",
}

const maxAlternatives = 3

type handler func(ctx context.Context, a args) (string, error)

// precheck returns a conversational message when a is unusable for tool.
func (d *Dispatcher) precheck(tool string, a args, required ...string) (string, error) {
	if missing := a.missing(required...); len(missing) > 0 {
		return missingMessage(missing), nil
	}
	return validationMessage(d.schemas[tool], a)
}

func (d *Dispatcher) searchRestaurants(ctx context.Context, a args) (string, error) {
	if msg, err := d.precheck(ToolSearchRestaurants, a); msg != "" || err != nil {
		return msg, err
	}

	q := booking.SearchQuery{
		Cuisine:   a.str("cuisine"),
		Location:  a.str("location"),
		PartySize: a.integer("party_size"),
		Date:      a.str("date"),
		Time:      normalizeSlot(a.str("time")),
	}
	results, err := d.store.SearchRestaurants(ctx, q)
	if err != nil {
		return "", err
	}
	if len(results) == 0 {
		return "No restaurants found matching your criteria.", nil
	}

	views := make([]restaurantView, 0, len(results))
	for _, r := range results {
		views = append(views, toRestaurantView(r))
	}
	body, err := prettyJSON(views)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Found %d restaurant(s):\n\n%s", len(results), body), nil
}

func (d *Dispatcher) getAvailability(ctx context.Context, a args) (string, error) {
	msg, err := d.precheck(ToolGetAvailability, a, "restaurant_id", "date", "time", "party_size")
	if msg != "" || err != nil {
		return msg, err
	}

	id := a.str("restaurant_id")
	date := a.str("date")
	slot := normalizeSlot(a.str("time"))
	party := a.integer("party_size")

	restaurant, err := d.store.GetRestaurant(ctx, id)
	if err != nil {
		return "", err
	}
	if restaurant == nil {
		return "Restaurant not found: " + id, nil
	}

	ok, err := d.store.CheckAvailability(ctx, id, date, slot, party)
	if err != nil {
		return "", err
	}
	if ok {
		return fmt.Sprintf("Restaurant is available for %d guests on %s at %s.", party, date, slot), nil
	}

	alternatives, err := d.alternativeSlots(ctx, id, date, slot, party)
	if err != nil {
		return "", err
	}
	if len(alternatives) > 0 {
		return fmt.Sprintf("Restaurant is not available at %s. Alternative times: %s", slot, strings.Join(alternatives, ", ")), nil
	}
	return fmt.Sprintf("Restaurant is not available for %d guests on %s.", party, date), nil
}

// alternativeSlots probes CanonicalSlots in order, skipping the requested one.
func (d *Dispatcher) alternativeSlots(ctx context.Context, id, date, requested string, party int) ([]string, error) {
	out := make([]string, 0, maxAlternatives)
	for _, slot := range CanonicalSlots {
		if slot == requested {
			continue
		}
		ok, err := d.store.CheckAvailability(ctx, id, date, slot, party)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, slot)
			if len(out) == maxAlternatives {
				break
			}
		}
	}
	return out, nil
}

func (d *Dispatcher) makeReservation(ctx context.Context, a args) (string, error) {
	msg, err := d.precheck(ToolMakeReservation, a, "restaurant_id", "date", "time", "party_size", "customer_name")
	if msg != "" || err != nil {
		return msg, err
	}

	req := booking.ReservationRequest{
		RestaurantID: a.str("restaurant_id"),
		Date:         a.str("date"),
		Time:         normalizeSlot(a.str("time")),
		PartySize:    a.integer("party_size"),
		CustomerName: a.str("customer_name"),
	}

	restaurant, err := d.store.GetRestaurant(ctx, req.RestaurantID)
	if err != nil {
		return "", err
	}
	if restaurant == nil {
		return "Restaurant not found: " + req.RestaurantID, nil
	}

	res, err := d.store.CreateReservation(ctx, req)
	if err != nil {
		return "", err
	}
	if res == nil {
		return fmt.Sprintf("Unable to create reservation. Restaurant is not available for %d guests on %s at %s.",
			req.PartySize, req.Date, req.Time), nil
	}

	body, err := prettyJSON(confirmationView{
		ReservationID:  res.ID,
		RestaurantName: restaurant.Name,
		Date:           res.Date,
		Time:           res.Time,
		PartySize:      res.PartySize,
		CustomerName:   res.CustomerName,
		Status:         res.Status,
	})
	if err != nil {
		return "", err
	}
	return "Reservation confirmed!\n\n" + body, nil
}

func (d *Dispatcher) cancelReservation(ctx context.Context, a args) (string, error) {
	msg, err := d.precheck(ToolCancelReservation, a, "reservation_id")
	if msg != "" || err != nil {
		return msg, err
	}

	id := a.str("reservation_id")
	res, err := d.store.GetReservation(ctx, id)
	if err != nil {
		return "", err
	}
	if res == nil {
		return "Reservation not found: " + id, nil
	}

	ok, err := d.store.CancelReservation(ctx, id)
	if err != nil {
		return "", err
	}
	if !ok {
		return "Failed to cancel reservation: " + id, nil
	}

	restaurantName := "Unknown"
	if restaurant, err := d.store.GetRestaurant(ctx, res.RestaurantID); err == nil && restaurant != nil {
		restaurantName = restaurant.Name
	}
	return fmt.Sprintf("Reservation %s has been cancelled.\n\nDetails:\n- Restaurant: %s\n- Date: %s\n- Time: %s\n- Party size: %d",
		id, restaurantName, res.Date, res.Time, res.PartySize), nil
}

func (d *Dispatcher) getRecommendations(ctx context.Context, a args) (string, error) {
	if msg, err := d.precheck(ToolGetRecommendations, a); msg != "" || err != nil {
		return msg, err
	}

	// Some models flatten the preferences object into the top level.
	prefs := a.object("preferences")
	if prefs == nil {
		prefs = a
	}

	all, err := d.store.ListRestaurants(ctx)
	if err != nil {
		return "", err
	}
	ranked := Recommend(all, preferencesFrom(prefs), maxRecommendations)
	if len(ranked) == 0 {
		return "No restaurants found matching your preferences.", nil
	}

	views := make([]recommendationView, 0, len(ranked))
	for _, rec := range ranked {
		views = append(views, toRecommendationView(rec))
	}
	body, err := prettyJSON(views)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Top %d recommendations:\n\n%s", len(views), body), nil
}
