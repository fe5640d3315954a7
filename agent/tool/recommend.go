package tool

import (
	"math"
	"sort"
	"strings"

	"github.com/tanpawarit/goodfoods-reservation-agent/agent/booking"
)

const maxRecommendations = 10

type Preferences struct {
	Cuisine    string
	Location   string
	PriceRange booking.PriceRange
	MinRating  float64
}

func preferencesFrom(a args) Preferences {
	return Preferences{
		Cuisine:    a.str("cuisine"),
		Location:   a.str("location"),
		PriceRange: booking.PriceRange(a.str("price_range")),
		MinRating:  a.number("min_rating"),
	}
}

func (p Preferences) admits(r booking.Restaurant) bool {
	if p.Cuisine != "" && !strings.EqualFold(r.Cuisine, p.Cuisine) {
		return false
	}
	if p.Location != "" && !strings.EqualFold(r.Location, p.Location) {
		return false
	}
	if p.PriceRange != "" && r.PriceRange != p.PriceRange {
		return false
	}
	if p.MinRating > 0 && r.Rating < p.MinRating {
		return false
	}
	return true
}

// Score is rating plus bonuses: cuisine +3, location +2, price +1, and +2 for
// rating >= 4.5 or +1 for rating >= 4.0.
func Score(r booking.Restaurant, p Preferences) float64 {
	score := r.Rating
	if p.Cuisine != "" && strings.EqualFold(r.Cuisine, p.Cuisine) {
		score += 3.0
	}
	if p.Location != "" && strings.EqualFold(r.Location, p.Location) {
		score += 2.0
	}
	if p.PriceRange != "" && r.PriceRange == p.PriceRange {
		score += 1.0
	}
	switch {
	case r.Rating >= 4.5:
		score += 2.0
	case r.Rating >= 4.0:
		score += 1.0
	}
	return score
}

type Recommendation struct {
	Restaurant booking.Restaurant
	Score      float64
}

// Recommend filters and ranks restaurants. Equal scores keep input order.
func Recommend(restaurants []booking.Restaurant, p Preferences, limit int) []Recommendation {
	ranked := make([]Recommendation, 0, len(restaurants))
	for _, r := range restaurants {
		if p.admits(r) {
			ranked = append(ranked, Recommendation{Restaurant: r, Score: Score(r, p)})
		}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})

	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

func roundScore(v float64) float64 {
	return math.Round(v*100) / 100
}
