package booking

import (
	"fmt"
	"math"
	"math/rand/v2"
	"slices"
)

var (
	Cuisines = []string{
		"Italian", "Chinese", "Japanese", "Mexican", "Indian",
		"French", "American", "Thai", "Mediterranean", "Korean",
	}
	Locations = []string{
		"Downtown", "Midtown", "Uptown", "Westside", "Eastside", "Waterfront",
	}
)

var (
	nameTemplates = map[string][]string{
		"Italian":       {"Bella", "Trattoria", "Osteria", "Ristorante", "La", "Il"},
		"Chinese":       {"Golden", "Dragon", "Jade", "Lotus", "Imperial", "Dynasty"},
		"Japanese":      {"Sakura", "Zen", "Koi", "Hana", "Yuki", "Sushi"},
		"Mexican":       {"El", "La", "Casa", "Cantina", "Taqueria", "Fiesta"},
		"Indian":        {"Taj", "Spice", "Curry", "Masala", "Palace", "Garden"},
		"French":        {"Le", "La", "Bistro", "Brasserie", "Chez", "Maison"},
		"American":      {"The", "Grill", "Tavern", "House", "Kitchen", "Diner"},
		"Thai":          {"Thai", "Siam", "Bangkok", "Orchid", "Basil", "Lemongrass"},
		"Mediterranean": {"Olive", "Aegean", "Cyprus", "Santorini", "Azure", "Coast"},
		"Korean":        {"Seoul", "Kimchi", "BBQ", "Gangnam", "Han", "Arirang"},
	}
	romanceSuffixes = []string{"Rosa", "Bella", "Verde", "Luna", "Sol", "Mar"}
	plainSuffixes   = []string{"House", "Kitchen", "Restaurant", "Bistro", "Cafe"}
	streetNames     = []string{"Main St", "Oak Ave", "Maple Dr", "Park Blvd", "River Rd", "Lake St"}
	capacities      = []int{20, 30, 40, 50, 60, 75, 80, 100, 120, 150, 180, 200}
	descriptions    = []string{
		"Authentic %s cuisine with a modern twist.",
		"Family-owned %s restaurant serving traditional dishes.",
		"Upscale %s dining experience with seasonal menu.",
		"Casual %s eatery perfect for any occasion.",
		"Award-winning %s restaurant with exceptional service.",
		"Contemporary %s cuisine in a stylish setting.",
		"Cozy %s spot featuring chef's specialties.",
		"Popular %s restaurant known for fresh ingredients.",
	}
)

// GenerateRestaurants builds perCuisine restaurants for every cuisine. The
// output depends only on perCuisine and seed.
func GenerateRestaurants(perCuisine int, seed uint64) []Restaurant {
	if perCuisine <= 0 {
		return nil
	}
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))

	out := make([]Restaurant, 0, perCuisine*len(Cuisines))
	for _, cuisine := range Cuisines {
		for i := 0; i < perCuisine; i++ {
			location := pick(rng, Locations)
			out = append(out, Restaurant{
				ID:              fmt.Sprintf("rest_%03d", len(out)+1),
				Name:            restaurantName(rng, cuisine),
				Cuisine:         cuisine,
				Location:        location,
				Address:         fmt.Sprintf("%d %s, %s", 100+rng.IntN(9900), pick(rng, streetNames), location),
				SeatingCapacity: pick(rng, capacities),
				OperatingHours:  weeklyHours(rng.Float64() < 0.3),
				PriceRange:      pick(rng, PriceRanges),
				Rating:          math.Round((3.5+rng.Float64()*1.5)*10) / 10,
				Description:     fmt.Sprintf(pick(rng, descriptions), cuisine),
			})
		}
	}
	return out
}

func restaurantName(rng *rand.Rand, cuisine string) string {
	templates := nameTemplates[cuisine]
	perm := rng.Perm(len(templates))
	name := templates[perm[0]] + " " + templates[perm[1]]

	if slices.Contains([]string{"Italian", "French", "Mexican"}, cuisine) {
		return name + " " + pick(rng, romanceSuffixes)
	}
	return name + " " + pick(rng, plainSuffixes)
}

func weeklyHours(lateWeekStart bool) map[string]DayHours {
	hours := map[string]DayHours{
		"Monday":    {Open: "11:00", Close: "22:00"},
		"Tuesday":   {Open: "11:00", Close: "22:00"},
		"Wednesday": {Open: "11:00", Close: "22:00"},
		"Thursday":  {Open: "11:00", Close: "22:00"},
		"Friday":    {Open: "11:00", Close: "23:00"},
		"Saturday":  {Open: "10:00", Close: "23:00"},
		"Sunday":    {Open: "10:00", Close: "21:00"},
	}
	if lateWeekStart {
		hours["Monday"] = DayHours{Open: "17:00", Close: "22:00"}
		hours["Tuesday"] = DayHours{Open: "17:00", Close: "22:00"}
	}
	return hours
}

func pick[T any](rng *rand.Rand, items []T) T {
	return items[rng.IntN(len(items))]
}
