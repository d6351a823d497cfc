package scoring

import "healthbite/backend/internal/match"

// Nutrition tags, listed in priority order.
const (
	TagSugarFree   = "Sugar Free"
	TagLowGI       = "Low GI"
	TagLowCarb     = "Low Carb"
	TagHighProtein = "High Protein"
	TagLowSugar    = "Low Sugar"
	TagStandard    = "Standard"
)

var lowGIKeywords = []string{"quinoa", "oats", "lentils", "broccoli", "almonds", "nuts", "seeds"}

// DeriveTag labels an item from its raw nutrition facts. The first matching rule wins
// and the person's profile plays no part.
func DeriveTag(item FoodItem) string {
	name := match.NormalizeFood(item.Name, "")
	switch {
	case item.SugarG == 0:
		return TagSugarFree
	case lowGIName(name):
		return TagLowGI
	case item.CarbsG < 20:
		return TagLowCarb
	case item.ProteinG > 25:
		return TagHighProtein
	case item.SugarG < 5:
		return TagLowSugar
	default:
		return TagStandard
	}
}

// lowGIName matches keyword fragments anywhere in the name, so "oats" also hits "goats".
func lowGIName(name match.FoodText) bool {
	for _, kw := range lowGIKeywords {
		if name.NameContains(kw) {
			return true
		}
	}
	return false
}
