package scoring

import (
	"os"
	"reflect"
	"testing"
)

func newDefaultScorer(t *testing.T) *MenuScorer {
	t.Helper()
	scorer, err := NewMenuScorer(nil)
	if err != nil {
		t.Fatalf("menu scorer: %v", err)
	}
	return scorer
}

func TestMenuScoring(t *testing.T) {
	scorer := newDefaultScorer(t)

	tests := []struct {
		name      string
		item      FoodItem
		profile   Profile
		score     int
		band      int
		tag       string
		insight   string
		penalties []string
	}{
		{
			name:    "default profile sugar free",
			item:    FoodItem{ID: 1, Name: "Paneer Tikka", Calories: 320, ProteinG: 22, CarbsG: 12, FatG: 18, SugarG: 0, SodiumMg: 450, DietaryType: DietVeg},
			profile: DefaultProfile(),
			score:   100,
			band:    BandPerfect,
			tag:     TagSugarFree,
			insight: "Perfect match for your health profile.",
		},
		{
			name:      "vegetarian offered non-veg",
			item:      FoodItem{ID: 2, Name: "Chicken Biryani", Calories: 650, ProteinG: 28, CarbsG: 60, FatG: 18, SugarG: 3, SodiumMg: 550, DietaryType: DietNonVeg},
			profile:   Profile{DietaryPreference: DietVeg, TargetCalories: 2000},
			score:     40,
			band:      BandRestricted,
			tag:       TagHighProtein,
			insight:   "Restricted: Non-vegetarian item for a vegetarian diet",
			penalties: []string{"Non-vegetarian item for a vegetarian diet"},
		},
		{
			name: "diabetic and sweets",
			item: FoodItem{ID: 3, Name: "Gulab Jamun", Calories: 300, ProteinG: 4, CarbsG: 50, FatG: 12, SugarG: 35, SodiumMg: 40, DietaryType: DietVeg},
			profile: Profile{
				DietaryPreference: DietVeg,
				Diseases:          []string{"Diabetes"},
				ConditionStatus:   map[string]Status{"diabetes": StatusHigh},
				TargetCalories:    1800,
			},
			score:     55,
			band:      BandCaution,
			tag:       TagStandard,
			insight:   "Caution: High sugar for diabetes, High carbs for diabetes",
			penalties: []string{"High sugar for diabetes", "High carbs for diabetes"},
		},
		{
			name:      "severe nut allergy via alias",
			item:      FoodItem{ID: 4, Name: "Almond Oats Bowl", Description: "Rolled oats with almonds", Calories: 280, ProteinG: 10, CarbsG: 40, FatG: 9, SugarG: 8, SodiumMg: 90, DietaryType: DietVeg},
			profile:   Profile{Allergies: []Allergy{{Name: "Nuts", Severity: SeveritySevere}}},
			score:     40,
			band:      BandRestricted,
			tag:       TagLowGI,
			insight:   "Restricted: Contains Nuts (allergy)",
			penalties: []string{"Contains Nuts (allergy)"},
		},
		{
			name:      "unknown allergy severity",
			item:      FoodItem{ID: 5, Name: "Paneer Butter Masala", Calories: 450, ProteinG: 18, CarbsG: 22, FatG: 19, SugarG: 6, SodiumMg: 500, DietaryType: DietVeg},
			profile:   Profile{Allergies: []Allergy{{Name: "Dairy", Severity: "extreme"}}},
			score:     65,
			band:      BandCaution,
			tag:       TagStandard,
			insight:   "Caution: Contains Dairy (allergy)",
			penalties: []string{"Contains Dairy (allergy)"},
		},
		{
			name:    "placeholder allergy ignored",
			item:    FoodItem{ID: 6, Name: "Idli Sambar", Calories: 250, ProteinG: 8, CarbsG: 45, FatG: 3, SugarG: 4, SodiumMg: 400, DietaryType: DietVeg},
			profile: Profile{Allergies: []Allergy{{Name: "None", Severity: SeveritySevere}, {Name: " "}}},
			score:   100,
			band:    BandPerfect,
			tag:     TagLowSugar,
			insight: "Perfect match for your health profile.",
		},
		{
			name:      "pressure status without listed disease",
			item:      FoodItem{ID: 7, Name: "Pav Bhaji", Calories: 400, ProteinG: 10, CarbsG: 55, FatG: 15, SugarG: 8, SodiumMg: 700, DietaryType: DietVeg},
			profile:   Profile{ConditionStatus: map[string]Status{"hypertension": StatusElevated}},
			score:     70,
			band:      BandCaution,
			tag:       TagStandard,
			insight:   "Caution: High sodium for hypertension",
			penalties: []string{"High sodium for hypertension"},
		},
		{
			name:      "large calorie share keeps perfect band",
			item:      FoodItem{ID: 8, Name: "Thali", Calories: 900, ProteinG: 20, CarbsG: 110, FatG: 18, SugarG: 6, SodiumMg: 500, DietaryType: DietVeg},
			profile:   DefaultProfile(),
			score:     90,
			band:      BandPerfect,
			tag:       TagStandard,
			insight:   "Perfect match for your health profile.",
			penalties: []string{"Large share of your daily calories"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			result := scorer.Score(tc.item, tc.profile)
			if result.MatchScore != tc.score {
				t.Fatalf("expected score %d got %d (%v)", tc.score, result.MatchScore, result.Penalties)
			}
			if result.RiskBand != tc.band {
				t.Fatalf("expected band %d got %d", tc.band, result.RiskBand)
			}
			if result.Tag != tc.tag {
				t.Fatalf("expected tag %q got %q", tc.tag, result.Tag)
			}
			if result.Insight != tc.insight {
				t.Fatalf("expected insight %q got %q", tc.insight, result.Insight)
			}
			want := tc.penalties
			if want == nil {
				want = []string{}
			}
			if !reflect.DeepEqual(result.Penalties, want) {
				t.Fatalf("expected penalties %v got %v", want, result.Penalties)
			}
			if result.FoodItemID != tc.item.ID {
				t.Fatalf("expected item id %d got %d", tc.item.ID, result.FoodItemID)
			}
		})
	}
}

func TestScoreMenuItemNilProfileUsesDefault(t *testing.T) {
	scorer := newDefaultScorer(t)
	item := FoodItem{ID: 9, Name: "Masala Dosa", Calories: 350, ProteinG: 8, CarbsG: 48, FatG: 12, SugarG: 3, SodiumMg: 600, DietaryType: DietVeg}

	fromNil := scorer.ScoreMenuItem(item, nil)
	explicit := scorer.Score(item, DefaultProfile())
	if !reflect.DeepEqual(fromNil, explicit) {
		t.Fatalf("expected nil profile to match default: %+v vs %+v", fromNil, explicit)
	}
	if fromNil.RiskBand != BandPerfect {
		t.Fatalf("expected perfect band got %d", fromNil.RiskBand)
	}
}

func TestScoreIsDeterministic(t *testing.T) {
	scorer := newDefaultScorer(t)
	item := FoodItem{ID: 10, Name: "Butter Chicken", Calories: 550, ProteinG: 30, CarbsG: 14, FatG: 35, SugarG: 7, SodiumMg: 900, DietaryType: DietNonVeg}
	p := Profile{
		DietaryPreference: DietVegan,
		Diseases:          []string{"Heart Disease", "Obesity"},
		BMICategory:       BMIObese,
		Allergies:         []Allergy{{Name: "Dairy", Severity: SeverityMild}},
	}
	first := scorer.Score(item, p)
	second := scorer.Score(item, p)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("expected identical results: %+v vs %+v", first, second)
	}
	if first.MatchScore != 0 || first.RiskBand != BandRestricted {
		t.Fatalf("expected clamped restricted item got %d/%d", first.MatchScore, first.RiskBand)
	}
}

func TestLoadMenuRulesFromFile(t *testing.T) {
	path := tempYAML(t, `
baseline: 90
bands:
  perfect: 70
  caution: 40
dietary:
  - preference: vegetarian
    item: non-veg
    penalty: 80
    reason: Meat
allergens:
  penalty:
    severe: 50
  unknown_penalty: 5
  reason: Allergen present
nutrients:
  - id: salt
    metric: Sodium
    above: 100
    penalty: 50
    reason: Salty
`)
	rules, err := LoadMenuRules(path)
	if err != nil {
		t.Fatalf("load rules: %v", err)
	}
	scorer, err := NewMenuScorer(rules)
	if err != nil {
		t.Fatalf("menu scorer: %v", err)
	}

	result := scorer.Score(FoodItem{Name: "Salted Peanuts", SodiumMg: 200, SugarG: 1, CarbsG: 10}, DefaultProfile())
	if result.MatchScore != 40 || result.RiskBand != BandCaution {
		t.Fatalf("expected 40/caution got %d/%d", result.MatchScore, result.RiskBand)
	}
	if result.Insight != "Caution: Salty" {
		t.Fatalf("unexpected insight %q", result.Insight)
	}

	veg := Profile{DietaryPreference: DietVeg, Allergies: []Allergy{{Name: "peanut", Severity: "Severe"}}}
	result = scorer.Score(FoodItem{Name: "Salted Peanuts", SodiumMg: 50, DietaryType: DietNonVeg}, veg)
	if result.MatchScore != 0 {
		t.Fatalf("expected clamp to 0 got %d", result.MatchScore)
	}
	if !reflect.DeepEqual(result.Penalties, []string{"Meat", "Allergen present"}) {
		t.Fatalf("unexpected penalties %v", result.Penalties)
	}
	if result.Insight != "Restricted: Meat, Allergen present" {
		t.Fatalf("unexpected insight %q", result.Insight)
	}
}

func TestInvalidMenuRules(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"unknown metric", "baseline: 100\nbands: {perfect: 80, caution: 50}\nnutrients:\n  - id: x\n    metric: vitamin\n    above: 1\n    penalty: 1\n"},
		{"inverted bands", "baseline: 100\nbands: {perfect: 40, caution: 50}\n"},
		{"zero baseline", "baseline: 0\nbands: {perfect: 80, caution: 50}\n"},
		{"negative penalty", "baseline: 100\nbands: {perfect: 80, caution: 50}\nallergens:\n  unknown_penalty: -1\n"},
		{"malformed", "baseline: [1"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := ParseMenuRules([]byte(tc.yaml)); err == nil {
				t.Fatalf("expected error")
			}
		})
	}

	if _, err := LoadMenuRules("/nonexistent/menu_rules.yaml"); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestDeriveTag(t *testing.T) {
	tests := []struct {
		name     string
		item     FoodItem
		expected string
	}{
		{"sugar free wins", FoodItem{Name: "Quinoa Pulao", SugarG: 0, CarbsG: 50}, TagSugarFree},
		{"low gi by name", FoodItem{Name: "Quinoa Salad", SugarG: 2, CarbsG: 30}, TagLowGI},
		{"low gi substring", FoodItem{Name: "Mixed Nuts Ladoo", SugarG: 12, CarbsG: 30}, TagLowGI},
		{"low gi fragment inside a word", FoodItem{Name: "Goats Cheese Toast", SugarG: 12, CarbsG: 30}, TagLowGI},
		{"low gi ignores case", FoodItem{Name: "BROCCOLI Soup", SugarG: 12, CarbsG: 30}, TagLowGI},
		{"low carb", FoodItem{Name: "Egg Bhurji", SugarG: 2, CarbsG: 10, ProteinG: 30}, TagLowCarb},
		{"high protein", FoodItem{Name: "Tandoori Chicken", SugarG: 6, CarbsG: 30, ProteinG: 30}, TagHighProtein},
		{"low sugar", FoodItem{Name: "Veg Pulao", SugarG: 4, CarbsG: 30, ProteinG: 10}, TagLowSugar},
		{"standard", FoodItem{Name: "Rasgulla", SugarG: 25, CarbsG: 40, ProteinG: 3}, TagStandard},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := DeriveTag(tc.item); got != tc.expected {
				t.Fatalf("expected %q got %q", tc.expected, got)
			}
		})
	}
}

func tempYAML(t *testing.T, body string) string {
	t.Helper()
	f, err := os.CreateTemp(t.TempDir(), "rules-*.yaml")
	if err != nil {
		t.Fatalf("temp file: %v", err)
	}
	if _, err := f.WriteString(body); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	return f.Name()
}

func TestAllergenAliasesFoldPlurals(t *testing.T) {
	scorer := newDefaultScorer(t)

	tests := []struct {
		name    string
		allergy string
		item    FoodItem
		flagged bool
	}{
		{"plural allergy hits singular alias list", "Peanuts", FoodItem{Name: "Groundnut Chikki", SugarG: 0}, true},
		{"phrase allergy falls back to last word", "Tree Nuts", FoodItem{Name: "Cashew Curry", SugarG: 0}, true},
		{"singular allergy hits plural alias list", "Nut", FoodItem{Name: "Badam Milk", SugarG: 0}, true},
		{"unrelated item", "Peanuts", FoodItem{Name: "Idli Sambar", SugarG: 0}, false},
	}
	for _, tc := range tests {
		p := DefaultProfile()
		p.Allergies = []Allergy{{Name: tc.allergy, Severity: SeverityMild}}
		result := scorer.Score(tc.item, p)
		if got := len(result.Penalties) == 1; got != tc.flagged {
			t.Fatalf("%s: expected flagged=%v got penalties %v", tc.name, tc.flagged, result.Penalties)
		}
		if tc.flagged && result.MatchScore != 80 {
			t.Fatalf("%s: expected 80 got %d", tc.name, result.MatchScore)
		}
	}
}
