package scoring

import (
	"fmt"
	"strings"

	"healthbite/backend/internal/match"
)

// Risk bands exposed to the menu UI.
const (
	BandPerfect    = 0
	BandCaution    = 1
	BandRestricted = 2
)

// FoodItem is the catalog view the matching engine scores.
type FoodItem struct {
	ID          uint
	Name        string
	Category    string
	Description string
	Calories    float64
	ProteinG    float64
	CarbsG      float64
	FatG        float64
	SugarG      float64
	SodiumMg    float64
	DietaryType DietaryPreference
}

// MatchResult is the per-item personalised score.
type MatchResult struct {
	FoodItemID uint     `json:"food_item_id"`
	MatchScore int      `json:"match_score"`
	RiskBand   int      `json:"risk_level"`
	Penalties  []string `json:"penalties"`
	Tag        string   `json:"tag"`
	Insight    string   `json:"insight"`
}

// MenuScorer scores catalog items against a profile using a rule table.
type MenuScorer struct {
	rules *MenuRules
}

// NewMenuScorer constructs a scorer. A nil rule table selects the embedded defaults.
func NewMenuScorer(rules *MenuRules) (*MenuScorer, error) {
	if rules == nil {
		def, err := DefaultMenuRules()
		if err != nil {
			return nil, fmt.Errorf("default menu rules: %w", err)
		}
		rules = def
	}
	if err := rules.Validate(); err != nil {
		return nil, err
	}
	return &MenuScorer{rules: rules}, nil
}

// Rules exposes the active rule table.
func (s *MenuScorer) Rules() *MenuRules {
	return s.rules
}

// ScoreMenuItem scores an item for the profile, using DefaultProfile when p is nil.
func (s *MenuScorer) ScoreMenuItem(item FoodItem, p *Profile) MatchResult {
	return s.Score(item, ProfileOrDefault(p))
}

// Score computes the match score, penalties, band and tag for one item.
func (s *MenuScorer) Score(item FoodItem, p Profile) MatchResult {
	rules := s.rules
	text := match.NormalizeFood(item.Name, item.Description)

	score := rules.Baseline
	var penalties []string
	apply := func(points int, reason string) {
		if points <= 0 {
			return
		}
		score -= points
		penalties = append(penalties, reason)
	}

	itemDiet, _ := ParseDietaryPreference(string(item.DietaryType))
	prefDiet, _ := ParseDietaryPreference(string(p.DietaryPreference))
	for _, d := range rules.Dietary {
		if d.Preference == prefDiet && d.Item == itemDiet {
			apply(d.Penalty, d.Reason)
		}
	}

	for _, a := range p.Allergies {
		name := strings.TrimSpace(a.Name)
		if name == "" || strings.EqualFold(name, "none") {
			continue
		}
		if !s.containsAllergen(text, name) {
			continue
		}
		apply(s.allergenPenalty(a.Severity), s.allergenReason(name))
	}

	for _, n := range rules.Nutrients {
		if !n.When.Matches(p) {
			continue
		}
		if nutrientValue(n.Metric, item, p) > n.Above {
			apply(n.Penalty, n.Reason)
		}
	}

	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}

	result := MatchResult{
		FoodItemID: item.ID,
		MatchScore: score,
		Penalties:  penalties,
		Tag:        DeriveTag(item),
	}
	if result.Penalties == nil {
		result.Penalties = []string{}
	}
	result.RiskBand, result.Insight = s.band(score, penalties)
	return result
}

func (s *MenuScorer) band(score int, penalties []string) (int, string) {
	switch {
	case score >= s.rules.Bands.Perfect:
		return BandPerfect, "Perfect match for your health profile."
	case score >= s.rules.Bands.Caution:
		if len(penalties) > 0 {
			return BandCaution, "Caution: " + strings.Join(penalties, ", ")
		}
		return BandCaution, "Moderate nutrition match."
	default:
		if len(penalties) > 0 {
			return BandRestricted, "Restricted: " + strings.Join(penalties, ", ")
		}
		return BandRestricted, "High risk for your profile."
	}
}

func (s *MenuScorer) containsAllergen(text match.FoodText, allergy string) bool {
	if text.Contains(allergy) {
		return true
	}
	for _, stem := range match.Stems(allergy) {
		if text.ContainsAny(s.rules.Allergens.Aliases[stem]...) != "" {
			return true
		}
	}
	return false
}

func (s *MenuScorer) allergenReason(name string) string {
	reason := s.rules.Allergens.Reason
	if !strings.Contains(reason, "%s") {
		return reason
	}
	return fmt.Sprintf(reason, name)
}

func (s *MenuScorer) allergenPenalty(raw Severity) int {
	sev, ok := ParseSeverity(string(raw))
	if ok {
		if p, found := s.rules.Allergens.Penalty[sev]; found {
			return p
		}
	}
	return s.rules.Allergens.UnknownPenalty
}

func nutrientValue(metric string, item FoodItem, p Profile) float64 {
	switch metric {
	case "calories":
		return item.Calories
	case "protein":
		return item.ProteinG
	case "carbs":
		return item.CarbsG
	case "fat":
		return item.FatG
	case "sugar":
		return item.SugarG
	case "sodium":
		return item.SodiumMg
	case "calorie_share":
		target := p.TargetCalories
		if target <= 0 {
			target = DefaultTargetCalories
		}
		return item.Calories / target * 100
	}
	return 0
}
