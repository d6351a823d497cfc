package scoring

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"healthbite/backend/internal/match"
)

//go:embed menu_rules.yaml
var defaultRulesYAML []byte

// MenuRules is the tunable weight table behind the menu matching engine.
type MenuRules struct {
	Baseline  int            `yaml:"baseline"`
	Bands     BandRules      `yaml:"bands"`
	Dietary   []DietaryRule  `yaml:"dietary"`
	Allergens AllergenRules  `yaml:"allergens"`
	Nutrients []NutrientRule `yaml:"nutrients"`
}

// BandRules holds the lower score bounds of the perfect and caution bands.
type BandRules struct {
	Perfect int `yaml:"perfect"`
	Caution int `yaml:"caution"`
}

// DietaryRule penalizes an item dietary type for a dietary preference.
type DietaryRule struct {
	Preference DietaryPreference `yaml:"preference"`
	Item       DietaryPreference `yaml:"item"`
	Penalty    int               `yaml:"penalty"`
	Reason     string            `yaml:"reason"`
}

// AllergenRules configures allergen keyword penalties.
type AllergenRules struct {
	Penalty        map[Severity]int    `yaml:"penalty"`
	UnknownPenalty int                 `yaml:"unknown_penalty"`
	Reason         string              `yaml:"reason"`
	Aliases        map[string][]string `yaml:"aliases"`
}

// NutrientRule fires when a nutrition metric exceeds a threshold for a matching profile.
type NutrientRule struct {
	ID      string        `yaml:"id"`
	Metric  string        `yaml:"metric"`
	Above   float64       `yaml:"above"`
	Penalty int           `yaml:"penalty"`
	Reason  string        `yaml:"reason"`
	When    *RuleCriteria `yaml:"when"`
}

// RuleCriteria selects profiles a nutrient rule applies to. Any single match activates
// the rule; a nil criteria applies to every profile.
type RuleCriteria struct {
	Diseases []string            `yaml:"diseases"`
	Statuses map[string][]Status `yaml:"statuses"`
	BMI      []BMICategory       `yaml:"bmi"`
}

var knownMetrics = map[string]struct{}{
	"calories":      {},
	"protein":       {},
	"carbs":         {},
	"fat":           {},
	"sugar":         {},
	"sodium":        {},
	"calorie_share": {},
}

// DefaultMenuRules returns the embedded rule table.
func DefaultMenuRules() (*MenuRules, error) {
	return ParseMenuRules(defaultRulesYAML)
}

// LoadMenuRules reads a rule table from a YAML file.
func LoadMenuRules(path string) (*MenuRules, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read menu rules: %w", err)
	}
	return ParseMenuRules(data)
}

// ParseMenuRules decodes and validates a YAML rule table.
func ParseMenuRules(data []byte) (*MenuRules, error) {
	var rules MenuRules
	if err := yaml.Unmarshal(data, &rules); err != nil {
		return nil, fmt.Errorf("unmarshal menu rules: %w", err)
	}
	rules.normalize()
	if err := rules.Validate(); err != nil {
		return nil, err
	}
	return &rules, nil
}

// Validate ensures the rule table is internally consistent.
func (r *MenuRules) Validate() error {
	if r == nil {
		return errors.New("menu rules are nil")
	}
	if r.Baseline <= 0 || r.Baseline > 100 {
		return fmt.Errorf("baseline %d out of range (0,100]", r.Baseline)
	}
	if r.Bands.Perfect <= r.Bands.Caution {
		return fmt.Errorf("perfect band %d must be above caution band %d", r.Bands.Perfect, r.Bands.Caution)
	}
	if r.Bands.Caution < 0 {
		return fmt.Errorf("caution band %d must not be negative", r.Bands.Caution)
	}
	for _, d := range r.Dietary {
		if d.Penalty < 0 {
			return fmt.Errorf("dietary rule %s/%s: negative penalty", d.Preference, d.Item)
		}
	}
	for sev, p := range r.Allergens.Penalty {
		if p < 0 {
			return fmt.Errorf("allergen penalty %s: negative penalty", sev)
		}
	}
	if r.Allergens.UnknownPenalty < 0 {
		return errors.New("allergen unknown_penalty: negative penalty")
	}
	for i, n := range r.Nutrients {
		if _, ok := knownMetrics[n.Metric]; !ok {
			return fmt.Errorf("nutrient rule %d (%s): unknown metric %q", i, n.ID, n.Metric)
		}
		if n.Penalty < 0 {
			return fmt.Errorf("nutrient rule %d (%s): negative penalty", i, n.ID)
		}
	}
	return nil
}

func (r *MenuRules) normalize() {
	for i := range r.Dietary {
		if p, ok := ParseDietaryPreference(string(r.Dietary[i].Preference)); ok {
			r.Dietary[i].Preference = p
		}
		if p, ok := ParseDietaryPreference(string(r.Dietary[i].Item)); ok {
			r.Dietary[i].Item = p
		}
	}
	if len(r.Allergens.Penalty) > 0 {
		normalized := make(map[Severity]int, len(r.Allergens.Penalty))
		for sev, p := range r.Allergens.Penalty {
			key, _ := ParseSeverity(string(sev))
			normalized[key] = p
		}
		r.Allergens.Penalty = normalized
	}
	if strings.TrimSpace(r.Allergens.Reason) == "" {
		r.Allergens.Reason = "Contains %s (allergy)"
	}
	if len(r.Allergens.Aliases) > 0 {
		aliases := make(map[string][]string, len(r.Allergens.Aliases))
		for _, name := range sortedKeys(r.Allergens.Aliases) {
			key := match.Stem(name)
			aliases[key] = append(aliases[key], r.Allergens.Aliases[name]...)
		}
		r.Allergens.Aliases = aliases
	}
	for i := range r.Nutrients {
		r.Nutrients[i].Metric = strings.ToLower(strings.TrimSpace(r.Nutrients[i].Metric))
		if c := r.Nutrients[i].When; c != nil && len(c.Statuses) > 0 {
			statuses := make(map[string][]Status, len(c.Statuses))
			for key, list := range c.Statuses {
				statuses[normalizeKey(key)] = list
			}
			c.Statuses = statuses
		}
	}
}

// Matches reports whether the criteria select the profile.
func (c *RuleCriteria) Matches(p Profile) bool {
	if c == nil {
		return true
	}
	for _, d := range c.Diseases {
		if p.HasDisease(d) {
			return true
		}
	}
	for key, statuses := range c.Statuses {
		current := p.StatusOf(key)
		for _, s := range statuses {
			if s == current {
				return true
			}
		}
	}
	for _, cat := range c.BMI {
		if p.BMICategory == cat {
			return true
		}
	}
	return false
}
