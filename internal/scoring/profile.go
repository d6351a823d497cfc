package scoring

import "strings"

// BMICategory is the weight bucket derived from a BMI value.
type BMICategory string

const (
	BMIUnderweight BMICategory = "Underweight"
	BMINormal      BMICategory = "Normal"
	BMIOverweight  BMICategory = "Overweight"
	BMIObese       BMICategory = "Obese"
)

// Status is the severity bucket for a single clinical reading.
type Status string

const (
	StatusNormal   Status = "Normal"
	StatusElevated Status = "Elevated"
	StatusHigh     Status = "High"
	StatusCritical Status = "Critical"
)

// Severity grades a disease or an allergy.
type Severity string

const (
	SeverityMild     Severity = "Mild"
	SeverityModerate Severity = "Moderate"
	SeveritySevere   Severity = "Severe"
)

// RiskLevel is the three-tier summary of a risk score.
type RiskLevel string

const (
	RiskLow      RiskLevel = "Low"
	RiskModerate RiskLevel = "Moderate"
	RiskHigh     RiskLevel = "High"
)

// DietaryPreference is the diet a person follows, also used as a food's dietary type.
type DietaryPreference string

const (
	DietVeg    DietaryPreference = "Veg"
	DietNonVeg DietaryPreference = "Non-Veg"
	DietVegan  DietaryPreference = "Vegan"
)

// Gender as reported during onboarding.
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderOther  Gender = "other"
)

// Condition keys understood by the classifier.
const (
	ConditionDiabetes     = "diabetes"
	ConditionHypertension = "hypertension"
	ConditionCholesterol  = "cholesterol"
)

// DefaultTargetCalories is the daily energy target assumed when none is known.
const DefaultTargetCalories = 2000

// Allergy is one reported allergy.
type Allergy struct {
	Name     string   `json:"name" yaml:"name"`
	Severity Severity `json:"severity" yaml:"severity"`
}

// Profile is a snapshot of a person's health data as seen by the rules engine.
// Derived fields (BMI, BMICategory, ConditionStatus, RiskScore, RiskLevel) are only
// meaningful when produced by Assess.
type Profile struct {
	Age               int
	Gender            Gender
	HeightCm          float64
	WeightKg          float64
	BMI               float64
	BMICategory       BMICategory
	DietaryPreference DietaryPreference
	Diseases          []string
	SeverityByDisease map[string]Severity
	HealthValues      map[string]any
	ConditionStatus   map[string]Status
	Allergies         []Allergy
	TargetCalories    float64
	RiskScore         int
	RiskLevel         RiskLevel
}

// DefaultProfile is used for callers that have not onboarded yet.
func DefaultProfile() Profile {
	return Profile{
		Age:               25,
		DietaryPreference: DietNonVeg,
		Diseases:          []string{},
		SeverityByDisease: map[string]Severity{},
		HealthValues:      map[string]any{},
		ConditionStatus:   map[string]Status{},
		Allergies:         []Allergy{},
		TargetCalories:    DefaultTargetCalories,
		BMICategory:       BMINormal,
		RiskLevel:         RiskLow,
	}
}

// ProfileOrDefault dereferences p, falling back to DefaultProfile.
func ProfileOrDefault(p *Profile) Profile {
	if p == nil {
		return DefaultProfile()
	}
	out := *p
	if out.TargetCalories <= 0 {
		out.TargetCalories = DefaultTargetCalories
	}
	if out.DietaryPreference == "" {
		out.DietaryPreference = DietNonVeg
	}
	return out
}

// HasDisease reports whether the profile lists the disease, ignoring case.
func (p Profile) HasDisease(name string) bool {
	key := normalizeKey(name)
	if key == "" {
		return false
	}
	for _, d := range p.Diseases {
		if normalizeKey(d) == key {
			return true
		}
	}
	return false
}

// StatusOf returns the classified status for a condition key, Normal when absent.
func (p Profile) StatusOf(key string) Status {
	if s, ok := p.ConditionStatus[normalizeKey(key)]; ok && s != "" {
		return s
	}
	return StatusNormal
}

// ParseSeverity maps free-form severity text onto the closed vocabulary.
// The second return value is false for unrecognised input.
func ParseSeverity(raw string) (Severity, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "mild":
		return SeverityMild, true
	case "moderate":
		return SeverityModerate, true
	case "severe":
		return SeveritySevere, true
	}
	return Severity(strings.TrimSpace(raw)), false
}

// ParseDietaryPreference maps free-form diet text onto the closed vocabulary.
func ParseDietaryPreference(raw string) (DietaryPreference, bool) {
	key := strings.ToLower(strings.TrimSpace(raw))
	key = strings.NewReplacer("-", "", "_", "", " ", "").Replace(key)
	switch key {
	case "veg", "vegetarian":
		return DietVeg, true
	case "nonveg", "nonvegetarian":
		return DietNonVeg, true
	case "vegan":
		return DietVegan, true
	}
	return DietaryPreference(strings.TrimSpace(raw)), false
}

// ParseGender maps free-form gender text onto the closed vocabulary.
func ParseGender(raw string) (Gender, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "male", "m":
		return GenderMale, true
	case "female", "f":
		return GenderFemale, true
	case "other", "":
		return GenderOther, true
	}
	return Gender(strings.TrimSpace(raw)), false
}

func normalizeKey(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}
