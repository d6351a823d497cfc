package store

import (
	"bytes"
	"encoding/json"
	"time"

	"gorm.io/datatypes"

	"healthbite/backend/internal/scoring"
)

// HealthProfile is the persisted health record of one caller, keyed by token subject.
type HealthProfile struct {
	ID                  uint   `gorm:"primaryKey"`
	Subject             string `gorm:"size:128;uniqueIndex;not null"`
	Name                string `gorm:"size:128"`
	Age                 int
	Gender              string `gorm:"size:16"`
	HeightCm            float64
	WeightKg            float64
	BMI                 float64
	BMICategory         string `gorm:"size:16"`
	DietaryPreference   string `gorm:"size:16"`
	DiseasesJSON        datatypes.JSON
	SeverityJSON        datatypes.JSON
	HealthValuesJSON    datatypes.JSON
	AllergiesJSON       datatypes.JSON
	ConditionStatusJSON datatypes.JSON
	DiabetesStatus      string `gorm:"size:16"`
	BPStatus            string `gorm:"size:16"`
	CholesterolStatus   string `gorm:"size:16"`
	TargetCalories      float64
	RiskScore           int
	RiskLevel           string `gorm:"size:16"`
	OnboardingStep      int
	Completed           bool
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// SetDiseases persists the disease list as JSON.
func (p *HealthProfile) SetDiseases(diseases []string) {
	if diseases == nil {
		diseases = []string{}
	}
	p.DiseasesJSON = encodeJSON(diseases)
}

// Diseases returns the decoded disease list. Malformed JSON yields nil.
func (p *HealthProfile) Diseases() []string {
	var out []string
	if !decodeJSON(p.DiseasesJSON, &out) {
		return nil
	}
	return out
}

// SetSeverity persists the per-disease severity map.
func (p *HealthProfile) SetSeverity(severity map[string]scoring.Severity) {
	if severity == nil {
		severity = map[string]scoring.Severity{}
	}
	p.SeverityJSON = encodeJSON(severity)
}

// Severity returns the decoded severity map.
func (p *HealthProfile) Severity() map[string]scoring.Severity {
	var out map[string]scoring.Severity
	if !decodeJSON(p.SeverityJSON, &out) {
		return nil
	}
	return out
}

// SetHealthValues persists the raw clinical readings.
func (p *HealthProfile) SetHealthValues(values map[string]any) {
	if values == nil {
		values = map[string]any{}
	}
	p.HealthValuesJSON = encodeJSON(values)
}

// HealthValues returns the decoded readings. Numbers decode as json.Number.
func (p *HealthProfile) HealthValues() map[string]any {
	if len(bytes.TrimSpace(p.HealthValuesJSON)) == 0 {
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(p.HealthValuesJSON))
	dec.UseNumber()
	var out map[string]any
	if err := dec.Decode(&out); err != nil {
		return nil
	}
	return out
}

// SetAllergies persists the allergy list.
func (p *HealthProfile) SetAllergies(allergies []scoring.Allergy) {
	if allergies == nil {
		allergies = []scoring.Allergy{}
	}
	p.AllergiesJSON = encodeJSON(allergies)
}

// Allergies returns the decoded allergy list.
func (p *HealthProfile) Allergies() []scoring.Allergy {
	var out []scoring.Allergy
	if !decodeJSON(p.AllergiesJSON, &out) {
		return nil
	}
	return out
}

// ConditionStatus returns the decoded condition statuses.
func (p *HealthProfile) ConditionStatus() map[string]scoring.Status {
	var out map[string]scoring.Status
	if !decodeJSON(p.ConditionStatusJSON, &out) {
		return nil
	}
	return out
}

// Reassess recomputes every derived column from the stored inputs. It is the only
// writer of BMI, statuses and risk.
func (p *HealthProfile) Reassess() error {
	a, err := scoring.Assess(scoring.Input{
		HeightCm:          p.HeightCm,
		WeightKg:          p.WeightKg,
		SeverityByDisease: p.Severity(),
		HealthValues:      p.HealthValues(),
		Allergies:         p.Allergies(),
	})
	if err != nil {
		return err
	}
	p.applyAssessment(a)
	return nil
}

func (p *HealthProfile) applyAssessment(a scoring.Assessment) {
	p.BMI = a.BMI
	p.BMICategory = string(a.BMICategory)
	p.ConditionStatusJSON = encodeJSON(a.ConditionStatus)
	p.DiabetesStatus = string(a.ConditionStatus[scoring.ConditionDiabetes])
	p.BPStatus = string(a.ConditionStatus[scoring.ConditionHypertension])
	p.CholesterolStatus = string(a.ConditionStatus[scoring.ConditionCholesterol])
	p.RiskScore = a.RiskScore
	p.RiskLevel = string(a.RiskLevel)
}

// ToScoring converts the row into the value the rules engine consumes.
func (p *HealthProfile) ToScoring() scoring.Profile {
	out := scoring.Profile{
		Age:               p.Age,
		Gender:            scoring.Gender(p.Gender),
		HeightCm:          p.HeightCm,
		WeightKg:          p.WeightKg,
		BMI:               p.BMI,
		BMICategory:       scoring.BMICategory(p.BMICategory),
		DietaryPreference: scoring.DietaryPreference(p.DietaryPreference),
		Diseases:          p.Diseases(),
		SeverityByDisease: p.Severity(),
		HealthValues:      p.HealthValues(),
		ConditionStatus:   p.ConditionStatus(),
		Allergies:         p.Allergies(),
		TargetCalories:    p.TargetCalories,
		RiskScore:         p.RiskScore,
		RiskLevel:         scoring.RiskLevel(p.RiskLevel),
	}
	if out.Diseases == nil {
		out.Diseases = []string{}
	}
	if out.SeverityByDisease == nil {
		out.SeverityByDisease = map[string]scoring.Severity{}
	}
	if out.HealthValues == nil {
		out.HealthValues = map[string]any{}
	}
	if out.ConditionStatus == nil {
		out.ConditionStatus = map[string]scoring.Status{}
	}
	if out.Allergies == nil {
		out.Allergies = []scoring.Allergy{}
	}
	if out.TargetCalories <= 0 {
		out.TargetCalories = scoring.DefaultTargetCalories
	}
	if out.BMICategory == "" && out.BMI > 0 {
		out.BMICategory = scoring.CategoryForBMI(out.BMI)
	}
	if out.RiskLevel == "" {
		out.RiskLevel = scoring.RiskLow
	}
	return out
}

// FoodItem is a canteen catalog entry.
type FoodItem struct {
	ID          uint   `gorm:"primaryKey"`
	Name        string `gorm:"size:128;index;not null"`
	Category    string `gorm:"size:32"`
	Description string `gorm:"type:text"`
	Price       float64
	Calories    float64
	ProteinG    float64
	CarbsG      float64
	FatG        float64
	SugarG      float64
	SodiumMg    float64
	DietaryType string `gorm:"size:16"`
	ImageEmoji  string `gorm:"size:16"`
	IsAvailable bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ToScoring converts the row into the matching engine's item view.
func (f *FoodItem) ToScoring() scoring.FoodItem {
	return scoring.FoodItem{
		ID:          f.ID,
		Name:        f.Name,
		Category:    f.Category,
		Description: f.Description,
		Calories:    f.Calories,
		ProteinG:    f.ProteinG,
		CarbsG:      f.CarbsG,
		FatG:        f.FatG,
		SugarG:      f.SugarG,
		SodiumMg:    f.SodiumMg,
		DietaryType: scoring.DietaryPreference(f.DietaryType),
	}
}

func encodeJSON(v any) datatypes.JSON {
	payload, err := json.Marshal(v)
	if err != nil {
		return datatypes.JSON("null")
	}
	return datatypes.JSON(payload)
}

func decodeJSON(raw datatypes.JSON, out any) bool {
	if len(bytes.TrimSpace(raw)) == 0 {
		return false
	}
	return json.Unmarshal(raw, out) == nil
}

// DailyLog is one caller's wellness entry for a calendar day.
type DailyLog struct {
	ID            uint   `gorm:"primaryKey"`
	Subject       string `gorm:"size:128;not null;uniqueIndex:idx_daily_logs_subject_date"`
	Date          string `gorm:"column:log_date;size:10;not null;uniqueIndex:idx_daily_logs_subject_date"`
	WaterIntakeMl int
	Steps         int
	Mood          string `gorm:"size:32"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Order is a placed canteen order with nutrition totals.
type Order struct {
	ID            uint   `gorm:"primaryKey"`
	Subject       string `gorm:"size:128;index;not null"`
	TotalPrice    float64
	TotalCalories float64
	TotalSugar    float64
	TotalSodium   float64
	Status        string      `gorm:"size:16"`
	PaymentMethod string      `gorm:"size:32"`
	Items         []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt     time.Time
}

// OrderItem is one line of an order. Name and price are snapshots taken at order time.
type OrderItem struct {
	ID         uint `gorm:"primaryKey"`
	OrderID    uint `gorm:"index;not null"`
	FoodID     uint
	FoodName   string `gorm:"size:128"`
	Qty        int
	UnitPrice  float64
	Subtotal   float64
	HealthFlag bool
}
