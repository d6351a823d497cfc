package api

import (
	"math"
	"time"

	"healthbite/backend/internal/menu"
	"healthbite/backend/internal/profile"
	"healthbite/backend/internal/scoring"
	"healthbite/backend/internal/store"
)

// Step1Request carries the onboarding basics.
type Step1Request struct {
	Name              string  `json:"name"`
	Age               int     `json:"age"`
	Gender            string  `json:"gender"`
	HeightCm          float64 `json:"height_cm"`
	WeightKg          float64 `json:"weight_kg"`
	DietaryPreference string  `json:"dietary_preference"`
	TargetCalories    float64 `json:"target_calories"`
}

func (r Step1Request) toBasics() profile.Basics {
	return profile.Basics{
		Name:              r.Name,
		Age:               r.Age,
		Gender:            r.Gender,
		HeightCm:          r.HeightCm,
		WeightKg:          r.WeightKg,
		DietaryPreference: r.DietaryPreference,
		TargetCalories:    r.TargetCalories,
	}
}

// Step2Request carries diseases, readings and allergies.
type Step2Request struct {
	Disease      []string          `json:"disease"`
	Severity     map[string]string `json:"severity"`
	HealthValues map[string]any    `json:"health_values"`
	Allergies    []scoring.Allergy `json:"allergies"`
}

func (r Step2Request) toConditions() profile.Conditions {
	return profile.Conditions{
		Diseases:     r.Disease,
		Severity:     r.Severity,
		HealthValues: r.HealthValues,
		Allergies:    r.Allergies,
	}
}

// ProfileRequest is the single-shot profile payload.
type ProfileRequest struct {
	Step1Request
	Step2Request
}

// HealthProfileDTO is the API representation of a stored profile.
type HealthProfileDTO struct {
	ID                uint                        `json:"id"`
	UserID            string                      `json:"user_id"`
	Name              string                      `json:"name"`
	Age               int                         `json:"age"`
	HeightCm          float64                     `json:"height_cm"`
	WeightKg          float64                     `json:"weight_kg"`
	BMI               float64                     `json:"bmi"`
	BMICategory       string                      `json:"bmi_category"`
	Gender            string                      `json:"gender"`
	DietaryPreference string                      `json:"dietary_preference"`
	Disease           []string                    `json:"disease"`
	Severity          map[string]scoring.Severity `json:"severity"`
	HealthValues      map[string]any              `json:"health_values"`
	ConditionStatus   map[string]scoring.Status   `json:"condition_status"`
	DiabetesStatus    string                      `json:"diabetes_status"`
	BPStatus          string                      `json:"bp_status"`
	CholesterolStatus string                      `json:"cholesterol_status"`
	Allergies         []scoring.Allergy           `json:"allergies"`
	TargetCalories    float64                     `json:"target_calories"`
	RiskScore         int                         `json:"risk_score"`
	RiskLevel         string                      `json:"risk_level"`
	OnboardingStep    int                         `json:"onboarding_step"`
	Completed         bool                        `json:"profile_completed"`
	UpdatedAt         time.Time                   `json:"updated_at"`
}

// ProfileFromModel converts a stored profile into its DTO.
func ProfileFromModel(row *store.HealthProfile) HealthProfileDTO {
	p := row.ToScoring()
	name := row.Name
	if name == "" {
		name = "User"
	}
	return HealthProfileDTO{
		ID:                row.ID,
		UserID:            row.Subject,
		Name:              name,
		Age:               p.Age,
		HeightCm:          p.HeightCm,
		WeightKg:          p.WeightKg,
		BMI:               round2(p.BMI),
		BMICategory:       string(p.BMICategory),
		Gender:            string(p.Gender),
		DietaryPreference: string(p.DietaryPreference),
		Disease:           p.Diseases,
		Severity:          p.SeverityByDisease,
		HealthValues:      p.HealthValues,
		ConditionStatus:   p.ConditionStatus,
		DiabetesStatus:    statusOrNormal(row.DiabetesStatus),
		BPStatus:          statusOrNormal(row.BPStatus),
		CholesterolStatus: statusOrNormal(row.CholesterolStatus),
		Allergies:         p.Allergies,
		TargetCalories:    p.TargetCalories,
		RiskScore:         p.RiskScore,
		RiskLevel:         string(p.RiskLevel),
		OnboardingStep:    row.OnboardingStep,
		Completed:         row.Completed,
		UpdatedAt:         row.UpdatedAt,
	}
}

// CheckResponse reports onboarding progress.
type CheckResponse struct {
	HasProfile     bool   `json:"has_profile"`
	OnboardingStep int    `json:"onboarding_step"`
	UserID         string `json:"user_id"`
	Name           string `json:"name"`
}

// HealthReportDTO is a completed profile with recommendations.
type HealthReportDTO struct {
	Age             int               `json:"age"`
	Gender          string            `json:"gender"`
	WeightKg        float64           `json:"weight_kg"`
	HeightCm        float64           `json:"height_cm"`
	BMI             float64           `json:"bmi"`
	BMICategory     string            `json:"bmi_category"`
	Disease         []string          `json:"disease"`
	Allergies       []scoring.Allergy `json:"allergies"`
	RiskScore       int               `json:"risk_score"`
	RiskLevel       string            `json:"risk_level"`
	Recommendations []string          `json:"recommendations"`
}

// ReportFromService converts a profile report into its DTO.
func ReportFromService(r profile.Report) HealthReportDTO {
	category := string(r.Profile.BMICategory)
	if category == "" {
		category = string(scoring.BMINormal)
	}
	return HealthReportDTO{
		Age:             r.Profile.Age,
		Gender:          string(r.Profile.Gender),
		WeightKg:        r.Profile.WeightKg,
		HeightCm:        r.Profile.HeightCm,
		BMI:             round2(r.Profile.BMI),
		BMICategory:     category,
		Disease:         r.Profile.Diseases,
		Allergies:       r.Profile.Allergies,
		RiskScore:       r.Profile.RiskScore,
		RiskLevel:       string(r.Profile.RiskLevel),
		Recommendations: r.Recommendations,
	}
}

// FoodDTO is the API representation of a catalog item.
type FoodDTO struct {
	ID          uint    `json:"id"`
	Name        string  `json:"name"`
	Category    string  `json:"category"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Image       string  `json:"image"`
	Calories    float64 `json:"calories"`
	Protein     float64 `json:"protein"`
	Carbs       float64 `json:"carbs"`
	Fat         float64 `json:"fat"`
	Sugar       float64 `json:"sugar"`
	Sodium      float64 `json:"sodium"`
	DietaryType string  `json:"dietary_type"`
	IsAvailable bool    `json:"is_available"`
}

// FoodFromModel converts a catalog row into its DTO.
func FoodFromModel(f store.FoodItem) FoodDTO {
	return FoodDTO{
		ID:          f.ID,
		Name:        f.Name,
		Category:    f.Category,
		Description: f.Description,
		Price:       round2(f.Price),
		Image:       f.ImageEmoji,
		Calories:    f.Calories,
		Protein:     f.ProteinG,
		Carbs:       f.CarbsG,
		Fat:         f.FatG,
		Sugar:       f.SugarG,
		Sodium:      f.SodiumMg,
		DietaryType: f.DietaryType,
		IsAvailable: f.IsAvailable,
	}
}

// FoodRequest creates a catalog item.
type FoodRequest struct {
	Name        string  `json:"name"`
	Category    string  `json:"category"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Image       string  `json:"image"`
	Calories    float64 `json:"calories"`
	Protein     float64 `json:"protein"`
	Carbs       float64 `json:"carbs"`
	Fat         float64 `json:"fat"`
	Sugar       float64 `json:"sugar"`
	Sodium      float64 `json:"sodium"`
	DietaryType string  `json:"dietary_type"`
	IsAvailable *bool   `json:"is_available"`
}

func (r FoodRequest) toCatalogEntry() store.CatalogEntry {
	return store.CatalogEntry{
		Name:        r.Name,
		Category:    r.Category,
		Description: r.Description,
		Price:       r.Price,
		Calories:    r.Calories,
		ProteinG:    r.Protein,
		CarbsG:      r.Carbs,
		FatG:        r.Fat,
		SugarG:      r.Sugar,
		SodiumMg:    r.Sodium,
		DietaryType: r.DietaryType,
		ImageEmoji:  r.Image,
		Available:   r.IsAvailable,
	}
}

// AvailabilityRequest toggles menu availability.
type AvailabilityRequest struct {
	IsAvailable *bool `json:"is_available"`
}

// MenuItemDTO is one scored menu entry.
type MenuItemDTO struct {
	FoodDTO
	MatchScore int      `json:"match_score"`
	RiskLevel  int      `json:"risk_level"`
	Penalties  []string `json:"penalties"`
	Tag        string   `json:"tag"`
	Insight    string   `json:"insight"`
}

// MenuFromService flattens scored entries, keeping catalog order.
func MenuFromService(result menu.Result) []MenuItemDTO {
	items := make([]MenuItemDTO, 0, len(result.Entries))
	for _, e := range result.Entries {
		items = append(items, MenuItemDTO{
			FoodDTO:    FoodFromModel(e.Food),
			MatchScore: e.Match.MatchScore,
			RiskLevel:  e.Match.RiskBand,
			Penalties:  e.Match.Penalties,
			Tag:        e.Match.Tag,
			Insight:    e.Match.Insight,
		})
	}
	return items
}

func statusOrNormal(s string) string {
	if s == "" {
		return string(scoring.StatusNormal)
	}
	return s
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// DailyLogRequest is one wellness submission for today.
type DailyLogRequest struct {
	WaterIntakeMl int    `json:"water_intake_ml"`
	Steps         int    `json:"steps"`
	Mood          string `json:"mood"`
}

// DailyLogDTO is the API representation of a day's wellness log.
type DailyLogDTO struct {
	ID            uint   `json:"id,omitempty"`
	UserID        string `json:"user_id"`
	Date          string `json:"date"`
	WaterIntakeMl int    `json:"water_intake_ml"`
	Steps         int    `json:"steps"`
	Mood          string `json:"mood"`
}

// DailyLogFromModel converts a stored log into its DTO.
func DailyLogFromModel(l store.DailyLog) DailyLogDTO {
	return DailyLogDTO{
		ID:            l.ID,
		UserID:        l.Subject,
		Date:          l.Date,
		WaterIntakeMl: l.WaterIntakeMl,
		Steps:         l.Steps,
		Mood:          l.Mood,
	}
}

// OrderRequest lists ordered food ids; repeating an id orders it again.
type OrderRequest struct {
	Items         []uint `json:"items"`
	PaymentMethod string `json:"payment_method"`
}

// OrderLineDTO is one line of an order.
type OrderLineDTO struct {
	FoodID     uint    `json:"food_id"`
	FoodName   string  `json:"food_name"`
	Qty        int     `json:"qty"`
	UnitPrice  float64 `json:"unit_price"`
	Subtotal   float64 `json:"subtotal"`
	HealthFlag bool    `json:"health_flag"`
}

// OrderDTO is the API representation of a placed order.
type OrderDTO struct {
	ID            uint           `json:"id"`
	UserID        string         `json:"user_id"`
	Items         []uint         `json:"items"`
	Lines         []OrderLineDTO `json:"lines"`
	TotalPrice    float64        `json:"total_price"`
	TotalCalories float64        `json:"total_calories"`
	TotalSugar    float64        `json:"total_sugar"`
	TotalSodium   float64        `json:"total_sodium"`
	Status        string         `json:"status"`
	PaymentMethod string         `json:"payment_method"`
	CreatedAt     time.Time      `json:"created_at"`
}

// OrderFromModel converts a stored order into its DTO. Items repeats each food id once
// per unit ordered.
func OrderFromModel(o store.Order) OrderDTO {
	dto := OrderDTO{
		ID:            o.ID,
		UserID:        o.Subject,
		Items:         []uint{},
		Lines:         make([]OrderLineDTO, 0, len(o.Items)),
		TotalPrice:    round2(o.TotalPrice),
		TotalCalories: round2(o.TotalCalories),
		TotalSugar:    round2(o.TotalSugar),
		TotalSodium:   round2(o.TotalSodium),
		Status:        o.Status,
		PaymentMethod: o.PaymentMethod,
		CreatedAt:     o.CreatedAt,
	}
	for _, it := range o.Items {
		for i := 0; i < it.Qty; i++ {
			dto.Items = append(dto.Items, it.FoodID)
		}
		dto.Lines = append(dto.Lines, OrderLineDTO{
			FoodID:     it.FoodID,
			FoodName:   it.FoodName,
			Qty:        it.Qty,
			UnitPrice:  round2(it.UnitPrice),
			Subtotal:   round2(it.Subtotal),
			HealthFlag: it.HealthFlag,
		})
	}
	return dto
}
