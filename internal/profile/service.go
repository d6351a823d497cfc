package profile

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"healthbite/backend/internal/scoring"
	"healthbite/backend/internal/store"
)

// Onboarding steps recorded on the profile.
const (
	StepNone       = 0
	StepBasics     = 1
	StepConditions = 2
	StepComplete   = 3
)

// ErrStepOrder is returned when an onboarding step runs before the basics are saved.
var ErrStepOrder = errors.New("complete step 1 first")

// Store is the persistence the service needs.
type Store interface {
	UpdateProfile(ctx context.Context, subject string, mutate store.ProfileMutation) (*store.HealthProfile, error)
	GetProfile(ctx context.Context, subject string) (*store.HealthProfile, error)
}

// Basics is the first onboarding step.
type Basics struct {
	Name              string
	Age               int
	Gender            string
	HeightCm          float64
	WeightKg          float64
	DietaryPreference string
	TargetCalories    float64
}

// Conditions is the second onboarding step.
type Conditions struct {
	Diseases     []string
	Severity     map[string]string
	HealthValues map[string]any
	Allergies    []scoring.Allergy
}

// Status summarises onboarding progress.
type Status struct {
	HasProfile     bool
	OnboardingStep int
	Name           string
}

// Report is a completed profile with lifestyle advice.
type Report struct {
	Profile         scoring.Profile
	Recommendations []string
}

// Service runs the onboarding flow on top of the profile store.
type Service struct {
	store Store
}

// NewService constructs the profile service.
func NewService(s Store) *Service {
	return &Service{store: s}
}

// SaveStep1 stores the basics and returns the recomputed profile. Invalid height or
// weight fails with scoring.InvalidInputError and writes nothing.
func (s *Service) SaveStep1(ctx context.Context, subject string, in Basics) (*store.HealthProfile, error) {
	if err := validateBasics(in); err != nil {
		return nil, err
	}
	row, err := s.store.UpdateProfile(ctx, subject, func(p *store.HealthProfile, _ bool) error {
		applyBasics(p, in)
		if p.OnboardingStep < StepBasics {
			p.OnboardingStep = StepBasics
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("save step 1: %w", err)
	}
	logrus.WithFields(logrus.Fields{"subject": subject, "bmi_category": row.BMICategory}).Debug("profile basics saved")
	return row, nil
}

// SaveStep2 stores diseases, readings and allergies. It requires step 1.
func (s *Service) SaveStep2(ctx context.Context, subject string, in Conditions) (*store.HealthProfile, error) {
	row, err := s.store.UpdateProfile(ctx, subject, func(p *store.HealthProfile, created bool) error {
		if created || p.OnboardingStep < StepBasics {
			return ErrStepOrder
		}
		applyConditions(p, in)
		if p.OnboardingStep < StepConditions {
			p.OnboardingStep = StepConditions
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("save step 2: %w", err)
	}
	return row, nil
}

// Finalize marks onboarding complete and returns the freshly aggregated risk.
func (s *Service) Finalize(ctx context.Context, subject string) (*store.HealthProfile, error) {
	row, err := s.store.UpdateProfile(ctx, subject, func(p *store.HealthProfile, created bool) error {
		if created || p.OnboardingStep < StepBasics {
			return ErrStepOrder
		}
		p.Completed = true
		p.OnboardingStep = StepComplete
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("finalize profile: %w", err)
	}
	logrus.WithFields(logrus.Fields{
		"subject":    subject,
		"risk_score": row.RiskScore,
		"risk_level": row.RiskLevel,
	}).Info("profile finalized")
	return row, nil
}

// SaveProfile writes a whole profile in one call and marks it complete.
func (s *Service) SaveProfile(ctx context.Context, subject string, basics Basics, conditions Conditions) (*store.HealthProfile, error) {
	if err := validateBasics(basics); err != nil {
		return nil, err
	}
	row, err := s.store.UpdateProfile(ctx, subject, func(p *store.HealthProfile, _ bool) error {
		applyBasics(p, basics)
		applyConditions(p, conditions)
		p.Completed = true
		p.OnboardingStep = StepComplete
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("save profile: %w", err)
	}
	return row, nil
}

// Get returns the stored profile or store.ErrNotFound.
func (s *Service) Get(ctx context.Context, subject string) (*store.HealthProfile, error) {
	return s.store.GetProfile(ctx, subject)
}

// Check reports onboarding progress. A missing profile is not an error.
func (s *Service) Check(ctx context.Context, subject string) (Status, error) {
	row, err := s.store.GetProfile(ctx, subject)
	if errors.Is(err, store.ErrNotFound) {
		return Status{OnboardingStep: StepNone}, nil
	}
	if err != nil {
		return Status{}, err
	}
	return Status{
		HasProfile:     row.Completed,
		OnboardingStep: row.OnboardingStep,
		Name:           row.Name,
	}, nil
}

// Report returns the completed profile with recommendations.
func (s *Service) Report(ctx context.Context, subject string) (Report, error) {
	row, err := s.store.GetProfile(ctx, subject)
	if err != nil {
		return Report{}, err
	}
	if !row.Completed {
		return Report{}, fmt.Errorf("completed profile: %w", store.ErrNotFound)
	}
	p := row.ToScoring()
	return Report{Profile: p, Recommendations: scoring.Recommendations(p)}, nil
}

func validateBasics(in Basics) error {
	if !(in.HeightCm > 0) {
		return &scoring.InvalidInputError{Field: "height_cm", Value: in.HeightCm}
	}
	if !(in.WeightKg > 0) {
		return &scoring.InvalidInputError{Field: "weight_kg", Value: in.WeightKg}
	}
	if in.Age < 0 {
		return &scoring.InvalidInputError{Field: "age", Value: float64(in.Age)}
	}
	if in.TargetCalories < 0 {
		return &scoring.InvalidInputError{Field: "target_calories", Value: in.TargetCalories}
	}
	return nil
}

func applyBasics(p *store.HealthProfile, in Basics) {
	if name := strings.TrimSpace(in.Name); name != "" {
		p.Name = name
	}
	p.Age = in.Age
	gender, _ := scoring.ParseGender(in.Gender)
	p.Gender = string(gender)
	p.HeightCm = in.HeightCm
	p.WeightKg = in.WeightKg
	diet, _ := scoring.ParseDietaryPreference(in.DietaryPreference)
	if diet == "" {
		diet = scoring.DietVeg
	}
	p.DietaryPreference = string(diet)
	if in.TargetCalories > 0 {
		p.TargetCalories = in.TargetCalories
	}
}

func applyConditions(p *store.HealthProfile, in Conditions) {
	diseases := make([]string, 0, len(in.Diseases))
	seen := make(map[string]struct{}, len(in.Diseases))
	for _, d := range in.Diseases {
		d = strings.TrimSpace(d)
		if d == "" || strings.EqualFold(d, "none") {
			continue
		}
		key := foldKey(d)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		diseases = append(diseases, d)
	}
	p.SetDiseases(diseases)

	severity := make(map[string]scoring.Severity, len(in.Severity))
	for disease, raw := range in.Severity {
		severity[disease] = scoring.Severity(raw)
	}
	p.SetSeverity(scoring.FoldSeverities(severity))

	p.SetHealthValues(scoring.FoldHealthValues(in.HealthValues))

	allergies := make([]scoring.Allergy, 0, len(in.Allergies))
	for _, a := range in.Allergies {
		name := strings.TrimSpace(a.Name)
		if name == "" || strings.EqualFold(name, "none") {
			continue
		}
		sev, _ := scoring.ParseSeverity(string(a.Severity))
		allergies = append(allergies, scoring.Allergy{Name: name, Severity: sev})
	}
	p.SetAllergies(allergies)
}

func foldKey(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}
