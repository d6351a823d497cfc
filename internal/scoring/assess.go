package scoring

// Input holds the self-reported fields a profile is assessed from.
type Input struct {
	HeightCm          float64
	WeightKg          float64
	SeverityByDisease map[string]Severity
	HealthValues      map[string]any
	Allergies         []Allergy
}

// Assessment carries every derived field of a profile.
type Assessment struct {
	BMI             float64
	BMICategory     BMICategory
	ConditionStatus map[string]Status
	RiskScore       int
	RiskLevel       RiskLevel
}

// Assess runs BMI categorisation, condition classification and risk aggregation in
// order. Only non-positive height or weight fails.
func Assess(in Input) (Assessment, error) {
	bmi, category, err := CategorizeBMI(in.HeightCm, in.WeightKg)
	if err != nil {
		return Assessment{}, err
	}
	statuses := ClassifyConditions(in.HealthValues)
	score, level := AggregateRisk(Profile{
		BMI:               bmi,
		BMICategory:       category,
		SeverityByDisease: in.SeverityByDisease,
		ConditionStatus:   statuses,
		Allergies:         in.Allergies,
	})
	return Assessment{
		BMI:             bmi,
		BMICategory:     category,
		ConditionStatus: statuses,
		RiskScore:       score,
		RiskLevel:       level,
	}, nil
}
