package scoring

// Recommendations builds the lifestyle advice shown on the health report.
func Recommendations(p Profile) []string {
	recs := []string{
		"Stay hydrated with 3L water daily.",
		"Maintain a regular sleep cycle.",
	}
	if p.HasDisease(ConditionDiabetes) {
		recs = append(recs,
			"Focus on low-GI complex carbohydrates.",
			"Restrict added sugars and sugary beverages.",
		)
	}
	if p.HasDisease(ConditionHypertension) {
		recs = append(recs, "Reduce sodium intake to less than 2300mg/day.")
	}
	if p.BMICategory == BMIObese || p.BMICategory == BMIOverweight {
		recs = append(recs, "Incorporate 30 mins of moderate cardio daily.")
	}
	if len(p.Diseases) == 0 {
		recs = append(recs, "Keep up the balanced diet to prevent future risks.")
	}
	return recs
}
