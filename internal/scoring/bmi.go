package scoring

import "fmt"

// InvalidInputError reports biometric input that cannot be scored.
type InvalidInputError struct {
	Field string
	Value float64
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid %s: %g must be positive", e.Field, e.Value)
}

// CategorizeBMI computes BMI from height in centimeters and weight in kilograms.
func CategorizeBMI(heightCm, weightKg float64) (float64, BMICategory, error) {
	if !(heightCm > 0) {
		return 0, "", &InvalidInputError{Field: "height_cm", Value: heightCm}
	}
	if !(weightKg > 0) {
		return 0, "", &InvalidInputError{Field: "weight_kg", Value: weightKg}
	}
	h := heightCm / 100.0
	bmi := weightKg / (h * h)
	return bmi, CategoryForBMI(bmi), nil
}

// CategoryForBMI buckets a BMI value; boundaries are left-inclusive.
func CategoryForBMI(bmi float64) BMICategory {
	switch {
	case bmi < 18.5:
		return BMIUnderweight
	case bmi < 25.0:
		return BMINormal
	case bmi < 30.0:
		return BMIOverweight
	default:
		return BMIObese
	}
}
