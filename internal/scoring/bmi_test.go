package scoring

import (
	"errors"
	"math"
	"testing"
)

func TestCategorizeBMI(t *testing.T) {
	bmi, category, err := CategorizeBMI(175, 70)
	if err != nil {
		t.Fatalf("categorize: %v", err)
	}
	if math.Abs(bmi-22.857) > 0.01 {
		t.Fatalf("expected bmi ~22.86 got %.3f", bmi)
	}
	if category != BMINormal {
		t.Fatalf("expected %s got %s", BMINormal, category)
	}
}

func TestCategoryForBMIBoundaries(t *testing.T) {
	tests := []struct {
		bmi      float64
		expected BMICategory
	}{
		{12, BMIUnderweight},
		{18.49, BMIUnderweight},
		{18.5, BMINormal},
		{24.99, BMINormal},
		{25, BMIOverweight},
		{29.99, BMIOverweight},
		{30, BMIObese},
		{45, BMIObese},
	}
	for _, tc := range tests {
		if got := CategoryForBMI(tc.bmi); got != tc.expected {
			t.Fatalf("bmi %.2f: expected %s got %s", tc.bmi, tc.expected, got)
		}
	}
}

func TestCategorizeBMIRejectsNonPositive(t *testing.T) {
	tests := []struct {
		name   string
		height float64
		weight float64
		field  string
	}{
		{"zero height", 0, 70, "height_cm"},
		{"negative height", -170, 70, "height_cm"},
		{"zero weight", 170, 0, "weight_kg"},
		{"NaN weight", 170, math.NaN(), "weight_kg"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := CategorizeBMI(tc.height, tc.weight)
			var invalid *InvalidInputError
			if !errors.As(err, &invalid) {
				t.Fatalf("expected InvalidInputError got %v", err)
			}
			if invalid.Field != tc.field {
				t.Fatalf("expected field %s got %s", tc.field, invalid.Field)
			}
		})
	}
}
