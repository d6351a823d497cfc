package scoring

import (
	"encoding/json"
	"testing"
)

func TestClassifyCondition(t *testing.T) {
	tests := []struct {
		name      string
		condition string
		value     any
		expected  Status
	}{
		{"diabetes high", "diabetes", 130, StatusHigh},
		{"diabetes zero", "diabetes", 0, StatusNormal},
		{"diabetes normal", "diabetes", 99.9, StatusNormal},
		{"diabetes elevated low edge", "diabetes", 100, StatusElevated},
		{"diabetes elevated high edge", "diabetes", 125, StatusElevated},
		{"diabetes string", "diabetes", " 126 ", StatusHigh},
		{"diabetes json number", "Diabetes", json.Number("110"), StatusElevated},
		{"diabetes garbage", "diabetes", "abc", StatusNormal},
		{"diabetes blank", "diabetes", "", StatusNormal},
		{"diabetes nil", "diabetes", nil, StatusNormal},
		{"diabetes bool", "diabetes", true, StatusNormal},
		{"diabetes NaN string", "diabetes", "NaN", StatusNormal},
		{"bp pair", "hypertension", "150/95", StatusCritical},
		{"bp pair elevated", "hypertension", "125/80", StatusElevated},
		{"bp bare", "hypertension", 119, StatusNormal},
		{"bp edge elevated", "hypertension", 139, StatusElevated},
		{"bp edge critical", "hypertension", 140.0, StatusCritical},
		{"bp broken pair", "hypertension", "/80", StatusNormal},
		{"bp zero pair", "hypertension", "0/0", StatusNormal},
		{"cholesterol normal", "cholesterol", 129, StatusNormal},
		{"cholesterol elevated", "cholesterol", 159, StatusElevated},
		{"cholesterol high", "cholesterol", 160, StatusHigh},
		{"cholesterol pair not accepted", "cholesterol", "170/90", StatusNormal},
		{"unknown condition", "thyroid", 500, StatusNormal},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := ClassifyCondition(tc.condition, tc.value); got != tc.expected {
				t.Fatalf("expected %s got %s", tc.expected, got)
			}
		})
	}
}

func TestClassifyConditionsAlwaysReportsKnownKeys(t *testing.T) {
	statuses := ClassifyConditions(map[string]any{"Diabetes": 140, "thyroid": 3})
	expected := map[string]Status{
		"diabetes":     StatusHigh,
		"hypertension": StatusNormal,
		"cholesterol":  StatusNormal,
		"thyroid":      StatusNormal,
	}
	if len(statuses) != len(expected) {
		t.Fatalf("expected %d statuses got %d (%v)", len(expected), len(statuses), statuses)
	}
	for key, want := range expected {
		if statuses[key] != want {
			t.Fatalf("%s: expected %s got %s", key, want, statuses[key])
		}
	}
}

func TestClassifyConditionsFoldsCaseVariants(t *testing.T) {
	values := map[string]any{"diabetes": 130, "Diabetes": 90, " HYPERTENSION ": "125/80", "hypertension": "110/70"}
	for i := 0; i < 100; i++ {
		got := ClassifyConditions(values)
		if got[ConditionDiabetes] != StatusHigh {
			t.Fatalf("run %d: expected diabetes High got %s", i, got[ConditionDiabetes])
		}
		if got[ConditionHypertension] != StatusElevated {
			t.Fatalf("run %d: expected hypertension Elevated got %s", i, got[ConditionHypertension])
		}
		if len(got) != 3 {
			t.Fatalf("run %d: expected 3 folded keys got %v", i, got)
		}
	}
}

func TestFoldHealthValues(t *testing.T) {
	for i := 0; i < 100; i++ {
		got := FoldHealthValues(map[string]any{
			"Diabetes":    90,
			"diabetes":    130,
			"Cholesterol": 140,
			"cholesterol": 120,
			"":            5,
		})
		if len(got) != 2 {
			t.Fatalf("expected 2 keys got %v", got)
		}
		if got["diabetes"] != 130 {
			t.Fatalf("expected worst diabetes reading 130 got %v", got["diabetes"])
		}
		if got["cholesterol"] != 140 {
			t.Fatalf("expected worst cholesterol reading 140 got %v", got["cholesterol"])
		}
	}

	// equal status keeps the first key in sorted order
	got := FoldHealthValues(map[string]any{"diabetes": 80, "Diabetes": 95})
	if got["diabetes"] != 95 {
		t.Fatalf("expected tie to keep Diabetes reading 95 got %v", got["diabetes"])
	}
}
