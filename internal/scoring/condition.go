package scoring

import (
	"encoding/json"
	"math"
	"sort"
	"strconv"
	"strings"
)

// ClassifyCondition maps a raw reading onto a status bucket for the condition.
// Blank, zero, or unparsable readings and unknown conditions are Normal.
func ClassifyCondition(condition string, raw any) Status {
	switch normalizeKey(condition) {
	case ConditionDiabetes:
		v, ok := readingValue(raw, false)
		if !ok {
			return StatusNormal
		}
		switch {
		case v < 100:
			return StatusNormal
		case v <= 125:
			return StatusElevated
		default:
			return StatusHigh
		}
	case ConditionHypertension:
		systolic, ok := readingValue(raw, true)
		if !ok {
			return StatusNormal
		}
		switch {
		case systolic < 120:
			return StatusNormal
		case systolic <= 139:
			return StatusElevated
		default:
			return StatusCritical
		}
	case ConditionCholesterol:
		v, ok := readingValue(raw, false)
		if !ok {
			return StatusNormal
		}
		switch {
		case v < 130:
			return StatusNormal
		case v <= 159:
			return StatusElevated
		default:
			return StatusHigh
		}
	}
	return StatusNormal
}

// ClassifyConditions classifies every reading. The three known conditions are always
// present in the result. Keys differing only in case or spacing fold together and the
// worst status among them wins.
func ClassifyConditions(values map[string]any) map[string]Status {
	out := map[string]Status{
		ConditionDiabetes:     StatusNormal,
		ConditionHypertension: StatusNormal,
		ConditionCholesterol:  StatusNormal,
	}
	for _, key := range sortedKeys(values) {
		k := normalizeKey(key)
		if k == "" {
			continue
		}
		status := ClassifyCondition(k, values[key])
		if current, ok := out[k]; !ok || statusRank(status) > statusRank(current) {
			out[k] = status
		}
	}
	return out
}

// FoldHealthValues folds reading keys onto their normalized condition key. When several
// keys collide the reading with the worst status is kept; ties keep the first key in
// sorted order.
func FoldHealthValues(values map[string]any) map[string]any {
	out := make(map[string]any, len(values))
	for _, key := range sortedKeys(values) {
		k := normalizeKey(key)
		if k == "" {
			continue
		}
		raw := values[key]
		if existing, ok := out[k]; ok &&
			statusRank(ClassifyCondition(k, raw)) <= statusRank(ClassifyCondition(k, existing)) {
			continue
		}
		out[k] = raw
	}
	return out
}

func statusRank(s Status) int {
	switch s {
	case StatusCritical:
		return 3
	case StatusHigh:
		return 2
	case StatusElevated:
		return 1
	}
	return 0
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// readingValue extracts a usable number. With pressure set, "systolic/diastolic"
// strings yield the systolic component.
func readingValue(raw any, pressure bool) (float64, bool) {
	var v float64
	switch val := raw.(type) {
	case nil:
		return 0, false
	case float64:
		v = val
	case float32:
		v = float64(val)
	case int:
		v = float64(val)
	case int32:
		v = float64(val)
	case int64:
		v = float64(val)
	case uint:
		v = float64(val)
	case json.Number:
		f, err := val.Float64()
		if err != nil {
			return 0, false
		}
		v = f
	case string:
		s := strings.TrimSpace(val)
		if pressure {
			if idx := strings.Index(s, "/"); idx >= 0 {
				s = strings.TrimSpace(s[:idx])
			}
		}
		if s == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		v = f
	default:
		return 0, false
	}
	if v == 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
