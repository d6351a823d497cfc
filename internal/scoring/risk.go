package scoring

import "strings"

const maxRiskScore = 100

// AggregateRisk sums the additive risk points for a classified profile and clamps the
// total to 100. Unrecognised severities and statuses contribute nothing.
func AggregateRisk(p Profile) (int, RiskLevel) {
	score := 0

	category := p.BMICategory
	if category == "" && p.BMI > 0 {
		category = CategoryForBMI(p.BMI)
	}
	switch category {
	case BMIObese:
		score += 20
	case BMIOverweight:
		score += 10
	case BMIUnderweight:
		score += 10
	}

	for _, sev := range FoldSeverities(p.SeverityByDisease) {
		score += severityPoints(sev)
	}

	switch p.StatusOf(ConditionDiabetes) {
	case StatusHigh:
		score += 15
	case StatusElevated:
		score += 7
	}

	switch p.StatusOf(ConditionHypertension) {
	case StatusCritical:
		score += 15
	case StatusElevated:
		score += 7
	}

	for _, a := range p.Allergies {
		if sev, ok := ParseSeverity(string(a.Severity)); ok && sev == SeveritySevere {
			score += 10
			break
		}
	}

	if score > maxRiskScore {
		score = maxRiskScore
	}
	if score < 0 {
		score = 0
	}
	return score, RiskLevelForScore(score)
}

// RiskLevelForScore maps a risk score onto its tier, checking high to low.
func RiskLevelForScore(score int) RiskLevel {
	switch {
	case score >= 60:
		return RiskHigh
	case score >= 30:
		return RiskModerate
	default:
		return RiskLow
	}
}

// FoldSeverities merges disease names that differ only in case or spacing, keeping the
// highest severity. Recognised severities are canonicalised; others are kept verbatim and
// rank lowest. The surviving name is the first spelling in sorted order.
func FoldSeverities(severity map[string]Severity) map[string]Severity {
	out := make(map[string]Severity, len(severity))
	names := make(map[string]string, len(severity))
	for _, disease := range sortedKeys(severity) {
		key := normalizeKey(disease)
		if key == "" {
			continue
		}
		sev, _ := ParseSeverity(string(severity[disease]))
		name, seen := names[key]
		if !seen {
			names[key] = strings.TrimSpace(disease)
			out[names[key]] = sev
			continue
		}
		if severityPoints(sev) > severityPoints(out[name]) {
			out[name] = sev
		}
	}
	return out
}

func severityPoints(s Severity) int {
	switch s {
	case SeveritySevere:
		return 20
	case SeverityModerate:
		return 10
	case SeverityMild:
		return 5
	}
	return 0
}
