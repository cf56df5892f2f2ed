// internal/models/assessment.go
package models

// RiskTier is one verdict level on the assessment scale. The string values
// are the wire format used in workflow variables, API responses, and
// stored assessment records.
type RiskTier string

const (
	TierNoRisk   RiskTier = "No Risk"
	TierVeryLow  RiskTier = "Very Low"
	TierLow      RiskTier = "Low"
	TierMedium   RiskTier = "Medium"
	TierHigh     RiskTier = "High"
	TierVeryHigh RiskTier = "Very High"
)

// escalationLadder orders the escalatable tiers from lowest to highest.
// TierNoRisk sits outside the ladder: escalation never moves it.
var escalationLadder = []RiskTier{
	TierVeryLow,
	TierLow,
	TierMedium,
	TierHigh,
	TierVeryHigh,
}

// tierOrdinal ranks all six tiers for threshold comparisons.
var tierOrdinal = map[RiskTier]int{
	TierNoRisk:   0,
	TierVeryLow:  1,
	TierLow:      2,
	TierMedium:   3,
	TierHigh:     4,
	TierVeryHigh: 5,
}

// Escalate raises the tier by the given number of ladder steps, saturating
// at Very High. Escalating No Risk is a no-op regardless of steps.
func (t RiskTier) Escalate(steps int) RiskTier {
	if steps <= 0 {
		return t
	}

	idx := -1
	for i, tier := range escalationLadder {
		if tier == t {
			idx = i
			break
		}
	}
	if idx == -1 {
		// No Risk or an unknown tier: not on the ladder
		return t
	}

	idx += steps
	if idx >= len(escalationLadder) {
		idx = len(escalationLadder) - 1
	}
	return escalationLadder[idx]
}

// AtLeast reports whether the tier is at or above the given threshold.
func (t RiskTier) AtLeast(threshold RiskTier) bool {
	return tierOrdinal[t] >= tierOrdinal[threshold]
}

// IsValid reports whether the value is one of the six known tiers.
func (t RiskTier) IsValid() bool {
	_, ok := tierOrdinal[t]
	return ok
}

// ParseRiskTier resolves a wire-format tier name, e.g. from configuration.
func ParseRiskTier(s string) (RiskTier, bool) {
	t := RiskTier(s)
	if t.IsValid() {
		return t, true
	}
	return "", false
}

// Verdict is the complete outcome of one risk assessment.
type Verdict struct {
	RiskLevel        RiskTier `json:"risk_level"`
	SuggestedActions []string `json:"suggested_actions"`
	Reasons          []string `json:"reasons"`
	RiskFactors      []string `json:"risk_factors"`
}
