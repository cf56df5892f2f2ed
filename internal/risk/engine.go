// internal/risk/engine.go
// Package risk implements the buyer risk-assessment engine. A profile
// is classified as a first-time buyer or an existing owner, scored by
// the matching branch, then run through the consistency checks shared
// by both branches. The result is a Verdict carrying the final tier
// together with suggested actions, reasons, and risk factors.
//
// Every function in the package is pure: a verdict depends only on the
// profile passed in, so concurrent assessments need no coordination.
package risk

import (
	"mortgage-risk-workers/internal/models"
)

// Rule thresholds shared across the branch evaluators, the general
// checks, and the risk-factor reporter.
const (
	longDistanceKM = 75
	youngBuyerAge  = 30
	seniorBuyerAge = 60
)

// Assess evaluates a buyer profile and returns the verdict.
//
// Profiles carrying a zero purchase price cannot be assessed; Assess
// returns ErrZeroPrice and no verdict.
func Assess(p *models.BuyerProfile) (*models.Verdict, error) {
	var (
		tier    models.RiskTier
		actions []string
		reasons = []string{}
	)

	if p.OwnsProperty() {
		tier, actions, reasons = assessOwner(p)
	} else {
		tier, actions = assessNonOwner(p)
	}

	tier, reasons = applyGeneralRules(p, tier, reasons)

	factors, err := riskFactors(p)
	if err != nil {
		return nil, err
	}

	return &models.Verdict{
		RiskLevel:        tier,
		SuggestedActions: actions,
		Reasons:          reasons,
		RiskFactors:      factors,
	}, nil
}

// assessNonOwner scores buyers with no property on record. The tier
// starts at No Risk and rises with the deposit-to-price ratio; any
// high-risk override forces High before the related-party escalation.
// This branch emits actions only, never reasons.
func assessNonOwner(p *models.BuyerProfile) (models.RiskTier, []string) {
	tier := models.TierNoRisk
	actions := []string{}

	price := p.PropertyPrice
	var depositPct float64
	if price > 0 {
		depositPct = p.DepositPaid / price * 100
	}

	switch {
	case price < 800000:
		if depositPct > 25 {
			tier = models.TierLow
		} else if depositPct > 15 {
			tier = models.TierMedium
		}
	case price <= 1000000:
		if depositPct > 20 {
			tier = models.TierMedium
		}
	case price <= 1500000:
		if depositPct > 25 {
			tier = models.TierMedium
		}
	default:
		if depositPct > 25 {
			tier = models.TierMedium
		}
	}

	if hasHighRiskOverrides(p) {
		tier = models.TierHigh
	}

	if hasRelatedPartiesNotOnAPS(p) {
		tier = tier.Escalate(1)
		if price > 1000000 {
			tier = tier.Escalate(2)
		}
		actions = append(actions, "Add related parties to APS")
	}

	if p.Age < youngBuyerAge && !buyerOnPrimaryTitle(p) {
		actions = append(actions, "Request to add co-signers")
	}

	actions = append(actions, "Request 25% downpayment proof")
	return tier, actions
}

// assessOwner scores buyers who already hold property. The value-ratio
// rule assigns the base tier outright, then equity, related-party, and
// missing-co-owner findings escalate it.
func assessOwner(p *models.BuyerProfile) (models.RiskTier, []string, []string) {
	tier := models.TierMedium
	actions := []string{}
	reasons := []string{}

	price := p.PropertyPrice
	homeValue := p.PrimaryResidenceValueFromAVM
	equity := p.PrimaryResidenceEquity

	var equityPct float64
	if price > 0 {
		equityPct = equity / price * 100
	}

	switch {
	case homeValue >= 0.75*price:
		tier = models.TierLow
	case homeValue >= 0.6*price:
		tier = models.TierMedium
	default:
		tier = models.TierHigh
	}

	switch {
	case equityPct < 5:
		tier = models.TierVeryHigh
		reasons = append(reasons, "Very low equity (<5%)")
	case equityPct < 15:
		tier = tier.Escalate(2)
		reasons = append(reasons, "Low equity (5-15%)")
	case equityPct < 25:
		tier = tier.Escalate(1)
		reasons = append(reasons, "Moderate equity (15-25%)")
	}

	if hasRelatedPartiesNotOnAPS(p) {
		tier = tier.Escalate(1)
		tier = tier.Escalate(2)
		reasons = append(reasons, "Same last name different addresses.")
		actions = append(actions, "Add related parties to APS")
	}

	if isMissingCoOwnerOnAPS(p) {
		tier = tier.Escalate(2)
		reasons = append(reasons, "Missing co-owner on APS")
	}

	actions = append(actions, "Verify property ownership and equity")
	return tier, actions, reasons
}
