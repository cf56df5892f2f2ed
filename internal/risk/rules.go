// internal/risk/rules.go
package risk

import (
	"fmt"
	"strings"

	"mortgage-risk-workers/internal/models"
)

// applyGeneralRules runs the consistency checks that apply to every
// profile after branch evaluation, in a fixed order. Identity and
// deposit conflicts pin the tier to Very High; softer findings
// escalate it one step at a time. The general pass appends reasons
// only, never actions.
func applyGeneralRules(p *models.BuyerProfile, tier models.RiskTier, reasons []string) (models.RiskTier, []string) {
	if nameMismatchIDvsAPS(p) {
		tier = models.TierVeryHigh
		reasons = append(reasons, "Name mismatch between ID and APS")
	}

	if nameMismatchAPSvsHouseSigma(p) {
		tier = models.TierVeryHigh
		reasons = append(reasons, "Name mismatch between APS and HOUSESIGMA")
	}

	if nameMismatchIDvsHouseSigma(p) {
		tier = models.TierVeryHigh
		reasons = append(reasons, "Name mismatch between ID and HOUSESIGMA")
	}

	if addressMismatchIDvsAPS(p) {
		tier = models.TierVeryHigh
		reasons = append(reasons, "Address mismatch between ID and APS")
	}

	if apsAddressMissingFromLandRegistry(p) {
		if len(p.AddressListFromLandRegistry) > 0 {
			reasons = append(reasons, "Address mismatch APS and LAND REGISTRY")
		} else {
			reasons = append(reasons, "Address in APS not found in LAND REGISTRY - empty")
		}
		tier = models.TierVeryHigh
	}

	if p.Distance > longDistanceKM {
		tier = tier.Escalate(1)
		reasons = append(reasons, "Long distance (>75km)")
	}

	if depositPaidByOthers(p) {
		tier = models.TierVeryHigh
		reasons = append(reasons, "Deposit paid by others")
	}

	if multipleMortgageParties(p) {
		tier = tier.Escalate(1)
		reasons = append(reasons, "Multiple mortgage parties")
	}

	if hasAgeRisk(p) {
		tier = tier.Escalate(1)
		reasons = append(reasons, fmt.Sprintf("Age risk (%d years)", p.Age))
	}

	if len(p.AllPropertiesValueFromAVM) > 1 {
		tier = tier.Escalate(1)
		reasons = append(reasons, "Multiple property ownership")
	}

	return tier, reasons
}

// hasHighRiskOverrides reports whether any condition that forces a
// first-time buyer straight to High is present.
func hasHighRiskOverrides(p *models.BuyerProfile) bool {
	if p.Distance > longDistanceKM {
		return true
	}
	if depositPaidByOthers(p) {
		return true
	}
	if multipleMortgageParties(p) {
		return true
	}
	if hasAgeRisk(p) {
		return true
	}
	return addressMismatchIDvsAPS(p)
}

func nameMismatchIDvsAPS(p *models.BuyerProfile) bool {
	return p.NameFromAPS != p.NameFromID
}

func nameMismatchAPSvsHouseSigma(p *models.BuyerProfile) bool {
	return p.NameFromAPS != p.NameFromHouseSigma
}

func nameMismatchIDvsHouseSigma(p *models.BuyerProfile) bool {
	return p.NameFromID != p.NameFromHouseSigma
}

func addressMismatchIDvsAPS(p *models.BuyerProfile) bool {
	return p.AddressFromID != p.AddressFromAPS
}

func apsAddressMissingFromLandRegistry(p *models.BuyerProfile) bool {
	return !contains(p.AddressListFromLandRegistry, p.AddressFromAPS)
}

// depositPaidByOthers is true unless the buyer is the sole name on the
// other-deposit-payer list.
func depositPaidByOthers(p *models.BuyerProfile) bool {
	if len(p.DepositPayerNames) != 1 {
		return true
	}
	return p.DepositPayerNames[0] != p.NameFromAPS
}

// multipleMortgageParties is true when the mortgage approval names
// more parties than the buyer, or omits the buyer entirely.
func multipleMortgageParties(p *models.BuyerProfile) bool {
	if len(p.MortgageApprovalNames) > 1 {
		return true
	}
	return !contains(p.MortgageApprovalNames, p.NameFromAPS)
}

// hasAgeRisk reports whether the buyer's age falls outside the typical
// purchase range. An age of zero means the ID scan captured none.
func hasAgeRisk(p *models.BuyerProfile) bool {
	return p.Age != 0 && (p.Age < youngBuyerAge || p.Age > seniorBuyerAge)
}

func buyerOnPrimaryTitle(p *models.BuyerProfile) bool {
	return contains(p.PrimaryResidenceTitleNames, p.NameFromAPS)
}

// hasRelatedPartiesNotOnAPS reports whether a primary-residence title
// holder shares the buyer's last name without appearing on the
// agreement as buyer or co-signer.
func hasRelatedPartiesNotOnAPS(p *models.BuyerProfile) bool {
	buyerLast := lastNameOf(p.NameFromAPS)
	if buyerLast == "" {
		return false
	}

	onAgreement := agreementParties(p)
	for _, owner := range p.PrimaryResidenceTitleNames {
		if lastNameOf(owner) != buyerLast {
			continue
		}
		if _, ok := onAgreement[owner]; !ok {
			return true
		}
	}
	return false
}

// isMissingCoOwnerOnAPS reports whether any primary-residence title
// holder is absent from the agreement.
func isMissingCoOwnerOnAPS(p *models.BuyerProfile) bool {
	onAgreement := agreementParties(p)
	for _, owner := range p.PrimaryResidenceTitleNames {
		if _, ok := onAgreement[owner]; !ok {
			return true
		}
	}
	return false
}

// agreementParties collects every name on the agreement: the buyer
// plus all co-signers.
func agreementParties(p *models.BuyerProfile) map[string]struct{} {
	parties := make(map[string]struct{}, len(p.CoSigners)+1)
	parties[p.NameFromAPS] = struct{}{}
	for _, cosigner := range p.CoSigners {
		parties[cosigner.NameFromAPS] = struct{}{}
	}
	return parties
}

// lastNameOf returns the final whitespace-delimited token of a full
// name, or "" for a blank name.
func lastNameOf(name string) string {
	parts := strings.Fields(name)
	if len(parts) == 0 {
		return ""
	}
	return parts[len(parts)-1]
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
