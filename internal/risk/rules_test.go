// internal/risk/rules_test.go
package risk

import (
	"testing"

	"mortgage-risk-workers/internal/models"

	"github.com/stretchr/testify/assert"
)

// ==========================
// General Rule Pass Tests
// ==========================

func TestApplyGeneralRules_MismatchesPinVeryHigh(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(p *models.BuyerProfile)
		reason string
	}{
		{
			name:   "name differs between ID and agreement",
			mutate: func(p *models.BuyerProfile) { p.NameFromID = "Jon Smith" },
			reason: "Name mismatch between ID and APS",
		},
		{
			name:   "name differs between agreement and listing service",
			mutate: func(p *models.BuyerProfile) { p.NameFromHouseSigma = "J. Smith" },
			reason: "Name mismatch between APS and HOUSESIGMA",
		},
		{
			name:   "name differs between ID and listing service",
			mutate: func(p *models.BuyerProfile) { p.NameFromHouseSigma = "J. Smith" },
			reason: "Name mismatch between ID and HOUSESIGMA",
		},
		{
			name:   "address differs between ID and agreement",
			mutate: func(p *models.BuyerProfile) { p.AddressFromID = "456 Oak Ave, Toronto, ON" },
			reason: "Address mismatch between ID and APS",
		},
		{
			name:   "agreement address absent from land registry",
			mutate: func(p *models.BuyerProfile) { p.AddressListFromLandRegistry = []string{"456 Oak Ave, Toronto, ON"} },
			reason: "Address mismatch APS and LAND REGISTRY",
		},
		{
			name:   "deposit paid by another party",
			mutate: func(p *models.BuyerProfile) { p.DepositPayerNames = []string{"Jane Smith"} },
			reason: "Deposit paid by others",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			profile := ownerProfile()
			tt.mutate(profile)

			tier, reasons := applyGeneralRules(profile, models.TierLow, []string{})

			assert.Equal(t, models.TierVeryHigh, tier)
			assert.Contains(t, reasons, tt.reason)
		})
	}
}

func TestApplyGeneralRules_StepEscalations(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(p *models.BuyerProfile)
		reason   string
		expected models.RiskTier
	}{
		{
			name:     "long distance",
			mutate:   func(p *models.BuyerProfile) { p.Distance = 80 },
			reason:   "Long distance (>75km)",
			expected: models.TierHigh,
		},
		{
			name:     "multiple mortgage parties",
			mutate:   func(p *models.BuyerProfile) { p.MortgageApprovalNames = []string{"John Smith", "Jane Smith"} },
			reason:   "Multiple mortgage parties",
			expected: models.TierHigh,
		},
		{
			name:     "senior buyer",
			mutate:   func(p *models.BuyerProfile) { p.Age = 65 },
			reason:   "Age risk (65 years)",
			expected: models.TierHigh,
		},
		{
			name:     "young buyer",
			mutate:   func(p *models.BuyerProfile) { p.Age = 27 },
			reason:   "Age risk (27 years)",
			expected: models.TierHigh,
		},
		{
			name: "multiple properties on record",
			mutate: func(p *models.BuyerProfile) {
				p.AllPropertiesValueFromAVM = []float64{500000, 700000}
			},
			reason:   "Multiple property ownership",
			expected: models.TierHigh,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			profile := ownerProfile()
			tt.mutate(profile)

			tier, reasons := applyGeneralRules(profile, models.TierMedium, []string{})

			assert.Equal(t, tt.expected, tier)
			assert.Equal(t, []string{tt.reason}, reasons)
		})
	}
}

func TestApplyGeneralRules_CleanProfileUnchanged(t *testing.T) {
	tier, reasons := applyGeneralRules(ownerProfile(), models.TierLow, []string{})

	assert.Equal(t, models.TierLow, tier)
	assert.Empty(t, reasons)
}

func TestApplyGeneralRules_ReasonsFollowRuleOrder(t *testing.T) {
	profile := ownerProfile()
	profile.Distance = 80
	profile.Age = 65

	tier, reasons := applyGeneralRules(profile, models.TierMedium, []string{"Low equity (5-15%)"})

	// Two single-step escalations from Medium.
	assert.Equal(t, models.TierVeryHigh, tier)
	assert.Equal(t, []string{"Low equity (5-15%)", "Long distance (>75km)", "Age risk (65 years)"}, reasons)
}

func TestApplyGeneralRules_EmptyLandRegistryReason(t *testing.T) {
	profile := ownerProfile()
	profile.AddressListFromLandRegistry = nil

	_, reasons := applyGeneralRules(profile, models.TierLow, []string{})

	assert.Contains(t, reasons, "Address in APS not found in LAND REGISTRY - empty")
	assert.NotContains(t, reasons, "Address mismatch APS and LAND REGISTRY")
}

// ==========================
// Override Predicate Tests
// ==========================

func TestHasHighRiskOverrides(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(p *models.BuyerProfile)
		expected bool
	}{
		{"clean profile", func(p *models.BuyerProfile) {}, false},
		{"distance above limit", func(p *models.BuyerProfile) { p.Distance = 76 }, true},
		{"distance at limit", func(p *models.BuyerProfile) { p.Distance = 75 }, false},
		{"deposit payers empty", func(p *models.BuyerProfile) { p.DepositPayerNames = nil }, true},
		{"deposit payer is someone else", func(p *models.BuyerProfile) { p.DepositPayerNames = []string{"Jane Smith"} }, true},
		{"two deposit payers", func(p *models.BuyerProfile) { p.DepositPayerNames = []string{"John Smith", "Jane Smith"} }, true},
		{"mortgage approval omits buyer", func(p *models.BuyerProfile) { p.MortgageApprovalNames = []string{"Jane Smith"} }, true},
		{"mortgage approval lists two parties", func(p *models.BuyerProfile) { p.MortgageApprovalNames = []string{"John Smith", "Jane Smith"} }, true},
		{"buyer under thirty", func(p *models.BuyerProfile) { p.Age = 29 }, true},
		{"buyer over sixty", func(p *models.BuyerProfile) { p.Age = 61 }, true},
		{"age at lower bound", func(p *models.BuyerProfile) { p.Age = 30 }, false},
		{"age at upper bound", func(p *models.BuyerProfile) { p.Age = 60 }, false},
		{"age not captured", func(p *models.BuyerProfile) { p.Age = 0 }, false},
		{"id and agreement addresses differ", func(p *models.BuyerProfile) { p.AddressFromID = "456 Oak Ave" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			profile := nonOwnerProfile()
			tt.mutate(profile)

			assert.Equal(t, tt.expected, hasHighRiskOverrides(profile))
		})
	}
}

// ==========================
// Relationship Predicate Tests
// ==========================

func TestHasRelatedPartiesNotOnAPS(t *testing.T) {
	tests := []struct {
		name     string
		profile  *models.BuyerProfile
		expected bool
	}{
		{
			name: "title holder shares last name and is not on agreement",
			profile: &models.BuyerProfile{
				NameFromAPS:                "John Smith",
				PrimaryResidenceTitleNames: []string{"Jane Smith"},
			},
			expected: true,
		},
		{
			name: "title holder is a co-signer",
			profile: &models.BuyerProfile{
				NameFromAPS:                "John Smith",
				PrimaryResidenceTitleNames: []string{"Jane Smith"},
				CoSigners:                  []models.CoSigner{{NameFromAPS: "Jane Smith"}},
			},
			expected: false,
		},
		{
			name: "title holder is the buyer",
			profile: &models.BuyerProfile{
				NameFromAPS:                "John Smith",
				PrimaryResidenceTitleNames: []string{"John Smith"},
			},
			expected: false,
		},
		{
			name: "title holder has a different last name",
			profile: &models.BuyerProfile{
				NameFromAPS:                "John Smith",
				PrimaryResidenceTitleNames: []string{"Mary Jones"},
			},
			expected: false,
		},
		{
			name: "blank buyer name never matches",
			profile: &models.BuyerProfile{
				NameFromAPS:                "",
				PrimaryResidenceTitleNames: []string{"Jane Smith"},
			},
			expected: false,
		},
		{
			name: "no title holders",
			profile: &models.BuyerProfile{
				NameFromAPS: "John Smith",
			},
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, hasRelatedPartiesNotOnAPS(tt.profile))
		})
	}
}

func TestIsMissingCoOwnerOnAPS(t *testing.T) {
	tests := []struct {
		name     string
		profile  *models.BuyerProfile
		expected bool
	}{
		{
			name: "unrelated title holder not on agreement",
			profile: &models.BuyerProfile{
				NameFromAPS:                "John Smith",
				PrimaryResidenceTitleNames: []string{"Mary Jones"},
			},
			expected: true,
		},
		{
			name: "all title holders on agreement",
			profile: &models.BuyerProfile{
				NameFromAPS:                "John Smith",
				PrimaryResidenceTitleNames: []string{"John Smith", "Jane Smith"},
				CoSigners:                  []models.CoSigner{{NameFromAPS: "Jane Smith"}},
			},
			expected: false,
		},
		{
			name:     "no title holders",
			profile:  &models.BuyerProfile{NameFromAPS: "John Smith"},
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, isMissingCoOwnerOnAPS(tt.profile))
		})
	}
}

func TestLastNameOf(t *testing.T) {
	tests := []struct {
		name     string
		full     string
		expected string
	}{
		{"two tokens", "John Smith", "Smith"},
		{"single token", "Cher", "Cher"},
		{"many tokens", "Mary Anne van der Berg", "Berg"},
		{"empty", "", ""},
		{"whitespace only", "   ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, lastNameOf(tt.full))
		})
	}
}
