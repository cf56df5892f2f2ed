// internal/models/assessment_test.go
package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

// ==========================
// Escalation Ladder Tests
// ==========================

func TestRiskTier_Escalate(t *testing.T) {
	tests := []struct {
		name     string
		start    RiskTier
		steps    int
		expected RiskTier
	}{
		{"very low by one", TierVeryLow, 1, TierLow},
		{"very low by two", TierVeryLow, 2, TierMedium},
		{"low to high", TierLow, 2, TierHigh},
		{"medium to very high", TierMedium, 2, TierVeryHigh},
		{"saturates at very high", TierHigh, 5, TierVeryHigh},
		{"very high stays very high", TierVeryHigh, 1, TierVeryHigh},
		{"very high with large step", TierVeryHigh, 100, TierVeryHigh},
		{"no risk is never escalated", TierNoRisk, 1, TierNoRisk},
		{"no risk with large step", TierNoRisk, 10, TierNoRisk},
		{"zero steps", TierMedium, 0, TierMedium},
		{"negative steps", TierMedium, -2, TierMedium},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.start.Escalate(tt.steps))
		})
	}
}

func TestRiskTier_Escalate_NeverLowers(t *testing.T) {
	all := []RiskTier{TierNoRisk, TierVeryLow, TierLow, TierMedium, TierHigh, TierVeryHigh}

	for _, start := range all {
		for steps := 0; steps <= 6; steps++ {
			escalated := start.Escalate(steps)
			assert.True(t, escalated.AtLeast(start),
				"escalating %s by %d lowered it to %s", start, steps, escalated)
		}
	}
}

func TestRiskTier_Escalate_StepEquivalence(t *testing.T) {
	// Escalating by n must equal escalating by 1, n times
	for _, start := range escalationLadder {
		for steps := 1; steps <= 5; steps++ {
			stepwise := start
			for i := 0; i < steps; i++ {
				stepwise = stepwise.Escalate(1)
			}
			assert.Equal(t, start.Escalate(steps), stepwise)
		}
	}
}

// ==========================
// Threshold Comparison Tests
// ==========================

func TestRiskTier_AtLeast(t *testing.T) {
	tests := []struct {
		name      string
		tier      RiskTier
		threshold RiskTier
		expected  bool
	}{
		{"high at least high", TierHigh, TierHigh, true},
		{"very high at least high", TierVeryHigh, TierHigh, true},
		{"medium not at least high", TierMedium, TierHigh, false},
		{"no risk below everything", TierNoRisk, TierVeryLow, false},
		{"very low above no risk", TierVeryLow, TierNoRisk, true},
		{"low at least low", TierLow, TierLow, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.tier.AtLeast(tt.threshold))
		})
	}
}

func TestParseRiskTier(t *testing.T) {
	tier, ok := ParseRiskTier("Very High")
	assert.True(t, ok)
	assert.Equal(t, TierVeryHigh, tier)

	tier, ok = ParseRiskTier("No Risk")
	assert.True(t, ok)
	assert.Equal(t, TierNoRisk, tier)

	_, ok = ParseRiskTier("CRITICAL")
	assert.False(t, ok)

	_, ok = ParseRiskTier("")
	assert.False(t, ok)
}

// ==========================
// Wire Format Tests
// ==========================

func TestVerdict_WireFormat(t *testing.T) {
	verdict := Verdict{
		RiskLevel:        TierLow,
		SuggestedActions: []string{"Request 25% downpayment proof"},
		Reasons:          []string{},
		RiskFactors:      []string{"First-time homebuyer"},
	}

	data, err := json.Marshal(verdict)
	assert.NoError(t, err)

	expected := `{
		"risk_level": "Low",
		"suggested_actions": ["Request 25% downpayment proof"],
		"reasons": [],
		"risk_factors": ["First-time homebuyer"]
	}`
	assert.JSONEq(t, expected, string(data))
}

func TestBuyerProfile_OwnsProperty(t *testing.T) {
	tests := []struct {
		name     string
		profile  BuyerProfile
		expected bool
	}{
		{"no records", BuyerProfile{}, false},
		{"buyer on primary residence title", BuyerProfile{PrimaryResidenceTitleNames: []string{"John Smith"}}, true},
		{"buyer in land registry", BuyerProfile{AddressListFromLandRegistry: []string{"123 Main St"}}, true},
		{"co-signer in land registry", BuyerProfile{CoSigners: []CoSigner{
			{AddressListFromLandRegistry: []string{"9 Oak Ave"}},
		}}, true},
		{"co-signer without registry records", BuyerProfile{CoSigners: []CoSigner{
			{NameFromAPS: "Jane Smith"},
		}}, false},
		{"financial records alone are not ownership", BuyerProfile{
			AllPropertiesValueFromAVM: []float64{650000},
			AllPropertiesEquity:       []float64{120000},
		}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.profile.OwnsProperty())
		})
	}
}

func TestBuyerProfile_DecodeUpstreamKeys(t *testing.T) {
	raw := `{
		"PURCHASER_NAME_FROM_APS": "John Smith",
		"PURCHASER_NAME_FROM_ID": "John Smith",
		"PURCHASER_ADDRESS_FROM_APS": "123 Main St",
		"PURCHASER_ADDRESS_FROM_ID": "123 Main St",
		"PURCHASER_ADDRESS_LIST_FROM_LANDREGISTRY": ["123 Main St"],
		"PURCHASER_AGE_FROM_ID": 45,
		"PROPERTY_PRICE": 700000,
		"PURCHASER_DEPOSIT_PAID_FROM_APS": 200000,
		"CO_SIGNER_LIST_FROM_APS": [
			{"CO_SIGNER_NAME_FROM_APS": "Jane Smith"}
		]
	}`

	var profile BuyerProfile
	err := json.Unmarshal([]byte(raw), &profile)

	assert.NoError(t, err)
	assert.Equal(t, "John Smith", profile.NameFromAPS)
	assert.Equal(t, 45, profile.Age)
	assert.Equal(t, 700000.0, profile.PropertyPrice)
	assert.Equal(t, 200000.0, profile.DepositPaid)
	assert.Len(t, profile.CoSigners, 1)
	assert.Equal(t, "Jane Smith", profile.CoSigners[0].NameFromAPS)
	assert.Empty(t, profile.NameFromHouseSigma)
	assert.True(t, profile.OwnsProperty())
}
