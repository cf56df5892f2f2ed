// internal/risk/factors.go
package risk

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"mortgage-risk-workers/internal/models"
)

// ErrZeroPrice rejects profiles carrying a zero purchase price. Both
// ratio factors divide by the price, so no report can be produced.
var ErrZeroPrice = errors.New("invalid input: zero price")

// riskFactors builds the informational factor list attached to every
// verdict. Factors describe the profile as received; they never change
// the tier.
func riskFactors(p *models.BuyerProfile) ([]string, error) {
	if p.PropertyPrice == 0 {
		return nil, ErrZeroPrice
	}

	factors := []string{}

	if p.OwnsProperty() {
		factors = append(factors, "Existing property owner")
	} else {
		factors = append(factors, "First-time homebuyer")
	}

	ratio := p.PrimaryResidenceValueFromAVM / p.PropertyPrice * 100
	factors = append(factors, fmt.Sprintf("Home value to price ratio: %.1f%%", ratio))

	depositPct := p.DepositPaid / p.PropertyPrice * 100
	factors = append(factors, "Deposit:"+formatDecimal(depositPct))

	if p.Distance > longDistanceKM {
		factors = append(factors, fmt.Sprintf("Long distance (%skm)", trimFloat(p.Distance)))
	}

	if hasAgeRisk(p) {
		factors = append(factors, fmt.Sprintf("Age risk factor (%d years)", p.Age))
	}

	return factors, nil
}

// trimFloat renders a float in its shortest decimal form, so 80
// becomes "80" and 80.5 becomes "80.5".
func trimFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// formatDecimal is trimFloat with an explicit ".0" kept on whole
// numbers. Downstream consumers parse the deposit line and expect a
// fractional part to always be present.
func formatDecimal(v float64) string {
	s := trimFloat(v)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
