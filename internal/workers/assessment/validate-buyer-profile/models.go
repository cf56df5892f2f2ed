// internal/workers/assessment/validate-buyer-profile/models.go
package validatebuyerprofile

import (
	"mortgage-risk-workers/internal/common/validation"
	"mortgage-risk-workers/pkg/registry"
)

type Input struct {
	BuyerProfile map[string]interface{} `json:"buyerProfile"`
}

type Output struct {
	IsValid            bool                         `json:"isValid"`
	ValidationErrors   []validation.ValidationError `json:"validationErrors"`
	ValidationWarnings []string                     `json:"validationWarnings"`
}

// The canonical profile schema lives in the activity registry package so
// the registry tooling and this worker cannot drift apart.
var profileSchema = registry.BuyerProfileSchema()
