// internal/workers/assessment/assess-buyer-risk/models.go
package assessbuyerrisk

import "mortgage-risk-workers/internal/models"

type Input struct {
	BuyerProfile models.BuyerProfile `json:"buyerProfile"`
}

type Output struct {
	RiskAssessment *models.Verdict `json:"riskAssessment"`
}
