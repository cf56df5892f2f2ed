// internal/workers/reporting/create-assessment-record/models.go
package createassessmentrecord

import "mortgage-risk-workers/internal/models"

type Input struct {
	BuyerProfile       models.BuyerProfile `json:"buyerProfile"`
	RiskAssessment     models.Verdict      `json:"riskAssessment"`
	ProfileFingerprint string              `json:"profileFingerprint"`
}

type Output struct {
	AssessmentID     string `json:"assessmentId"`
	AssessmentStatus string `json:"assessmentStatus"`
	CreatedAt        string `json:"createdAt"` // ISO 8601
}
