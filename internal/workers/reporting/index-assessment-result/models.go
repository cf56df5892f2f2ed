// internal/workers/reporting/index-assessment-result/models.go
package indexassessmentresult

import "mortgage-risk-workers/internal/models"

type Input struct {
	AssessmentID   string              `json:"assessmentId"`
	BuyerProfile   models.BuyerProfile `json:"buyerProfile"`
	RiskAssessment models.Verdict      `json:"riskAssessment"`
	CreatedAt      string              `json:"createdAt,omitempty"`
}

type Output struct {
	Indexed    bool   `json:"indexed"`
	IndexName  string `json:"indexName"`
	DocumentID string `json:"documentId"`
}
