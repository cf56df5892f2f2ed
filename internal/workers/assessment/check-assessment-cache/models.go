// internal/workers/assessment/check-assessment-cache/models.go
package checkassessmentcache

import "mortgage-risk-workers/internal/models"

type Input struct {
	BuyerProfile map[string]interface{} `json:"buyerProfile"`
}

type Output struct {
	CacheHit           bool            `json:"cacheHit"`
	RiskAssessment     *models.Verdict `json:"riskAssessment,omitempty"`
	ProfileFingerprint string          `json:"profileFingerprint"`
}
