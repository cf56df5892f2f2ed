// internal/api/models.go
package api

import "mortgage-risk-workers/internal/models"

// AssessResponse is the envelope every /assess-risk call returns. Engine
// failures keep HTTP 200 with success=false; only transport-level problems
// (unreadable or malformed bodies) change the status code.
type AssessResponse struct {
	Success        bool            `json:"success"`
	RiskAssessment *models.Verdict `json:"risk_assessment,omitempty"`
	Error          string          `json:"error,omitempty"`
	Debug          *DebugEcho      `json:"debug,omitempty"`
}

// DebugEcho mirrors the request and result back to the caller for
// troubleshooting document-extraction issues.
type DebugEcho struct {
	InputData        *models.BuyerProfile `json:"input_data"`
	AssessmentResult *models.Verdict      `json:"assessment_result"`
}

type statusResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
}

type messageResponse struct {
	Message string `json:"message"`
}
