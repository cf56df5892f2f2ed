// internal/workers/reporting/send-risk-alert/models.go
package sendriskalert

import "mortgage-risk-workers/internal/models"

type Input struct {
	AssessmentID   string              `json:"assessmentId,omitempty"`
	BuyerProfile   models.BuyerProfile `json:"buyerProfile"`
	RiskAssessment models.Verdict      `json:"riskAssessment"`
}

type Output struct {
	AlertID  string   `json:"alertId"`
	Status   string   `json:"status"` // "sent", "failed", "skipped", "disabled"
	Channels []string `json:"channels"`
	SentAt   string   `json:"sentAt"` // ISO 8601
}

// Statuses
const (
	StatusSent     = "sent"
	StatusFailed   = "failed"
	StatusSkipped  = "skipped"
	StatusDisabled = "disabled"
)

// Alert channels
const (
	ChannelEmail   = "email"
	ChannelSMS     = "sms"
	ChannelWebhook = "webhook"
)
