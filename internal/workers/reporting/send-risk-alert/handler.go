// internal/workers/reporting/send-risk-alert/handler.go
package sendriskalert

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	awsmsg "mortgage-risk-workers/internal/common/aws"
	commonhttp "mortgage-risk-workers/internal/common/http"
	"mortgage-risk-workers/internal/common/logger"
	"mortgage-risk-workers/internal/common/metrics"
	"mortgage-risk-workers/internal/models"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/google/uuid"
)

const (
	TaskType = "send-risk-alert"
)

var (
	ErrAlertSendFailed = errors.New("ALERT_SEND_FAILED")
)

// Define interfaces for mocking
type SESService interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

type SNSService interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

type Handler struct {
	config    *Config
	logger    logger.Logger
	sesClient SESService
	snsClient SNSService
	webhook   *commonhttp.Client
}

func NewHandler(config *Config, log logger.Logger) (*Handler, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid alert config: %w", err)
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(), awsconfig.WithRegion(config.AWSRegion))
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}

	return &Handler{
		config:    config,
		logger:    log.WithFields(map[string]interface{}{"taskType": TaskType}),
		sesClient: ses.NewFromConfig(awsCfg),
		snsClient: sns.NewFromConfig(awsCfg),
		webhook:   commonhttp.NewClient(config.Timeout),
	}, nil
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		h.failJob(client, job, "PARSE_ERROR", fmt.Sprintf("parse input: %v", err), 0)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	output, err := h.execute(ctx, &input)
	if err != nil {
		errorCode := "ALERT_SEND_FAILED"
		retries := int32(0)
		if errors.Is(err, ErrAlertSendFailed) {
			retries = 3
		}
		h.failJob(client, job, errorCode, err.Error(), retries)
		return
	}

	h.completeJob(client, job, output)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	minLevel, ok := models.ParseRiskTier(h.config.MinAlertLevel)
	if !ok {
		return nil, fmt.Errorf("invalid minimum alert level: %s", h.config.MinAlertLevel)
	}

	alertID := uuid.New().String()
	sentAt := time.Now().UTC().Format(time.RFC3339)

	if !input.RiskAssessment.RiskLevel.AtLeast(minLevel) {
		h.logger.Info("risk level below alert threshold", map[string]interface{}{
			"riskLevel": input.RiskAssessment.RiskLevel,
			"threshold": minLevel,
		})
		return &Output{
			AlertID:  alertID,
			Status:   StatusSkipped,
			Channels: []string{},
			SentAt:   sentAt,
		}, nil
	}

	subject := fmt.Sprintf("Buyer risk alert: %s rated %s",
		input.BuyerProfile.NameFromAPS, input.RiskAssessment.RiskLevel)
	body := buildAlertBody(input)

	// Track which channels delivered
	channels := []string{}

	// Send email if enabled and a review inbox is configured
	if h.config.EmailEnabled && h.config.AlertEmail != "" {
		if err := h.sendEmail(ctx, h.config.AlertEmail, subject, body); err != nil {
			h.logger.Error("alert email send failed", map[string]interface{}{
				"error": err,
				"email": h.config.AlertEmail,
			})
			return &Output{AlertID: alertID, Status: StatusFailed, Channels: channels, SentAt: sentAt}, nil
		}
		metrics.AlertsSent.WithLabelValues(ChannelEmail).Inc()
		channels = append(channels, ChannelEmail)
	}

	// Send SMS only if: enabled AND a phone is configured AND the verdict is Very High
	if h.config.SMSEnabled && h.config.AlertPhone != "" && input.RiskAssessment.RiskLevel == models.TierVeryHigh {
		if err := h.sendSMS(ctx, h.config.AlertPhone, smsText(input)); err != nil {
			h.logger.Error("alert SMS send failed", map[string]interface{}{
				"error": err,
				"phone": h.config.AlertPhone,
			})
			return &Output{AlertID: alertID, Status: StatusFailed, Channels: channels, SentAt: sentAt}, nil
		}
		metrics.AlertsSent.WithLabelValues(ChannelSMS).Inc()
		channels = append(channels, ChannelSMS)
	}

	if h.config.WebhookEnabled && h.config.WebhookURL != "" {
		if err := h.postWebhook(ctx, alertID, sentAt, input); err != nil {
			h.logger.Error("alert webhook post failed", map[string]interface{}{
				"error": err,
				"url":   h.config.WebhookURL,
			})
			return &Output{AlertID: alertID, Status: StatusFailed, Channels: channels, SentAt: sentAt}, nil
		}
		metrics.AlertsSent.WithLabelValues(ChannelWebhook).Inc()
		channels = append(channels, ChannelWebhook)
	}

	// Determine status based on what was sent
	status := StatusDisabled
	if len(channels) > 0 {
		status = StatusSent
	}

	return &Output{
		AlertID:  alertID,
		Status:   status,
		Channels: channels,
		SentAt:   sentAt,
	}, nil
}

func (h *Handler) sendEmail(ctx context.Context, to, subject, body string) error {
	_, err := h.sesClient.SendEmail(ctx, awsmsg.BuildAlertEmailInput(h.config.FromEmail, to, subject, body))
	return err
}

func (h *Handler) sendSMS(ctx context.Context, to, message string) error {
	_, err := h.snsClient.Publish(ctx, awsmsg.BuildAlertPublishInput(to, message))
	return err
}

func (h *Handler) postWebhook(ctx context.Context, alertID, sentAt string, input *Input) error {
	payload := map[string]interface{}{
		"alertId":        alertID,
		"assessmentId":   input.AssessmentID,
		"buyerName":      input.BuyerProfile.NameFromAPS,
		"riskAssessment": input.RiskAssessment,
		"sentAt":         sentAt,
	}

	resp, err := h.webhook.PostJSON(ctx, h.config.WebhookURL, payload)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}
	return nil
}

func buildAlertBody(input *Input) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Buyer %s was rated %s.\n", input.BuyerProfile.NameFromAPS, input.RiskAssessment.RiskLevel)
	if input.AssessmentID != "" {
		fmt.Fprintf(&b, "Assessment ID: %s\n", input.AssessmentID)
	}
	fmt.Fprintf(&b, "Property price: %.2f\n", input.BuyerProfile.PropertyPrice)

	if len(input.RiskAssessment.Reasons) > 0 {
		b.WriteString("\nReasons:\n")
		for _, reason := range input.RiskAssessment.Reasons {
			fmt.Fprintf(&b, "  - %s\n", reason)
		}
	}

	if len(input.RiskAssessment.SuggestedActions) > 0 {
		b.WriteString("\nSuggested actions:\n")
		for _, action := range input.RiskAssessment.SuggestedActions {
			fmt.Fprintf(&b, "  - %s\n", action)
		}
	}

	return b.String()
}

func smsText(input *Input) string {
	return fmt.Sprintf("Risk alert: buyer %s rated %s. Check the review queue.",
		input.BuyerProfile.NameFromAPS, input.RiskAssessment.RiskLevel)
}

func (h *Handler) completeJob(client worker.JobClient, job entities.Job, output *Output) {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		h.logger.Error("failed to create complete job command", map[string]interface{}{
			"error": err,
		})
		return
	}
	_, err = cmd.Send(context.Background())
	if err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{
			"error": err,
		})
	}
}

func (h *Handler) failJob(client worker.JobClient, job entities.Job, errorCode, errorMessage string, _ int32) {
	h.logger.Error("job failed", map[string]interface{}{
		"jobKey":       job.Key,
		"errorCode":    errorCode,
		"errorMessage": errorMessage,
	})

	_, err := client.NewThrowErrorCommand().
		JobKey(job.Key).
		ErrorCode(errorCode).
		ErrorMessage(errorMessage).
		Send(context.Background())
	if err != nil {
		h.logger.Error("failed to throw error", map[string]interface{}{
			"error": err,
		})
	}
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
