// internal/workers/assessment/validate-buyer-profile/handler.go
package validatebuyerprofile

import (
	"context"
	"encoding/json"
	"fmt"

	"mortgage-risk-workers/internal/common/logger"
	"mortgage-risk-workers/internal/common/validation"
	"mortgage-risk-workers/internal/models"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "validate-buyer-profile"
)

type Handler struct {
	config *Config
	logger logger.Logger
}

func NewHandler(config *Config, log logger.Logger) *Handler {
	return &Handler{
		config: config,
		logger: log.WithFields(map[string]interface{}{"taskType": TaskType}),
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		h.failJob(client, job, "PARSE_ERROR", fmt.Sprintf("parse input: %v", err))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	output, err := h.execute(ctx, &input)
	if err != nil {
		h.failJob(client, job, "VALIDATION_ERROR", err.Error())
		return
	}

	h.completeJob(client, job, output)
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}

// execute validates the raw profile document against the schema.
// Schema violations complete the job with isValid=false so the process
// can branch; only a broken schema pass itself fails the job.
func (h *Handler) execute(_ context.Context, input *Input) (*Output, error) {
	if len(input.BuyerProfile) == 0 {
		return &Output{
			IsValid: false,
			ValidationErrors: []validation.ValidationError{
				{Field: "buyerProfile", Message: "buyerProfile is required", Code: "REQUIRED_FIELD_MISSING"},
			},
			ValidationWarnings: []string{},
		}, nil
	}

	result, err := validation.ValidateAgainstSchema(input.BuyerProfile, profileSchema)
	if err != nil {
		return nil, fmt.Errorf("schema validation: %w", err)
	}

	validationErrors := result.Errors
	if validationErrors == nil {
		validationErrors = []validation.ValidationError{}
	}

	warnings := h.collectWarnings(input.BuyerProfile)

	h.logger.Info("profile validation completed", map[string]interface{}{
		"isValid":      result.Valid,
		"errorCount":   len(validationErrors),
		"warningCount": len(warnings),
	})

	return &Output{
		IsValid:            result.Valid,
		ValidationErrors:   validationErrors,
		ValidationWarnings: warnings,
	}, nil
}

// collectWarnings runs the advisory checks that do not block the
// workflow but are worth surfacing to reviewers.
func (h *Handler) collectWarnings(raw map[string]interface{}) []string {
	warnings := []string{}

	data, err := json.Marshal(raw)
	if err != nil {
		return warnings
	}
	var profile models.BuyerProfile
	if err := json.Unmarshal(data, &profile); err != nil {
		return warnings
	}

	if profile.PropertyPrice == 0 {
		warnings = append(warnings, "PROPERTY_PRICE is zero; the assessment engine rejects zero-price profiles")
	}
	if profile.NameFromHouseSigma == "" {
		warnings = append(warnings, "PURCHASER_NAME_FROM_HOUSESIGMA is empty; the name consistency checks will flag it")
	}
	if hasMultipleBuyersAtDifferentAddresses(&profile) {
		warnings = append(warnings, "Agreement parties are listed at more than one address")
	}

	return warnings
}

// hasMultipleBuyersAtDifferentAddresses reports whether an agreement
// with co-signers spans more than one distinct address.
func hasMultipleBuyersAtDifferentAddresses(p *models.BuyerProfile) bool {
	if len(p.CoSigners) == 0 {
		return false
	}

	addresses := make(map[string]struct{})
	if p.AddressFromID != "" {
		addresses[p.AddressFromID] = struct{}{}
	}
	if p.AddressFromAPS != "" {
		addresses[p.AddressFromAPS] = struct{}{}
	}
	for _, cosigner := range p.CoSigners {
		if cosigner.AddressFromAPS != "" {
			addresses[cosigner.AddressFromAPS] = struct{}{}
		}
	}

	return len(addresses) > 1
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

func (h *Handler) failJob(client worker.JobClient, job entities.Job, errorCode, errorMessage string) {
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
