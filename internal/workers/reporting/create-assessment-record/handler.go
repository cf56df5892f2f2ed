// internal/workers/reporting/create-assessment-record/handler.go
package createassessmentrecord

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"mortgage-risk-workers/internal/common/logger"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	TaskType = "create-assessment-record"

	cacheKeyPrefix = "assessment:verdict:"
)

var (
	ErrInvalidInput         = errors.New("INVALID_INPUT")
	ErrDatabaseInsertFailed = errors.New("DATABASE_INSERT_FAILED")
	ErrDuplicateAssessment  = errors.New("DUPLICATE_ASSESSMENT")
)

type Handler struct {
	config *Config
	db     *sql.DB
	redis  *redis.Client
	logger logger.Logger
}

func NewHandler(config *Config, db *sql.DB, redisClient *redis.Client, log logger.Logger) *Handler {
	return &Handler{
		config: config,
		db:     db,
		redis:  redisClient,
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
		h.failJob(client, job, "PARSE_ERROR", fmt.Sprintf("parse input: %v", err), 0)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	output, err := h.execute(ctx, &input)
	if err != nil {
		errorCode := "UNKNOWN_ERROR"
		retries := int32(0)
		if errors.Is(err, ErrDatabaseInsertFailed) {
			errorCode = "DATABASE_INSERT_FAILED"
			retries = 3
		} else if errors.Is(err, ErrDuplicateAssessment) {
			errorCode = "DUPLICATE_ASSESSMENT"
			retries = 0
		} else if errors.Is(err, ErrInvalidInput) {
			errorCode = "INVALID_INPUT"
			retries = 0
		}
		h.failJob(client, job, errorCode, err.Error(), retries)
		return
	}

	h.completeJob(client, job, output)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if input.ProfileFingerprint == "" {
		return nil, fmt.Errorf("%w: profileFingerprint is required", ErrInvalidInput)
	}
	if !input.RiskAssessment.RiskLevel.IsValid() {
		return nil, fmt.Errorf("%w: unknown risk level %q", ErrInvalidInput, input.RiskAssessment.RiskLevel)
	}

	// Check for an already recorded assessment of the same profile
	var exists bool
	err := h.db.QueryRowContext(ctx, `
		SELECT EXISTS(
			SELECT 1 FROM risk_assessments
			WHERE profile_fingerprint = $1
		)`, input.ProfileFingerprint).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("%w: duplicate check failed: %v", ErrDatabaseInsertFailed, err)
	}
	if exists {
		return nil, fmt.Errorf("%w: assessment already recorded for fingerprint %s",
			ErrDuplicateAssessment, input.ProfileFingerprint)
	}

	assessmentID := uuid.New().String()
	createdAt := time.Now().UTC().Format(time.RFC3339)

	// Serialize verdict to JSON for JSONB column
	verdictJSON, err := json.Marshal(input.RiskAssessment)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to marshal verdict: %v", ErrDatabaseInsertFailed, err)
	}

	_, err = h.db.ExecContext(ctx, `
		INSERT INTO risk_assessments (
			id, buyer_name, risk_level, verdict, profile_fingerprint, created_at
		) VALUES ($1, $2, $3, $4, $5, $6)`,
		assessmentID,
		input.BuyerProfile.NameFromAPS,
		string(input.RiskAssessment.RiskLevel),
		verdictJSON,
		input.ProfileFingerprint,
		createdAt,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: insert failed: %v", ErrDatabaseInsertFailed, err)
	}

	// Audit log entry (non-critical, log error but don't fail)
	auditDetailJSON, err := json.Marshal(map[string]interface{}{
		"buyerName":   input.BuyerProfile.NameFromAPS,
		"riskLevel":   input.RiskAssessment.RiskLevel,
		"fingerprint": input.ProfileFingerprint,
	})
	if err != nil {
		h.logger.Warn("failed to marshal audit detail", map[string]interface{}{
			"error": err,
		})
		auditDetailJSON = []byte("{}")
	}

	_, err = h.db.ExecContext(ctx, `
		INSERT INTO assessment_audit_log (assessment_id, action, detail, created_at)
		VALUES ($1, $2, $3, $4)`,
		assessmentID,
		"assessment_recorded",
		auditDetailJSON,
		createdAt,
	)
	if err != nil {
		h.logger.Warn("audit log insert failed", map[string]interface{}{
			"error":        err,
			"assessmentId": assessmentID,
		})
	}

	// Fill the verdict cache so identical profiles skip re-assessment.
	// Cache trouble is non-critical: the record is already durable.
	err = h.redis.Set(ctx, cacheKeyPrefix+input.ProfileFingerprint, verdictJSON, h.config.CacheTTL).Err()
	if err != nil {
		h.logger.Warn("verdict cache write failed", map[string]interface{}{
			"error":        err,
			"assessmentId": assessmentID,
		})
	}

	h.logger.Info("assessment record created", map[string]interface{}{
		"assessmentId": assessmentID,
		"buyerName":    input.BuyerProfile.NameFromAPS,
		"riskLevel":    input.RiskAssessment.RiskLevel,
	})

	return &Output{
		AssessmentID:     assessmentID,
		AssessmentStatus: "recorded",
		CreatedAt:        createdAt,
	}, nil
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
	} else {
		h.logger.Info("job completed successfully", map[string]interface{}{
			"jobKey": job.Key,
		})
	}
}

func (h *Handler) failJob(client worker.JobClient, job entities.Job, errorCode, errorMessage string, retries int32) {
	h.logger.Error("job failed", map[string]interface{}{
		"jobKey":       job.Key,
		"errorCode":    errorCode,
		"errorMessage": errorMessage,
		"retries":      retries,
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
