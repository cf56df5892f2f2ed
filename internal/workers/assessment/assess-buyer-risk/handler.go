// internal/workers/assessment/assess-buyer-risk/handler.go
package assessbuyerrisk

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"mortgage-risk-workers/internal/common/errors"
	"mortgage-risk-workers/internal/common/logger"
	"mortgage-risk-workers/internal/common/metrics"
	"mortgage-risk-workers/internal/risk"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "assess-buyer-risk"
)

type Handler struct {
	config       *Config
	logger       logger.Logger
	errorHandler *errors.ErrorHandler
}

func NewHandler(config *Config, log logger.Logger) *Handler {
	workerLog := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
		logger:       workerLog,
		errorHandler: errors.NewErrorHandler(workerLog),
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	startTime := time.Now()
	metrics.WorkerJobsActive.WithLabelValues(TaskType).Inc()
	defer metrics.WorkerJobsActive.WithLabelValues(TaskType).Dec()

	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		metrics.WorkerJobsFailed.WithLabelValues(TaskType, string(errors.ErrCodeInvalidInput)).Inc()
		h.errorHandler.HandleJobError(client, job, errors.NewInvalidInputError(fmt.Sprintf("parse input: %v", err)))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	output, err := h.execute(ctx, &input)
	if err != nil {
		metrics.WorkerJobsFailed.WithLabelValues(TaskType, errorCodeOf(err)).Inc()
		h.errorHandler.HandleJobError(client, job, err)
		return
	}

	h.completeJob(client, job, output)
	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
	metrics.WorkerJobDuration.WithLabelValues(TaskType).Observe(time.Since(startTime).Seconds())
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}

func (h *Handler) execute(_ context.Context, input *Input) (*Output, error) {
	start := time.Now()

	verdict, err := risk.Assess(&input.BuyerProfile)
	if err != nil {
		if err == risk.ErrZeroPrice {
			metrics.AssessmentsFailed.WithLabelValues(string(errors.ErrCodeInvalidInput)).Inc()
			return nil, errors.NewInvalidInputError(err.Error())
		}
		metrics.AssessmentsFailed.WithLabelValues(string(errors.ErrCodeAssessmentFailed)).Inc()
		return nil, errors.NewAssessmentFailedError(err)
	}

	metrics.AssessmentsCompleted.WithLabelValues(string(verdict.RiskLevel)).Inc()
	metrics.AssessmentDuration.WithLabelValues("worker").Observe(time.Since(start).Seconds())

	h.logger.Info("assessment completed", map[string]interface{}{
		"buyerName": input.BuyerProfile.NameFromAPS,
		"riskLevel": verdict.RiskLevel,
		"actions":   len(verdict.SuggestedActions),
		"reasons":   len(verdict.Reasons),
	})

	return &Output{RiskAssessment: verdict}, nil
}

// errorCodeOf extracts the metric label from a normalized error.
func errorCodeOf(err error) string {
	if stdErr, ok := err.(*errors.StandardError); ok {
		return string(stdErr.Code)
	}
	return "INTERNAL_ERROR"
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
