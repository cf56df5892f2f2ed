package errors

import (
	"context"
	"encoding/json"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"mortgage-risk-workers/internal/common/logger"
)

// ErrorHandler provides centralized error handling for workers.
type ErrorHandler struct {
	logger logger.Logger
}

// NewErrorHandler creates a new error handler.
func NewErrorHandler(log logger.Logger) *ErrorHandler {
	return &ErrorHandler{
		logger: log,
	}
}

// HandleJobError processes a job error and decides between retry and BPMN error.
func (h *ErrorHandler) HandleJobError(client worker.JobClient, job entities.Job, err error) {
	stdErr := h.normalizeError(err)
	bpmnErr := ConvertToBPMNError(stdErr)

	h.logError(job, stdErr, bpmnErr)

	if bpmnErr.Retryable && bpmnErr.Retries > 0 {
		h.failJobWithRetries(client, job, bpmnErr)
	} else {
		h.throwBPMNError(client, job, bpmnErr)
	}
}

// normalizeError converts arbitrary errors into StandardError.
func (h *ErrorHandler) normalizeError(err error) *StandardError {
	if stdErr, ok := err.(*StandardError); ok {
		return stdErr
	}

	if bpmnErr, ok := err.(*BPMNError); ok {
		return &StandardError{
			Code:      ErrorCode(bpmnErr.Code),
			Message:   bpmnErr.Message,
			Details:   bpmnErr.Details,
			Retryable: bpmnErr.Retryable,
			Timestamp: time.Now().UTC(),
		}
	}

	// Unknown error: wrap as non-retryable assessment failure
	return NewAssessmentFailedError(err)
}

// failJobWithRetries fails the job so Camunda can retry it.
func (h *ErrorHandler) failJobWithRetries(client worker.JobClient, job entities.Job, bpmnErr *BPMNError) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	retries := job.GetRetries() - 1
	if retries < 0 {
		retries = 0
	}

	errorVarsJSON, marshalErr := json.Marshal(bpmnErr.ToErrorVariables())
	if marshalErr != nil {
		h.logger.WithError(marshalErr).Error("Failed to marshal error variables", nil)
		errorVarsJSON = []byte("{}")
	}

	failCmd, cmdErr := client.NewFailJobCommand().
		JobKey(job.GetKey()).
		Retries(int32(retries)).
		ErrorMessage(bpmnErr.Message).
		VariablesFromString(string(errorVarsJSON))
	if cmdErr != nil {
		h.logger.WithError(cmdErr).Error("Failed to build fail job command", map[string]interface{}{
			"jobKey": job.GetKey(),
		})
		return
	}

	if _, sendErr := failCmd.Send(ctx); sendErr != nil {
		h.logger.WithError(sendErr).Error("Failed to fail job with retries", map[string]interface{}{
			"jobKey":           job.GetKey(),
			"remainingRetries": retries,
		})
		return
	}

	h.logger.Warn("Job failed, will be retried", map[string]interface{}{
		"jobKey":           job.GetKey(),
		"errorCode":        bpmnErr.Code,
		"remainingRetries": retries,
	})
}

// throwBPMNError throws a BPMN error for workflow-level handling.
func (h *ErrorHandler) throwBPMNError(client worker.JobClient, job entities.Job, bpmnErr *BPMNError) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, sendErr := client.NewThrowErrorCommand().
		JobKey(job.GetKey()).
		ErrorCode(bpmnErr.Code).
		ErrorMessage(bpmnErr.Message).
		Send(ctx)
	if sendErr != nil {
		h.logger.WithError(sendErr).Error("Failed to throw BPMN error", map[string]interface{}{
			"jobKey":    job.GetKey(),
			"errorCode": bpmnErr.Code,
		})
		return
	}

	h.logger.Error("BPMN error thrown for workflow handling", map[string]interface{}{
		"jobKey":    job.GetKey(),
		"errorCode": bpmnErr.Code,
		"category":  GetErrorCategory(ErrorCode(bpmnErr.Code)),
	})
}

// logError logs the error with structured context.
func (h *ErrorHandler) logError(job entities.Job, stdErr *StandardError, bpmnErr *BPMNError) {
	fields := map[string]interface{}{
		"jobKey":        job.GetKey(),
		"jobType":       job.GetType(),
		"errorCode":     stdErr.Code,
		"bpmnErrorCode": bpmnErr.Code,
		"category":      GetErrorCategory(stdErr.Code),
		"retryable":     bpmnErr.Retryable,
		"retries":       bpmnErr.Retries,
	}

	if stdErr.Details != "" {
		fields["details"] = stdErr.Details
	}

	if bpmnErr.Retryable {
		h.logger.Warn(stdErr.Message, fields)
	} else {
		h.logger.Error(stdErr.Message, fields)
	}
}
