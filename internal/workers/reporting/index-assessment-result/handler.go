// internal/workers/reporting/index-assessment-result/handler.go
package indexassessmentresult

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"mortgage-risk-workers/internal/common/logger"
)

const (
	TaskType = "index-assessment-result"
)

var (
	ErrElasticsearchConnectionFailed = errors.New("ELASTICSEARCH_CONNECTION_FAILED")
	ErrIndexWriteFailed              = errors.New("INDEX_WRITE_FAILED")
	ErrIndexTimeout                  = errors.New("INDEX_TIMEOUT")
	ErrInvalidInput                  = errors.New("INVALID_INPUT")
)

type Handler struct {
	config *Config
	client *elasticsearch.Client
	logger logger.Logger
}

func NewHandler(config *Config, client *elasticsearch.Client, log logger.Logger) *Handler {
	return &Handler{
		config: config,
		client: client,
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
		errorCode := h.mapErrorToCode(err)
		retries := h.getRetryCount(err)
		h.failJob(client, job, errorCode, err.Error(), retries)
		return
	}

	h.completeJob(client, job, output)
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if input == nil {
		return nil, errors.New("input cannot be nil")
	}
	if input.AssessmentID == "" {
		return nil, fmt.Errorf("%w: assessmentId is required", ErrInvalidInput)
	}

	doc := buildDocument(input)
	docJSON, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("%w: marshal document: %v", ErrIndexWriteFailed, err)
	}

	// The assessment ID doubles as the document ID so redelivered jobs
	// overwrite instead of duplicating.
	req := esapi.IndexRequest{
		Index:      h.config.IndexName,
		DocumentID: input.AssessmentID,
		Body:       bytes.NewReader(docJSON),
	}

	res, err := req.Do(ctx, h.client)
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return nil, ErrIndexTimeout
		}
		return nil, fmt.Errorf("%w: %v", ErrElasticsearchConnectionFailed, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("%w: %s", ErrIndexWriteFailed, res.String())
	}

	var indexResult map[string]interface{}
	if err := json.NewDecoder(res.Body).Decode(&indexResult); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", ErrIndexWriteFailed, err)
	}

	h.logger.Info("assessment indexed", map[string]interface{}{
		"documentId": input.AssessmentID,
		"indexName":  h.config.IndexName,
		"result":     indexResult["result"],
	})

	return &Output{
		Indexed:    true,
		IndexName:  h.config.IndexName,
		DocumentID: input.AssessmentID,
	}, nil
}

// buildDocument flattens the verdict into the shape the risk-assessments
// index mapping expects.
func buildDocument(input *Input) map[string]interface{} {
	assessedAt := input.CreatedAt
	if assessedAt == "" {
		assessedAt = time.Now().UTC().Format(time.RFC3339)
	}

	return map[string]interface{}{
		"assessmentId":     input.AssessmentID,
		"buyerName":        input.BuyerProfile.NameFromAPS,
		"riskLevel":        string(input.RiskAssessment.RiskLevel),
		"reasons":          input.RiskAssessment.Reasons,
		"suggestedActions": input.RiskAssessment.SuggestedActions,
		"riskFactors":      input.RiskAssessment.RiskFactors,
		"assessedAt":       assessedAt,
	}
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

func (h *Handler) mapErrorToCode(err error) string {
	if errors.Is(err, ErrInvalidInput) {
		return "INVALID_INPUT"
	} else if errors.Is(err, ErrIndexTimeout) {
		return "INDEX_TIMEOUT"
	} else if errors.Is(err, ErrIndexWriteFailed) {
		return "INDEX_WRITE_FAILED"
	} else if errors.Is(err, ErrElasticsearchConnectionFailed) {
		return "ELASTICSEARCH_CONNECTION_FAILED"
	}
	return "UNKNOWN_ERROR"
}

func (h *Handler) getRetryCount(err error) int32 {
	if errors.Is(err, ErrElasticsearchConnectionFailed) || errors.Is(err, ErrIndexWriteFailed) {
		return 3
	} else if errors.Is(err, ErrIndexTimeout) {
		return 2
	}
	return 0
}
