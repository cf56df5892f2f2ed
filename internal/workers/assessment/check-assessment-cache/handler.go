// internal/workers/assessment/check-assessment-cache/handler.go
package checkassessmentcache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"mortgage-risk-workers/internal/common/logger"
	"mortgage-risk-workers/internal/common/metrics"
	"mortgage-risk-workers/internal/models"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/redis/go-redis/v9"
)

const (
	TaskType = "check-assessment-cache"

	cacheKeyPrefix = "assessment:verdict:"
)

type Handler struct {
	config *Config
	redis  *redis.Client
	logger logger.Logger
}

func NewHandler(config *Config, redisClient *redis.Client, log logger.Logger) *Handler {
	return &Handler{
		config: config,
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
		h.failJob(client, job, "PARSE_ERROR", fmt.Sprintf("parse input: %v", err))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	output, err := h.execute(ctx, &input)
	if err != nil {
		h.failJob(client, job, "CACHE_CHECK_FAILED", err.Error())
		return
	}

	h.completeJob(client, job, output)
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}

// execute looks up a previously stored verdict for an identical profile.
// Cache trouble is never fatal: the process falls through to a fresh
// assessment on any miss.
func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	fingerprint, err := ProfileFingerprint(input.BuyerProfile)
	if err != nil {
		return nil, fmt.Errorf("fingerprint profile: %w", err)
	}

	output := &Output{ProfileFingerprint: fingerprint}

	val, err := h.redis.Get(ctx, cacheKeyPrefix+fingerprint).Result()
	if err != nil {
		if err != redis.Nil {
			h.logger.Warn("cache lookup failed, treating as miss", map[string]interface{}{
				"fingerprint": fingerprint,
				"error":       err,
			})
			metrics.VerdictCacheHits.WithLabelValues("error").Inc()
			return output, nil
		}
		metrics.VerdictCacheHits.WithLabelValues("miss").Inc()
		return output, nil
	}

	var verdict models.Verdict
	if err := json.Unmarshal([]byte(val), &verdict); err != nil {
		h.logger.Warn("cached verdict is unreadable, treating as miss", map[string]interface{}{
			"fingerprint": fingerprint,
			"error":       err,
		})
		metrics.VerdictCacheHits.WithLabelValues("error").Inc()
		return output, nil
	}

	h.logger.Info("cache hit", map[string]interface{}{
		"fingerprint": fingerprint,
		"riskLevel":   verdict.RiskLevel,
	})
	metrics.VerdictCacheHits.WithLabelValues("hit").Inc()

	output.CacheHit = true
	output.RiskAssessment = &verdict
	return output, nil
}

// ProfileFingerprint hashes the raw profile document. json.Marshal sorts
// map keys, so equal profiles produce equal fingerprints regardless of
// the order upstream extraction emitted the fields in.
func ProfileFingerprint(profile map[string]interface{}) (string, error) {
	data, err := json.Marshal(profile)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
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
