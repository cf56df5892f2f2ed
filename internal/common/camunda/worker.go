// internal/common/camunda/worker.go
package camunda

import (
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"
	"go.uber.org/zap"
)

// JobHandler is implemented by every worker handler in the fleet.
type JobHandler interface {
	Handle(client worker.JobClient, job entities.Job)
}

// WorkerOptions configures a single polling worker.
type WorkerOptions struct {
	TaskType      string
	MaxJobsActive int
	Timeout       time.Duration
}

type CamundaWorker struct {
	worker   worker.JobWorker
	logger   *zap.Logger
	taskType string
}

// NewWorker opens a Zeebe job worker for the given task type.
func NewWorker(
	client zbc.Client,
	opts WorkerOptions,
	handler JobHandler,
	logger *zap.Logger,
) *CamundaWorker {
	jobWorker := client.NewJobWorker().
		JobType(opts.TaskType).
		Handler(handler.Handle).
		MaxJobsActive(opts.MaxJobsActive).
		Timeout(opts.Timeout).
		Open()

	logger.Info("Worker opened", zap.String("taskType", opts.TaskType))

	return &CamundaWorker{
		worker:   jobWorker,
		logger:   logger,
		taskType: opts.TaskType,
	}
}

// TaskType returns the task type this worker polls for.
func (w *CamundaWorker) TaskType() string {
	return w.taskType
}

// Close drains in-flight jobs and stops polling.
func (w *CamundaWorker) Close() {
	w.logger.Info("Stopping worker", zap.String("taskType", w.taskType))
	w.worker.Close()
}
