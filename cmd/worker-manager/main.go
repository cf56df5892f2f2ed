// cmd/worker-manager/main.go
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"mortgage-risk-workers/internal/common/camunda"
	"mortgage-risk-workers/internal/common/config"
	"mortgage-risk-workers/internal/common/database"
	"mortgage-risk-workers/internal/common/logger"
	"mortgage-risk-workers/internal/common/observability"

	// Assessment Workers (3)
	abr "mortgage-risk-workers/internal/workers/assessment/assess-buyer-risk"
	cac "mortgage-risk-workers/internal/workers/assessment/check-assessment-cache"
	vbp "mortgage-risk-workers/internal/workers/assessment/validate-buyer-profile"

	// Reporting Workers (3)
	car "mortgage-risk-workers/internal/workers/reporting/create-assessment-record"
	iar "mortgage-risk-workers/internal/workers/reporting/index-assessment-result"
	sra "mortgage-risk-workers/internal/workers/reporting/send-risk-alert"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2 // Exponential backoff
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	zapLog := logger.New("info", "console")
	defer zapLog.Sync()

	// Wrap zap logger with our logger interface
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting worker manager...")

	cfg, err := config.Load()
	if err != nil {
		zapLog.Fatal("config load failed", zap.Error(err))
	}

	obs := observability.New("worker-manager")
	defer obs.Shutdown()

	ctx := context.Background()

	// --- Init Zeebe Client with retry ---
	var camundaClient *camunda.Client
	err = retryWithBackoff(func() error {
		var err error
		camundaClient, err = camunda.NewClientWithConfig(&camunda.ClientConfig{
			GatewayAddress:         cfg.Camunda.BrokerAddress,
			UsePlaintextConnection: true,
			ConnectionTimeout:      10 * time.Second,
			RequestTimeout:         30 * time.Second,
		})
		return err
	}, 10, 2*time.Second, zapLog, "Zeebe client initialization")

	if err != nil {
		zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
	}
	zeebeClient := camundaClient.GetClient()
	zapLog.Info("Zeebe client connected successfully")

	// --- Init PostgreSQL with retry ---
	var pg *database.PostgresClient
	err = retryWithBackoff(func() error {
		var err error
		pg, err = database.NewPostgres(cfg.Database.Postgres)
		if err != nil {
			return err
		}
		// Test the connection with context
		return pg.Ping(ctx)
	}, 15, 2*time.Second, zapLog, "PostgreSQL connection")

	if err != nil {
		zapLog.Fatal("postgres failed after retries", zap.Error(err))
	}
	defer pg.Close()

	if err := pg.EnsureSchema(ctx); err != nil {
		zapLog.Fatal("postgres schema setup failed", zap.Error(err))
	}
	zapLog.Info("PostgreSQL connected successfully")

	// --- Init Elasticsearch with retry ---
	var esClient *database.ElasticsearchClient
	err = retryWithBackoff(func() error {
		var err error
		esClient, err = database.NewElasticsearch(cfg.Database.Elasticsearch)
		if err != nil {
			return err
		}
		// Test the connection
		return esClient.Ping()
	}, 15, 2*time.Second, zapLog, "Elasticsearch connection")

	if err != nil {
		zapLog.Fatal("elasticsearch failed after retries", zap.Error(err))
	}

	if err := esClient.EnsureIndex(ctx, cfg.Assessment.ElasticsearchIndex); err != nil {
		zapLog.Fatal("elasticsearch index setup failed", zap.Error(err))
	}
	zapLog.Info("Elasticsearch connected successfully")

	// --- Init Redis with retry ---
	var redis *database.RedisClient
	err = retryWithBackoff(func() error {
		var err error
		redis, err = database.NewRedis(cfg.Database.Redis)
		if err != nil {
			return err
		}
		// Test the connection with context
		return redis.Ping(ctx)
	}, 10, 2*time.Second, zapLog, "Redis connection")

	if err != nil {
		zapLog.Fatal("redis failed after retries", zap.Error(err))
	}
	defer redis.Close()
	zapLog.Info("Redis connected successfully")

	// --- Register All 6 Workers ---
	var workers []*camunda.CamundaWorker

	// --- 1. Assessment Workers (3) ---
	if cfg.Workers[vbp.TaskType].Enabled {
		handler := vbp.NewHandler(
			&vbp.Config{
				Timeout: time.Duration(cfg.Workers[vbp.TaskType].Timeout) * time.Millisecond,
			},
			log,
		)
		workers = append(workers, startWorker(zeebeClient, vbp.TaskType, cfg.Workers[vbp.TaskType], handler, zapLog))
	}

	if cfg.Workers[cac.TaskType].Enabled {
		handler := cac.NewHandler(
			&cac.Config{
				Timeout: time.Duration(cfg.Workers[cac.TaskType].Timeout) * time.Millisecond,
			},
			redis.Client, log,
		)
		workers = append(workers, startWorker(zeebeClient, cac.TaskType, cfg.Workers[cac.TaskType], handler, zapLog))
	}

	if cfg.Workers[abr.TaskType].Enabled {
		handler := abr.NewHandler(
			&abr.Config{
				Timeout: time.Duration(cfg.Workers[abr.TaskType].Timeout) * time.Millisecond,
			},
			log,
		)
		workers = append(workers, startWorker(zeebeClient, abr.TaskType, cfg.Workers[abr.TaskType], handler, zapLog))
	}

	// --- 2. Reporting Workers (3) ---
	if cfg.Workers[car.TaskType].Enabled {
		handler := car.NewHandler(
			&car.Config{
				CacheTTL: time.Duration(cfg.Assessment.VerdictCacheTTL) * time.Second,
				Timeout:  time.Duration(cfg.Workers[car.TaskType].Timeout) * time.Millisecond,
			},
			pg.DB, redis.Client, log,
		)
		workers = append(workers, startWorker(zeebeClient, car.TaskType, cfg.Workers[car.TaskType], handler, zapLog))
	}

	if cfg.Workers[iar.TaskType].Enabled {
		handler := iar.NewHandler(
			&iar.Config{
				IndexName: cfg.Assessment.ElasticsearchIndex,
				Timeout:   time.Duration(cfg.Workers[iar.TaskType].Timeout) * time.Millisecond,
			},
			esClient.Client, log,
		)
		workers = append(workers, startWorker(zeebeClient, iar.TaskType, cfg.Workers[iar.TaskType], handler, zapLog))
	}

	// Send Risk Alert
	if taskType := sra.TaskType; cfg.Workers[taskType].Enabled {
		handler, err := sra.NewHandler(&sra.Config{
			EmailEnabled:   cfg.Notifications.Email.Enabled,
			SMSEnabled:     cfg.Notifications.SMS.Enabled,
			WebhookEnabled: cfg.Notifications.Webhook.Enabled,
			FromEmail:      cfg.Notifications.Email.FromEmail,
			AlertEmail:     cfg.Notifications.Email.AlertEmail,
			AlertPhone:     cfg.Notifications.SMS.AlertPhone,
			WebhookURL:     cfg.Notifications.Webhook.URL,
			AWSRegion:      cfg.Notifications.AWS.Region,
			MinAlertLevel:  cfg.Notifications.MinAlertTier,
			Timeout:        time.Duration(cfg.Workers[taskType].Timeout) * time.Millisecond,
		}, log)
		if err != nil {
			zapLog.Fatal("failed to create send-risk-alert handler", zap.Error(err))
		}
		workers = append(workers, startWorker(zeebeClient, taskType, cfg.Workers[taskType], handler, zapLog))
	}
	zapLog.Info("All 6 workers registered successfully")

	// --- Health & Metrics Server ---
	go func() {
		http.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			json.NewEncoder(w).Encode(map[string]string{
				"status": "healthy",
				"time":   time.Now().Format(time.RFC3339),
			})
		})
		http.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			if err := camundaClient.HealthCheck(r.Context()); err != nil {
				w.WriteHeader(http.StatusServiceUnavailable)
				json.NewEncoder(w).Encode(map[string]string{
					"status": "not ready",
					"error":  err.Error(),
				})
				return
			}
			w.WriteHeader(http.StatusOK)
			json.NewEncoder(w).Encode(map[string]string{
				"status": "ready",
				"time":   time.Now().Format(time.RFC3339),
			})
		})
		http.Handle("/metrics", promhttp.Handler())
		zapLog.Info("Health/Metrics server listening on :8080")
		if err := http.ListenAndServe(":8080", nil); err != nil {
			zapLog.Error("Health/Metrics server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, stopping workers...")

	for _, w := range workers {
		if w != nil {
			w.Close()
		}
	}

	if err := camundaClient.Close(); err != nil {
		zapLog.Error("Error closing Zeebe client", zap.Error(err))
	}

	zapLog.Info("Worker manager stopped gracefully")
}

func startWorker(client zbc.Client, taskType string, wcfg config.WorkerConfig, handler camunda.JobHandler, log *zap.Logger) *camunda.CamundaWorker {
	if !wcfg.Enabled {
		log.Info("worker disabled", zap.String("taskType", taskType))
		return nil
	}

	w := camunda.NewWorker(client, camunda.WorkerOptions{
		TaskType:      taskType,
		MaxJobsActive: wcfg.MaxJobsActive,
		Timeout:       time.Duration(wcfg.Timeout) * time.Millisecond,
	}, handler, log)

	log.Info("worker started",
		zap.String("taskType", taskType),
		zap.Int("maxJobsActive", wcfg.MaxJobsActive),
		zap.Int("timeout_ms", wcfg.Timeout),
	)
	return w
}
