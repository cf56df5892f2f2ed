// internal/api/server.go
package api

import (
	"context"
	"fmt"
	"net/http"

	"mortgage-risk-workers/internal/common/config"
	"mortgage-risk-workers/internal/common/logger"
	"mortgage-risk-workers/internal/common/observability"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Server is the synchronous assessment API: the same engine the workers run,
// exposed as a request/response endpoint for callers that do not go through
// the workflow.
type Server struct {
	config  *config.Config
	logger  logger.Logger
	tracing *observability.Tracing
	cache   *responseCache
	handler http.Handler
	httpSrv *http.Server
}

func NewServer(cfg *config.Config, log logger.Logger, tracing *observability.Tracing) *Server {
	s := &Server{
		config:  cfg,
		logger:  log.WithFields(map[string]interface{}{"component": "assessment-api"}),
		tracing: tracing,
	}

	if cfg.API.CacheEnabled {
		s.cache = newResponseCache(cfg.Database.Redis, s.logger)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/assess-risk", s.handleAssessRisk)
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/ready", s.handleReady)
	mux.Handle("/metrics", promhttp.Handler())

	s.handler = s.withCORS(s.withRequestLog(mux))
	s.httpSrv = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.API.Port),
		Handler:      s.handler,
		ReadTimeout:  config.GetDuration(cfg.API.ReadTimeout),
		WriteTimeout: config.GetDuration(cfg.API.WriteTimeout),
	}

	return s
}

// Handler exposes the full routing stack for tests.
func (s *Server) Handler() http.Handler {
	return s.handler
}

func (s *Server) Start() error {
	s.logger.Info("assessment API listening", map[string]interface{}{
		"addr": s.httpSrv.Addr,
	})
	return s.httpSrv.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpSrv.Shutdown(ctx)
}
