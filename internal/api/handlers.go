// internal/api/handlers.go
package api

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"mortgage-risk-workers/internal/common/metrics"
	"mortgage-risk-workers/internal/models"
	"mortgage-risk-workers/internal/risk"
)

func (s *Server) handleAssessRisk(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodOptions:
		// Preflight answer the document-extraction frontend expects
		s.writeJSON(w, http.StatusOK, messageResponse{Message: "OK"})
		return
	case http.MethodPost:
	default:
		s.writeJSON(w, http.StatusMethodNotAllowed, AssessResponse{
			Success: false,
			Error:   "method not allowed",
		})
		return
	}

	ctx, span := s.tracing.StartSpan(r.Context(), "assess-risk")
	defer span.End()

	body, err := io.ReadAll(r.Body)
	if err != nil {
		s.writeJSON(w, http.StatusBadRequest, AssessResponse{
			Success: false,
			Error:   fmt.Sprintf("read request body: %v", err),
		})
		return
	}

	var profile models.BuyerProfile
	if err := json.Unmarshal(body, &profile); err != nil {
		s.writeJSON(w, http.StatusBadRequest, AssessResponse{
			Success: false,
			Error:   fmt.Sprintf("invalid request body: %v", err),
		})
		return
	}

	cacheKey := responseCacheKey(body)
	if cached, ok := s.cache.Get(ctx, cacheKey); ok {
		s.logger.Debug("serving assessment from response cache", map[string]interface{}{
			"buyerName": profile.NameFromAPS,
		})
		s.writeRaw(w, http.StatusOK, cached)
		return
	}

	start := time.Now()
	verdict, err := risk.Assess(&profile)
	if err != nil {
		// Legacy contract: engine failures are a 200 with success=false
		s.writeJSON(w, http.StatusOK, AssessResponse{
			Success: false,
			Error:   err.Error(),
		})
		return
	}

	metrics.AssessmentDuration.WithLabelValues("api").Observe(time.Since(start).Seconds())
	metrics.AssessmentsCompleted.WithLabelValues(string(verdict.RiskLevel)).Inc()

	resp := AssessResponse{
		Success:        true,
		RiskAssessment: verdict,
	}
	if s.config.API.DebugEcho {
		resp.Debug = &DebugEcho{
			InputData:        &profile,
			AssessmentResult: verdict,
		}
	}

	envelope, err := json.Marshal(resp)
	if err != nil {
		s.writeJSON(w, http.StatusInternalServerError, AssessResponse{
			Success: false,
			Error:   "encode response failed",
		})
		return
	}

	s.cache.Set(ctx, cacheKey, envelope)

	s.logger.Info("assessment served", map[string]interface{}{
		"buyerName": profile.NameFromAPS,
		"riskLevel": verdict.RiskLevel,
	})
	s.writeRaw(w, http.StatusOK, envelope)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, statusResponse{Status: "healthy", Service: "assessment-api"})
}

func (s *Server) handleReady(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, statusResponse{Status: "ready", Service: "assessment-api"})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error("failed to encode response", map[string]interface{}{
			"error": err,
		})
	}
}

func (s *Server) writeRaw(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(body); err != nil {
		s.logger.Error("failed to write response", map[string]interface{}{
			"error": err,
		})
	}
}
