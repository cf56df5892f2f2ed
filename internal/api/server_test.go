// internal/api/server_test.go
package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"mortgage-risk-workers/internal/common/config"
	"mortgage-risk-workers/internal/common/logger"
	"mortgage-risk-workers/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

func createTestConfig() *config.Config {
	return &config.Config{
		API: config.APIConfig{
			Port:           8081,
			ReadTimeout:    15000,
			WriteTimeout:   15000,
			AllowedOrigins: []string{"*"},
			DebugEcho:      true,
		},
	}
}

func newTestServer(t *testing.T, cfg *config.Config) *Server {
	return NewServer(cfg, logger.NewTestLogger(t), nil)
}

func ownerProfile() models.BuyerProfile {
	return models.BuyerProfile{
		NameFromAPS:                  "John Smith",
		NameFromID:                   "John Smith",
		NameFromHouseSigma:           "John Smith",
		AddressFromAPS:               "123 Main St, Toronto, ON",
		AddressFromID:                "123 Main St, Toronto, ON",
		AddressListFromLandRegistry:  []string{"123 Main St, Toronto, ON"},
		Age:                          45,
		PropertyPrice:                800000,
		PrimaryResidenceValueFromAVM: 650000,
		PrimaryResidenceEquity:       50000,
		DepositPaid:                  200000,
		DepositPayerNames:            []string{"John Smith"},
		MortgageApprovalNames:        []string{"John Smith"},
		Distance:                     20,
	}
}

func postAssess(t *testing.T, server *Server, body []byte) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/assess-risk", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, req)
	return rec
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) AssessResponse {
	var resp AssessResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

// ==========================
// Assessment Endpoint Tests
// ==========================

func TestAssessRisk_OwnerProfile(t *testing.T) {
	server := newTestServer(t, createTestConfig())

	body, err := json.Marshal(ownerProfile())
	require.NoError(t, err)

	rec := postAssess(t, server, body)

	assert.Equal(t, http.StatusOK, rec.Code)
	resp := decodeEnvelope(t, rec)
	assert.True(t, resp.Success)
	require.NotNil(t, resp.RiskAssessment)
	assert.Equal(t, models.TierHigh, resp.RiskAssessment.RiskLevel)
	assert.Equal(t, []string{"Low equity (5-15%)"}, resp.RiskAssessment.Reasons)
	assert.Equal(t, []string{"Verify property ownership and equity"}, resp.RiskAssessment.SuggestedActions)

	require.NotNil(t, resp.Debug)
	assert.Equal(t, "John Smith", resp.Debug.InputData.NameFromAPS)
	assert.Equal(t, resp.RiskAssessment.RiskLevel, resp.Debug.AssessmentResult.RiskLevel)
}

func TestAssessRisk_NonOwnerPinnedVeryHigh(t *testing.T) {
	server := newTestServer(t, createTestConfig())

	profile := ownerProfile()
	profile.AddressListFromLandRegistry = nil
	profile.PrimaryResidenceValueFromAVM = 0
	profile.PrimaryResidenceEquity = 0

	body, err := json.Marshal(profile)
	require.NoError(t, err)

	rec := postAssess(t, server, body)

	assert.Equal(t, http.StatusOK, rec.Code)
	resp := decodeEnvelope(t, rec)
	assert.True(t, resp.Success)
	assert.Equal(t, models.TierVeryHigh, resp.RiskAssessment.RiskLevel)
	assert.Contains(t, resp.RiskAssessment.Reasons, "Address in APS not found in LAND REGISTRY - empty")
	assert.Contains(t, resp.RiskAssessment.RiskFactors, "First-time homebuyer")
}

func TestAssessRisk_ZeroPrice(t *testing.T) {
	server := newTestServer(t, createTestConfig())

	profile := ownerProfile()
	profile.PropertyPrice = 0

	body, err := json.Marshal(profile)
	require.NoError(t, err)

	rec := postAssess(t, server, body)

	// Engine failures keep HTTP 200 with success=false
	assert.Equal(t, http.StatusOK, rec.Code)
	resp := decodeEnvelope(t, rec)
	assert.False(t, resp.Success)
	assert.Equal(t, "invalid input: zero price", resp.Error)
	assert.Nil(t, resp.RiskAssessment)
}

func TestAssessRisk_MalformedBody(t *testing.T) {
	server := newTestServer(t, createTestConfig())

	rec := postAssess(t, server, []byte(`{not json`))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeEnvelope(t, rec)
	assert.False(t, resp.Success)
	assert.Contains(t, resp.Error, "invalid request body")
}

func TestAssessRisk_ExtraFieldsTolerated(t *testing.T) {
	server := newTestServer(t, createTestConfig())

	// Raw extraction documents carry fields the engine does not read
	body := []byte(`{
		"PURCHASER_NAME_FROM_APS": "Jane Doe",
		"PURCHASER_NAME_FROM_ID": "Jane Doe",
		"PROPERTY_PRICE": 500000,
		"SOME_FUTURE_EXTRACTION_FIELD": "ignored"
	}`)

	rec := postAssess(t, server, body)

	assert.Equal(t, http.StatusOK, rec.Code)
	resp := decodeEnvelope(t, rec)
	assert.True(t, resp.Success)
	require.NotNil(t, resp.RiskAssessment)
}

func TestAssessRisk_MethodNotAllowed(t *testing.T) {
	server := newTestServer(t, createTestConfig())

	req := httptest.NewRequest(http.MethodGet, "/assess-risk", nil)
	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestAssessRisk_Preflight(t *testing.T) {
	server := newTestServer(t, createTestConfig())

	req := httptest.NewRequest(http.MethodOptions, "/assess-risk", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))

	var resp messageResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "OK", resp.Message)
}

func TestAssessRisk_DebugEchoDisabled(t *testing.T) {
	cfg := createTestConfig()
	cfg.API.DebugEcho = false
	server := newTestServer(t, cfg)

	body, err := json.Marshal(ownerProfile())
	require.NoError(t, err)

	rec := postAssess(t, server, body)

	resp := decodeEnvelope(t, rec)
	assert.True(t, resp.Success)
	assert.Nil(t, resp.Debug)
}

// ==========================
// Infrastructure Endpoint Tests
// ==========================

func TestHealthAndReady(t *testing.T) {
	server := newTestServer(t, createTestConfig())

	for _, path := range []string{"/health", "/ready"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		server.Handler().ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code, path)

		var resp statusResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "assessment-api", resp.Service)
	}
}

// ==========================
// Response Cache Tests
// ==========================

func TestAssessRisk_ResponseCache(t *testing.T) {
	mr := miniredis.RunT(t)

	cfg := createTestConfig()
	cfg.API.CacheEnabled = true
	cfg.Database.Redis.Address = mr.Addr()
	server := newTestServer(t, cfg)

	body, err := json.Marshal(ownerProfile())
	require.NoError(t, err)

	rec := postAssess(t, server, body)
	require.Equal(t, http.StatusOK, rec.Code)
	require.True(t, decodeEnvelope(t, rec).Success)

	// The envelope landed in redis under the body hash
	var cacheKey string
	for _, key := range mr.Keys() {
		if strings.HasPrefix(key, "api:response:") {
			cacheKey = key
		}
	}
	require.NotEmpty(t, cacheKey, "envelope should be cached")

	// Replace the cached value; an identical request must be served from it
	marker := `{"success":false,"error":"served-from-cache"}`
	require.NoError(t, mr.Set(cacheKey, marker))

	rec = postAssess(t, server, body)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "served-from-cache", decodeEnvelope(t, rec).Error)
}

func TestAssessRisk_CacheDownDegradesToMiss(t *testing.T) {
	mr := miniredis.RunT(t)

	cfg := createTestConfig()
	cfg.API.CacheEnabled = true
	cfg.Database.Redis.Address = mr.Addr()
	server := newTestServer(t, cfg)

	mr.Close()

	body, err := json.Marshal(ownerProfile())
	require.NoError(t, err)

	rec := postAssess(t, server, body)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decodeEnvelope(t, rec).Success)
}
