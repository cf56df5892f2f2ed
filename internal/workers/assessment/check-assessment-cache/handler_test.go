// internal/workers/assessment/check-assessment-cache/handler_test.go
package checkassessmentcache

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"mortgage-risk-workers/internal/common/logger"
	"mortgage-risk-workers/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
)

// ==========================
// Test Helper Functions
// ==========================

func createTestConfig() *Config {
	return &Config{
		Timeout: 5 * time.Second,
	}
}

func setupRedis(t *testing.T) *redis.Client {
	mr, err := miniredis.Run()
	assert.NoError(t, err)
	t.Cleanup(mr.Close)

	return redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})
}

func testProfileDoc() map[string]interface{} {
	return map[string]interface{}{
		"PURCHASER_NAME_FROM_APS":    "John Smith",
		"PURCHASER_NAME_FROM_ID":     "John Smith",
		"PURCHASER_ADDRESS_FROM_APS": "123 Main St, Toronto, ON",
		"PURCHASER_ADDRESS_FROM_ID":  "123 Main St, Toronto, ON",
		"PROPERTY_PRICE":             700000,
	}
}

func testVerdict() *models.Verdict {
	return &models.Verdict{
		RiskLevel:        models.TierMedium,
		SuggestedActions: []string{"Request 25% downpayment proof"},
		Reasons:          []string{},
		RiskFactors:      []string{"First-time homebuyer"},
	}
}

// ==========================
// Cache Lookup Tests
// ==========================

func TestHandler_Execute_CacheMiss(t *testing.T) {
	rdb := setupRedis(t)
	handler := NewHandler(createTestConfig(), rdb, logger.NewTestLogger(t))

	doc := testProfileDoc()
	output, err := handler.Execute(context.Background(), &Input{BuyerProfile: doc})

	assert.NoError(t, err)
	assert.False(t, output.CacheHit)
	assert.Nil(t, output.RiskAssessment)

	expected, err := ProfileFingerprint(doc)
	assert.NoError(t, err)
	assert.Equal(t, expected, output.ProfileFingerprint)
	assert.Len(t, output.ProfileFingerprint, 64)
}

func TestHandler_Execute_CacheHit(t *testing.T) {
	rdb := setupRedis(t)
	handler := NewHandler(createTestConfig(), rdb, logger.NewTestLogger(t))

	doc := testProfileDoc()
	fingerprint, err := ProfileFingerprint(doc)
	assert.NoError(t, err)

	stored, err := json.Marshal(testVerdict())
	assert.NoError(t, err)
	err = rdb.Set(context.Background(), "assessment:verdict:"+fingerprint, stored, 30*time.Minute).Err()
	assert.NoError(t, err)

	output, err := handler.Execute(context.Background(), &Input{BuyerProfile: doc})

	assert.NoError(t, err)
	assert.True(t, output.CacheHit)
	assert.Equal(t, testVerdict(), output.RiskAssessment)
	assert.Equal(t, fingerprint, output.ProfileFingerprint)
}

func TestHandler_Execute_CorruptEntryTreatedAsMiss(t *testing.T) {
	rdb := setupRedis(t)
	handler := NewHandler(createTestConfig(), rdb, logger.NewTestLogger(t))

	doc := testProfileDoc()
	fingerprint, err := ProfileFingerprint(doc)
	assert.NoError(t, err)

	err = rdb.Set(context.Background(), "assessment:verdict:"+fingerprint, "not-json", 30*time.Minute).Err()
	assert.NoError(t, err)

	output, err := handler.Execute(context.Background(), &Input{BuyerProfile: doc})

	assert.NoError(t, err)
	assert.False(t, output.CacheHit)
	assert.Nil(t, output.RiskAssessment)
}

func TestHandler_Execute_RedisDownTreatedAsMiss(t *testing.T) {
	mr, err := miniredis.Run()
	assert.NoError(t, err)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	mr.Close()

	handler := NewHandler(createTestConfig(), rdb, logger.NewTestLogger(t))

	output, err := handler.Execute(context.Background(), &Input{BuyerProfile: testProfileDoc()})

	assert.NoError(t, err)
	assert.False(t, output.CacheHit)
	assert.NotEmpty(t, output.ProfileFingerprint)
}

// ==========================
// Fingerprint Tests
// ==========================

func TestProfileFingerprint_Deterministic(t *testing.T) {
	a := testProfileDoc()

	b := map[string]interface{}{}
	b["PROPERTY_PRICE"] = 700000
	b["PURCHASER_ADDRESS_FROM_ID"] = "123 Main St, Toronto, ON"
	b["PURCHASER_ADDRESS_FROM_APS"] = "123 Main St, Toronto, ON"
	b["PURCHASER_NAME_FROM_ID"] = "John Smith"
	b["PURCHASER_NAME_FROM_APS"] = "John Smith"

	fpA, err := ProfileFingerprint(a)
	assert.NoError(t, err)
	fpB, err := ProfileFingerprint(b)
	assert.NoError(t, err)

	assert.Equal(t, fpA, fpB)
}

func TestProfileFingerprint_SensitiveToChanges(t *testing.T) {
	a := testProfileDoc()
	b := testProfileDoc()
	b["PROPERTY_PRICE"] = 700001

	fpA, err := ProfileFingerprint(a)
	assert.NoError(t, err)
	fpB, err := ProfileFingerprint(b)
	assert.NoError(t, err)

	assert.NotEqual(t, fpA, fpB)
}

func TestProfileFingerprint_NestedDocuments(t *testing.T) {
	a := testProfileDoc()
	a["CO_SIGNER_LIST_FROM_APS"] = []interface{}{
		map[string]interface{}{
			"CO_SIGNER_NAME_FROM_APS":    "Jane Smith",
			"CO_SIGNER_ADDRESS_FROM_APS": "123 Main St, Toronto, ON",
		},
	}

	b := testProfileDoc()
	b["CO_SIGNER_LIST_FROM_APS"] = []interface{}{
		map[string]interface{}{
			"CO_SIGNER_ADDRESS_FROM_APS": "123 Main St, Toronto, ON",
			"CO_SIGNER_NAME_FROM_APS":    "Jane Smith",
		},
	}

	fpA, err := ProfileFingerprint(a)
	assert.NoError(t, err)
	fpB, err := ProfileFingerprint(b)
	assert.NoError(t, err)

	assert.Equal(t, fpA, fpB)
}
