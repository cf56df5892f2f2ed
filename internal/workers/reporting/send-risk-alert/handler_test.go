// internal/workers/reporting/send-risk-alert/handler_test.go
package sendriskalert

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	commonhttp "mortgage-risk-workers/internal/common/http"
	"mortgage-risk-workers/internal/common/logger"
	"mortgage-risk-workers/internal/models"

	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Mock Implementations
// ==========================

type MockSESService struct {
	SendEmailFunc func(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

func (m *MockSESService) SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
	return m.SendEmailFunc(ctx, params, optFns...)
}

type MockSNSService struct {
	PublishFunc func(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

func (m *MockSNSService) Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error) {
	return m.PublishFunc(ctx, params, optFns...)
}

// ==========================
// Test Helper Functions
// ==========================

func createTestConfig() *Config {
	return &Config{
		EmailEnabled:  true,
		SMSEnabled:    true,
		FromEmail:     "noreply@riskdesk.io",
		AlertEmail:    "underwriting@riskdesk.io",
		AlertPhone:    "+15550100",
		AWSRegion:     "us-east-1",
		MinAlertLevel: "High",
		Timeout:       30 * time.Second,
	}
}

func createTestInput(tier models.RiskTier) *Input {
	return &Input{
		AssessmentID: "a3b8e6f0-91c4-4a2d-8f17-52d90ccf1a01",
		BuyerProfile: models.BuyerProfile{
			NameFromAPS:   "John Smith",
			PropertyPrice: 950000,
		},
		RiskAssessment: models.Verdict{
			RiskLevel:        tier,
			SuggestedActions: []string{"Verify property ownership and equity"},
			Reasons:          []string{"Low equity (5-15%)"},
			RiskFactors:      []string{"Existing property owner"},
		},
	}
}

func alwaysOKMocks() (*MockSESService, *MockSNSService) {
	mockSES := &MockSESService{
		SendEmailFunc: func(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
			return &ses.SendEmailOutput{}, nil
		},
	}
	mockSNS := &MockSNSService{
		PublishFunc: func(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error) {
			return &sns.PublishOutput{}, nil
		},
	}
	return mockSES, mockSNS
}

// ==========================
// Core Functionality Tests
// ==========================

func TestHandler_Execute_Success(t *testing.T) {
	tests := []struct {
		name             string
		tier             models.RiskTier
		emailEnabled     bool
		smsEnabled       bool
		expectedStatus   string
		expectedChannels []string
	}{
		{
			name:             "email and SMS for very high risk",
			tier:             models.TierVeryHigh,
			emailEnabled:     true,
			smsEnabled:       true,
			expectedStatus:   StatusSent,
			expectedChannels: []string{ChannelEmail, ChannelSMS},
		},
		{
			name:             "email only for high risk",
			tier:             models.TierHigh,
			emailEnabled:     true,
			smsEnabled:       true,
			expectedStatus:   StatusSent,
			expectedChannels: []string{ChannelEmail},
		},
		{
			name:             "SMS only for very high risk",
			tier:             models.TierVeryHigh,
			emailEnabled:     false,
			smsEnabled:       true,
			expectedStatus:   StatusSent,
			expectedChannels: []string{ChannelSMS},
		},
		{
			name:             "all channels disabled",
			tier:             models.TierVeryHigh,
			emailEnabled:     false,
			smsEnabled:       false,
			expectedStatus:   StatusDisabled,
			expectedChannels: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockSES := &MockSESService{
				SendEmailFunc: func(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
					assert.Equal(t, "underwriting@riskdesk.io", params.Destination.ToAddresses[0])
					assert.Equal(t, "noreply@riskdesk.io", *params.Source)
					assert.Contains(t, *params.Message.Subject.Data, "John Smith")
					return &ses.SendEmailOutput{}, nil
				},
			}
			mockSNS := &MockSNSService{
				PublishFunc: func(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error) {
					assert.Equal(t, "+15550100", *params.PhoneNumber)
					assert.Contains(t, *params.Message, "John Smith")
					return &sns.PublishOutput{}, nil
				},
			}

			config := createTestConfig()
			config.EmailEnabled = tt.emailEnabled
			config.SMSEnabled = tt.smsEnabled

			handler := &Handler{
				config:    config,
				logger:    logger.NewTestLogger(t),
				sesClient: mockSES,
				snsClient: mockSNS,
			}

			output, err := handler.Execute(context.Background(), createTestInput(tt.tier))

			require.NoError(t, err)
			require.NotNil(t, output)
			assert.Equal(t, tt.expectedStatus, output.Status)
			assert.Equal(t, tt.expectedChannels, output.Channels)
			assert.NotEmpty(t, output.AlertID)
			assert.NotEmpty(t, output.SentAt)
		})
	}
}

func TestHandler_Execute_BelowThreshold(t *testing.T) {
	mockSES := &MockSESService{
		SendEmailFunc: func(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
			t.Error("email must not be sent below the alert threshold")
			return &ses.SendEmailOutput{}, nil
		},
	}
	mockSNS := &MockSNSService{
		PublishFunc: func(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error) {
			t.Error("SMS must not be sent below the alert threshold")
			return &sns.PublishOutput{}, nil
		},
	}

	handler := &Handler{
		config:    createTestConfig(),
		logger:    logger.NewTestLogger(t),
		sesClient: mockSES,
		snsClient: mockSNS,
	}

	output, err := handler.Execute(context.Background(), createTestInput(models.TierMedium))

	require.NoError(t, err)
	assert.Equal(t, StatusSkipped, output.Status)
	assert.Empty(t, output.Channels)
}

func TestHandler_Execute_EmailFailure(t *testing.T) {
	mockSES := &MockSESService{
		SendEmailFunc: func(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
			return nil, errors.New("SES service unavailable")
		},
	}
	_, mockSNS := alwaysOKMocks()

	handler := &Handler{
		config:    createTestConfig(),
		logger:    logger.NewTestLogger(t),
		sesClient: mockSES,
		snsClient: mockSNS,
	}

	output, err := handler.Execute(context.Background(), createTestInput(models.TierVeryHigh))

	require.NoError(t, err)
	assert.Equal(t, StatusFailed, output.Status)
	assert.Empty(t, output.Channels)
}

func TestHandler_Execute_SMSFailure(t *testing.T) {
	mockSES, _ := alwaysOKMocks()
	mockSNS := &MockSNSService{
		PublishFunc: func(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error) {
			return nil, errors.New("SNS service unavailable")
		},
	}

	handler := &Handler{
		config:    createTestConfig(),
		logger:    logger.NewTestLogger(t),
		sesClient: mockSES,
		snsClient: mockSNS,
	}

	output, err := handler.Execute(context.Background(), createTestInput(models.TierVeryHigh))

	require.NoError(t, err)
	assert.Equal(t, StatusFailed, output.Status)
	// Email went out before the SMS attempt failed
	assert.Equal(t, []string{ChannelEmail}, output.Channels)
}

// ==========================
// Webhook Tests
// ==========================

func TestHandler_Execute_Webhook(t *testing.T) {
	var received map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	config := createTestConfig()
	config.EmailEnabled = false
	config.SMSEnabled = false
	config.WebhookEnabled = true
	config.WebhookURL = server.URL

	handler := &Handler{
		config:  config,
		logger:  logger.NewTestLogger(t),
		webhook: commonhttp.NewClient(5 * time.Second),
	}

	output, err := handler.Execute(context.Background(), createTestInput(models.TierVeryHigh))

	require.NoError(t, err)
	assert.Equal(t, StatusSent, output.Status)
	assert.Equal(t, []string{ChannelWebhook}, output.Channels)

	require.NotNil(t, received)
	assert.Equal(t, "John Smith", received["buyerName"])
	assert.Equal(t, output.AlertID, received["alertId"])

	verdict, ok := received["riskAssessment"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "Very High", verdict["risk_level"])
}

func TestHandler_Execute_WebhookRejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	config := createTestConfig()
	config.EmailEnabled = false
	config.SMSEnabled = false
	config.WebhookEnabled = true
	config.WebhookURL = server.URL

	handler := &Handler{
		config:  config,
		logger:  logger.NewTestLogger(t),
		webhook: commonhttp.NewClient(5 * time.Second),
	}

	output, err := handler.Execute(context.Background(), createTestInput(models.TierVeryHigh))

	require.NoError(t, err)
	assert.Equal(t, StatusFailed, output.Status)
}

// ==========================
// Configuration Tests
// ==========================

func TestHandler_Execute_InvalidMinAlertLevel(t *testing.T) {
	config := createTestConfig()
	config.MinAlertLevel = "Catastrophic"

	handler := &Handler{
		config: config,
		logger: logger.NewTestLogger(t),
	}

	output, err := handler.Execute(context.Background(), createTestInput(models.TierVeryHigh))

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid minimum alert level")
	assert.Nil(t, output)
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "default test config is valid",
			mutate: func(c *Config) {},
		},
		{
			name:    "zero timeout",
			mutate:  func(c *Config) { c.Timeout = 0 },
			wantErr: "timeout",
		},
		{
			name:    "unknown alert tier",
			mutate:  func(c *Config) { c.MinAlertLevel = "Catastrophic" },
			wantErr: "risk tier",
		},
		{
			name:    "bad from address with email enabled",
			mutate:  func(c *Config) { c.FromEmail = "not-an-address" },
			wantErr: "from_email",
		},
		{
			name: "bad from address tolerated when email disabled",
			mutate: func(c *Config) {
				c.EmailEnabled = false
				c.FromEmail = "not-an-address"
			},
		},
		{
			name: "missing phone with sms enabled",
			mutate: func(c *Config) {
				c.AlertPhone = ""
			},
			wantErr: "alert_phone",
		},
		{
			name: "bad webhook url",
			mutate: func(c *Config) {
				c.WebhookEnabled = true
				c.WebhookURL = "not a url"
			},
			wantErr: "webhook_url",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := createTestConfig()
			tt.mutate(config)

			err := config.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestBuildAlertBody(t *testing.T) {
	body := buildAlertBody(createTestInput(models.TierHigh))

	assert.Contains(t, body, "Buyer John Smith was rated High.")
	assert.Contains(t, body, "Assessment ID: a3b8e6f0-91c4-4a2d-8f17-52d90ccf1a01")
	assert.Contains(t, body, "Property price: 950000.00")
	assert.Contains(t, body, "Low equity (5-15%)")
	assert.Contains(t, body, "Verify property ownership and equity")
}
