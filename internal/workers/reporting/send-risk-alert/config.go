// internal/workers/reporting/send-risk-alert/config.go
package sendriskalert

import (
	"fmt"
	"time"

	"mortgage-risk-workers/internal/common/validation"
	"mortgage-risk-workers/internal/models"
)

type Config struct {
	EmailEnabled   bool
	SMSEnabled     bool
	WebhookEnabled bool
	FromEmail      string
	AlertEmail     string
	AlertPhone     string
	WebhookURL     string
	AWSRegion      string
	MinAlertLevel  string
	Timeout        time.Duration
}

func LoadConfig() *Config {
	return &Config{
		MinAlertLevel: "High",
		Timeout:       30 * time.Second,
	}
}

func (c *Config) Validate() error {
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	if _, ok := models.ParseRiskTier(c.MinAlertLevel); !ok {
		return fmt.Errorf("min_alert_level %q is not a known risk tier", c.MinAlertLevel)
	}
	if c.EmailEnabled {
		if !validation.ValidateEmail(c.FromEmail) {
			return fmt.Errorf("from_email %q is not a valid address", c.FromEmail)
		}
		if !validation.ValidateEmail(c.AlertEmail) {
			return fmt.Errorf("alert_email %q is not a valid address", c.AlertEmail)
		}
	}
	if c.SMSEnabled && c.AlertPhone == "" {
		return fmt.Errorf("alert_phone is required when sms is enabled")
	}
	if c.WebhookEnabled && !validation.ValidateURL(c.WebhookURL) {
		return fmt.Errorf("webhook_url %q is not a valid URL", c.WebhookURL)
	}
	return nil
}
