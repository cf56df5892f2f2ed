// internal/workers/reporting/index-assessment-result/config.go
package indexassessmentresult

import "time"

type Config struct {
	IndexName string
	Timeout   time.Duration
}

func LoadConfig() *Config {
	return &Config{
		IndexName: "risk-assessments",
		Timeout:   30 * time.Second,
	}
}
