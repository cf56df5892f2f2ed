// internal/workers/reporting/create-assessment-record/config.go
package createassessmentrecord

import "time"

type Config struct {
	CacheTTL time.Duration
	Timeout  time.Duration
}

func LoadConfig() *Config {
	return &Config{
		CacheTTL: 1 * time.Hour,
		Timeout:  30 * time.Second,
	}
}
