// internal/workers/assessment/check-assessment-cache/config.go
package checkassessmentcache

import "time"

type Config struct {
	Timeout time.Duration
}

func LoadConfig() *Config {
	return &Config{
		Timeout: 30 * time.Second,
	}
}
