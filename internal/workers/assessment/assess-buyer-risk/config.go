// internal/workers/assessment/assess-buyer-risk/config.go
package assessbuyerrisk

import "time"

type Config struct {
	Timeout time.Duration
}

func LoadConfig() *Config {
	return &Config{
		Timeout: 30 * time.Second,
	}
}
