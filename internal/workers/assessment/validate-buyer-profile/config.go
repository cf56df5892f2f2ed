// internal/workers/assessment/validate-buyer-profile/config.go
package validatebuyerprofile

import "time"

// No per-worker tuning needed, but the struct is kept for consistency
// with the other workers.
type Config struct {
	Timeout time.Duration
}

func LoadConfig() *Config {
	return &Config{
		Timeout: 30 * time.Second,
	}
}
