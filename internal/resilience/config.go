package resilience

import (
	"time"
)

// FromFetchConfig converts fetch settings to a RetryConfig. Attempt i
// (0-based) is followed by a wait of backoffFactor^i seconds, without
// jitter, capped at maxBackoffSecs.
func FromFetchConfig(retries int, backoffFactor float64, maxBackoffSecs int) RetryConfig {
	cfg := DefaultRetryConfig()
	if retries > 0 {
		cfg.MaxAttempts = retries
	}
	if backoffFactor > 0 {
		cfg.Multiplier = backoffFactor
	}
	if maxBackoffSecs > 0 {
		cfg.MaxBackoff = time.Duration(maxBackoffSecs) * time.Second
	}
	cfg.JitterFraction = 0
	return cfg
}
