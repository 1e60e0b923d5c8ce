package config

const (
	defaultRequestsPerSecond = 100
	defaultBurst             = 150
)

// Rate limit configuration for the public API
type RateLimitConfig struct {
	RequestsPerSecond float64 // Sustained requests per second per client IP
	Burst             int     // Burst capacity per client IP
}

var DefaultRateLimitConfig = RateLimitConfig{
	RequestsPerSecond: defaultRequestsPerSecond,
	Burst:             defaultBurst,
}
