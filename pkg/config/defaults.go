package config

import "time"

const (
	DefaultMongoURI          = "mongodb://localhost:27017"
	DefaultMongoDatabaseName = "campsite"
	DefaultMongoConnTimeout  = 10 * time.Second

	DefaultPort     = "8080"
	DefaultLogLevel = "info"

	DefaultRedisDB = 0

	DefaultRateLimitRequests = 60
	DefaultRateLimitWindow   = 1 * time.Minute
	DefaultTrustedProxies    = "" // comma separated IPs or CIDRs allowed to set X-Forwarded-For

	DefaultRequestTimeout = 30 * time.Second
	DefaultIdempotencyTTL = 24 * time.Hour
	DefaultMaxRequestSize = 1 * 1024 * 1024 // 1MB

	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second

	DefaultMaxDaysInAdvance      = 30
	DefaultMinDaysInAdvance      = 1
	DefaultMaxDuration           = 3
	DefaultMinIntervalPerAccount = 0
	DefaultTimeZone              = "UTC"

	DefaultMetricsPath = "/metrics"
)
