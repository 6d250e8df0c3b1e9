package config

import "time"

const (
	DefaultPort     = "8080"
	DefaultLogLevel = "info"

	DefaultEmailAPIBaseURL    = "https://api.postmarkapp.com"
	DefaultEmailMessageStream = "outbound"
	DefaultEmailTimeout       = 10 * time.Second

	DefaultProductName = "Cal.com"

	DefaultMongoDatabaseName = "calendso"
	DefaultMongoConnTimeout  = 10 * time.Second

	DefaultRateLimitRequests = 5
	DefaultRateLimitWindow   = 1 * time.Minute

	DefaultRequestTimeout = 30 * time.Second
	DefaultMaxRequestSize = 1 * 1024 * 1024 // 1MB

	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 35 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second
)
