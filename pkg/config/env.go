package config

const (
	EnvPort     = "PORT"
	EnvLogLevel = "LOG_LEVEL"

	EnvWebhookSecret = "CAL_WEBHOOK_SECRET"

	EnvEmailAPIToken      = "EMAIL_API_TOKEN"
	EnvEmailAPIBaseURL    = "EMAIL_API_BASE_URL"
	EnvEmailFrom          = "EMAIL_FROM"
	EnvEmailMessageStream = "EMAIL_MESSAGE_STREAM"
	EnvEmailTimeout       = "EMAIL_TIMEOUT"

	EnvAppBaseURL  = "APP_BASE_URL"
	EnvProductName = "PRODUCT_NAME"

	EnvEncryptionKey = "ENCRYPTION_KEY"
	EnvSessionSecret = "SESSION_SECRET"
	EnvSessionIssuer = "SESSION_ISSUER"

	EnvMongoURI          = "MONGO_URI"
	EnvMongoDatabaseName = "MONGO_DATABASE_NAME"
	EnvMongoConnTimeout  = "MONGO_CONN_TIMEOUT"

	EnvRateLimitRequests = "RATE_LIMIT_REQUESTS"
	EnvRateLimitWindow   = "RATE_LIMIT_WINDOW"

	EnvRequestTimeout = "REQUEST_TIMEOUT"
	EnvMaxRequestSize = "MAX_REQUEST_SIZE"

	EnvReadTimeout     = "READ_TIMEOUT"
	EnvWriteTimeout    = "WRITE_TIMEOUT"
	EnvIdleTimeout     = "IDLE_TIMEOUT"
	EnvShutdownTimeout = "SHUTDOWN_TIMEOUT"
)
