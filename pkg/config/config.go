package config

import (
	"encoding/base64"
	"fmt"
	"net/url"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"calnotify/pkg/client"
	"calnotify/pkg/logger"
)

type Config struct {
	Port     string
	LogLevel string

	WebhookSecret string

	EmailAPIToken      string
	EmailAPIBaseURL    string
	EmailFrom          string
	EmailMessageStream string
	EmailTimeout       time.Duration

	AppBaseURL  string
	ProductName string

	EncryptionKey string
	SessionSecret string
	SessionIssuer string

	MongoURI          string
	MongoDatabaseName string
	MongoConnTimeout  time.Duration

	RateLimitRequests int
	RateLimitWindow   time.Duration

	RequestTimeout time.Duration
	MaxRequestSize int

	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration

	Log    *logger.Logger
	Client *client.Client
}

// Load reads the process environment once. Invalid values are fatal; absent
// secrets are not, they surface as 500s on the requests that need them.
func Load(serviceName string) *Config {
	cfg := FromEnv()
	cfg.Log = logger.New(logger.Config{
		Level:     cfg.LogLevel,
		Format:    logger.JSON,
		AddSource: true,
		Service:   serviceName,
	})

	if err := cfg.Validate(); err != nil {
		cfg.Log.Fatal(err.Error())
	}
	cfg.LogConfiguration()
	return cfg
}

// FromEnv builds a Config without validating or logging it.
func FromEnv() *Config {
	return &Config{
		Port:     getEnvStr(EnvPort, DefaultPort),
		LogLevel: getEnvStr(EnvLogLevel, DefaultLogLevel),

		WebhookSecret: getEnvStr(EnvWebhookSecret, ""),

		EmailAPIToken:      getEnvStr(EnvEmailAPIToken, ""),
		EmailAPIBaseURL:    getEnvStr(EnvEmailAPIBaseURL, DefaultEmailAPIBaseURL),
		EmailFrom:          getEnvStr(EnvEmailFrom, ""),
		EmailMessageStream: getEnvStr(EnvEmailMessageStream, DefaultEmailMessageStream),
		EmailTimeout:       getEnvDuration(EnvEmailTimeout, DefaultEmailTimeout),

		AppBaseURL:  strings.TrimSuffix(getEnvStr(EnvAppBaseURL, ""), "/"),
		ProductName: getEnvStr(EnvProductName, DefaultProductName),

		EncryptionKey: getEnvStr(EnvEncryptionKey, ""),
		SessionSecret: getEnvStr(EnvSessionSecret, ""),
		SessionIssuer: getEnvStr(EnvSessionIssuer, ""),

		MongoURI:          getEnvStr(EnvMongoURI, ""),
		MongoDatabaseName: getEnvStr(EnvMongoDatabaseName, DefaultMongoDatabaseName),
		MongoConnTimeout:  getEnvDuration(EnvMongoConnTimeout, DefaultMongoConnTimeout),

		RateLimitRequests: getEnvNum(EnvRateLimitRequests, DefaultRateLimitRequests),
		RateLimitWindow:   getEnvDuration(EnvRateLimitWindow, DefaultRateLimitWindow),

		RequestTimeout: getEnvDuration(EnvRequestTimeout, DefaultRequestTimeout),
		MaxRequestSize: getEnvNum(EnvMaxRequestSize, DefaultMaxRequestSize),

		ReadTimeout:     getEnvDuration(EnvReadTimeout, DefaultReadTimeout),
		WriteTimeout:    getEnvDuration(EnvWriteTimeout, DefaultWriteTimeout),
		IdleTimeout:     getEnvDuration(EnvIdleTimeout, DefaultIdleTimeout),
		ShutdownTimeout: getEnvDuration(EnvShutdownTimeout, DefaultShutdownTimeout),

		Client: client.NewClient(),
	}
}

func (cfg *Config) SetMongo() {
	cfg.Client.SetMongo(cfg.Log, cfg.MongoURI, cfg.MongoConnTimeout)
}

func (cfg *Config) MongoEnabled() bool {
	return cfg.MongoURI != ""
}

func (cfg *Config) Validate() error {
	var errors []string

	if port, err := strconv.Atoi(cfg.Port); err != nil || port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("Port must be between 1 and 65535, got: %s", cfg.Port))
	}

	if !isHTTPURL(cfg.EmailAPIBaseURL) {
		errors = append(errors, fmt.Sprintf("EmailAPIBaseURL must be an http(s) URL, got: %s", cfg.EmailAPIBaseURL))
	}
	if cfg.AppBaseURL != "" && !isHTTPURL(cfg.AppBaseURL) {
		errors = append(errors, fmt.Sprintf("AppBaseURL must be an http(s) URL, got: %s", cfg.AppBaseURL))
	}
	if cfg.EmailFrom != "" && !strings.Contains(cfg.EmailFrom, "@") {
		errors = append(errors, fmt.Sprintf("EmailFrom must be an email address, got: %s", cfg.EmailFrom))
	}

	if cfg.EncryptionKey != "" {
		key, err := base64.StdEncoding.DecodeString(cfg.EncryptionKey)
		if err != nil || len(key) != 32 {
			errors = append(errors, "EncryptionKey must be 32 bytes encoded as standard base64")
		}
	}

	if cfg.MongoURI != "" && !regexp.MustCompile(`^mongodb(\+srv)?://`).MatchString(cfg.MongoURI) {
		errors = append(errors, fmt.Sprintf("MongoURI must start with 'mongodb://' or 'mongodb+srv://', got: %s", redactMongoURI(cfg.MongoURI)))
	}
	if cfg.MongoURI != "" && cfg.MongoDatabaseName == "" {
		errors = append(errors, "MongoDatabaseName cannot be empty")
	}

	durations := []struct {
		name  string
		value time.Duration
	}{
		{"EmailTimeout", cfg.EmailTimeout},
		{"MongoConnTimeout", cfg.MongoConnTimeout},
		{"RateLimitWindow", cfg.RateLimitWindow},
		{"RequestTimeout", cfg.RequestTimeout},
		{"ReadTimeout", cfg.ReadTimeout},
		{"WriteTimeout", cfg.WriteTimeout},
		{"IdleTimeout", cfg.IdleTimeout},
		{"ShutdownTimeout", cfg.ShutdownTimeout},
	}
	for _, d := range durations {
		if d.value <= 0 {
			errors = append(errors, fmt.Sprintf("%s must be positive, got: %s", d.name, d.value))
		}
	}

	// The email call has to give up before the request deadline answers 503
	// for a send that may still succeed.
	if cfg.EmailTimeout > 0 && cfg.RequestTimeout > 0 && cfg.RequestTimeout <= cfg.EmailTimeout {
		errors = append(errors, fmt.Sprintf("RequestTimeout (%s) must be greater than EmailTimeout (%s)", cfg.RequestTimeout, cfg.EmailTimeout))
	}

	if cfg.RateLimitRequests <= 0 {
		errors = append(errors, fmt.Sprintf("RateLimitRequests must be positive, got: %d", cfg.RateLimitRequests))
	}
	if cfg.MaxRequestSize <= 0 {
		errors = append(errors, fmt.Sprintf("MaxRequestSize must be positive, got: %d", cfg.MaxRequestSize))
	}

	if len(errors) > 0 {
		errMsg := "Configuration validation failed:\n"
		for i, err := range errors {
			errMsg += fmt.Sprintf("  %d. %s\n", i+1, err)
		}
		return fmt.Errorf("%s", errMsg)
	}

	return nil
}

func (cfg *Config) LogConfiguration() {
	cfg.Log.Info("Configuration loaded successfully",
		"port", cfg.Port,
		"log_level", cfg.LogLevel,
		"webhook_secret_set", cfg.WebhookSecret != "",
		"email_api_token_set", cfg.EmailAPIToken != "",
		"email_api_base_url", cfg.EmailAPIBaseURL,
		"email_from", cfg.EmailFrom,
		"email_message_stream", cfg.EmailMessageStream,
		"email_timeout", cfg.EmailTimeout,
		"app_base_url", cfg.AppBaseURL,
		"product_name", cfg.ProductName,
		"encryption_key_set", cfg.EncryptionKey != "",
		"session_secret_set", cfg.SessionSecret != "",
		"session_issuer", cfg.SessionIssuer,
		"mongo_uri", redactMongoURI(cfg.MongoURI),
		"mongo_database", cfg.MongoDatabaseName,
		"rate_limit_requests", cfg.RateLimitRequests,
		"rate_limit_window", cfg.RateLimitWindow,
		"request_timeout", cfg.RequestTimeout,
		"max_request_size", cfg.MaxRequestSize,
		"read_timeout", cfg.ReadTimeout,
		"write_timeout", cfg.WriteTimeout,
		"idle_timeout", cfg.IdleTimeout,
		"shutdown_timeout", cfg.ShutdownTimeout,
	)

	if cfg.WebhookSecret == "" {
		cfg.Log.Warn("Webhook secret is not set, booking webhooks will be rejected with 500")
	}
	if cfg.EmailAPIToken == "" || cfg.EmailFrom == "" {
		cfg.Log.Warn("Email provider is not fully configured, booking webhooks will be rejected with 500")
	}
}

func (cfg *Config) GracefulShutdown() {
	cfg.Client.GracefulShutdown(cfg.Log)
}

func isHTTPURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

func redactMongoURI(uri string) string {
	credentialRegex := regexp.MustCompile(`(mongodb(\+srv)?://)[^:]+:[^@]+@`)
	return credentialRegex.ReplaceAllString(uri, "${1}***:***@")
}

func getEnvStr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvNum(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}
