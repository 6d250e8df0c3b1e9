package kafka_config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds the notification producer settings. An empty broker list or
// topic disables publishing.
type Config struct {
	Brokers            []string
	NotificationsTopic string
	DLQTopic           string

	ProducerMaxAttempts    int
	ProducerBatchTimeout   time.Duration
	ProducerWriteTimeout   time.Duration
	ProducerRequireAcks    int    // -1 = all, 0 = none, 1 = leader only
	ProducerCompression    string // "none", "gzip", "snappy", "lz4", "zstd"
	ProducerPublishTimeout time.Duration
}

func Load() *Config {
	return &Config{
		Brokers:            splitBrokers(os.Getenv(EnvKafkaBrokers)),
		NotificationsTopic: strings.TrimSpace(os.Getenv(EnvKafkaNotificationsTopic)),
		DLQTopic:           strings.TrimSpace(os.Getenv(EnvKafkaNotificationsDLQTopic)),

		ProducerMaxAttempts:    getEnvInt(EnvKafkaProducerMaxAttempts, DefaultProducerMaxAttempts),
		ProducerBatchTimeout:   getEnvDuration(EnvKafkaProducerBatchTimeout, DefaultProducerBatchTimeout),
		ProducerWriteTimeout:   getEnvDuration(EnvKafkaProducerWriteTimeout, DefaultProducerWriteTimeout),
		ProducerRequireAcks:    getEnvInt(EnvKafkaProducerRequireAcks, DefaultProducerRequireAcks),
		ProducerCompression:    getEnvStr(EnvKafkaProducerCompression, DefaultProducerCompression),
		ProducerPublishTimeout: getEnvDuration(EnvKafkaProducerPublishTimeout, DefaultProducerPublishTimeout),
	}
}

func (cfg *Config) Enabled() bool {
	return len(cfg.Brokers) > 0 && cfg.NotificationsTopic != ""
}

// Validate checks producer settings. A disabled config is always valid.
func (cfg *Config) Validate() error {
	if !cfg.Enabled() {
		return nil
	}

	var errors []string

	for i, broker := range cfg.Brokers {
		if broker == "" {
			errors = append(errors, fmt.Sprintf("Broker %d cannot be empty", i))
		}
	}

	if cfg.DLQTopic != "" && cfg.DLQTopic == cfg.NotificationsTopic {
		errors = append(errors, "DLQ topic must differ from the notifications topic")
	}

	if cfg.ProducerMaxAttempts <= 0 {
		errors = append(errors, fmt.Sprintf("ProducerMaxAttempts must be positive, got: %d", cfg.ProducerMaxAttempts))
	}

	if cfg.ProducerBatchTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("ProducerBatchTimeout must be positive, got: %s", cfg.ProducerBatchTimeout))
	}

	if cfg.ProducerWriteTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("ProducerWriteTimeout must be positive, got: %s", cfg.ProducerWriteTimeout))
	}

	if cfg.ProducerPublishTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("ProducerPublishTimeout must be positive, got: %s", cfg.ProducerPublishTimeout))
	}

	validCompressions := map[string]bool{
		"none": true, "gzip": true, "snappy": true, "lz4": true, "zstd": true,
	}
	if !validCompressions[cfg.ProducerCompression] {
		errors = append(errors, fmt.Sprintf("ProducerCompression must be one of [none, gzip, snappy, lz4, zstd], got: %s", cfg.ProducerCompression))
	}

	validAcks := map[int]bool{-1: true, 0: true, 1: true}
	if !validAcks[cfg.ProducerRequireAcks] {
		errors = append(errors, fmt.Sprintf("ProducerRequireAcks must be -1, 0, or 1, got: %d", cfg.ProducerRequireAcks))
	}

	if len(errors) > 0 {
		errMsg := "Kafka configuration validation failed:\n"
		for i, err := range errors {
			errMsg += fmt.Sprintf("  %d. %s\n", i+1, err)
		}
		return fmt.Errorf("%s", errMsg)
	}

	return nil
}

// LogConfiguration reports the producer settings through logFunc.
func (cfg *Config) LogConfiguration(logFunc func(msg string, keysAndValues ...any)) {
	if logFunc == nil {
		return
	}

	if !cfg.Enabled() {
		logFunc("Kafka notifications disabled", "brokers_set", len(cfg.Brokers) > 0, "topic_set", cfg.NotificationsTopic != "")
		return
	}

	logFunc("Kafka configuration loaded successfully",
		"brokers", cfg.Brokers,
		"notifications_topic", cfg.NotificationsTopic,
		"dlq_topic", cfg.DLQTopic,
		"producer_max_attempts", cfg.ProducerMaxAttempts,
		"producer_batch_timeout", cfg.ProducerBatchTimeout,
		"producer_require_acks", cfg.ProducerRequireAcks,
		"producer_compression", cfg.ProducerCompression,
	)
}

func splitBrokers(raw string) []string {
	var brokers []string
	for _, broker := range strings.Split(raw, ",") {
		if broker = strings.TrimSpace(broker); broker != "" {
			brokers = append(brokers, broker)
		}
	}
	return brokers
}

func getEnvStr(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
