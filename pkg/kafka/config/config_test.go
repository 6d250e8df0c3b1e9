package kafka_config

import (
	"strings"
	"testing"
)

func TestLoad(t *testing.T) {
	t.Setenv(EnvKafkaBrokers, " broker-1:9092, ,broker-2:9092 ")
	t.Setenv(EnvKafkaNotificationsTopic, "booking.notifications")
	t.Setenv(EnvKafkaNotificationsDLQTopic, "")

	cfg := Load()

	if len(cfg.Brokers) != 2 || cfg.Brokers[0] != "broker-1:9092" || cfg.Brokers[1] != "broker-2:9092" {
		t.Errorf("brokers = %v", cfg.Brokers)
	}
	if !cfg.Enabled() {
		t.Error("config should be enabled")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestEnabled(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		want bool
	}{
		{"both set", Config{Brokers: []string{"b:9092"}, NotificationsTopic: "t"}, true},
		{"no brokers", Config{NotificationsTopic: "t"}, false},
		{"no topic", Config{Brokers: []string{"b:9092"}}, false},
	}

	for _, tt := range tests {
		if got := tt.cfg.Enabled(); got != tt.want {
			t.Errorf("%s: Enabled() = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			Brokers:                []string{"b:9092"},
			NotificationsTopic:     "t",
			ProducerMaxAttempts:    DefaultProducerMaxAttempts,
			ProducerBatchTimeout:   DefaultProducerBatchTimeout,
			ProducerWriteTimeout:   DefaultProducerWriteTimeout,
			ProducerRequireAcks:    DefaultProducerRequireAcks,
			ProducerCompression:    DefaultProducerCompression,
			ProducerPublishTimeout: DefaultProducerPublishTimeout,
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(c *Config) {}, ""},
		{"disabled skips checks", func(c *Config) { c.Brokers = nil; c.ProducerMaxAttempts = 0 }, ""},
		{"dlq equals topic", func(c *Config) { c.DLQTopic = "t" }, "DLQ topic"},
		{"bad compression", func(c *Config) { c.ProducerCompression = "brotli" }, "ProducerCompression"},
		{"bad acks", func(c *Config) { c.ProducerRequireAcks = 2 }, "ProducerRequireAcks"},
		{"zero attempts", func(c *Config) { c.ProducerMaxAttempts = 0 }, "ProducerMaxAttempts"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			err := cfg.Validate()

			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}
