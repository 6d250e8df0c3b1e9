package config

import (
	"strings"
	"testing"
	"time"
)

func TestFromEnv_Defaults(t *testing.T) {
	for _, key := range []string{EnvPort, EnvWebhookSecret, EnvMongoURI, EnvEmailAPIBaseURL, EnvAppBaseURL, EnvEncryptionKey} {
		t.Setenv(key, "")
	}

	cfg := FromEnv()

	if cfg.Port != DefaultPort {
		t.Errorf("Port = %s, want %s", cfg.Port, DefaultPort)
	}
	if cfg.EmailAPIBaseURL != DefaultEmailAPIBaseURL {
		t.Errorf("EmailAPIBaseURL = %s, want %s", cfg.EmailAPIBaseURL, DefaultEmailAPIBaseURL)
	}
	if cfg.MongoEnabled() {
		t.Errorf("MongoEnabled() should be false without MONGO_URI")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate, got %v", err)
	}
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv(EnvPort, "9090")
	t.Setenv(EnvWebhookSecret, "whsec")
	t.Setenv(EnvAppBaseURL, "https://cal.example.com/")
	t.Setenv(EnvRequestTimeout, "5s")
	t.Setenv(EnvRateLimitRequests, "not-a-number")

	cfg := FromEnv()

	if cfg.Port != "9090" {
		t.Errorf("Port = %s, want 9090", cfg.Port)
	}
	if cfg.WebhookSecret != "whsec" {
		t.Errorf("WebhookSecret not read from env")
	}
	if cfg.AppBaseURL != "https://cal.example.com" {
		t.Errorf("AppBaseURL = %s, trailing slash should be trimmed", cfg.AppBaseURL)
	}
	if cfg.RequestTimeout != 5*time.Second {
		t.Errorf("RequestTimeout = %s, want 5s", cfg.RequestTimeout)
	}
	if cfg.RateLimitRequests != DefaultRateLimitRequests {
		t.Errorf("unparsable number should fall back to default, got %d", cfg.RateLimitRequests)
	}
}

func TestValidate_CollectsErrors(t *testing.T) {
	cfg := FromEnv()
	cfg.Port = "0"
	cfg.EmailAPIBaseURL = "ftp://mail"
	cfg.EncryptionKey = "short"
	cfg.MongoURI = "postgres://x"
	cfg.RequestTimeout = 0

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected validation error")
	}

	for _, want := range []string{"Port", "EmailAPIBaseURL", "EncryptionKey", "MongoURI", "RequestTimeout"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error should mention %s, got %s", want, err.Error())
		}
	}
}

func TestValidate_RequestTimeoutMustExceedEmailTimeout(t *testing.T) {
	tests := []struct {
		name    string
		request time.Duration
		email   time.Duration
		wantErr bool
	}{
		{"request longer", 30 * time.Second, 10 * time.Second, false},
		{"equal", 10 * time.Second, 10 * time.Second, true},
		{"request shorter", 5 * time.Second, 10 * time.Second, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := FromEnv()
			cfg.RequestTimeout = tt.request
			cfg.EmailTimeout = tt.email

			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !strings.Contains(err.Error(), "greater than EmailTimeout") {
				t.Errorf("unexpected error %v", err)
			}
		})
	}
}

func TestValidate_MissingSecretsAreNotFatal(t *testing.T) {
	cfg := FromEnv()
	cfg.WebhookSecret = ""
	cfg.EmailAPIToken = ""
	cfg.EmailFrom = ""

	if err := cfg.Validate(); err != nil {
		t.Errorf("missing secrets should not fail validation, got %v", err)
	}
}

func TestRedactMongoURI(t *testing.T) {
	got := redactMongoURI("mongodb://admin:hunter2@db:27017")
	if strings.Contains(got, "hunter2") {
		t.Errorf("password leaked: %s", got)
	}
	if got != "mongodb://***:***@db:27017" {
		t.Errorf("redactMongoURI() = %s", got)
	}
}
