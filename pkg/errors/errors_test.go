package errors

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(CodeValidation, "validation failed", http.StatusUnprocessableEntity)

	if err.Code != CodeValidation {
		t.Errorf("expected code %s, got %s", CodeValidation, err.Code)
	}
	if err.Message != "validation failed" {
		t.Errorf("expected message 'validation failed', got %s", err.Message)
	}
	if err.StatusCode() != http.StatusUnprocessableEntity {
		t.Errorf("expected status %d, got %d", http.StatusUnprocessableEntity, err.StatusCode())
	}
}

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name     string
		appErr   *AppError
		expected string
	}{
		{
			name:     "without underlying error",
			appErr:   &AppError{Code: CodeNotFound, Message: "user not found"},
			expected: "NOT_FOUND: user not found",
		},
		{
			name: "with underlying error",
			appErr: &AppError{
				Code:    CodeUpstream,
				Message: "email delivery failed",
				Err:     errors.New("provider returned 422"),
			},
			expected: "UPSTREAM_ERROR: email delivery failed (caused by: provider returned 422)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.appErr.Error(); got != tt.expected {
				t.Errorf("Error() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	original := errors.New("original error")
	appErr := Wrap(original, CodeInternal, "wrapped", http.StatusInternalServerError)

	if !errors.Is(appErr, original) {
		t.Errorf("errors.Is should find the original error")
	}
}

func TestConstructorStatuses(t *testing.T) {
	tests := []struct {
		name   string
		err    *AppError
		code   string
		status int
	}{
		{"not found", NotFound("User"), CodeNotFound, http.StatusNotFound},
		{"validation", Validation("bad", nil), CodeValidation, http.StatusUnprocessableEntity},
		{"invalid input", InvalidInput("bad json"), CodeInvalidInput, http.StatusBadRequest},
		{"unauthorized", Unauthorized("no"), CodeUnauthorized, http.StatusUnauthorized},
		{"internal", Internal("boom", nil), CodeInternal, http.StatusInternalServerError},
		{"misconfigured", Misconfigured("EMAIL_FROM"), CodeMisconfigured, http.StatusInternalServerError},
		{"upstream", Upstream("send failed", nil), CodeUpstream, http.StatusInternalServerError},
		{"method", MethodNotAllowed(http.MethodGet), CodeMethodNotAllowed, http.StatusMethodNotAllowed},
		{"rate limited", RateLimited(), CodeRateLimited, http.StatusTooManyRequests},
		{"timeout", Timeout("slow"), CodeTimeout, http.StatusServiceUnavailable},
		{"media type", UnsupportedMediaType("text/plain"), CodeUnsupportedMedia, http.StatusUnsupportedMediaType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Code != tt.code {
				t.Errorf("code = %s, want %s", tt.err.Code, tt.code)
			}
			if tt.err.StatusCode() != tt.status {
				t.Errorf("status = %d, want %d", tt.err.StatusCode(), tt.status)
			}
		})
	}
}

func TestMisconfigured_DoesNotLeakSettingName(t *testing.T) {
	err := Misconfigured("CAL_WEBHOOK_SECRET")

	if strings.Contains(err.Message, "CAL_WEBHOOK_SECRET") {
		t.Errorf("message should not name the setting, got %q", err.Message)
	}
	if !strings.Contains(err.Error(), "CAL_WEBHOOK_SECRET") {
		t.Errorf("Error() should keep the setting for logs, got %q", err.Error())
	}
}

func TestAsAppError(t *testing.T) {
	appErr := NotFound("User")
	if AsAppError(appErr) != appErr {
		t.Errorf("AsAppError() should return same AppError")
	}

	wrapped := fmt.Errorf("service: %w", appErr)
	if AsAppError(wrapped) != appErr {
		t.Errorf("AsAppError() should unwrap to the AppError")
	}
	if !IsAppError(wrapped) {
		t.Errorf("IsAppError() should see through wrapping")
	}

	regular := errors.New("regular error")
	result := AsAppError(regular)
	if result.Code != CodeInternal {
		t.Errorf("AsAppError() should wrap regular error as internal error")
	}
	if result.Err != regular {
		t.Errorf("AsAppError() should wrap the original error")
	}
}

func TestAppError_ToJSON(t *testing.T) {
	err := UnsupportedMediaType("text/plain")
	body := string(err.ToJSON())

	if !strings.Contains(body, CodeUnsupportedMedia) {
		t.Errorf("ToJSON() should contain error code, got %s", body)
	}
	if !strings.Contains(body, "text/plain") {
		t.Errorf("ToJSON() should contain details, got %s", body)
	}
}
