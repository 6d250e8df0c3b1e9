package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"calnotify/pkg/logger"
	"calnotify/pkg/signature"
)

func TestWebhookSignatureVerification(t *testing.T) {
	const secret = "whsec_test"
	body := `{"triggerEvent":"BOOKING_CREATED"}`

	tests := []struct {
		name       string
		secret     string
		header     string
		wantStatus int
		wantCalled bool
	}{
		{"valid signature", secret, signature.Compute(secret, []byte(body)), http.StatusOK, true},
		{"prefixed signature", secret, "sha256=" + signature.Compute(secret, []byte(body)), http.StatusOK, true},
		{"missing header", secret, "", http.StatusUnauthorized, false},
		{"wrong secret", secret, signature.Compute("other", []byte(body)), http.StatusUnauthorized, false},
		{"garbage header", secret, "not-hex", http.StatusUnauthorized, false},
		{"missing secret", "", signature.Compute(secret, []byte(body)), http.StatusInternalServerError, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			var seen string
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				called = true
				b, _ := io.ReadAll(r.Body)
				seen = string(b)
				w.WriteHeader(http.StatusOK)
			})

			handler := WebhookSignatureVerification(tt.secret, logger.Discard())(next)

			req := httptest.NewRequest(http.MethodPost, "/api/webhooks/cal", strings.NewReader(body))
			if tt.header != "" {
				req.Header.Set(signature.Header, tt.header)
			}
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if called != tt.wantCalled {
				t.Errorf("next called = %v, want %v", called, tt.wantCalled)
			}
			if tt.wantCalled && seen != body {
				t.Errorf("downstream body = %q, want %q", seen, body)
			}
		})
	}
}

func TestWebhookSignatureVerification_MissingSecretDoesNotLeak(t *testing.T) {
	handler := WebhookSignatureVerification("", logger.Discard())(http.NotFoundHandler())

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("{}"))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if strings.Contains(rec.Body.String(), "webhook secret") {
		t.Errorf("response leaks setting name: %s", rec.Body.String())
	}
}
