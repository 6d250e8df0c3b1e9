package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	twofactorerrors "calnotify/internal/twofactor/errors"
	"calnotify/internal/twofactor/service"
	apperrors "calnotify/pkg/errors"
	"calnotify/pkg/logger"
	"calnotify/pkg/middleware"
	"calnotify/pkg/tokens"

	"github.com/julienschmidt/httprouter"
)

type mockTwoFactorService struct {
	setupFunc func(ctx context.Context, userID, password string) (*service.SetupResult, error)
	calls     int
}

func (m *mockTwoFactorService) SetupTOTP(ctx context.Context, userID, password string) (*service.SetupResult, error) {
	m.calls++
	if m.setupFunc != nil {
		return m.setupFunc(ctx, userID, password)
	}
	return &service.SetupResult{Secret: "S", KeyURI: "otpauth://totp/x", DataURI: "data:image/png;base64,AA"}, nil
}

func newTestRouter(t *testing.T, svc service.TwoFactorService, limit int) (*httprouter.Router, string) {
	t.Helper()

	verifier := tokens.NewSessionVerifier("session-secret")
	token, err := verifier.Issue("user-1", "jane@example.com", time.Hour)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	limiter := middleware.NewRateLimiter(limit, time.Minute, middleware.UserKeyExtractor, logger.Discard())
	t.Cleanup(limiter.Stop)

	router := httprouter.New()
	NewTwoFactorHandler(svc, verifier, limiter, logger.Discard()).RegisterRoutes(router)
	return router, token
}

func setupRequest(token, body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, SetupPath, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}

func TestSetup_Success(t *testing.T) {
	var gotUser, gotPassword string
	svc := &mockTwoFactorService{setupFunc: func(ctx context.Context, userID, password string) (*service.SetupResult, error) {
		gotUser, gotPassword = userID, password
		return &service.SetupResult{Secret: "JBSWY3DPEHPK3PXP", KeyURI: "otpauth://totp/Cal.com:jane", DataURI: "data:image/png;base64,AA"}, nil
	}}
	router, token := newTestRouter(t, svc, 5)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, setupRequest(token, `{"password":"hunter2"}`))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	if gotUser != "user-1" || gotPassword != "hunter2" {
		t.Errorf("service got user %q password %q", gotUser, gotPassword)
	}

	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["secret"] != "JBSWY3DPEHPK3PXP" || body["keyUri"] == "" || body["dataUri"] == "" {
		t.Errorf("body = %v", body)
	}
}

func TestSetup_Rejections(t *testing.T) {
	tests := []struct {
		name       string
		token      bool
		body       string
		svcErr     error
		wantStatus int
		wantCalls  int
	}{
		{"no token", false, `{"password":"x"}`, nil, http.StatusUnauthorized, 0},
		{"bad json", true, `{"password":`, nil, http.StatusBadRequest, 0},
		{"empty password", true, `{"password":""}`, nil, http.StatusBadRequest, 0},
		{"already enabled", true, `{"password":"x"}`, apperrors.Wrap(twofactorerrors.ErrAlreadyEnabled, apperrors.CodeInvalidInput, twofactorerrors.CodeAlreadyEnabled, http.StatusBadRequest), http.StatusBadRequest, 1},
		{"missing key", true, `{"password":"x"}`, apperrors.Misconfigured("encryption key"), http.StatusInternalServerError, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockTwoFactorService{}
			if tt.svcErr != nil {
				svc.setupFunc = func(ctx context.Context, userID, password string) (*service.SetupResult, error) {
					return nil, tt.svcErr
				}
			}
			router, token := newTestRouter(t, svc, 5)
			if !tt.token {
				token = ""
			}

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, setupRequest(token, tt.body))

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d (body %s)", rec.Code, tt.wantStatus, rec.Body.String())
			}
			if svc.calls != tt.wantCalls {
				t.Errorf("service calls = %d, want %d", svc.calls, tt.wantCalls)
			}
		})
	}
}

func TestSetup_ErrorBodyCarriesCode(t *testing.T) {
	svc := &mockTwoFactorService{setupFunc: func(ctx context.Context, userID, password string) (*service.SetupResult, error) {
		return nil, apperrors.Wrap(twofactorerrors.ErrIncorrectPassword, apperrors.CodeInvalidInput, twofactorerrors.CodeIncorrectPassword, http.StatusBadRequest)
	}}
	router, token := newTestRouter(t, svc, 5)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, setupRequest(token, `{"password":"nope"}`))

	if !strings.Contains(rec.Body.String(), twofactorerrors.CodeIncorrectPassword) {
		t.Errorf("body = %s", rec.Body.String())
	}
}

func TestSetup_RateLimitedPerUser(t *testing.T) {
	svc := &mockTwoFactorService{}
	router, token := newTestRouter(t, svc, 1)

	first := httptest.NewRecorder()
	router.ServeHTTP(first, setupRequest(token, `{"password":"x"}`))
	second := httptest.NewRecorder()
	router.ServeHTTP(second, setupRequest(token, `{"password":"x"}`))

	if first.Code != http.StatusOK || second.Code != http.StatusTooManyRequests {
		t.Errorf("codes = %d, %d; want 200, 429", first.Code, second.Code)
	}
	if svc.calls != 1 {
		t.Errorf("service calls = %d, want 1", svc.calls)
	}
}
