package middleware

import (
	"bytes"
	"errors"
	"io"
	"net/http"

	apperrors "calnotify/pkg/errors"
	httputil "calnotify/pkg/http"
	"calnotify/pkg/logger"
	"calnotify/pkg/signature"
)

// WebhookSignatureVerification authenticates a webhook delivery against the
// raw body before anything decodes it. The body is restored for next.
func WebhookSignatureVerification(secret string, log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if secret == "" {
				appErr := apperrors.Misconfigured("webhook secret")
				log.Error("Webhook secret is not configured",
					"request_id", RequestID(r.Context()),
					"path", r.URL.Path,
					"error", appErr,
				)
				_ = httputil.WriteError(w, appErr)
				return
			}

			received := r.Header.Get(signature.Header)
			if received == "" {
				reject(w, log, r, "Missing "+signature.Header+" header")
				return
			}

			body, err := readAndRestoreBody(r)
			if err != nil {
				var tooLarge *http.MaxBytesError
				if errors.As(err, &tooLarge) {
					_ = httputil.WriteError(w, apperrors.New(apperrors.CodeInvalidInput, "Request body too large", http.StatusRequestEntityTooLarge))
					return
				}
				_ = httputil.WriteError(w, apperrors.InvalidInput("Failed to read request body"))
				return
			}

			if !signature.Verify(secret, body, received) {
				reject(w, log, r, "Invalid webhook signature")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func readAndRestoreBody(r *http.Request) ([]byte, error) {
	if r.Body == nil {
		return []byte{}, nil
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, err
	}

	r.Body.Close()
	r.Body = io.NopCloser(bytes.NewReader(body))

	return body, nil
}

func reject(w http.ResponseWriter, log *logger.Logger, r *http.Request, reason string) {
	log.Warn("Webhook verification failed",
		"request_id", RequestID(r.Context()),
		"reason", reason,
		"path", r.URL.Path,
		"remote_addr", r.RemoteAddr,
	)

	_ = httputil.WriteError(w, apperrors.Unauthorized("Invalid or missing webhook signature"))
}
