package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	apperrors "calnotify/pkg/errors"
	httputil "calnotify/pkg/http"
	"calnotify/pkg/logger"
	"calnotify/pkg/tokens"
)

const UserIDKey contextKey = "user_id"

type TokenValidator interface {
	Validate(token string) (*tokens.Claims, error)
}

// RequireSession rejects requests without a valid bearer session token and
// stores the token subject under UserIDKey.
func RequireSession(validator TokenValidator, log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r.Header.Get("Authorization"))
			if !ok {
				_ = httputil.WriteError(w, apperrors.Unauthorized("Missing or malformed authorization header"))
				return
			}

			claims, err := validator.Validate(token)
			if errors.Is(err, tokens.ErrMissingKey) {
				log.Error("Session secret is not configured",
					"request_id", RequestID(r.Context()),
					"path", r.URL.Path,
				)
				_ = httputil.WriteError(w, apperrors.Misconfigured("session secret"))
				return
			}
			if err != nil {
				log.Warn("Session token rejected",
					"request_id", RequestID(r.Context()),
					"path", r.URL.Path,
					"error", err,
				)
				_ = httputil.WriteError(w, apperrors.Unauthorized("Invalid or expired session"))
				return
			}

			ctx := context.WithValue(r.Context(), UserIDKey, claims.Subject)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserID returns the authenticated user id set by RequireSession, or "".
func UserID(ctx context.Context) string {
	if id, ok := ctx.Value(UserIDKey).(string); ok {
		return id
	}
	return ""
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
