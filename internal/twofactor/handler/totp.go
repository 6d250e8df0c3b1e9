package handler

import (
	"encoding/json"
	"net/http"

	"calnotify/internal/twofactor/service"
	"calnotify/internal/twofactor/validator"
	apperrors "calnotify/pkg/errors"
	httputil "calnotify/pkg/http"
	"calnotify/pkg/logger"
	"calnotify/pkg/middleware"

	"github.com/julienschmidt/httprouter"
)

const SetupPath = "/api/auth/two-factor/totp/setup"

type TwoFactorHandler struct {
	service   service.TwoFactorService
	validator *validator.SetupValidator
	sessions  middleware.TokenValidator
	limiter   *middleware.RateLimiter
	log       *logger.Logger
}

func NewTwoFactorHandler(
	service service.TwoFactorService,
	sessions middleware.TokenValidator,
	limiter *middleware.RateLimiter,
	log *logger.Logger,
) *TwoFactorHandler {
	return &TwoFactorHandler{
		service:   service,
		validator: validator.NewSetupValidator(),
		sessions:  sessions,
		limiter:   limiter,
		log:       log,
	}
}

func (h *TwoFactorHandler) Setup(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	requestID := middleware.RequestID(r.Context())
	userID := middleware.UserID(r.Context())

	var req validator.SetupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, requestID, apperrors.InvalidInput("Invalid request body"))
		return
	}

	if details := h.validator.Validate(&req); details != nil {
		h.writeError(w, requestID, apperrors.InvalidInput("Invalid request body").WithDetails(details))
		return
	}

	result, err := h.service.SetupTOTP(r.Context(), userID, req.Password)
	if err != nil {
		h.log.Warn("Two-factor setup rejected",
			"request_id", requestID,
			"user_id", userID,
			"error", err,
		)
		h.writeError(w, requestID, err)
		return
	}

	if err := httputil.WriteJSON(w, http.StatusOK, result); err != nil {
		h.log.Error("failed to write JSON response", "request_id", requestID, "handler", "Setup", "operation", "WriteJSON", "error", err)
	}
}

func (h *TwoFactorHandler) writeError(w http.ResponseWriter, requestID string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "request_id", requestID, "handler", "Setup", "operation", "WriteError", "error", writeErr)
	}
}

// RegisterRoutes mounts setup behind content-type, session and per-user
// rate limit checks, outermost first.
func (h *TwoFactorHandler) RegisterRoutes(router *httprouter.Router) {
	var chain http.Handler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h.Setup(w, r, httprouter.ParamsFromContext(r.Context()))
	})
	if h.limiter != nil {
		chain = middleware.RateLimit(h.limiter)(chain)
	}
	chain = middleware.RequireSession(h.sessions, h.log)(chain)
	chain = middleware.ContentTypeValidation(h.log)(chain)

	router.Handler(http.MethodPost, SetupPath, chain)
}
