package handler

import (
	"errors"
	"io"
	"net/http"

	"calnotify/internal/webhook/service"
	apperrors "calnotify/pkg/errors"
	httputil "calnotify/pkg/http"
	"calnotify/pkg/logger"
	"calnotify/pkg/middleware"

	"github.com/julienschmidt/httprouter"
)

const Path = "/api/webhooks/cal"

type WebhookHandler struct {
	service service.NotificationService
	secret  string
	log     *logger.Logger
}

func NewWebhookHandler(service service.NotificationService, secret string, log *logger.Logger) *WebhookHandler {
	return &WebhookHandler{
		service: service,
		secret:  secret,
		log:     log,
	}
}

func (h *WebhookHandler) Receive(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	requestID := middleware.RequestID(r.Context())

	body, err := io.ReadAll(r.Body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.writeError(w, requestID, apperrors.New(apperrors.CodeInvalidInput, "Request body too large", http.StatusRequestEntityTooLarge))
			return
		}
		h.writeError(w, requestID, apperrors.InvalidInput("Failed to read request body"))
		return
	}

	result, err := h.service.Handle(r.Context(), body)
	if err != nil {
		h.writeError(w, requestID, err)
		return
	}

	if err := httputil.WriteJSON(w, http.StatusOK, result); err != nil {
		h.log.Error("failed to write JSON response", "request_id", requestID, "handler", "Receive", "operation", "WriteJSON", "error", err)
	}
}

func (h *WebhookHandler) writeError(w http.ResponseWriter, requestID string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "request_id", requestID, "handler", "Receive", "operation", "WriteError", "error", writeErr)
	}
}

// RegisterRoutes mounts the webhook behind signature verification. The
// verifier wraps only this route so the router answers other methods with
// 405 before any signature check.
func (h *WebhookHandler) RegisterRoutes(router *httprouter.Router) {
	verify := middleware.WebhookSignatureVerification(h.secret, h.log)

	router.Handler(http.MethodPost, Path, verify(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h.Receive(w, r, httprouter.ParamsFromContext(r.Context()))
	})))
}
