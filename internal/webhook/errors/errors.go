package errors

import "errors"

var (
	ErrMalformedPayload = errors.New("webhook body is not a JSON object")

	ErrEmailNotConfigured = errors.New("email provider is not configured")

	ErrInviteBuild = errors.New("failed to build calendar invite")

	ErrEmailSend = errors.New("failed to send notification email")
)
