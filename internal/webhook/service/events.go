package service

import (
	"context"
	"time"

	"calnotify/pkg/kafka"
	"calnotify/pkg/model"
)

const (
	EventTypeNotificationSent = "notification.sent"
	eventSchemaVersion        = "1"
	eventSource               = "calnotify"
)

// NotificationSent is published after the provider accepted an email.
type NotificationSent struct {
	BookingUID string        `json:"booking_uid"`
	Trigger    model.Trigger `json:"trigger"`
	Recipient  string        `json:"recipient"`
	Sequence   int           `json:"sequence"`
	MessageID  string        `json:"message_id"`
	SentAt     time.Time     `json:"sent_at"`
}

// publishSent logs failures and never changes the webhook response.
func (s *notificationService) publishSent(ctx context.Context, trigger model.Trigger, booking *model.BookingSnapshot, sequence int, messageID string) {
	if s.publisher == nil {
		return
	}

	msg, err := kafka.NewMessage().
		WithKey(booking.UID).
		WithEventType(EventTypeNotificationSent).
		WithSchemaVersion(eventSchemaVersion).
		WithSource(eventSource).
		WithCorrelationID(messageID).
		WithValue(NotificationSent{
			BookingUID: booking.UID,
			Trigger:    trigger,
			Recipient:  booking.AttendeeEmail,
			Sequence:   sequence,
			MessageID:  messageID,
			SentAt:     s.now().UTC(),
		}).
		Build()
	if err != nil {
		s.log.Error("Failed to build notification event", "booking_uid", booking.UID, "error", err)
		return
	}

	timeout := s.opts.PublishTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), timeout)
	defer cancel()

	if err := s.publisher.Publish(pubCtx, msg); err != nil {
		s.log.Error("Failed to publish notification event",
			"booking_uid", booking.UID,
			"message_id", messageID,
			"error", err,
		)
	}
}
